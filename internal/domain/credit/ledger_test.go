package credit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_IssueAndDeduct(t *testing.T) {
	svc, _, _ := newTestService()
	l := NewLedger(svc)
	ctx := context.Background()
	buyer := uuid.New()

	require.NoError(t, l.IssueFromTrade(ctx, buyer, "wind", 25, "TXN0000000000000042", 150))

	bal, err := l.ActiveBalance(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, 25.0, bal)

	require.NoError(t, l.Deduct(ctx, buyer, 10, "listing-1"))

	bal, err = l.ActiveBalance(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, 15.0, bal)
}
