package company

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *time.Time) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryRepository())
	svc.now = func() time.Time { return now }
	return svc, &now
}

func create(t *testing.T, svc *Service, email string) *CreateResponse {
	t.Helper()
	out, err := svc.Create(context.Background(), &CreateRequest{Name: "Sunfield Power", Email: email})
	require.NoError(t, err)
	return out
}

func TestCreate_IssuesKeyOnce(t *testing.T) {
	svc, _ := newTestService()

	out := create(t, svc, " Sales@Sunfield.Example ")
	assert.Equal(t, StatusPending, out.Company.Status)
	assert.Equal(t, "sales@sunfield.example", out.Company.Email)
	assert.True(t, strings.HasPrefix(out.APIKey, "sk_live_"))
	assert.Len(t, out.APIKey, len("sk_live_")+32)
	assert.Equal(t, HashAPIKey(out.APIKey), out.Company.APIKeyHash)
	assert.True(t, strings.HasPrefix(out.APIKey, out.Company.APIKeyPrefix))
	assert.Nil(t, out.Company.ApprovedAt)

	_, err := svc.Create(context.Background(), &CreateRequest{Name: "Dup", Email: "sales@sunfield.example"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestApproveAndSuspend(t *testing.T) {
	svc, now := newTestService()
	ctx := context.Background()
	out := create(t, svc, "a@wind.example")
	id := out.Company.ID

	_, err := svc.Suspend(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	c, err := svc.Approve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, c.Status)
	require.NotNil(t, c.ApprovedAt)
	firstApproval := *c.ApprovedAt

	_, err = svc.Approve(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	*now = now.Add(time.Hour)
	c, err = svc.Suspend(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusSuspended, c.Status)

	c, err = svc.Approve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, firstApproval, *c.ApprovedAt)

	_, err = svc.Approve(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestListFiltersByStatus(t *testing.T) {
	svc, now := newTestService()
	ctx := context.Background()
	first := create(t, svc, "one@example.com")
	*now = now.Add(time.Minute)
	create(t, svc, "two@example.com")
	_, err := svc.Approve(ctx, first.Company.ID)
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "two@example.com", all[0].Email)

	approved, err := svc.List(ctx, "approved")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, first.Company.ID, approved[0].ID)

	_, err = svc.List(ctx, "deleted")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	out := create(t, svc, "key@example.com")

	_, err := svc.Authenticate(ctx, out.APIKey)
	assert.ErrorIs(t, err, ErrNotApproved)

	_, err = svc.Approve(ctx, out.Company.ID)
	require.NoError(t, err)

	c, err := svc.Authenticate(ctx, out.APIKey)
	require.NoError(t, err)
	assert.Equal(t, out.Company.ID, c.ID)

	_, err = svc.Authenticate(ctx, "sk_live_0000")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
	_, err = svc.Authenticate(ctx, "not-a-key")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}
