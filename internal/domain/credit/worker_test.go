package credit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestExpiryWorker_RunOnce(t *testing.T) {
	svc, _, clock := newTestService()
	owner := uuid.New()
	buy(t, svc, owner, "solar", 10)

	w := NewExpiryWorker(svc, time.Hour)
	assert.Equal(t, int64(0), w.RunOnce())

	clock.Advance(366 * 24 * time.Hour)
	assert.Equal(t, int64(1), w.RunOnce())
	assert.Equal(t, int64(0), w.RunOnce())
}

func TestExpiryWorker_StartStop(t *testing.T) {
	svc, _, _ := newTestService()

	w := NewExpiryWorker(svc, 0)
	assert.Equal(t, time.Hour, w.interval)

	w.Start()
	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
