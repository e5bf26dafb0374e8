package credit

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ExpiryWorker runs the expiry sweep on an interval.
type ExpiryWorker struct {
	service  *Service
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewExpiryWorker creates a sweep worker; interval defaults to one hour.
func NewExpiryWorker(service *Service, interval time.Duration) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpiryWorker{
		service:  service,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker
func (w *ExpiryWorker) Start() {
	log.Info().Dur("interval", w.interval).Msg("Starting credit expiry worker...")
	go w.loop()
}

// Stop signals the loop and waits for an in-flight sweep to finish.
func (w *ExpiryWorker) Stop() {
	log.Info().Msg("Stopping credit expiry worker...")
	close(w.stopCh)
	<-w.doneCh
}

func (w *ExpiryWorker) loop() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce()

	for {
		select {
		case <-ticker.C:
			w.RunOnce()
		case <-w.stopCh:
			return
		}
	}
}

// RunOnce performs a single sweep and returns the number of expired credits.
func (w *ExpiryWorker) RunOnce() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.service.ExpireSweep(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to expire credits")
		return 0
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("Expired credits")
	}
	return count
}
