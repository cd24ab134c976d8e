package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/roomstead/roomstead/internal/hotel/store"
)

// HousekeepingService periodically removes expired refresh tokens so the
// sessions table does not grow without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

const defaultHousekeepingInterval = time.Hour

func NewHousekeepingService(s store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	return &HousekeepingService{Store: s, Logger: logger, Interval: interval}
}

// Start launches the background cleanup loop. It runs one sweep immediately
// and then once per interval until Stop is called.
func (s *HousekeepingService) Start() {
	if s.Interval <= 0 {
		s.Interval = defaultHousekeepingInterval
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.run()
}

// Stop signals the loop to exit and waits for the in-flight sweep to finish.
func (s *HousekeepingService) Stop() {
	if s.stopCh == nil {
		return
	}
	close(s.stopCh)
	<-s.doneCh
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.cleanup()
	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx); err != nil {
		s.Logger.Error("housekeeping sweep failed", "err", err)
		return
	}
	s.Logger.Debug("housekeeping sweep completed")
}
