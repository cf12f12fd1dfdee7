package usecase

import (
	"context"
	"time"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/logger"
)

// Sweeper periodically expires scouts and interview proposals past their time.
type Sweeper struct {
	scouts     domain.ScoutUsecase
	interviews domain.InterviewUsecase
	interval   time.Duration
}

func NewSweeper(scouts domain.ScoutUsecase, interviews domain.InterviewUsecase, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{scouts: scouts, interviews: interviews, interval: interval}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.Sweep(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) Sweep(ctx context.Context) {
	if n, err := s.scouts.ExpireDue(ctx); err != nil {
		logger.Log.Error("Scout expiry sweep failed", "error", err)
	} else if n > 0 {
		logger.Log.Info("Expired scouts", "count", n)
	}
	if n, err := s.interviews.ExpirePast(ctx); err != nil {
		logger.Log.Error("Interview expiry sweep failed", "error", err)
	} else if n > 0 {
		logger.Log.Info("Expired interview slots", "count", n)
	}
}
