package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	domainerrors "spay.backend/internal/domain/errors"
	"spay.backend/internal/domain/repositories"
	"spay.backend/pkg/logger"
)

// EscrowResolver is the part of the escrow state machine the sweep needs.
type EscrowResolver interface {
	Expire(ctx context.Context, escrowID uuid.UUID) error
}

// EscrowExpiryJob cancels pending escrows whose TTL has elapsed, refunding
// the buyer.
type EscrowExpiryJob struct {
	escrowRepo repositories.EscrowRepository
	resolver   EscrowResolver
	interval   time.Duration
	batchSize  int
	stop       chan struct{}
}

func NewEscrowExpiryJob(escrowRepo repositories.EscrowRepository, resolver EscrowResolver, interval time.Duration) *EscrowExpiryJob {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &EscrowExpiryJob{
		escrowRepo: escrowRepo,
		resolver:   resolver,
		interval:   interval,
		batchSize:  100,
		stop:       make(chan struct{}),
	}
}

func (j *EscrowExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting escrow expiry job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "escrow expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "escrow expiry job stopped")
			return
		case <-ticker.C:
			j.processExpired(ctx)
		}
	}
}

func (j *EscrowExpiryJob) Stop() {
	close(j.stop)
}

func (j *EscrowExpiryJob) processExpired(ctx context.Context) {
	expired, err := j.escrowRepo.ListExpiredPending(ctx, time.Now().UTC(), j.batchSize)
	if err != nil {
		logger.Error(ctx, "failed to fetch expired escrows", zap.Error(err))
		return
	}

	if len(expired) == 0 {
		return
	}

	logger.Info(ctx, "processing expired escrows", zap.Int("count", len(expired)))

	var done int
	for _, escrow := range expired {
		if err := j.resolver.Expire(ctx, escrow.ID); err != nil {
			// InvalidState means someone released it between the scan and
			// now; the race resolved itself.
			if !errors.Is(err, domainerrors.ErrInvalidState) {
				logger.Warn(ctx, "failed to expire escrow",
					zap.String("escrow_id", escrow.ID.String()), zap.Error(err))
			}
			continue
		}
		done++
	}

	logger.Info(ctx, "expired escrows cancelled", zap.Int("count", done))
}
