package jobs

import (
	"context"
	"log/slog"

	"dropmarket/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// offerExpirySchedule runs the sweep every 30 seconds, well inside the
// five-minute offer window.
const offerExpirySchedule = "*/30 * * * * *"

// OfferExpiryJob sweeps deliveries whose offer window has lapsed without an
// accept and rebroadcasts or expires them.
type OfferExpiryJob struct {
	handler commands.SweepExpiredOffersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOfferExpiryJob creates the offer expiry sweep job.
func NewOfferExpiryJob(handler commands.SweepExpiredOffersCommandHandler, logger *slog.Logger) *OfferExpiryJob {
	return &OfferExpiryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "offer_expiry_job"),
	}
}

// Start schedules the sweep.
func (j *OfferExpiryJob) Start() error {
	_, err := j.cron.AddFunc(offerExpirySchedule, func() {
		ctx := context.Background()
		cmd := commands.NewSweepExpiredOffersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Offer expiry sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer expiry job started (running every 30 seconds)")
	return nil
}

// Stop stops the sweep.
func (j *OfferExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Offer expiry job stopped")
}
