package jobs

import (
	"context"
	"time"

	"expoevents-backend/internal/config"
	"expoevents-backend/internal/gst"
	"expoevents-backend/internal/logger"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/service"
)

// invitePurgeAge is how long after expiry a PENDING invite is kept before
// deletion, preserving a window for support queries.
const invitePurgeAge = 30 * 24 * time.Hour

// JobRunner coordinates the scheduled maintenance jobs.
type JobRunner struct {
	inviteRepo repository.InviteRepository
	gstSvc     *gst.Service
	eventSvc   service.EventService
	config     *config.Config
}

func NewJobRunner(inviteRepo repository.InviteRepository, gstSvc *gst.Service, eventSvc service.EventService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		inviteRepo: inviteRepo,
		gstSvc:     gstSvc,
		eventSvc:   eventSvc,
		config:     cfg,
	}
}

// Config exposes the configuration for the scheduler's job registration.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// SweepGSTState drops expired verification cache entries and idle rate
// buckets. Without the sweep both maps only grow between reads. The GST
// state lives in the API server process; runners without a GST service
// skip the sweep.
func (jr *JobRunner) SweepGSTState() {
	if jr.gstSvc == nil {
		logger.Debug("GST sweep skipped, no GST service in this process")
		return
	}
	jr.runWithRecovery("SweepGSTState", func() {
		expired := jr.gstSvc.Cache().Sweep()
		idle := jr.gstSvc.Limiter().Prune()
		logger.Info("GST state swept", "cache_expired", expired, "rate_buckets_pruned", idle)
	})
}

// PurgeExpiredInvites deletes PENDING invites that expired more than 30
// days ago.
func (jr *JobRunner) PurgeExpiredInvites() {
	jr.runWithRecovery("PurgeExpiredInvites", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().Add(-invitePurgeAge)
		deleted, err := jr.inviteRepo.PurgeExpired(ctx, cutoff)
		if err != nil {
			logger.Error("Invite purge failed", "error", err)
			return
		}
		logger.Info("Expired invites purged", "deleted", deleted)
	})
}

// BackfillEventQR regenerates missing QR images for events whose creation
// time generation failed.
func (jr *JobRunner) BackfillEventQR() {
	jr.runWithRecovery("BackfillEventQR", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		generated, err := jr.eventSvc.BackfillMissingQR(ctx)
		if err != nil {
			logger.Error("QR backfill failed", "error", err)
			return
		}
		if generated > 0 {
			logger.Info("QR backfill generated images", "count", generated)
		}
	})
}

// RunAllMaintenanceJobs runs every job once, for manual execution.
func (jr *JobRunner) RunAllMaintenanceJobs() {
	jr.SweepGSTState()
	jr.PurgeExpiredInvites()
	jr.BackfillEventQR()
}
