package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/repository"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/queue"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

const lockKeyPrefix = "translation_backfill_lock:"

// releaseScript deletes the lock only while it still holds our value.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Filler is the part of the backfill service the worker drives.
type Filler interface {
	FillKind(ctx context.Context, tc tenant.Context, kind tenant.ResourceKind, progress func(service.FillResult)) (service.FillResult, error)
}

type Options struct {
	QueueName string
	LockTTL   time.Duration
	// PollInterval bounds each BRPOP so that shutdown is noticed.
	PollInterval time.Duration
	// RetryDelay is waited after re-queueing a job whose tenant is locked.
	RetryDelay time.Duration
}

// BackfillWorker runs queued translation backfill jobs. Jobs of one tenant
// never run concurrently, across any number of workers.
type BackfillWorker struct {
	rdb     *redis.Client
	jobRepo repository.TranslationJobRepository
	filler  Filler
	opts    Options
}

func NewBackfillWorker(rdb *redis.Client, jobRepo repository.TranslationJobRepository, filler Filler, opts Options) *BackfillWorker {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Minute
	}
	return &BackfillWorker{rdb: rdb, jobRepo: jobRepo, filler: filler, opts: opts}
}

func lockKey(tenantID string) string {
	return lockKeyPrefix + tenantID
}

// Start blocks until ctx is cancelled.
func (w *BackfillWorker) Start(ctx context.Context) {
	log.Println("Backfill worker started, listening to queue:", w.opts.QueueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Backfill worker stopping...")
			return
		default:
		}

		res, err := w.rdb.BRPop(ctx, w.opts.PollInterval, w.opts.QueueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // poll timeout
			}
			if ctx.Err() != nil {
				continue
			}
			log.Printf("ERROR: Failed to BRPop from Redis queue '%s': %v", w.opts.QueueName, err)
			sleep(ctx, 5*time.Second)
			continue
		}

		// res is [queueName, value]
		if len(res) < 2 || res[1] == "" {
			log.Println("WARN: BRPop returned empty job ID.")
			continue
		}
		log.Printf("Worker picked up job ID: %s", res[1])
		w.ProcessJob(ctx, res[1])
	}
}

// ProcessJob runs one job under its tenant lock, re-queueing it when the
// tenant is busy.
func (w *BackfillWorker) ProcessJob(ctx context.Context, jobID string) {
	job, err := w.jobRepo.GetJobByID(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			// Popped just before shutdown.
			w.requeueDetached(jobID)
			return
		}
		log.Printf("ERROR: Failed to fetch job %s from DB: %v", jobID, err)
		return
	}
	if job.Status == model.JobStatusCompleted || job.Status == model.JobStatusFailed {
		log.Printf("WARN: Job %s already finished with status %s, skipping.", job.ID, job.Status)
		return
	}

	lockValue := uuid.NewString()
	key := lockKey(job.TenantID)
	if err := w.acquireLock(ctx, key, lockValue); err != nil {
		if errors.Is(err, common.ErrJobLockFailed) {
			log.Printf("INFO: %v, re-queueing job %s.", err, jobID)
		} else {
			log.Printf("ERROR: Failed to attempt lock acquisition for job %s: %v", jobID, err)
		}
		w.requeueDetached(jobID)
		sleep(ctx, w.opts.RetryDelay)
		return
	}
	log.Printf("INFO: Acquired backfill lock for tenant %s (job %s)", job.TenantID, jobID)

	defer func() {
		// The job context may be gone by now; release with a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		deleted, err := releaseScript.Run(releaseCtx, w.rdb, []string{key}, lockValue).Int64()
		if err != nil {
			log.Printf("ERROR: Failed to release lock %s (job %s): %v", key, jobID, err)
		} else if deleted == 1 {
			log.Printf("INFO: Released backfill lock for tenant %s", job.TenantID)
		} else {
			log.Printf("WARN: Did not release lock for job %s; it might have expired or been taken by another.", jobID)
		}
	}()

	w.handleJob(ctx, job)
}

func (w *BackfillWorker) acquireLock(ctx context.Context, key, value string) error {
	ok, err := w.rdb.SetNX(ctx, key, value, w.opts.LockTTL).Result()
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("%s is held by another backfill: %w", key, common.ErrJobLockFailed)
	}
	return nil
}

func (w *BackfillWorker) handleJob(ctx context.Context, job *model.TranslationJob) {
	if err := w.jobRepo.IncrementJobAttempts(ctx, job.ID); err != nil {
		log.Printf("ERROR: Failed to count attempt of job %s: %v", job.ID, err)
	}
	if err := w.jobRepo.UpdateJobStatus(ctx, job.ID, model.JobStatusProcessing, nil); err != nil {
		log.Printf("ERROR: Failed to update job %s status to Processing: %v", job.ID, err)
	}

	tc, err := tenant.NewContext(job.TenantID)
	if err != nil {
		w.fail(ctx, job.ID, err)
		return
	}
	kind := tenant.ResourceKind(job.Kind)
	if !kind.Valid() {
		w.fail(ctx, job.ID, fmt.Errorf("unknown resource kind %q", job.Kind))
		return
	}

	res, err := w.filler.FillKind(ctx, tc, kind, func(r service.FillResult) {
		if perr := w.jobRepo.UpdateJobProgress(ctx, job.ID, r.Documents, r.Filled, r.Failed); perr != nil {
			log.Printf("WARN: Failed to record progress of job %s: %v", job.ID, perr)
		}
	})
	if perr := w.jobRepo.UpdateJobProgress(ctx, job.ID, res.Documents, res.Filled, res.Failed); perr != nil {
		log.Printf("WARN: Failed to record progress of job %s: %v", job.ID, perr)
	}

	switch {
	case err == nil:
		w.setStatus(ctx, job.ID, model.JobStatusCompleted, nil)
		log.Printf("INFO: Job %s filled %d values in %d %s documents", job.ID, res.Filled, res.Documents, kind)
	case errors.Is(err, common.ErrTranslationUnavailable):
		// Individual values failed; the rest were saved. Not retried.
		msg := err.Error()
		w.setStatus(ctx, job.ID, model.JobStatusCompleted, &msg)
		log.Printf("WARN: Job %s finished with %d untranslated values", job.ID, res.Failed)
	case ctx.Err() != nil:
		// Shutdown: hand the job to the next worker start.
		w.setStatus(ctx, job.ID, model.JobStatusQueued, nil)
		w.requeueDetached(job.ID)
	default:
		w.fail(ctx, job.ID, err)
	}
}

func (w *BackfillWorker) fail(ctx context.Context, jobID string, err error) {
	msg := err.Error()
	log.Printf("ERROR: Job %s failed: %s", jobID, msg)
	w.setStatus(ctx, jobID, model.JobStatusFailed, &msg)
}

func (w *BackfillWorker) setStatus(ctx context.Context, jobID, status string, lastError *string) {
	if ctx.Err() != nil {
		// Shutdown interrupted the job; record it with a fresh context.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := w.jobRepo.UpdateJobStatus(ctx, jobID, status, lastError); err != nil {
		log.Printf("ERROR: Failed to update job %s status to %s: %v", jobID, status, err)
	}
}

func (w *BackfillWorker) requeueJob(ctx context.Context, jobID string) {
	if err := queue.Enqueue(ctx, w.rdb, w.opts.QueueName, jobID); err != nil {
		log.Printf("ERROR: Failed to re-queue job %s: %v", jobID, err)
		return
	}
	log.Printf("INFO: Job %s re-queued.", jobID)
}

// requeueDetached re-queues with its own context, so it also works after
// shutdown cancelled the worker's.
func (w *BackfillWorker) requeueDetached(jobID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	w.requeueJob(ctx, jobID)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
