package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/repository"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/queue"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

const defaultJobListLimit = 20

// BackfillService fills in missing Marathi values of stored documents.
// Jobs are recorded in SQL and their ids pushed onto a Redis list for the
// backfill worker.
type BackfillService struct {
	docs      repository.DocumentRepository
	jobRepo   repository.TranslationJobRepository
	tr        bilingual.Translator
	rdb       *redis.Client
	queueName string
}

func NewBackfillService(docs repository.DocumentRepository, jobRepo repository.TranslationJobRepository, tr bilingual.Translator, rdb *redis.Client, queueName string) *BackfillService {
	return &BackfillService{docs: docs, jobRepo: jobRepo, tr: tr, rdb: rdb, queueName: queueName}
}

type BackfillRequest struct {
	Kind tenant.ResourceKind `json:"kind"`
}

// FillResult counts the work done on one resource kind.
type FillResult struct {
	Documents int `json:"documents"`
	Filled    int `json:"filled"`
	Failed    int `json:"failed"`
}

// Enqueue records a job for tc and kind and queues it.
func (s *BackfillService) Enqueue(ctx context.Context, tc tenant.Context, req BackfillRequest) (*model.TranslationJob, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("unknown resource kind %q: %w", req.Kind, common.ErrValidation)
	}
	if s.rdb == nil {
		return nil, common.Errorf("backfill queue is not configured: %w", common.ErrServiceUnavailable)
	}

	job := &model.TranslationJob{
		ID:       uuid.NewString(),
		TenantID: tc.ID,
		Kind:     string(req.Kind),
		Status:   model.JobStatusQueued,
	}
	if err := s.jobRepo.CreateJob(ctx, job); err != nil {
		return nil, common.Errorf("failed to create translation job: %w", err)
	}
	if err := queue.Enqueue(ctx, s.rdb, s.queueName, job.ID); err != nil {
		msg := err.Error()
		if uerr := s.jobRepo.UpdateJobStatus(ctx, job.ID, model.JobStatusFailed, &msg); uerr != nil {
			log.Printf("ERROR: Failed to mark job %s as failed: %v", job.ID, uerr)
		}
		return nil, common.Errorf("failed to enqueue translation job: %w", err)
	}
	log.Printf("INFO: Queued translation backfill job %s (%s/%s)", job.ID, tc.ID, req.Kind)
	return job, nil
}

// GetJob returns a job of tc. Jobs of other tenants are reported missing.
func (s *BackfillService) GetJob(ctx context.Context, tc tenant.Context, jobID string) (*model.TranslationJob, error) {
	job, err := s.jobRepo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.TenantID != tc.ID {
		return nil, common.ErrNotFound
	}
	return job, nil
}

func (s *BackfillService) ListJobs(ctx context.Context, tc tenant.Context) ([]model.TranslationJob, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	return s.jobRepo.ListJobsByTenant(ctx, tc.ID, defaultJobListLimit)
}

// FillKind translates every missing Marathi value in the documents of kind.
// Documents are written back only when something was filled. progress, when
// set, is called after each document.
func (s *BackfillService) FillKind(ctx context.Context, tc tenant.Context, kind tenant.ResourceKind, progress func(FillResult)) (FillResult, error) {
	var res FillResult
	if s.tr == nil {
		return res, common.ErrTranslationUnavailable
	}

	var paths []tenant.Path
	if kind == tenant.KindSiteSettings {
		p, err := tenant.Resolve(tc, kind)
		if err != nil {
			return res, err
		}
		paths = append(paths, p)
	} else {
		coll, err := tenant.Resolve(tc, kind)
		if err != nil {
			return res, err
		}
		docs, err := s.docs.List(ctx, coll, repository.Query{})
		if err != nil {
			return res, common.Errorf("failed to list %s: %w", kind, err)
		}
		for _, d := range docs {
			p, err := tenant.ParsePath(d.Path)
			if err != nil {
				return res, err
			}
			paths = append(paths, p)
		}
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		filled, failed, err := s.fillDocument(ctx, p)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) && kind == tenant.KindSiteSettings {
				continue
			}
			return res, err
		}
		res.Documents++
		res.Filled += filled
		res.Failed += failed
		if progress != nil {
			progress(res)
		}
	}
	if res.Failed > 0 {
		return res, fmt.Errorf("%d values could not be translated: %w", res.Failed, common.ErrTranslationUnavailable)
	}
	return res, nil
}

func (s *BackfillService) fillDocument(ctx context.Context, p tenant.Path) (int, int, error) {
	doc, err := s.docs.Get(ctx, p)
	if err != nil {
		return 0, 0, err
	}
	data := map[string]interface{}{}
	if len(doc.Data) > 0 {
		if err := json.Unmarshal(doc.Data, &data); err != nil {
			return 0, 0, fmt.Errorf("decode document %s: %w", p, err)
		}
	}

	rec := &recordingTranslator{tr: s.tr, out: map[string]string{}}
	filled, fillErr := bilingual.FillMissing(ctx, data, rec)
	failed := 0
	if fillErr != nil {
		if joined, ok := fillErr.(interface{ Unwrap() []error }); ok {
			failed = len(joined.Unwrap())
		} else {
			failed = 1
		}
		log.Printf("WARN: %d values of %s left untranslated: %v", failed, p, fillErr)
	}
	if filled == 0 {
		return 0, failed, nil
	}

	// Translations are applied to the current document, so edits made
	// while they ran are kept.
	applied := 0
	_, err = s.docs.Modify(ctx, p, func(current map[string]interface{}) (bool, error) {
		applied = bilingual.ApplyTranslations(current, rec.out)
		return applied > 0, nil
	})
	if errors.Is(err, common.ErrNotFound) {
		log.Printf("INFO: %s was deleted during backfill", p)
		return 0, failed, nil
	}
	if err != nil {
		return 0, failed, common.Errorf("failed to save %s: %w", p, err)
	}
	return applied, failed, nil
}

// recordingTranslator remembers every successful translation by its English
// text.
type recordingTranslator struct {
	tr  bilingual.Translator
	out map[string]string
}

func (r *recordingTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	out, err := r.tr.Translate(ctx, text, source, target)
	if err == nil {
		r.out[text] = out
	}
	return out, err
}
