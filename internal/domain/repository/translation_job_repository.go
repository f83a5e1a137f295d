package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/database"
)

type TranslationJobRepository interface {
	CreateJob(ctx context.Context, job *model.TranslationJob) error
	GetJobByID(ctx context.Context, id string) (*model.TranslationJob, error)
	ListJobsByTenant(ctx context.Context, tenantID string, limit uint64) ([]model.TranslationJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status string, lastError *string) error
	UpdateJobProgress(ctx context.Context, jobID string, documents, filled, failed int) error
	IncrementJobAttempts(ctx context.Context, jobID string) error
}

var jobColumns = []string{"id", "tenant_id", "kind", "status", "documents", "filled", "failed", "attempts", "last_error", "created_at", "updated_at"}

type sqlTranslationJobRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewSQLTranslationJobRepository(db *sql.DB, driver string) TranslationJobRepository {
	return &sqlTranslationJobRepository{db: db, sb: database.Builder(driver)}
}

func (r *sqlTranslationJobRepository) CreateJob(ctx context.Context, job *model.TranslationJob) error {
	now := time.Now().UTC()
	if job.Status == "" {
		job.Status = model.JobStatusQueued
	}
	query, args, err := r.sb.Insert("translation_jobs").Columns(jobColumns...).
		Values(job.ID, job.TenantID, job.Kind, job.Status, job.Documents, job.Filled, job.Failed, job.Attempts,
			nullString(job.LastError), now.Format(timeLayout), now.Format(timeLayout)).
		ToSql()
	if err != nil {
		return fmt.Errorf("sqlTranslationJobRepository.CreateJob: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlTranslationJobRepository.CreateJob: %w", err)
	}
	job.CreatedAt, job.UpdatedAt = now, now
	return nil
}

func scanJob(scan func(dest ...interface{}) error) (*model.TranslationJob, error) {
	job := &model.TranslationJob{}
	var (
		lastError        sql.NullString
		created, updated string
	)
	if err := scan(&job.ID, &job.TenantID, &job.Kind, &job.Status, &job.Documents, &job.Filled, &job.Failed,
		&job.Attempts, &lastError, &created, &updated); err != nil {
		return nil, err
	}
	if lastError.Valid {
		job.LastError = &lastError.String
	}
	job.CreatedAt, _ = time.Parse(timeLayout, created)
	job.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return job, nil
}

func (r *sqlTranslationJobRepository) GetJobByID(ctx context.Context, id string) (*model.TranslationJob, error) {
	query, args, err := r.sb.Select(jobColumns...).From("translation_jobs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlTranslationJobRepository.GetJobByID: %w", err)
	}
	job, err := scanJob(r.db.QueryRowContext(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlTranslationJobRepository.GetJobByID: %w", err)
	}
	return job, nil
}

func (r *sqlTranslationJobRepository) ListJobsByTenant(ctx context.Context, tenantID string, limit uint64) ([]model.TranslationJob, error) {
	sel := r.sb.Select(jobColumns...).From("translation_jobs").
		Where(sq.Eq{"tenant_id": tenantID}).OrderBy("created_at DESC")
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlTranslationJobRepository.ListJobsByTenant: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlTranslationJobRepository.ListJobsByTenant: %w", err)
	}
	defer rows.Close()

	jobs := []model.TranslationJob{}
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlTranslationJobRepository.ListJobsByTenant scan: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *sqlTranslationJobRepository) update(ctx context.Context, jobID string, set map[string]interface{}) error {
	set["updated_at"] = time.Now().UTC().Format(timeLayout)
	query, args, err := r.sb.Update("translation_jobs").SetMap(set).Where(sq.Eq{"id": jobID}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *sqlTranslationJobRepository) UpdateJobStatus(ctx context.Context, jobID string, status string, lastError *string) error {
	if err := r.update(ctx, jobID, map[string]interface{}{"status": status, "last_error": nullString(lastError)}); err != nil {
		return fmt.Errorf("sqlTranslationJobRepository.UpdateJobStatus: %w", err)
	}
	return nil
}

func (r *sqlTranslationJobRepository) UpdateJobProgress(ctx context.Context, jobID string, documents, filled, failed int) error {
	err := r.update(ctx, jobID, map[string]interface{}{"documents": documents, "filled": filled, "failed": failed})
	if err != nil {
		return fmt.Errorf("sqlTranslationJobRepository.UpdateJobProgress: %w", err)
	}
	return nil
}

func (r *sqlTranslationJobRepository) IncrementJobAttempts(ctx context.Context, jobID string) error {
	err := r.update(ctx, jobID, map[string]interface{}{"attempts": sq.Expr("attempts + 1")})
	if err != nil {
		return fmt.Errorf("sqlTranslationJobRepository.IncrementJobAttempts: %w", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
