package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/database"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	ListByTenant(ctx context.Context, tenantID string) ([]model.User, error)
}

var userColumns = []string{"id", "username", "hashed_password", "role", "tenant_id", "created_at", "updated_at"}

type sqlUserRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewSQLUserRepository(db *sql.DB, driver string) UserRepository {
	return &sqlUserRepository{db: db, sb: database.Builder(driver)}
}

// isUniqueViolation recognises unique constraint errors from both drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *sqlUserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	query, args, err := r.sb.Insert("users").Columns(userColumns...).
		Values(user.ID, user.Username, user.HashedPassword, user.Role, user.TenantID, now.Format(timeLayout), now.Format(timeLayout)).
		ToSql()
	if err != nil {
		return fmt.Errorf("sqlUserRepository.Create: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with given username already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("sqlUserRepository.Create: %w", err)
	}
	user.CreatedAt, user.UpdatedAt = now, now
	return nil
}

func (r *sqlUserRepository) findOne(ctx context.Context, where sq.Eq) (*model.User, error) {
	query, args, err := r.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(scan func(dest ...interface{}) error) (*model.User, error) {
	user := &model.User{}
	var created, updated string
	if err := scan(&user.ID, &user.Username, &user.HashedPassword, &user.Role, &user.TenantID, &created, &updated); err != nil {
		return nil, err
	}
	user.CreatedAt, _ = time.Parse(timeLayout, created)
	user.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return user, nil
}

func (r *sqlUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := r.findOne(ctx, sq.Eq{"username": username})
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("sqlUserRepository.FindByUsername: %w", err)
	}
	return user, err
}

func (r *sqlUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := r.findOne(ctx, sq.Eq{"id": id})
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("sqlUserRepository.FindByID: %w", err)
	}
	return user, err
}

func (r *sqlUserRepository) ListByTenant(ctx context.Context, tenantID string) ([]model.User, error) {
	query, args, err := r.sb.Select(userColumns...).From("users").
		Where(sq.Eq{"tenant_id": tenantID}).OrderBy("username").ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlUserRepository.ListByTenant: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlUserRepository.ListByTenant: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlUserRepository.ListByTenant scan: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
