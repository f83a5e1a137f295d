package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/database"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

// Filter matches documents whose field (dotted for nested keys) equals Value.
type Filter struct {
	Field string
	Value string
}

type Query struct {
	OrderBy string
	Desc    bool
	Where   []Filter
	Limit   uint64
}

// DocumentRepository stores JSON documents addressed by tenant paths.
// Writes are last-write-wins.
type DocumentRepository interface {
	Get(ctx context.Context, path tenant.Path) (*model.Document, error)
	List(ctx context.Context, collection tenant.Path, q Query) ([]*model.Document, error)
	// Create stores data under a new id inside collection.
	Create(ctx context.Context, collection tenant.Path, data map[string]interface{}) (*model.Document, error)
	// Set writes the whole document, or deep-merges data into it when merge
	// is true. The document is created when missing.
	Set(ctx context.Context, path tenant.Path, data map[string]interface{}, merge bool) (*model.Document, error)
	// Update replaces the given top-level fields of an existing document.
	Update(ctx context.Context, path tenant.Path, fields map[string]interface{}) (*model.Document, error)
	// Modify loads an existing document, lets fn change it in place and
	// writes it back when fn reports a change. The row stays locked while
	// fn runs.
	Modify(ctx context.Context, path tenant.Path, fn func(data map[string]interface{}) (bool, error)) (*model.Document, error)
	Delete(ctx context.Context, path tenant.Path) error
}

// Fixed width so that the text columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var fieldPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)*$`)

var documentColumns = []string{"path", "doc_id", "data", "created_at", "updated_at"}

type sqlDocumentRepository struct {
	db     *sql.DB
	driver string
	sb     sq.StatementBuilderType
	now    func() time.Time
}

func NewSQLDocumentRepository(db *sql.DB, driver string) DocumentRepository {
	return &sqlDocumentRepository{
		db:     db,
		driver: driver,
		sb:     database.Builder(driver),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// documentPath accepts tenants/{id}/{collection...}/{docID}.
func documentPath(p tenant.Path) (string, error) {
	if _, err := tenant.ParsePath(p.String()); err != nil {
		return "", err
	}
	if len(p) < 4 {
		return "", fmt.Errorf("path %q does not address a document: %w", p, common.ErrBadRequest)
	}
	return p.String(), nil
}

func collectionPath(p tenant.Path) (string, error) {
	if _, err := tenant.ParsePath(p.String()); err != nil {
		return "", err
	}
	return p.String(), nil
}

// fieldExpr renders a JSON field access. asText selects the text form used
// in comparisons; otherwise the native JSON value is used so that numbers
// sort numerically.
func (r *sqlDocumentRepository) fieldExpr(field string, asText bool) (string, error) {
	if !fieldPattern.MatchString(field) {
		return "", fmt.Errorf("invalid field name %q: %w", field, common.ErrBadRequest)
	}
	if r.driver == database.DriverPostgres {
		op := "#>"
		if asText {
			op = "#>>"
		}
		return fmt.Sprintf("data %s '{%s}'", op, strings.ReplaceAll(field, ".", ",")), nil
	}
	return fmt.Sprintf("json_extract(data, '$.%s')", field), nil
}

func scanDocument(scan func(dest ...interface{}) error) (*model.Document, error) {
	var (
		doc              model.Document
		data             string
		created, updated string
	)
	if err := scan(&doc.Path, &doc.ID, &data, &created, &updated); err != nil {
		return nil, err
	}
	doc.Data = json.RawMessage(data)
	doc.CreatedAt, _ = time.Parse(timeLayout, created)
	doc.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return &doc, nil
}

func (r *sqlDocumentRepository) Get(ctx context.Context, path tenant.Path) (*model.Document, error) {
	key, err := documentPath(path)
	if err != nil {
		return nil, err
	}
	query, args, err := r.sb.Select(documentColumns...).From("documents").Where(sq.Eq{"path": key}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlDocumentRepository.Get: %w", err)
	}
	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlDocumentRepository.Get: %w", err)
	}
	return doc, nil
}

func (r *sqlDocumentRepository) List(ctx context.Context, collection tenant.Path, q Query) ([]*model.Document, error) {
	coll, err := collectionPath(collection)
	if err != nil {
		return nil, err
	}
	sel := r.sb.Select(documentColumns...).From("documents").Where(sq.Eq{"collection": coll})
	for _, f := range q.Where {
		expr, err := r.fieldExpr(f.Field, true)
		if err != nil {
			return nil, err
		}
		sel = sel.Where(expr+" = ?", f.Value)
	}
	if q.OrderBy != "" {
		expr, err := r.fieldExpr(q.OrderBy, false)
		if err != nil {
			return nil, err
		}
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		sel = sel.OrderBy(expr + " " + dir)
	}
	sel = sel.OrderBy("created_at ASC", "doc_id ASC")
	if q.Limit > 0 {
		sel = sel.Limit(q.Limit)
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlDocumentRepository.List: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlDocumentRepository.List: %w", err)
	}
	defer rows.Close()

	docs := []*model.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlDocumentRepository.List scan: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *sqlDocumentRepository) Create(ctx context.Context, collection tenant.Path, data map[string]interface{}) (*model.Document, error) {
	if _, err := collectionPath(collection); err != nil {
		return nil, err
	}
	path := collection.Child(uuid.NewString())
	body, err := json.Marshal(nonNil(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	now := r.now().Format(timeLayout)
	query, args, err := r.sb.Insert("documents").
		Columns("path", "collection", "doc_id", "data", "created_at", "updated_at").
		Values(path.String(), collection.String(), path.Last(), string(body), now, now).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlDocumentRepository.Create: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("sqlDocumentRepository.Create: %w", err)
	}
	return r.Get(ctx, path)
}

func (r *sqlDocumentRepository) Set(ctx context.Context, path tenant.Path, data map[string]interface{}, merge bool) (*model.Document, error) {
	key, err := documentPath(path)
	if err != nil {
		return nil, err
	}
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		body := nonNil(data)
		if merge {
			current, err := r.lockData(ctx, tx, key)
			if err != nil && !errors.Is(err, common.ErrNotFound) {
				return err
			}
			if current != nil {
				body = deepMerge(current, body)
			}
		}
		return r.upsert(ctx, tx, path, body)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, path)
}

func (r *sqlDocumentRepository) Update(ctx context.Context, path tenant.Path, fields map[string]interface{}) (*model.Document, error) {
	key, err := documentPath(path)
	if err != nil {
		return nil, err
	}
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		current, err := r.lockData(ctx, tx, key)
		if err != nil {
			return err
		}
		for k, v := range fields {
			current[k] = v
		}
		return r.upsert(ctx, tx, path, current)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, path)
}

func (r *sqlDocumentRepository) Modify(ctx context.Context, path tenant.Path, fn func(data map[string]interface{}) (bool, error)) (*model.Document, error) {
	key, err := documentPath(path)
	if err != nil {
		return nil, err
	}
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		current, err := r.lockData(ctx, tx, key)
		if err != nil {
			return err
		}
		changed, err := fn(current)
		if err != nil || !changed {
			return err
		}
		return r.upsert(ctx, tx, path, current)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, path)
}

func (r *sqlDocumentRepository) Delete(ctx context.Context, path tenant.Path) error {
	key, err := documentPath(path)
	if err != nil {
		return err
	}
	query, args, err := r.sb.Delete("documents").Where(sq.Eq{"path": key}).ToSql()
	if err != nil {
		return fmt.Errorf("sqlDocumentRepository.Delete: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlDocumentRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *sqlDocumentRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// lockData loads the body of key inside tx, locking the row on PostgreSQL.
func (r *sqlDocumentRepository) lockData(ctx context.Context, tx *sql.Tx, key string) (map[string]interface{}, error) {
	sel := r.sb.Select("data").From("documents").Where(sq.Eq{"path": key})
	if r.driver == database.DriverPostgres {
		sel = sel.Suffix("FOR UPDATE")
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}
	var raw string
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("load document %s: %w", key, err)
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", key, err)
	}
	return out, nil
}

func (r *sqlDocumentRepository) upsert(ctx context.Context, tx *sql.Tx, path tenant.Path, data map[string]interface{}) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	now := r.now().Format(timeLayout)
	query, args, err := r.sb.Insert("documents").
		Columns("path", "collection", "doc_id", "data", "created_at", "updated_at").
		Values(path.String(), path.Parent().String(), path.Last(), string(body), now, now).
		Suffix("ON CONFLICT (path) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write document %s: %w", path, err)
	}
	return nil
}

func nonNil(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}

// deepMerge merges src into dst: nested objects merge key by key, every
// other value replaces what was there.
func deepMerge(dst, src map[string]interface{}) map[string]interface{} {
	for k, v := range src {
		if sm, ok := v.(map[string]interface{}); ok {
			if dm, ok := dst[k].(map[string]interface{}); ok {
				dst[k] = deepMerge(dm, sm)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}
