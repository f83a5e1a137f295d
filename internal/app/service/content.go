package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/repository"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/objectstore"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

// ObjectStorage is the part of the object store the content services use.
type ObjectStorage interface {
	Upload(ctx context.Context, p tenant.Path, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, tc tenant.Context, url string) error
}

// Upload is a file received with a create or update request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// records constrains *T to be a decodable content record.
type records[T any] interface {
	*T
	model.Record
}

func decodeOne[T any, PT records[T]](doc *model.Document) (*T, error) {
	v := new(T)
	if err := model.Decode(doc, PT(v)); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeAll[T any, PT records[T]](docs []*model.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := decodeOne[T, PT](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// contentStore wraps the document repository with tenant path resolution for
// one resource kind.
type contentStore struct {
	docs repository.DocumentRepository
	kind tenant.ResourceKind
}

func (c contentStore) list(ctx context.Context, tc tenant.Context, q repository.Query) ([]*model.Document, error) {
	coll, err := tenant.Resolve(tc, c.kind)
	if err != nil {
		return nil, err
	}
	return c.docs.List(ctx, coll, q)
}

func (c contentStore) get(ctx context.Context, tc tenant.Context, id string) (*model.Document, error) {
	p, err := tenant.Document(tc, c.kind, id)
	if err != nil {
		return nil, err
	}
	doc, err := c.docs.Get(ctx, p)
	if err != nil {
		return nil, common.Errorf("%s %s: %w", c.kind, id, err)
	}
	return doc, nil
}

func (c contentStore) create(ctx context.Context, tc tenant.Context, v interface{}) (*model.Document, error) {
	coll, err := tenant.Resolve(tc, c.kind)
	if err != nil {
		return nil, err
	}
	data, err := model.ToData(v)
	if err != nil {
		return nil, common.Errorf("encode %s: %w", c.kind, err)
	}
	return c.docs.Create(ctx, coll, data)
}

func (c contentStore) update(ctx context.Context, tc tenant.Context, id string, fields map[string]interface{}) (*model.Document, error) {
	p, err := tenant.Document(tc, c.kind, id)
	if err != nil {
		return nil, err
	}
	doc, err := c.docs.Update(ctx, p, fields)
	if err != nil {
		return nil, common.Errorf("%s %s: %w", c.kind, id, err)
	}
	return doc, nil
}

func (c contentStore) delete(ctx context.Context, tc tenant.Context, id string) error {
	p, err := tenant.Document(tc, c.kind, id)
	if err != nil {
		return err
	}
	if err := c.docs.Delete(ctx, p); err != nil {
		return common.Errorf("%s %s: %w", c.kind, id, err)
	}
	return nil
}

// storeUpload saves up under tenants/{id}/{category}/ and returns its URL.
func storeUpload(ctx context.Context, objects ObjectStorage, tc tenant.Context, category string, up *Upload, now time.Time) (string, error) {
	if objects == nil {
		return "", common.Errorf("uploads are not configured: %w", common.ErrServiceUnavailable)
	}
	p, err := tenant.StoragePath(tc, category, objectstore.ObjectName(now, up.Filename))
	if err != nil {
		return "", err
	}
	return objects.Upload(ctx, p, up.ContentType, up.Body)
}

// removeObject deletes a replaced or orphaned object. Failures are logged;
// the content change that triggered it has already succeeded.
func removeObject(ctx context.Context, objects ObjectStorage, tc tenant.Context, url string) {
	if objects == nil || url == "" {
		return
	}
	if err := objects.Delete(ctx, tc, url); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return
		}
		log.Printf("WARN: failed to delete object %s for tenant %s: %v", url, tc.ID, err)
	}
}

func requireText(name string, t bilingual.Text) error {
	if strings.TrimSpace(t.En) == "" {
		return fmt.Errorf("%s (English) is required: %w", name, common.ErrValidation)
	}
	return nil
}

func requireString(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required: %w", name, common.ErrValidation)
	}
	return nil
}

// validDate accepts empty strings and YYYY-MM-DD dates.
func validDate(name, v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(model.DateLayout, v); err != nil {
		return fmt.Errorf("%s must be YYYY-MM-DD: %w", name, common.ErrValidation)
	}
	return nil
}
