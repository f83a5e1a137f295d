// Package objectstore keeps uploaded media (member photos, logos, office
// photos) in a BoltDB file and serves them under {base}/media/{path}.
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.etcd.io/bbolt"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

const (
	objectBucket = "objects"
	metaBucket   = "objects_meta"

	// MediaPrefix is the URL path under which objects are served.
	MediaPrefix = "/media/"
)

// imageTypes are the sniffed content types accepted for upload. Scriptable
// formats (HTML, SVG, XML) are never stored.
var imageTypes = map[string]bool{
	"image/png":                true,
	"image/jpeg":               true,
	"image/gif":                true,
	"image/webp":               true,
	"image/bmp":                true,
	"image/x-icon":             true,
	"image/vnd.microsoft.icon": true,
}

// IsImageType reports whether contentType is an accepted raster image type.
func IsImageType(contentType string) bool {
	return imageTypes[contentType]
}

type Object struct {
	Path        string    `json:"path"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type Store struct {
	db       *bbolt.DB
	baseURL  string
	maxBytes int64
}

// Open opens the store file at path. URLs are built from publicBaseURL;
// uploads larger than maxBytes are rejected.
func Open(path, publicBaseURL string, maxBytes int64) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("object store path is required")
	}
	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open object store: %w", err)
	}
	s := &Store{db: db, baseURL: strings.TrimRight(publicBaseURL, "/"), maxBytes: maxBytes}
	if err := s.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{objectBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// ObjectName builds the stored file name
// {unix millis}_{short random id}_{slugged name}{ext}.
func ObjectName(now time.Time, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%d_%s_%s%s", now.UnixMilli(), uuid.NewString()[:8], base, ext)
}

// URL returns the public URL of p.
func (s *Store) URL(p tenant.Path) string {
	return s.baseURL + MediaPrefix + p.String()
}

// PathFromURL is the inverse of URL. Only URLs issued by this store are
// accepted.
func (s *Store) PathFromURL(url string) (tenant.Path, error) {
	prefix := s.baseURL + MediaPrefix
	if !strings.HasPrefix(url, prefix) {
		return nil, fmt.Errorf("url %q is not served by this store: %w", url, common.ErrBadRequest)
	}
	return tenant.ParsePath(strings.TrimPrefix(url, prefix))
}

// Upload stores the content of r at p and returns its public URL.
func (s *Store) Upload(ctx context.Context, p tenant.Path, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := tenant.ParsePath(p.String()); err != nil {
		return "", err
	}

	if s.maxBytes > 0 {
		r = io.LimitReader(r, s.maxBytes+1)
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("empty upload: %w", common.ErrValidation)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		return "", fmt.Errorf("upload exceeds %s: %w", humanize.IBytes(uint64(s.maxBytes)), common.ErrValidation)
	}
	// The declared type is only logged; what is stored is what the bytes are.
	sniffed := http.DetectContentType(buf.Bytes())
	if !IsImageType(sniffed) {
		return "", fmt.Errorf("upload is %s (declared %q), not an image: %w", sniffed, contentType, common.ErrValidation)
	}
	contentType = sniffed

	meta, err := json.Marshal(Object{Path: p.String(), ContentType: contentType, Size: n, UploadedAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("marshal object meta: %w", err)
	}
	key := []byte(p.String())
	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(objectBucket)).Put(key, buf.Bytes()); err != nil {
			return err
		}
		return tx.Bucket([]byte(metaBucket)).Put(key, meta)
	})
	if err != nil {
		return "", fmt.Errorf("store object %s: %w", p, err)
	}
	log.Printf("INFO: stored object %s (%s, %s)", p, contentType, humanize.IBytes(uint64(n)))
	return s.URL(p), nil
}

// Get returns the object metadata and content stored at p.
func (s *Store) Get(ctx context.Context, p tenant.Path) (Object, []byte, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, nil, err
	}
	var (
		obj  Object
		data []byte
	)
	key := []byte(p.String())
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(metaBucket)).Get(key)
		if raw == nil {
			return common.ErrNotFound
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return fmt.Errorf("unmarshal object meta: %w", err)
		}
		// Values are only valid inside the transaction.
		data = append([]byte(nil), tx.Bucket([]byte(objectBucket)).Get(key)...)
		return nil
	})
	if err != nil {
		return Object{}, nil, err
	}
	return obj, data, nil
}

// Delete removes the object behind url. It refuses URLs that belong to a
// different tenant than tc.
func (s *Store) Delete(ctx context.Context, tc tenant.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.PathFromURL(url)
	if err != nil {
		return err
	}
	if p.TenantID() != tc.ID {
		return fmt.Errorf("object %s belongs to another tenant: %w", p, common.ErrForbidden)
	}
	key := []byte(p.String())
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(metaBucket)).Get(key) == nil {
			return common.ErrNotFound
		}
		if err := tx.Bucket([]byte(objectBucket)).Delete(key); err != nil {
			return err
		}
		return tx.Bucket([]byte(metaBucket)).Delete(key)
	})
}
