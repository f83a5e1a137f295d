package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/repository"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/database"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

var (
	pindkepar = tenant.Context{ID: "pindkepar"}
	lodha     = tenant.Context{ID: "lodha"}
)

type testRepos struct {
	docs  repository.DocumentRepository
	users repository.UserRepository
	jobs  repository.TranslationJobRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))
	return testRepos{
		docs:  repository.NewSQLDocumentRepository(db, database.DriverSQLite),
		users: repository.NewSQLUserRepository(db, database.DriverSQLite),
		jobs:  repository.NewSQLTranslationJobRepository(db, database.DriverSQLite),
	}
}

// fakeObjects keeps uploaded objects in memory, keyed by URL.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) Upload(_ context.Context, p tenant.Path, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", fmt.Errorf("empty upload: %w", common.ErrValidation)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := "http://test/media/" + p.String()
	f.objects[url] = b
	return url, nil
}

func (f *fakeObjects) Delete(_ context.Context, tc tenant.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !strings.HasPrefix(url, "http://test/media/tenants/"+tc.ID+"/") {
		return common.ErrForbidden
	}
	if _, ok := f.objects[url]; !ok {
		return common.ErrNotFound
	}
	delete(f.objects, url)
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeObjects) has(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[url]
	return ok
}

func upload(name, content string) *Upload {
	return &Upload{Filename: name, ContentType: "image/png", Body: strings.NewReader(content)}
}

// dictTranslator answers from a fixed dictionary and fails otherwise.
type dictTranslator struct {
	mu    sync.Mutex
	words map[string]string
	calls []string
}

func newDictTranslator() *dictTranslator {
	return &dictTranslator{words: map[string]string{
		"Birth Certificate": "जन्म दाखला",
		"Gram Sabha":        "ग्रामसभा",
		"Water Supply":      "पाणीपुरवठा",
		"Village Hall":      "ग्राम सभागृह",
	}}
}

func (d *dictTranslator) Translate(_ context.Context, text, source, target string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, source+"|"+target+"|"+text)
	if out, ok := d.words[text]; ok {
		return out, nil
	}
	return "", fmt.Errorf("no entry for %q: %w", text, common.ErrTranslationUnavailable)
}

func fixedNow(day string) func() time.Time {
	return func() time.Time {
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			panic(err)
		}
		return t.Add(10 * time.Hour)
	}
}

// tickingNow returns a clock that advances one second per call so that
// uploaded object names never collide.
func tickingNow() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}
