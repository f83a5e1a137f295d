// Package tenant resolves the village council a request belongs to and
// derives every storage path from it. No path in the system is built by
// hand: document store and object storage callers go through Resolve,
// Document and StoragePath so that no read or write can cross tenants.
package tenant

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
)

const (
	rootSegment     = "tenants"
	settingsSegment = "settings"
	siteConfigDocID = "siteConfig"
)

// Context identifies the tenant whose data is read or written. It is
// resolved once per request and passed explicitly to every data access call.
type Context struct {
	ID string
}

// NewContext validates id and returns a Context for it.
func NewContext(id string) (Context, error) {
	tc := Context{ID: id}
	if err := tc.Validate(); err != nil {
		return Context{}, err
	}
	return tc, nil
}

// Validate reports ErrConfiguration when the tenant id cannot be used to
// build paths.
func (c Context) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("no tenant identifier in context: %w", common.ErrConfiguration)
	}
	if !slug.IsSlug(c.ID) {
		return fmt.Errorf("tenant identifier %q is not a valid slug: %w", c.ID, common.ErrConfiguration)
	}
	return nil
}

type ResourceKind string

const (
	KindMembers      ResourceKind = "members"
	KindServices     ResourceKind = "services"
	KindSchemes      ResourceKind = "schemes"
	KindNotices      ResourceKind = "notices"
	KindSiteSettings ResourceKind = "siteSettings"
)

// Kinds lists every resource kind in a stable order.
var Kinds = []ResourceKind{KindMembers, KindServices, KindSchemes, KindNotices, KindSiteSettings}

func (k ResourceKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsCollection is false only for the settings singleton.
func (k ResourceKind) IsCollection() bool {
	return k.Valid() && k != KindSiteSettings
}

// Path is an ordered sequence of path segments.
type Path []string

func (p Path) String() string {
	return strings.Join(p, "/")
}

// Parent drops the last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the final segment, usually a document id.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child appends a segment without sharing the backing array with p.
func (p Path) Child(segment string) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, segment)
}

// TenantID returns the tenant segment of a resolved path.
func (p Path) TenantID() string {
	if len(p) < 2 || p[0] != rootSegment {
		return ""
	}
	return p[1]
}

// ParsePath splits a "/" separated path. It accepts only paths rooted at a
// tenant so that callers cannot smuggle in unscoped paths.
func ParsePath(s string) (Path, error) {
	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) < 3 || parts[0] != rootSegment {
		return nil, fmt.Errorf("path %q is not tenant scoped: %w", s, common.ErrBadRequest)
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return nil, fmt.Errorf("path %q has an empty or relative segment: %w", s, common.ErrBadRequest)
		}
	}
	if _, err := NewContext(parts[1]); err != nil {
		return nil, err
	}
	return Path(parts), nil
}

func base(tc Context) (Path, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	return Path{rootSegment, tc.ID}, nil
}

// Resolve returns tenants/{id}/{kind} for collections and
// tenants/{id}/settings/siteConfig for the site settings singleton.
func Resolve(tc Context, kind ResourceKind) (Path, error) {
	root, err := base(tc)
	if err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown resource kind %q: %w", kind, common.ErrBadRequest)
	}
	if kind == KindSiteSettings {
		return append(root, settingsSegment, siteConfigDocID), nil
	}
	return append(root, string(kind)), nil
}

// Document returns the path of one document inside a collection kind.
func Document(tc Context, kind ResourceKind, docID string) (Path, error) {
	if !kind.IsCollection() {
		return nil, fmt.Errorf("resource kind %q has no documents: %w", kind, common.ErrBadRequest)
	}
	if docID == "" || strings.Contains(docID, "/") {
		return nil, fmt.Errorf("invalid document id %q: %w", docID, common.ErrBadRequest)
	}
	coll, err := Resolve(tc, kind)
	if err != nil {
		return nil, err
	}
	return coll.Child(docID), nil
}

// StoragePath returns tenants/{id}/{category}/{filename} for object storage.
func StoragePath(tc Context, category, filename string) (Path, error) {
	root, err := base(tc)
	if err != nil {
		return nil, err
	}
	if !slug.IsSlug(category) {
		return nil, fmt.Errorf("invalid storage category %q: %w", category, common.ErrBadRequest)
	}
	if filename == "" || strings.ContainsAny(filename, "/\\") {
		return nil, fmt.Errorf("invalid storage filename %q: %w", filename, common.ErrBadRequest)
	}
	return append(root, category, filename), nil
}
