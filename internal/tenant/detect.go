package tenant

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
)

// QueryParam is the query parameter that selects a tenant explicitly.
const QueryParam = "tenant"

const hostingMarker = "-gpmulti"

// Detector resolves the tenant of an incoming request.
type Detector struct {
	registry *Registry
}

func NewDetector(r *Registry) *Detector {
	return &Detector{registry: r}
}

// Detect applies, in order: the ?tenant= query parameter, the exact host
// mapping, base-domain subdomains and shared-hosting subdomains. A request
// matching none of them fails with ErrConfiguration.
func (d *Detector) Detect(r *http.Request) (Context, error) {
	if id := strings.TrimSpace(r.URL.Query().Get(QueryParam)); id != "" {
		if !d.registry.isActive(id) {
			return Context{}, fmt.Errorf("unknown tenant %q: %w", id, common.ErrConfiguration)
		}
		return NewContext(id)
	}
	return d.DetectHost(r.Host)
}

// DetectHost resolves a tenant from a host name alone.
func (d *Detector) DetectHost(rawHost string) (Context, error) {
	host := normalizeHost(rawHost)
	if host == "" {
		return Context{}, fmt.Errorf("request has no host: %w", common.ErrConfiguration)
	}
	id, ok := d.hostTenant(host)
	if !ok {
		return Context{}, fmt.Errorf("no tenant mapped to host %q: %w", host, common.ErrConfiguration)
	}
	return d.activeContext(id, host)
}

// Names reports whether r selects a tenant itself, through the query
// parameter or a host that maps to a tenant id, whether or not that tenant
// exists and is active.
func (d *Detector) Names(r *http.Request) bool {
	if strings.TrimSpace(r.URL.Query().Get(QueryParam)) != "" {
		return true
	}
	_, ok := d.hostTenant(normalizeHost(r.Host))
	return ok
}

// hostTenant maps a normalized host to the tenant id it names: an exact
// domain, a base-domain subdomain or a shared-hosting subdomain.
func (d *Detector) hostTenant(host string) (string, bool) {
	if host == "" {
		return "", false
	}
	if id, ok := d.registry.byHost[host]; ok {
		return id, true
	}

	for _, baseDomain := range d.registry.BaseDomains {
		suffix := "." + normalizeHost(baseDomain)
		if sub, ok := strings.CutSuffix(host, suffix); ok && sub != "www" && !strings.Contains(sub, ".") {
			return sub, true
		}
	}

	for _, hostingSuffix := range d.registry.HostingSuffixes {
		suffix := normalizeHost(hostingSuffix)
		if !strings.HasPrefix(suffix, ".") {
			suffix = "." + suffix
		}
		if sub, ok := strings.CutSuffix(host, suffix); ok && sub != "www" && !strings.Contains(sub, ".") {
			return NormalizeHostingSubdomain(sub), true
		}
	}
	return "", false
}

func (d *Detector) activeContext(id, host string) (Context, error) {
	if !d.registry.isActive(id) {
		return Context{}, fmt.Errorf("host %q maps to unknown or inactive tenant %q: %w", host, id, common.ErrConfiguration)
	}
	return NewContext(id)
}

// NormalizeHostingSubdomain turns a shared-hosting site name into a tenant
// id: everything from the "-gpmulti" marker on is dropped, as are trailing
// dashes. "pindkepar-lodha-gpmulti-y757r4" becomes "pindkepar-lodha".
func NormalizeHostingSubdomain(sub string) string {
	sub = strings.ToLower(strings.TrimSpace(sub))
	if i := strings.Index(sub, hostingMarker); i >= 0 {
		sub = sub[:i]
	}
	return strings.TrimRight(sub, "-")
}
