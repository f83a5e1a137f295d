package tenant

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
)

// Info describes one onboarded Gram Panchayat.
type Info struct {
	ID      string         `yaml:"id" json:"id"`
	Name    bilingual.Text `yaml:"name" json:"name"`
	Domains []string       `yaml:"domains" json:"domains,omitempty"`
	Active  bool           `yaml:"active" json:"active"`
}

// Registry is the list of onboarded tenants and the host rules used to
// detect them.
type Registry struct {
	Tenants []Info `yaml:"tenants"`
	// BaseDomains enable subdomain routing, e.g. pindkepar.grampanchayats.in.
	BaseDomains []string `yaml:"base_domains"`
	// HostingSuffixes are shared hosting domains whose first label encodes
	// the tenant, e.g. pindkepar-lodha-gpmulti.web.app.
	HostingSuffixes []string `yaml:"hosting_suffixes"`

	byID   map[string]Info
	byHost map[string]string
}

// LoadRegistry reads a YAML registry file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tenant registry: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry decodes and indexes a YAML registry.
func ParseRegistry(data []byte) (*Registry, error) {
	var r Registry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse tenant registry: %w", err)
	}
	if err := r.index(); err != nil {
		return nil, err
	}
	return &r, nil
}

// NewRegistry builds a registry in code, mostly for tests and tooling.
func NewRegistry(tenants []Info, baseDomains, hostingSuffixes []string) (*Registry, error) {
	r := &Registry{Tenants: tenants, BaseDomains: baseDomains, HostingSuffixes: hostingSuffixes}
	if err := r.index(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) index() error {
	r.byID = make(map[string]Info, len(r.Tenants))
	r.byHost = make(map[string]string)
	for _, t := range r.Tenants {
		if _, err := NewContext(t.ID); err != nil {
			return fmt.Errorf("tenant registry entry: %w", err)
		}
		if _, dup := r.byID[t.ID]; dup {
			return fmt.Errorf("tenant registry: duplicate tenant id %q", t.ID)
		}
		r.byID[t.ID] = t
		for _, d := range t.Domains {
			host := normalizeHost(d)
			if owner, dup := r.byHost[host]; dup {
				return fmt.Errorf("tenant registry: domain %q claimed by %q and %q", host, owner, t.ID)
			}
			r.byHost[host] = t.ID
		}
	}
	return nil
}

// Lookup returns the tenant with the given id.
func (r *Registry) Lookup(id string) (Info, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// Active returns the active tenants in registry order.
func (r *Registry) Active() []Info {
	out := make([]Info, 0, len(r.Tenants))
	for _, t := range r.Tenants {
		if t.Active {
			out = append(out, t)
		}
	}
	return out
}

func (r *Registry) isActive(id string) bool {
	t, ok := r.byID[id]
	return ok && t.Active
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return strings.TrimSuffix(host, ".")
}
