package tenant

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
)

const registryYAML = `
base_domains:
  - grampanchayats.in
hosting_suffixes:
  - .web.app
  - firebaseapp.com
tenants:
  - id: pindkepar
    name: {en: Gram Panchayat Pindkepar Lodha, mr: ग्राम पंचायत पिंडकेपार लोधा}
    domains: [grampanchayatpindkepaarlodha.in, www.grampanchayatpindkepaarlodha.in]
    active: true
  - id: pindkepar-lodha
    name: {en: Pindkepar Lodha}
    active: true
  - id: demo
    name: {en: Demo Gram Panchayat}
    active: true
  - id: retired
    name: {en: Retired}
    active: false
`

func testDetector(t *testing.T) *Detector {
	t.Helper()
	reg, err := ParseRegistry([]byte(registryYAML))
	require.NoError(t, err)
	return NewDetector(reg)
}

func TestDetect_QueryParamWins(t *testing.T) {
	d := testDetector(t)
	r := httptest.NewRequest("GET", "http://grampanchayatpindkepaarlodha.in/?tenant=demo", nil)

	tc, err := d.Detect(r)
	require.NoError(t, err)
	assert.Equal(t, "demo", tc.ID)
}

func TestDetect_UnknownQueryParam(t *testing.T) {
	d := testDetector(t)
	for _, id := range []string{"nope", "retired"} {
		r := httptest.NewRequest("GET", "http://grampanchayatpindkepaarlodha.in/?tenant="+id, nil)
		_, err := d.Detect(r)
		assert.ErrorIs(t, err, common.ErrConfiguration, id)
	}
}

func TestDetectHost(t *testing.T) {
	d := testDetector(t)
	cases := map[string]string{
		"grampanchayatpindkepaarlodha.in":        "pindkepar",
		"WWW.grampanchayatpindkepaarlodha.in.":   "pindkepar",
		"grampanchayatpindkepaarlodha.in:8443":   "pindkepar",
		"demo.grampanchayats.in":                 "demo",
		"pindkepar-lodha-gpmulti.web.app":        "pindkepar-lodha",
		"pindkepar-lodha-gpmulti-y757r4.web.app": "pindkepar-lodha",
		"demo-gpmulti.firebaseapp.com":           "demo",
	}
	for host, want := range cases {
		tc, err := d.DetectHost(host)
		if assert.NoError(t, err, host) {
			assert.Equal(t, want, tc.ID, host)
		}
	}
}

func TestDetectHost_NoDefaultTenant(t *testing.T) {
	d := testDetector(t)
	for _, host := range []string{"localhost", "127.0.0.1:5173", "www.grampanchayats.in", "unknown.grampanchayats.in", "retired.grampanchayats.in", ""} {
		_, err := d.DetectHost(host)
		assert.ErrorIs(t, err, common.ErrConfiguration, host)
	}
}

func TestDetector_Names(t *testing.T) {
	d := testDetector(t)
	tests := []struct {
		url   string
		names bool
	}{
		{"http://localhost:8080/", false},
		{"http://localhost:8080/?tenant=typo", true},
		{"http://grampanchayatpindkepaarlodha.in/", true},
		{"http://retired.grampanchayats.in/", true},
		{"http://unknown-gpmulti-x1.web.app/", true},
		{"http://example.com/", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		assert.Equal(t, tt.names, d.Names(r), tt.url)
	}
}

func TestNormalizeHostingSubdomain(t *testing.T) {
	cases := [][2]string{
		{"pindkeparlodha", "pindkeparlodha"},
		{"pindkeparlodha-gpmulti", "pindkeparlodha"},
		{"pindkepar-lodha-gpmulti", "pindkepar-lodha"},
		{"pindkeparlodha-gpmulti-y757r4", "pindkeparlodha"},
		{"pindkepar-lodha-gpmulti-y757r4", "pindkepar-lodha"},
		{"pindkepar-lodha-gpmulti-", "pindkepar-lodha"},
	}
	for _, c := range cases {
		assert.Equal(t, c[1], NormalizeHostingSubdomain(c[0]), c[0])
	}
}

func TestParseRegistry_RejectsDuplicates(t *testing.T) {
	_, err := ParseRegistry([]byte(`
tenants:
  - id: a
    domains: [x.in]
  - id: b
    domains: [x.in]
`))
	assert.Error(t, err)

	_, err = ParseRegistry([]byte(`
tenants:
  - id: Not A Slug
`))
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestRegistry_Active(t *testing.T) {
	reg, err := ParseRegistry([]byte(registryYAML))
	require.NoError(t, err)

	active := reg.Active()
	require.Len(t, active, 3)
	assert.Equal(t, "pindkepar", active[0].ID)
	assert.Equal(t, "ग्राम पंचायत पिंडकेपार लोधा", active[0].Name.Mr)
}

func TestLoadRegistry_ExampleFile(t *testing.T) {
	reg, err := LoadRegistry("../../tenants.example.yaml")
	require.NoError(t, err)

	d := NewDetector(reg)
	tc, err := d.DetectHost("pindkepar-lodha-gpmulti-y757r4.web.app")
	require.NoError(t, err)
	assert.Equal(t, "pindkepar-lodha", tc.ID)

	_, err = d.DetectHost("demo.grampanchayats.in")
	assert.ErrorIs(t, err, common.ErrConfiguration, "inactive tenants are not served")

	_, err = LoadRegistry("does-not-exist.yaml")
	assert.Error(t, err)
}
