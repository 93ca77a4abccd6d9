package config

import (
	"strings"
	"testing"

	"github.com/psanford/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectConfig = `upstream:
  repo: someone/mihomo-profiles
  branch: main
output:
  directory: generated
  formats:
    - name: main_router
      filename: main.conf
      description: Standard router setup
    - name: main_router_noipv6
      filename: main-noipv6.conf
      description: Standard router setup without IPv6
    - name: smart_lgbm
      filename: smart-lgbm.conf
      description: Smart groups with trained model
openclash:
  ipv6: true
  mode: rule
downloads:
  - https://example.com/GeoLite2-Country.mmdb
`

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(projectConfig))
	require.NoError(t, err)

	assert.Equal(t, "someone/mihomo-profiles", cfg.Upstream.Repo)
	assert.Equal(t, "main", cfg.Upstream.BranchOrDefault())
	assert.Equal(t, "generated", cfg.Output.Directory)
	require.Len(t, cfg.Output.Formats, 3)
	assert.Equal(t, "main_router_noipv6", cfg.Output.Formats[1].Name)
	assert.Equal(t, true, cfg.OpenClash["ipv6"])
	assert.Len(t, cfg.Downloads, 1)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mangle func(string) string
	}{
		{name: "missing repo", mangle: func(s string) string {
			return strings.Replace(s, "repo: someone/mihomo-profiles", "repo: \"\"", 1)
		}},
		{name: "missing directory", mangle: func(s string) string {
			return strings.Replace(s, "directory: generated", "directory: \"\"", 1)
		}},
		{name: "format without filename", mangle: func(s string) string {
			return strings.Replace(s, "filename: main.conf", "filename: \"\"", 1)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.mangle(projectConfig)))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParse_NoFormats(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("upstream:\n  repo: a/b\noutput:\n  directory: out\n  formats: []\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	mfs := memfs.New()
	require.NoError(t, mfs.WriteFile("config.yaml", []byte(projectConfig), 0o644))

	cfg, err := LoadFS(mfs, "config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "generated", cfg.Output.Directory)
}

func TestBranchOrDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "main", Upstream{Repo: "a/b"}.BranchOrDefault())
	assert.Equal(t, "dev", Upstream{Repo: "a/b", Branch: "dev"}.BranchOrDefault())
}

func TestDownloadURL(t *testing.T) {
	t.Parallel()

	url := DownloadURL("someone/repo", "main", "processed_configs/site.yaml")
	assert.Equal(t, "https://raw.githubusercontent.com/someone/repo/main/processed_configs/site.yaml", url)
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "plain.conf", want: "plain.conf"},
		{in: `bad<name>:"test".conf`, want: "bad_name___test_.conf"},
		{in: "  padded.conf  ", want: "padded.conf"},
		{in: "a/b\\c.conf", want: "a_b_c.conf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}

	long := strings.Repeat("x", 300) + ".conf"
	sanitized := SanitizeFilename(long)
	assert.LessOrEqual(t, len(sanitized), 255)
	assert.True(t, strings.HasSuffix(sanitized, ".conf"))
}
