package generate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclash-tools/confgen/pkg/config"
)

const strippedProfile = `proxy-providers:
  hk:
    type: http
    url: https://example.com/hk.yaml
    path: ./providers/hk.yaml
    interval: 3600
  jp:
    type: http
    url: https://example.com/jp.yaml
    path: ./providers/jp.yaml
rule-providers:
  ads:
    type: http
    behavior: domain
    url: https://example.com/ads.yaml
rules:
  - RULE-SET,ads,REJECT
  - MATCH,DIRECT
`

func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	g, err := New(nil, opts...)
	require.NoError(t, err)
	g.nowFunc = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return g
}

func TestOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "site.yaml")
	out := filepath.Join(dir, "out", "site.conf")
	require.NoError(t, os.WriteFile(in, []byte(strippedProfile), 0o644))

	g := newTestGenerator(t, WithRepoURL("https://raw.githubusercontent.com/someone/repo/main"), WithSource("external"))

	ctx, err := g.Overwrite(in, out, "site", Variants["main"])
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.ProviderCount)
	assert.Equal(t, []string{"EN_KEY1", "EN_KEY2"}, ctx.EnvKeys)
	assert.Equal(t, "https://raw.githubusercontent.com/someone/repo/main/processed_configs/site.yaml", ctx.YAMLURL)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	rendered := string(data)
	assert.Contains(t, rendered, `CONFIG_NAME="site"`)
	assert.Contains(t, rendered, "Generated: 2025-06-01 12:00:00")
	assert.Contains(t, rendered, `"hk" "['url']" "$EN_KEY1"`)
	assert.Contains(t, rendered, `"jp" "['url']" "$EN_KEY2"`)
	assert.Contains(t, rendered, "# ads: behavior=domain")
}

func TestOverwrite_SingleProviderUsesPlainKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "one.yaml")
	require.NoError(t, os.WriteFile(in, []byte(`proxy-providers:
  only:
    url: https://example.com/only.yaml
`), 0o644))

	g := newTestGenerator(t)
	ctx, err := g.Overwrite(in, filepath.Join(dir, "one.conf"), "one", Variants["main"])
	require.NoError(t, err)
	assert.Equal(t, []string{"EN_KEY"}, ctx.EnvKeys)
}

func TestOverwrite_NoProviders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "empty.yaml")
	out := filepath.Join(dir, "empty.conf")
	require.NoError(t, os.WriteFile(in, []byte("rules:\n  - MATCH,DIRECT\n"), 0o644))

	g := newTestGenerator(t)
	_, err := g.Overwrite(in, out, "empty", Variants["main"])
	assert.ErrorIs(t, err, ErrNoProviders)
	assert.NoFileExists(t, out)
}

func TestBatch(t *testing.T) {
	t.Parallel()

	inDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(inDir, "asia"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "asia", "tokyo.yaml"), []byte(strippedProfile), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "plain.yaml"), []byte(strippedProfile), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "noproviders.yaml"), []byte("rules:\n  - MATCH,DIRECT\n"), 0o644))

	g := newTestGenerator(t, WithSource("mixed"))
	stats, err := g.Batch(inDir, outDir, []string{"main", "bypass"})
	require.NoError(t, err)

	// 2 usable inputs x 2 variants succeed; 1 providerless input x 2 variants fail.
	assert.Equal(t, 4, stats.Success)
	assert.Equal(t, 2, stats.Failed)

	assert.FileExists(t, filepath.Join(outDir, "Overwrite-mixed-asia-tokyo.conf"))
	assert.FileExists(t, filepath.Join(outDir, "Overwrite-mixed-asia-tokyo-bypass.conf"))
	assert.FileExists(t, filepath.Join(outDir, "Overwrite-mixed-plain.conf"))
	assert.FileExists(t, filepath.Join(outDir, "Overwrite-mixed-plain-bypass.conf"))
}

func TestBatch_UnknownVariant(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)
	_, err := g.Batch(t.TempDir(), t.TempDir(), []string{"nonsense"})
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	cfg := &config.Config{
		Upstream: config.Upstream{Repo: "someone/repo"},
		Output: config.Output{
			Directory: outDir,
			Formats: []config.Format{
				{Name: "main_router", Filename: "main.conf"},
				{Name: "main_router_noipv6", Filename: "main-noipv6.conf"},
				{Name: "smart_lgbm", Filename: "smart-lgbm.conf"},
			},
		},
	}

	g := newTestGenerator(t, WithSource("project"))
	require.NoError(t, g.Project(cfg))

	main, err := os.ReadFile(filepath.Join(outDir, "main.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(main), `"['ipv6']" "1"`)

	noipv6, err := os.ReadFile(filepath.Join(outDir, "main-noipv6.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(noipv6), `"['ipv6']" "0"`)
	assert.Contains(t, string(noipv6), `"['dns']['ipv6']" "0"`)

	smart, err := os.ReadFile(filepath.Join(outDir, "smart-lgbm.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(smart), "smart_enable='1'")
	assert.Contains(t, string(smart), "smart_enable_lgbm='1'")
}

func TestNew_WithTemplatesDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.conf.tmpl"), []byte("custom {{ .ConfigName }}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bypass.conf.tmpl"), []byte("bypass\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smart.conf.tmpl"), []byte("smart\n"), 0o644))

	in := filepath.Join(dir, "site.yaml")
	out := filepath.Join(dir, "site.conf")
	require.NoError(t, os.WriteFile(in, []byte(strippedProfile), 0o644))

	g := newTestGenerator(t, WithTemplatesDir(dir))
	_, err := g.Overwrite(in, out, "site", Variants["main"])
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "custom site\n", string(data))
}
