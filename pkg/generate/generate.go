// Package generate renders OpenClash override (.conf) files from stripped
// mihomo configurations, one output per input file and variant.
package generate

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/openclash-tools/confgen/internal/fsutil"
	"github.com/openclash-tools/confgen/pkg/config"
	"github.com/openclash-tools/confgen/pkg/mihomo"
)

//go:embed templates/*.conf.tmpl
var defaultTemplates embed.FS

// ErrNoProviders is returned when a configuration carries no usable proxy
// providers and therefore produces no override file.
var ErrNoProviders = errors.New("no usable proxy providers")

// Options controls how the generator locates templates and names outputs.
type Options struct {
	// TemplatesFS is the filesystem templates are parsed from. Defaults to
	// the embedded template set.
	TemplatesFS fs.FS
	// RepoURL is the raw base URL under which the stripped YAML files are
	// published, e.g. "https://raw.githubusercontent.com/user/repo/main".
	RepoURL string
	// Source tags the origin of the configurations in output file names.
	Source string
}

// Option is a functional option for New.
type Option func(*Options)

// WithTemplatesDir loads templates from a directory instead of the embedded set.
func WithTemplatesDir(dir string) Option {
	return func(o *Options) { o.TemplatesFS = os.DirFS(dir) }
}

// WithTemplatesFS loads templates from the given filesystem.
func WithTemplatesFS(fsys fs.FS) Option {
	return func(o *Options) { o.TemplatesFS = fsys }
}

// WithRepoURL sets the raw base URL used to build download links.
func WithRepoURL(url string) Option {
	return func(o *Options) { o.RepoURL = url }
}

// WithSource sets the source tag used in output file names.
func WithSource(source string) Option {
	return func(o *Options) { o.Source = source }
}

func defaultOptions() Options {
	sub, err := fs.Sub(defaultTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return Options{
		TemplatesFS: sub,
		RepoURL:     "https://raw.githubusercontent.com/USER/REPO/main",
		Source:      "external",
	}
}

// ProviderBinding pairs a proxy provider with the environment variable that
// carries its subscription key.
type ProviderBinding struct {
	mihomo.Provider
	EnvKey string
}

// Context is the variable set handed to the templates.
type Context struct {
	ConfigName    string
	ConfigType    string
	SourceType    string
	GeneratedAt   string
	ProviderCount int
	Providers     []ProviderBinding
	RuleProviders []mihomo.Provider
	EnvKeys       []string
	YAMLURL       string
	Params        mihomo.Values
	Downloads     []string
}

// Generator renders override files from parsed configurations.
type Generator struct {
	tmpl    *template.Template
	opts    Options
	logger  *zap.Logger
	nowFunc func() time.Time
}

// New parses the template set and returns a ready generator. A nil logger
// disables logging.
func New(logger *zap.Logger, opts ...Option) (*Generator, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.ParseFS(options.TemplatesFS, "*.conf.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Generator{tmpl: tmpl, opts: options, logger: logger, nowFunc: time.Now}, nil
}

// Overwrite renders one override file for the given stripped YAML document
// and variant, writing it to outputPath. It returns the rendered context, or
// ErrNoProviders when the configuration carries no proxy providers.
func (g *Generator) Overwrite(yamlPath, outputPath, configName string, variant Variant) (*Context, error) {
	cfg, err := mihomo.NewValuesFromFile(yamlPath)
	if err != nil {
		return nil, err
	}

	ctx, err := g.buildContext(cfg, configName, variant)
	if err != nil {
		return nil, err
	}

	rendered, err := g.render(variant.Template, ctx)
	if err != nil {
		return nil, err
	}
	if err := fsutil.WriteFileAtomic(outputPath, rendered, 0o644); err != nil {
		return nil, err
	}

	g.logger.Info("generated override",
		zap.String("config", configName),
		zap.String("variant", variant.Name),
		zap.String("output", outputPath))
	return ctx, nil
}

func (g *Generator) buildContext(cfg mihomo.Values, configName string, variant Variant) (*Context, error) {
	analysis := mihomo.AnalyzeProviders(cfg)
	if len(analysis.ProxyProviders) == 0 {
		return nil, ErrNoProviders
	}

	envKeys := EnvKeyNames(len(analysis.ProxyProviders))
	bindings := make([]ProviderBinding, len(analysis.ProxyProviders))
	for i, p := range analysis.ProxyProviders {
		bindings[i] = ProviderBinding{Provider: p, EnvKey: envKeys[i]}
	}

	return &Context{
		ConfigName:    configName,
		ConfigType:    variant.Name,
		SourceType:    g.opts.Source,
		GeneratedAt:   g.nowFunc().Format("2006-01-02 15:04:05"),
		ProviderCount: len(analysis.ProxyProviders),
		Providers:     bindings,
		RuleProviders: analysis.RuleProviders,
		EnvKeys:       envKeys,
		YAMLURL:       g.opts.RepoURL + "/processed_configs/" + configName + ".yaml",
		Params:        ApplyVariantFlags(mihomo.OverrideParams(cfg), variant.Name),
	}, nil
}

// Project renders the configured output formats of a project configuration,
// choosing the template and variant flags from each format's name.
func (g *Generator) Project(cfg *config.Config) error {
	// Fill in defaults for any override parameter the project config leaves
	// unset, so templates can rely on the full key set.
	params, err := mihomo.OverrideParams(mihomo.Values{}).Merge(cfg.OpenClash)
	if err != nil {
		return err
	}

	var errs []error
	for _, format := range cfg.Output.Formats {
		variant := VariantForName(format.Name)
		ctx := &Context{
			ConfigName:  format.Name,
			ConfigType:  variant.Name,
			SourceType:  g.opts.Source,
			GeneratedAt: g.nowFunc().Format("2006-01-02 15:04:05"),
			Params:      ApplyVariantFlags(params, format.Name),
			Downloads:   cfg.Downloads,
		}
		rendered, err := g.render(variant.Template, ctx)
		if err != nil {
			g.logger.Error("failed to render format", zap.String("format", format.Name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		out := filepath.Join(cfg.Output.Directory, config.SanitizeFilename(format.Filename))
		if err := fsutil.WriteFileAtomic(out, rendered, 0o644); err != nil {
			g.logger.Error("failed to write format", zap.String("format", format.Name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		g.logger.Info("generated format", zap.String("format", format.Name), zap.String("output", out))
	}
	return errors.Join(errs...)
}

func (g *Generator) render(name string, ctx *Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name, ctx); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
