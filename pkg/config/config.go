// Package config loads and validates the project-level generator
// configuration: the upstream repository the mihomo profiles come from, the
// output formats to produce and the default OpenClash parameters.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/openclash-tools/confgen/pkg/mihomo"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Upstream identifies the repository the mihomo profiles are synced from.
type Upstream struct {
	Repo   string `yaml:"repo"`
	Branch string `yaml:"branch"`
}

// Format is one output configuration to generate.
type Format struct {
	Name        string `yaml:"name"`
	Filename    string `yaml:"filename"`
	Description string `yaml:"description"`
}

// Output describes where and what to generate.
type Output struct {
	Directory string   `yaml:"directory"`
	Formats   []Format `yaml:"formats"`
}

// Config is the project configuration file.
type Config struct {
	Upstream  Upstream      `yaml:"upstream"`
	Output    Output        `yaml:"output"`
	OpenClash mihomo.Values `yaml:"openclash"`
	Downloads []string      `yaml:"downloads"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadFS reads and validates a configuration from a filesystem.
func LoadFS(fsys fs.FS, name string) (*Config, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse unmarshals and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields every generation run depends on.
func (c *Config) Validate() error {
	if c.Upstream.Repo == "" {
		return fmt.Errorf("%w: upstream.repo is required", ErrInvalid)
	}
	if c.Output.Directory == "" {
		return fmt.Errorf("%w: output.directory is required", ErrInvalid)
	}
	if len(c.Output.Formats) == 0 {
		return fmt.Errorf("%w: output.formats must not be empty", ErrInvalid)
	}
	for i, f := range c.Output.Formats {
		if f.Name == "" || f.Filename == "" {
			return fmt.Errorf("%w: output.formats[%d] needs name and filename", ErrInvalid, i)
		}
	}
	return nil
}

// BranchOrDefault returns the configured upstream branch, defaulting to main.
func (u Upstream) BranchOrDefault() string {
	if u.Branch == "" {
		return "main"
	}
	return u.Branch
}

// DownloadURL builds the raw.githubusercontent.com URL of a file published
// in the given repository and branch.
func DownloadURL(repo, branch, filePath string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", repo, branch, filePath)
}

const maxFilenameLength = 255

// SanitizeFilename replaces characters that are unsafe in file names and
// caps the result at the usual filesystem limit, preserving the extension.
func SanitizeFilename(name string) string {
	const illegal = `<>:"/\|?*`
	sanitized := strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegal, r) {
			return '_'
		}
		return r
	}, name)
	sanitized = strings.TrimSpace(sanitized)

	if len(sanitized) > maxFilenameLength {
		ext := filepath.Ext(sanitized)
		base := sanitized[:maxFilenameLength-len(ext)]
		sanitized = base + ext
	}
	return sanitized
}
