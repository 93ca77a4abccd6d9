package strip

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/openclash-tools/confgen/internal/fsutil"
)

// Report summarizes one successfully stripped file.
type Report struct {
	Filename string
	Counts   Counts
	Output   string
}

// Batch strips every *.yaml file of an input directory into an output
// directory, one stripped file per input with the same base name. Per-file
// failures (parse errors, documents with nothing to retain, I/O errors) are
// logged and skipped; they never abort the run.
type Batch struct {
	logger *zap.Logger
}

// NewBatch returns a batch processor. A nil logger disables logging.
func NewBatch(logger *zap.Logger) *Batch {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batch{logger: logger}
}

// Process strips inputDir into outputDir, creating outputDir as needed.
// It returns one Report per written file. Only an unreadable input directory
// or an uncreatable output directory is returned as an error.
func (b *Batch) Process(inputDir, outputDir string) ([]Report, error) {
	if st, err := os.Stat(inputDir); err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	} else if !st.IsDir() {
		return nil, fmt.Errorf("input path is not a directory: %s", inputDir)
	}
	return b.ProcessFS(os.DirFS(inputDir), outputDir)
}

// ProcessFS is like Process but reads the inputs from an fs.FS, which lets
// tests drive the batch from an in-memory filesystem.
func (b *Batch) ProcessFS(fsys fs.FS, outputDir string) ([]Report, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}

	var reports []Report
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		doc, err := StripFile(fsys, name)
		switch {
		case errors.Is(err, ErrNoRetainedKeys), errors.Is(err, ErrNotMapping):
			b.logger.Warn("skipped config with nothing to retain", zap.String("file", name))
			continue
		case err != nil:
			b.logger.Error("failed to strip config", zap.String("file", name), zap.Error(err))
			continue
		}

		out := filepath.Join(outputDir, name)
		if err := fsutil.WriteFileAtomic(out, doc.Render(), 0o644); err != nil {
			b.logger.Error("failed to write stripped config", zap.String("file", name), zap.Error(err))
			continue
		}

		b.logger.Info("stripped config",
			zap.String("file", name),
			zap.Int("proxy_providers", doc.Counts.ProxyProviders),
			zap.Int("proxy_groups", doc.Counts.ProxyGroups),
			zap.Int("rule_providers", doc.Counts.RuleProviders),
			zap.Int("rules", doc.Counts.Rules))

		reports = append(reports, Report{Filename: name, Counts: doc.Counts, Output: out})
	}
	return reports, nil
}
