package generate

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Stats summarizes one batch generation run.
type Stats struct {
	Success int
	Failed  int
	Files   []string
}

// Batch walks inputDir recursively for *.yaml files and renders one override
// per file and requested variant into outputDir. Output names follow
// "Overwrite-{source}-{base}{suffix}.conf", where base joins the file's
// relative directory parts and stem with dashes. Per-file failures are
// logged and counted; only an unreadable input directory aborts.
func (g *Generator) Batch(inputDir, outputDir string, variantNames []string) (Stats, error) {
	if len(variantNames) == 0 {
		variantNames = []string{"main"}
	}
	variants := make([]Variant, 0, len(variantNames))
	for _, name := range variantNames {
		v, err := LookupVariant(name)
		if err != nil {
			return Stats{}, err
		}
		variants = append(variants, v)
	}

	var stats Stats
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}

		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		base := baseName(rel)

		for _, variant := range variants {
			outName := fmt.Sprintf("Overwrite-%s-%s%s.conf", g.opts.Source, base, variant.Suffix)
			outPath := filepath.Join(outputDir, outName)

			if _, err := g.Overwrite(path, outPath, base, variant); err != nil {
				if errors.Is(err, ErrNoProviders) {
					g.logger.Warn("skipped config without providers",
						zap.String("file", rel), zap.String("variant", variant.Name))
				} else {
					g.logger.Error("failed to generate override",
						zap.String("file", rel), zap.String("variant", variant.Name), zap.Error(err))
				}
				stats.Failed++
				continue
			}
			stats.Success++
			stats.Files = append(stats.Files, outPath)
		}
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("walking %s: %w", inputDir, err)
	}
	return stats, nil
}

// baseName flattens a relative path into a single dash-joined name without
// the .yaml extension, e.g. "asia/tokyo.yaml" -> "asia-tokyo".
func baseName(rel string) string {
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.Join(strings.Split(filepath.ToSlash(stem), "/"), "-")
}
