package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclash-tools/confgen/pkg/generate"
)

var (
	overwriteInput     string
	overwriteOutput    string
	overwriteTemplates string
	overwriteTypes     []string
	overwriteRepoURL   string
	overwriteSource    string
)

var overwriteCmd = &cobra.Command{
	Use:   "overwrite",
	Short: "Generate OpenClash overwrite .conf files from stripped profiles",
	Long: `Walks the input directory recursively for *.yaml files and renders
one overwrite file per profile and variant. Profiles without proxy providers
are skipped with a warning.`,
	RunE: runOverwrite,
}

func init() {
	overwriteCmd.Flags().StringVarP(&overwriteInput, "input", "i", "", "directory with stripped YAML profiles (required)")
	overwriteCmd.Flags().StringVarP(&overwriteOutput, "output", "o", "", "output directory for .conf files (required)")
	overwriteCmd.Flags().StringVarP(&overwriteTemplates, "templates", "t", "", "templates directory (default: embedded templates)")
	overwriteCmd.Flags().StringSliceVar(&overwriteTypes, "types", generate.VariantNames(), "variants to generate")
	overwriteCmd.Flags().StringVar(&overwriteRepoURL, "repo-url", "https://raw.githubusercontent.com/USER/REPO/main", "raw base URL of the published profiles")
	overwriteCmd.Flags().StringVar(&overwriteSource, "source", "mixed", "source tag used in output file names")
	_ = overwriteCmd.MarkFlagRequired("input")
	_ = overwriteCmd.MarkFlagRequired("output")
}

func runOverwrite(cmd *cobra.Command, args []string) error {
	opts := []generate.Option{
		generate.WithRepoURL(overwriteRepoURL),
		generate.WithSource(overwriteSource),
	}
	if overwriteTemplates != "" {
		opts = append(opts, generate.WithTemplatesDir(overwriteTemplates))
	}

	gen, err := generate.New(logger, opts...)
	if err != nil {
		return err
	}

	stats, err := gen.Batch(overwriteInput, overwriteOutput, overwriteTypes)
	if err != nil {
		return err
	}

	fmt.Printf("\nGenerated: %d, skipped/failed: %d\n", stats.Success, stats.Failed)
	for _, f := range stats.Files {
		fmt.Printf("   %s\n", f)
	}
	return nil
}
