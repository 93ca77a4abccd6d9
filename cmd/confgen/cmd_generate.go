package main

import (
	"github.com/spf13/cobra"

	"github.com/openclash-tools/confgen/pkg/config"
	"github.com/openclash-tools/confgen/pkg/generate"
)

var (
	generateConfig    string
	generateTemplates string
	generateSource    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render the output formats declared in the project configuration",
	Long: `Loads the project configuration (upstream repository, output formats,
OpenClash parameter overrides) and renders every declared format. The variant
and parameter adjustments (noipv6 / bypass / smart / lgbm) are derived from
each format's name.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateConfig, "config", "c", "config.yaml", "project configuration file")
	generateCmd.Flags().StringVarP(&generateTemplates, "templates", "t", "", "templates directory (default: embedded templates)")
	generateCmd.Flags().StringVar(&generateSource, "source", "project", "source tag recorded in rendered files")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(generateConfig)
	if err != nil {
		return err
	}

	opts := []generate.Option{generate.WithSource(generateSource)}
	if generateTemplates != "" {
		opts = append(opts, generate.WithTemplatesDir(generateTemplates))
	}

	gen, err := generate.New(logger, opts...)
	if err != nil {
		return err
	}
	return gen.Project(cfg)
}
