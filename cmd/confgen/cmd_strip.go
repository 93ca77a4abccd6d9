package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openclash-tools/confgen/pkg/strip"
)

var stripCmd = &cobra.Command{
	Use:   "strip <input-dir> <output-dir>",
	Short: "Strip mihomo profiles down to provider and rule sections",
	Long: `Reads every *.yaml file of the input directory, keeps only the
proxy-providers, proxy-groups, rule-providers and rules sections plus the
anchors they reference, and writes one stripped file per input into the
output directory. Files that fail to parse or retain nothing are skipped
with a warning.`,
	Args: cobra.ExactArgs(2),
	RunE: runStrip,
}

func runStrip(cmd *cobra.Command, args []string) error {
	batch := strip.NewBatch(logger)
	reports, err := batch.Process(args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Processing Results")
	fmt.Println(strings.Repeat("=", 60))
	for _, r := range reports {
		fmt.Printf("\n%s\n", r.Filename)
		fmt.Printf("   proxy-providers: %d\n", r.Counts.ProxyProviders)
		fmt.Printf("   proxy-groups:    %d\n", r.Counts.ProxyGroups)
		fmt.Printf("   rule-providers:  %d\n", r.Counts.RuleProviders)
		fmt.Printf("   rules:           %d\n", r.Counts.Rules)
		fmt.Printf("   output:          %s\n", r.Output)
	}
	fmt.Printf("\nTotal stripped: %d files\n", len(reports))
	return nil
}
