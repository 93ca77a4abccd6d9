// Package strip reduces mihomo YAML configuration files to the subset of
// top-level sections that matter for OpenClash subscription overrides
// (proxy-providers, proxy-groups, rule-providers, rules), carrying along the
// anchor definitions that the retained content still references.
package strip
