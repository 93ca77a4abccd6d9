// Package mihomo extracts structured information from parsed mihomo
// configuration files: DNS settings, proxy groups, provider inventories and
// the parameter set used to drive OpenClash overrides.
package mihomo
