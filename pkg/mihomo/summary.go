package mihomo

import (
	"fmt"
	"sort"
)

// Summary is the high-level shape of one configuration.
type Summary struct {
	ProxyGroups    int
	Rules          int
	RuleProviders  int
	ProxyProviders int
	DNSEnabled     bool
	IPv6Enabled    bool
	Mode           string
}

// Summarize reports entry counts and the basic runtime switches.
func Summarize(cfg Values) Summary {
	return Summary{
		ProxyGroups:    len(cfg.list("proxy-groups")),
		Rules:          len(cfg.list("rules")),
		RuleProviders:  len(cfg.section("rule-providers")),
		ProxyProviders: len(cfg.section("proxy-providers")),
		DNSEnabled:     cfg.section("dns").boolOr("enable", true),
		IPv6Enabled:    cfg.boolOr("ipv6", true),
		Mode:           cfg.stringOr("mode", "rule"),
	}
}

// OverrideParams converts a mihomo configuration into the flat parameter map
// consumed by OpenClash override templates. Booleans are rendered as 0/1 the
// way the UCI option values expect them.
func OverrideParams(cfg Values) Values {
	dns := cfg.section("dns")
	sniffer := cfg.section("sniffer")
	tun := cfg.section("tun")

	return Values{
		"dns_enable":        boolToInt(dns.boolOr("enable", true)),
		"dns_ipv6":          boolToInt(dns.boolOr("ipv6", true)),
		"dns_enhanced_mode": dns.stringOr("enhanced-mode", "fake-ip"),
		"fake_ip_range":     dns.stringOr("fake-ip-range", "198.18.0.1/16"),
		"ipv6":              boolToInt(cfg.boolOr("ipv6", true)),
		"log_level":         cfg.stringOr("log-level", "info"),
		"allow_lan":         boolToInt(cfg.boolOr("allow-lan", true)),
		"mode":              cfg.stringOr("mode", "rule"),
		"sniffer_enable":    boolToInt(sniffer.boolOr("enable", false)),
		"tun_enable":        boolToInt(tun.boolOr("enable", false)),
		"tun_stack":         tun.stringOr("stack", "system"),
	}
}

// Validate checks that the sections a usable configuration must carry are
// present.
func Validate(cfg Values) error {
	for _, key := range []string{"proxy-groups", "rules"} {
		if _, ok := cfg[key]; !ok {
			return fmt.Errorf("missing required key: %s", key)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sortedKeys(v Values) []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
