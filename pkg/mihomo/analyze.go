package mihomo

// DNSConfig is the subset of the dns section relevant to override generation.
type DNSConfig struct {
	Enable           bool
	IPv6             bool
	EnhancedMode     string
	FakeIPRange      string
	FakeIPFilter     []string
	Nameserver       []string
	Fallback         []string
	NameserverPolicy Values
}

// ProxyGroup is one entry of the proxy-groups sequence.
type ProxyGroup struct {
	Name      string
	Type      string
	Proxies   []string
	URL       string
	Interval  int
	Tolerance int
}

// Provider describes one proxy or rule provider. Behavior is only set for
// rule providers.
type Provider struct {
	Name     string
	Type     string
	Behavior string
	URL      string
	Path     string
	Interval int
}

// Analysis is the provider inventory of one configuration.
type Analysis struct {
	ProxyProviders []Provider
	RuleProviders  []Provider
}

// ExtractDNS returns the dns section with the mihomo defaults applied for
// absent fields.
func ExtractDNS(cfg Values) DNSConfig {
	dns := cfg.section("dns")
	return DNSConfig{
		Enable:           dns.boolOr("enable", true),
		IPv6:             dns.boolOr("ipv6", true),
		EnhancedMode:     dns.stringOr("enhanced-mode", "fake-ip"),
		FakeIPRange:      dns.stringOr("fake-ip-range", "198.18.0.1/16"),
		FakeIPFilter:     stringList(dns.list("fake-ip-filter")),
		Nameserver:       stringList(dns.list("nameserver")),
		Fallback:         stringList(dns.list("fallback")),
		NameserverPolicy: dns.section("nameserver-policy"),
	}
}

// ExtractProxyGroups returns the proxy-groups entries with defaults applied.
func ExtractProxyGroups(cfg Values) []ProxyGroup {
	raw := cfg.list("proxy-groups")
	groups := make([]ProxyGroup, 0, len(raw))
	for _, item := range raw {
		gv, ok := asValues(item)
		if !ok {
			continue
		}
		groups = append(groups, ProxyGroup{
			Name:      gv.stringOr("name", ""),
			Type:      gv.stringOr("type", "select"),
			Proxies:   stringList(gv.list("proxies")),
			URL:       gv.stringOr("url", ""),
			Interval:  gv.intOr("interval", 300),
			Tolerance: gv.intOr("tolerance", 50),
		})
	}
	return groups
}

// ExtractRules returns the rules sequence as strings.
func ExtractRules(cfg Values) []string {
	return stringList(cfg.list("rules"))
}

// ExtractRuleProviders returns the rule-providers mapping.
func ExtractRuleProviders(cfg Values) Values {
	return cfg.section("rule-providers")
}

// ExtractProxyProviders returns the proxy-providers mapping.
func ExtractProxyProviders(cfg Values) Values {
	return cfg.section("proxy-providers")
}

// AnalyzeProviders builds the provider inventory of one configuration,
// applying the usual defaults (http type, daily refresh interval, domain
// behavior for rule providers). Entries that are not mappings are skipped.
func AnalyzeProviders(cfg Values) Analysis {
	var a Analysis
	proxyProviders := ExtractProxyProviders(cfg)
	for _, name := range sortedKeys(proxyProviders) {
		p, ok := asValues(proxyProviders[name])
		if !ok {
			continue
		}
		a.ProxyProviders = append(a.ProxyProviders, Provider{
			Name:     name,
			Type:     p.stringOr("type", "http"),
			URL:      p.stringOr("url", ""),
			Path:     p.stringOr("path", ""),
			Interval: p.intOr("interval", 86400),
		})
	}
	ruleProviders := ExtractRuleProviders(cfg)
	for _, name := range sortedKeys(ruleProviders) {
		p, ok := asValues(ruleProviders[name])
		if !ok {
			continue
		}
		a.RuleProviders = append(a.RuleProviders, Provider{
			Name:     name,
			Type:     p.stringOr("type", "http"),
			Behavior: p.stringOr("behavior", "domain"),
			URL:      p.stringOr("url", ""),
			Path:     p.stringOr("path", ""),
			Interval: p.intOr("interval", 86400),
		})
	}
	return a
}

func asValues(v any) (Values, bool) {
	switch m := v.(type) {
	case Values:
		return m, true
	case map[string]any:
		return Values(m), true
	default:
		return nil, false
	}
}

func stringList(items []any) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
