package mihomo

import "dario.cat/mergo"

// MergeProfiles combines several configurations into one: proxy-groups and
// rules are concatenated, provider mappings are deep-merged with later
// profiles winning on name collisions. Proxy groups are deduplicated by name
// and rules by value, keeping the first occurrence in both cases.
func MergeProfiles(profiles ...Values) (Values, error) {
	var groups []any
	var rules []string
	ruleProviders := map[string]any{}
	proxyProviders := map[string]any{}

	for _, p := range profiles {
		groups = append(groups, p.list("proxy-groups")...)
		rules = append(rules, ExtractRules(p)...)
		if err := mergo.Merge(&ruleProviders, map[string]any(p.section("rule-providers")), mergo.WithOverride); err != nil {
			return nil, err
		}
		if err := mergo.Merge(&proxyProviders, map[string]any(p.section("proxy-providers")), mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	seenNames := make(map[string]struct{})
	uniqueGroups := make([]any, 0, len(groups))
	for _, g := range groups {
		gv, ok := asValues(g)
		if !ok {
			uniqueGroups = append(uniqueGroups, g)
			continue
		}
		name := gv.stringOr("name", "")
		if _, seen := seenNames[name]; seen {
			continue
		}
		seenNames[name] = struct{}{}
		uniqueGroups = append(uniqueGroups, g)
	}

	seenRules := make(map[string]struct{})
	uniqueRules := make([]any, 0, len(rules))
	for _, r := range rules {
		if _, seen := seenRules[r]; seen {
			continue
		}
		seenRules[r] = struct{}{}
		uniqueRules = append(uniqueRules, r)
	}

	return Values{
		"proxy-groups":    uniqueGroups,
		"rules":           uniqueRules,
		"rule-providers":  ruleProviders,
		"proxy-providers": proxyProviders,
	}, nil
}
