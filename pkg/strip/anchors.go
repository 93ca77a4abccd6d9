package strip

import (
	"regexp"
	"strings"
)

// anchorDefPattern matches a line whose first non-blank token is an anchor
// definition, e.g. `  &HK 'hk|港'`. The value group is required, so a bare
// anchor line such as `&bare` still matches, with the name's last character
// taken as the value. This is a deliberate line-level heuristic, not a
// grammar-level anchor parser.
var anchorDefPattern = regexp.MustCompile(`^(\s*)&(\w+)\s*(.+)$`)

// aliasPattern matches alias markers (`*name`) in serialized YAML.
var aliasPattern = regexp.MustCompile(`\*(\w+)`)

// ExtractAnchors scans the raw document line by line and returns a table of
// anchor name to its verbatim defining line (original indentation included).
// When a name is defined more than once the last occurrence wins. Lines that
// do not match the definition pattern are skipped; the scan never fails.
func ExtractAnchors(source []byte) map[string]string {
	anchors := make(map[string]string)
	for _, line := range strings.Split(string(source), "\n") {
		m := anchorDefPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent, name, rest := m[1], m[2], m[3]
		anchors[name] = indent + "&" + name + " " + rest
	}
	return anchors
}

// referencedAnchors returns the set of distinct alias names present in a
// serialized YAML document.
func referencedAnchors(serialized []byte) map[string]struct{} {
	refs := make(map[string]struct{})
	for _, m := range aliasPattern.FindAllSubmatch(serialized, -1) {
		refs[string(m[1])] = struct{}{}
	}
	return refs
}
