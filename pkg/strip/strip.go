package strip

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"

	yaml "gopkg.in/yaml.v3"
)

// RetainedKeys is the fixed whitelist of top-level keys preserved by Strip.
// It is not configurable. Retained keys keep their source-document order in
// the output.
var RetainedKeys = []string{"proxy-providers", "proxy-groups", "rule-providers", "rules"}

var retainedSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(RetainedKeys))
	for _, k := range RetainedKeys {
		s[k] = struct{}{}
	}
	return s
}()

var (
	// ErrNotMapping is returned when the document root is not a YAML mapping.
	ErrNotMapping = errors.New("document root is not a mapping")
	// ErrNoRetainedKeys is returned when none of the whitelisted top-level
	// keys are present, so there is nothing to emit.
	ErrNoRetainedKeys = errors.New("no retainable content")
)

// Counts reports how many entries each retained section carries.
type Counts struct {
	ProxyProviders int `json:"proxy_providers"`
	ProxyGroups    int `json:"proxy_groups"`
	RuleProviders  int `json:"rule_providers"`
	Rules          int `json:"rules"`
}

// Document is the result of stripping one source file: the serialized
// retained configuration plus the anchor replay lines it still references.
type Document struct {
	Counts  Counts
	body    []byte
	anchors map[string]string
}

// Strip reduces one YAML document to its retained top-level sections.
//
// The source is parsed through the yaml.v3 node API, which keeps anchor and
// alias identity intact, so an alias in a retained section still serializes
// as `*name` and its defining line (recovered textually by ExtractAnchors)
// can be replayed in the output header. Anchors referenced only from dropped
// sections are excluded.
//
// A syntactically invalid document returns the parse error. A document whose
// root is not a mapping returns ErrNotMapping, and one with no whitelisted
// keys returns ErrNoRetainedKeys; callers are expected to skip such files.
func Strip(source []byte) (*Document, error) {
	anchors := ExtractAnchors(source)

	var root yaml.Node
	if err := yaml.Unmarshal(source, &root); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if root.Kind == 0 {
		return nil, ErrNoRetainedKeys
	}
	top := &root
	if top.Kind == yaml.DocumentNode {
		if len(top.Content) == 0 {
			return nil, ErrNoRetainedKeys
		}
		top = top.Content[0]
	}
	if top.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}

	retained := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	var counts Counts
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		if _, ok := retainedSet[key.Value]; !ok {
			continue
		}
		retained.Content = append(retained.Content, key, value)
		switch key.Value {
		case "proxy-providers":
			counts.ProxyProviders = entryCount(value)
		case "proxy-groups":
			counts.ProxyGroups = entryCount(value)
		case "rule-providers":
			counts.RuleProviders = entryCount(value)
		case "rules":
			counts.Rules = entryCount(value)
		}
	}
	if len(retained.Content) == 0 {
		return nil, ErrNoRetainedKeys
	}

	blockStyle(retained)
	body, err := encodeNode(retained)
	if err != nil {
		return nil, fmt.Errorf("serializing retained config: %w", err)
	}

	// Keep only the anchors the retained content still references; unknown
	// names are dropped, never fabricated.
	live := make(map[string]string)
	for name := range referencedAnchors(body) {
		if line, ok := anchors[name]; ok {
			live[name] = line
		}
	}

	return &Document{Counts: counts, body: body, anchors: live}, nil
}

// StripFile reads one file from the given filesystem and strips it.
func StripFile(fsys fs.FS, name string) (*Document, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return Strip(data)
}

// Anchors returns the names of the anchor definitions that will be replayed
// in the rendered output, sorted.
func (d *Document) Anchors() []string {
	names := make([]string, 0, len(d.anchors))
	for name := range d.anchors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const anchorBanner = "# ============================================================================"

// Render produces the final output document: the anchor replay block (only
// when non-empty, lines ordered by anchor name) followed by the retained
// configuration in block-style YAML.
func (d *Document) Render() []byte {
	if len(d.anchors) == 0 {
		return d.body
	}

	var buf bytes.Buffer
	buf.WriteString(anchorBanner + "\n")
	buf.WriteString("# 锚點定義 (Anchors)\n")
	buf.WriteString(anchorBanner + "\n")
	for _, name := range d.Anchors() {
		buf.WriteString(d.anchors[name])
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(d.body)
	return buf.Bytes()
}

// entryCount counts the direct children of a mapping or sequence node,
// resolving one level of alias indirection.
func entryCount(n *yaml.Node) int {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		return len(n.Content) / 2
	case yaml.SequenceNode:
		return len(n.Content)
	default:
		return 0
	}
}

// blockStyle clears flow styling recursively so the output is always emitted
// in block form, regardless of how the source was written. Alias nodes have
// no content of their own and terminate the recursion.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func encodeNode(n *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
