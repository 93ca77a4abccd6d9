// Package yamlutil provides semantic YAML comparison helpers used by tests
// across the repository. Comparisons are performed on canonicalized
// re-serializations, so formatting, key order and comments do not matter.
package yamlutil

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
	syaml "sigs.k8s.io/yaml"
)

// Equal reports whether two YAML documents describe the same structure.
// Both documents are unmarshalled and re-marshalled through a canonical
// (key-sorted) encoder before comparing.
func Equal(a, b []byte) (bool, error) {
	ca, err := canonicalize(a)
	if err != nil {
		return false, err
	}
	cb, err := canonicalize(b)
	if err != nil {
		return false, err
	}
	return string(ca) == string(cb), nil
}

// Diff returns a unified diff of the canonical forms of two YAML documents,
// or the empty string when either document fails to parse.
func Diff(a, b []byte) string {
	ca, err := canonicalize(a)
	if err != nil {
		return ""
	}
	cb, err := canonicalize(b)
	if err != nil {
		return ""
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(ca)),
		B:        difflib.SplitLines(string(cb)),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  1,
	})
	return diff
}

var spewConfig = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	DisableMethods:          true,
	MaxDepth:                10,
}

// DiffValues returns a unified diff of the spew dumps of two in-memory
// structures, useful for test failure messages on non-YAML values.
func DiffValues(expected, actual any) string {
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(spewConfig.Sdump(expected)),
		B:        difflib.SplitLines(spewConfig.Sdump(actual)),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  1,
	})
	return diff
}

func canonicalize(doc []byte) ([]byte, error) {
	if len(doc) == 0 {
		return nil, nil
	}
	var v any
	if err := syaml.Unmarshal(doc, &v); err != nil {
		return nil, err
	}
	return syaml.Marshal(v)
}
