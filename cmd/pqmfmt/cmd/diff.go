package cmd

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// unifiedDiff renders a unified diff of want vs. got, grounded on
// protocompile's internal/golden diff rendering (spec §6.2's --check mode).
func unifiedDiff(path, want, got string) (string, error) {
	fromFile := path
	if fromFile == "" {
		fromFile = "input"
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: fromFile,
		ToFile:   fmt.Sprintf("%s.formatted", fromFile),
		Context:  2,
	})
}
