// Package process filters, groups and aggregates records, and detects
// recurring charges.
package process

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/affanshahid/finny/pkg/record"
)

// FilterInclude keeps records whose source equals one of sources exactly.
func FilterInclude(records []record.Record, sources []string) []record.Record {
	return filter(records, func(r record.Record) bool {
		return slices.Contains(sources, r.Source)
	})
}

// FilterExclude drops records whose source equals one of sources exactly.
func FilterExclude(records []record.Record, sources []string) []record.Record {
	return filter(records, func(r record.Record) bool {
		return !slices.Contains(sources, r.Source)
	})
}

// FilterFuzzyInclude keeps records whose source contains one of needles,
// ignoring case.
func FilterFuzzyInclude(records []record.Record, needles []string) []record.Record {
	fold := cases.Fold()
	folded := make([]string, len(needles))
	for i, n := range needles {
		folded[i] = fold.String(n)
	}

	return filter(records, func(r record.Record) bool {
		source := fold.String(r.Source)
		return slices.ContainsFunc(folded, func(n string) bool {
			return strings.Contains(source, n)
		})
	})
}

func filter(records []record.Record, keep func(record.Record) bool) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
