// Package naming resolves the display names of chain steps, cases and
// learners: empty names are derived from the value's type and repeated names
// are made unique with a numeric suffix.
package naming

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeName returns the lower-cased name of v's concrete type with pointers
// stripped, e.g. "linearregression" for *linear.LinearRegression. Values of
// unnamed types (func literals and the like) yield "estimator".
func TypeName(v any) string {
	if v == nil {
		return "estimator"
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "estimator"
	}
	return strings.ToLower(t.Name())
}

// Dedupe returns names with every repeated name replaced by name-1, name-2, ...
// in order of appearance. Names that occur once are kept. A generated name
// never collides with a name already present in the input.
func Dedupe(names []string) []string {
	counts := make(map[string]int, len(names))
	for _, n := range names {
		counts[n]++
	}

	taken := make(map[string]bool, len(names))
	for _, n := range names {
		if counts[n] == 1 {
			taken[n] = true
		}
	}

	next := make(map[string]int)
	out := make([]string, len(names))
	for i, n := range names {
		if counts[n] == 1 {
			out[i] = n
			continue
		}
		for {
			next[n]++
			candidate := fmt.Sprintf("%s-%d", n, next[n])
			if !taken[candidate] {
				taken[candidate] = true
				out[i] = candidate
				break
			}
		}
	}
	return out
}
