package sourcing

import "strings"

// MaxQueries is the upper bound on search queries per run.
const MaxQueries = 3

// NormalizeQueries trims, drops blanks, removes exact duplicates keeping the
// first occurrence and caps the list at MaxQueries. Dedup is case-sensitive.
func NormalizeQueries(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, MaxQueries)

	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
		if len(out) == MaxQueries {
			break
		}
	}

	return out
}
