// Package aggregate holds the pure helpers that turn fetched record slices
// into page-ready shapes: key counting and in-memory substring filtering.
package aggregate

import "strings"

// CountBy folds records into a key -> occurrence count map. The key function
// reports ok=false for records without a grouping key (for example a NULL
// foreign key); those records are skipped. Every keyed record counts exactly
// once, so duplicate keys accumulate rather than collapse.
func CountBy[T any, K comparable](records []T, key func(T) (K, bool)) map[K]int {
	counts := make(map[K]int, len(records))
	for _, record := range records {
		k, ok := key(record)
		if !ok {
			continue
		}
		counts[k]++
	}
	return counts
}

// FilterBySubstring returns the records where at least one extracted field
// contains term as a case-insensitive substring. A term that trims to empty
// matches everything: the input slice is returned unchanged, in order.
// Fields may return nil for records missing that field; nil never matches.
func FilterBySubstring[T any](records []T, term string, fields ...func(T) *string) []T {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return records
	}

	var matched []T
	for _, record := range records {
		for _, field := range fields {
			value := field(record)
			if value == nil {
				continue
			}
			if strings.Contains(strings.ToLower(*value), needle) {
				matched = append(matched, record)
				break
			}
		}
	}
	return matched
}
