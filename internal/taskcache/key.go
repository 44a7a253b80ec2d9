package taskcache

import (
	"fmt"
	"sort"
	"strings"
)

// keyPrefix namespaces listing entries in shared backing stores.
const keyPrefix = "task_cache:"

// ComputeKey derives the cache key for one listing page from the filter set,
// page number, and page size. Filters are serialized in sorted key order so
// that equal filter sets produce identical keys regardless of how the caller
// assembled the map.
func ComputeKey(filters map[string]string, page, pageSize int) string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(keyPrefix)
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(filters[name])
		b.WriteByte('&')
	}
	fmt.Fprintf(&b, "p%d_s%d", page, pageSize)

	return b.String()
}
