package search

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/govscout/govscout/src/models"
)

// CacheKey canonicalizes a filter set into a deterministic cache key.
// Fields are serialized in sorted name order, so identically-valued filters
// always hit the same entry regardless of how they were constructed.
func CacheKey(filters models.SearchFilters) string {
	fields := map[string]string{
		"keyword":     filters.Keyword,
		"naics_code":  filters.NaicsCode,
		"agency":      filters.Agency,
		"set_aside":   filters.SetAside,
		"posted_from": filters.PostedFrom,
		"posted_to":   filters.PostedTo,
	}
	if filters.Limit > 0 {
		fields["limit"] = strconv.Itoa(filters.Limit)
	}
	if filters.Offset > 0 {
		fields["offset"] = strconv.Itoa(filters.Offset)
	}

	names := make([]string, 0, len(fields))
	for name, value := range fields {
		if value != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(fields[name])
		sb.WriteByte('&')
	}

	hash := md5.Sum([]byte(sb.String()))
	return "search:" + hex.EncodeToString(hash[:])
}
