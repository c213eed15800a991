package storage

import (
	"strings"
)

// legacyMarker prefixes object paths in public URLs written by the hosted
// storage the site used before it moved to S3.
func legacyMarker(bucket string) string {
	return "/storage/v1/object/public/" + bucket + "/"
}

// ExtractPath returns the object key referenced by a public URL, trying the
// configured public base first and the legacy marker second.
func ExtractPath(rawURL, publicBase, bucket string) (string, bool) {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return "", false
	}
	if base := strings.TrimRight(publicBase, "/"); base != "" && strings.HasPrefix(u, base+"/") {
		key := strings.TrimPrefix(u, base+"/")
		return key, key != ""
	}
	marker := legacyMarker(bucket)
	if i := strings.Index(u, marker); i >= 0 {
		key := u[i+len(marker):]
		return key, key != ""
	}
	return "", false
}

// uniqueKeys maps URLs to object keys, dropping blanks, duplicates and URLs
// that do not point into the bucket.
func uniqueKeys(urls []string, publicBase, bucket string) []string {
	seen := make(map[string]struct{}, len(urls))
	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		key, ok := ExtractPath(u, publicBase, bucket)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}
