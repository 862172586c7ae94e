package monitor

import (
	"path/filepath"
	"strings"
)

// partialDownloadExts are extensions browsers and download managers use for
// in-flight transfers. Files carrying them are ignored until renamed.
var partialDownloadExts = map[string]struct{}{
	".tmp":         {},
	".temp":        {},
	".crdownload":  {},
	".part":        {},
	".partial":     {},
	".download":    {},
	".downloading": {},
}

// ignoredNames are OS metadata files that never belong in the library.
var ignoredNames = map[string]struct{}{
	"thumbs.db":   {},
	"desktop.ini": {},
	".ds_store":   {},
	".localized":  {},
}

// IgnoreReason reports why a file should be excluded from organization, or
// an empty string when it qualifies. minSize filters incomplete writes.
func IgnoreReason(path string, size, minSize int64) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)

	if _, ok := ignoredNames[lower]; ok {
		return "system metadata file"
	}
	if strings.HasPrefix(base, ".") {
		return "hidden file"
	}
	if _, ok := partialDownloadExts[strings.ToLower(filepath.Ext(base))]; ok {
		return "partial download"
	}
	if size < minSize {
		return "below minimum size"
	}
	return ""
}
