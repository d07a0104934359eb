package advance

import (
	"regexp"
	"strings"
)

const (
	fallbackFilename = AppShort + "-Pocket-Advance"
	maxFilenameBase  = 80
)

var nonWordRun = regexp.MustCompile(`[^\w\-]+`)

// SanitizeFilename turns a detail name into a safe PDF file name.
func SanitizeFilename(name string) string {
	if strings.TrimSpace(name) == "" {
		name = fallbackFilename
	}
	base := nonWordRun.ReplaceAllString(name, "_")
	if len(base) > maxFilenameBase {
		base = base[:maxFilenameBase]
	}
	return base + ".pdf"
}
