package lint

import (
	"fmt"
	"strings"
)

// DefaultDocsBaseURL is the hosted documentation site.
const DefaultDocsBaseURL = "https://leapprose.dev/docs/checks"

// DocsBaseURL can be overridden via config for local/offline mode.
var DocsBaseURL = DefaultDocsBaseURL

// BuildDocURL constructs a documentation URL for a check.
// Checks are documented on their category page, anchored by ID.
func BuildDocURL(checkID string) string {
	id := strings.ToLower(checkID)
	return fmt.Sprintf("%s/%s#%s", DocsBaseURL, categoryOf(id), DocAnchor(id))
}

// DocAnchor returns the fragment identifying a check on its category page.
func DocAnchor(checkID string) string {
	return strings.ReplaceAll(strings.ToLower(checkID), ".", "-")
}

// SetDocsBaseURL overrides the default documentation base URL.
// Useful for offline mode or custom documentation sites.
func SetDocsBaseURL(url string) {
	DocsBaseURL = strings.TrimSuffix(url, "/")
}

// ResetDocsBaseURL resets to the default documentation URL.
func ResetDocsBaseURL() {
	DocsBaseURL = DefaultDocsBaseURL
}
