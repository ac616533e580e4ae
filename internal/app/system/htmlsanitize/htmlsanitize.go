// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-generated HTML
// before it is stored. Post content and publication bodies pass through
// Sanitize on every write.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with scripts, event handlers, and javascript: URLs
// removed. Standard formatting tags (p, strong, em, a, lists, images)
// survive.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}
