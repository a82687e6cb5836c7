// Package sanitize strips user-supplied rich text down to a fixed tag and
// attribute allowlist before it is persisted or echoed back through the
// audit and notification layers.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "h1", "h2", "h3", "ul", "ol", "li")
	p.AllowStandardURLs()
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	return p
}

// HTML returns text reduced to the allowlist. Style attributes and script
// event handlers never survive.
func HTML(text string) string {
	return policy.Sanitize(text)
}
