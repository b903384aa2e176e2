package search

import (
	"fmt"
	"strings"

	"github.com/poiesic/docfind/core"
)

// FormatContext renders retrieved documents as a numbered context block for
// a generation prompt. Documents are numbered from 1; missing route or API
// metadata is rendered as N/A so the block shape stays constant.
func FormatContext(docs []*core.Document) string {
	parts := make([]string, len(docs))
	for i, doc := range docs {
		route := doc.Route
		if route == "" {
			route = "N/A"
		}
		apis := "N/A"
		if len(doc.LinkedAPIs) > 0 {
			apis = strings.Join(doc.LinkedAPIs, ", ")
		}
		parts[i] = fmt.Sprintf("[Document %d]\nTitle: %s\nRoute: %s\nAPIs: %s\nContent:\n%s\n",
			i+1, doc.Title, route, apis, doc.Text)
	}
	return strings.Join(parts, "\n---\n")
}
