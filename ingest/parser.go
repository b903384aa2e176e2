// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"regexp"
	"strings"

	"github.com/poiesic/docfind/core"
)

// apiLookaheadLines bounds the bullet scan for a "Linked APIs:" directive,
// counted from the directive line itself, so at most nine lines after it
// are considered. Malformed headers can't drag the parser through the
// whole document.
const apiLookaheadLines = 10

var titlePattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// Metadata holds the structured fields parsed from a document header.
// Absent single-valued fields are empty strings; absent lists are empty.
type Metadata struct {
	Title           string
	Module          string
	Route           string
	Status          string
	AuthRequirement string
	Roles           []string
	LinkedAPIs      []string
	FeatureFlags    []string
}

// ParseHeader extracts known header fields from content. Unknown lines are
// ignored and malformed values degrade to empty fields; parsing never fails.
func ParseHeader(content string) Metadata {
	var meta Metadata
	lines := strings.Split(content, "\n")

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "Module:"):
			meta.Module = strings.TrimSpace(strings.TrimPrefix(line, "Module:"))
		case strings.HasPrefix(line, "Roles:"):
			meta.Roles = splitCommaList(strings.TrimPrefix(line, "Roles:"))
		case strings.HasPrefix(line, "Route / URL:"), strings.HasPrefix(line, "Route/URL:"):
			_, value, _ := strings.Cut(line, ":")
			meta.Route = strings.TrimSpace(value)
		case strings.HasPrefix(line, "Status:"):
			meta.Status = strings.TrimSpace(strings.TrimPrefix(line, "Status:"))
		case strings.HasPrefix(line, "Auth Requirement:"):
			meta.AuthRequirement = strings.TrimSpace(strings.TrimPrefix(line, "Auth Requirement:"))
		case strings.HasPrefix(line, "Feature Flags:"):
			meta.FeatureFlags = splitCommaList(strings.TrimPrefix(line, "Feature Flags:"))
		case strings.HasPrefix(line, "Linked APIs:"):
			meta.LinkedAPIs = parseLinkedAPIs(line, lines, i)
		}
	}

	return meta
}

// parseLinkedAPIs collects bullet items from the directive line and the
// bounded window of lines after it, stopping at the next header key.
func parseLinkedAPIs(directive string, lines []string, i int) []string {
	apis := []string{}

	inline := strings.TrimSpace(strings.TrimPrefix(directive, "Linked APIs:"))
	if strings.HasPrefix(inline, "-") {
		if api := strings.TrimSpace(strings.TrimLeft(inline, "- ")); api != "" {
			apis = append(apis, api)
		}
	}

	limit := min(i+apiLookaheadLines, len(lines))
	for j := i + 1; j < limit; j++ {
		next := strings.TrimSpace(lines[j])
		if strings.HasPrefix(next, "-") {
			if api := strings.TrimSpace(strings.TrimLeft(next, "- ")); api != "" {
				apis = append(apis, api)
			}
			continue
		}
		if next != "" && strings.Contains(next, ":") {
			break
		}
	}

	return apis
}

func splitCommaList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ExtractBody returns everything from the first line starting with "###"
// onward. When no such marker exists the full content is the body.
func ExtractBody(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "###") {
			return strings.TrimSpace(strings.Join(lines[i:], "\n"))
		}
	}
	return strings.TrimSpace(content)
}

// ExtractTitle returns the first top-level heading, or fallback when the
// document has none.
func ExtractTitle(content, fallback string) string {
	if m := titlePattern.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return fallback
}

// ParseDocument turns raw document text into a Document. The body is
// prefixed with the title, route, and linked APIs so those fields remain
// visible to keyword ranking, which only sees text.
func ParseDocument(content, fallbackTitle, sourceFile string) *core.Document {
	meta := ParseHeader(content)
	meta.Title = ExtractTitle(content, fallbackTitle)

	body := ExtractBody(content)
	if body == "" {
		body = content
	}

	var sb strings.Builder
	sb.WriteString(meta.Title)
	sb.WriteString("\n\n")
	if meta.Route != "" {
		sb.WriteString("Route: ")
		sb.WriteString(meta.Route)
		sb.WriteString("\n")
	}
	if len(meta.LinkedAPIs) > 0 {
		sb.WriteString("APIs: ")
		sb.WriteString(strings.Join(meta.LinkedAPIs, ", "))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(body)

	return &core.Document{
		Text:            sb.String(),
		Title:           meta.Title,
		Module:          meta.Module,
		Route:           meta.Route,
		Status:          meta.Status,
		AuthRequirement: meta.AuthRequirement,
		Roles:           meta.Roles,
		LinkedAPIs:      meta.LinkedAPIs,
		FeatureFlags:    meta.FeatureFlags,
		SourceFile:      sourceFile,
		ChunkIndex:      0,
		TotalChunks:     1,
	}
}
