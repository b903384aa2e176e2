package storage

import (
	"testing"

	"github.com/poiesic/docfind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	id := core.IDFromContent("webhook setup guide")

	data := MarshalID(id)
	got, err := UnmarshalID(data)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	doc := &core.Document{
		Text:        "Events API\n\nRoute: /developer/events\n\n### Overview\nList events.",
		Title:       "Events API",
		Module:      "Developer Tools",
		Route:       "/developer/events",
		Roles:       []string{"admin"},
		LinkedAPIs:  []string{"GET /developer/events"},
		SourceFile:  "events.md",
		ChunkIndex:  0,
		TotalChunks: 1,
		Vector:      []float32{0.5, -0.25, 1.0},
	}

	data := MarshalDocument(doc)
	got, err := UnmarshalDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestUnmarshalDocumentTruncated(t *testing.T) {
	doc := &core.Document{Text: "body", Title: "T", TotalChunks: 1}
	data := MarshalDocument(doc)

	_, err := UnmarshalDocument(data[:2])
	assert.Error(t, err)
}
