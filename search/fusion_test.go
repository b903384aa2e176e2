package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docfind/core"
)

func TestFuseSingleList(t *testing.T) {
	docs := []*core.Document{
		makeDoc("A", "alpha"),
		makeDoc("B", "bravo"),
		makeDoc("C", "charlie"),
	}
	fused := Fuse([][]*core.Document{docs}, DefaultRRFConstant)
	require.Len(t, fused, 3)

	// Rank r contributes 1/(60+r+1).
	assert.InDelta(t, 1.0/61.0, fused[0].Score, 1e-12)
	assert.InDelta(t, 1.0/62.0, fused[1].Score, 1e-12)
	assert.InDelta(t, 1.0/63.0, fused[2].Score, 1e-12)
	assert.Equal(t, "A", fused[0].Document.Title)
	assert.Equal(t, "C", fused[2].Document.Title)
}

func TestFuseAccumulatesAcrossLists(t *testing.T) {
	a := makeDoc("A", "alpha content")
	b := makeDoc("B", "bravo content")

	// A appears at rank 0 in one list and rank 1 in the other; B leads the
	// second list but appears nowhere else. A's combined score must win.
	fused := Fuse([][]*core.Document{
		{a},
		{b, a},
	}, DefaultRRFConstant)
	require.Len(t, fused, 2)

	assert.Equal(t, "A", fused[0].Document.Title)
	assert.InDelta(t, 1.0/61.0+1.0/62.0, fused[0].Score, 1e-12)
	assert.Equal(t, "B", fused[1].Document.Title)
	assert.InDelta(t, 1.0/61.0, fused[1].Score, 1e-12)
}

func TestFuseDeduplicatesByContent(t *testing.T) {
	// Same text under different titles is the same document.
	first := makeDoc("Original", "shared body")
	second := makeDoc("Duplicate", "shared body")
	require.Equal(t, first.ID(), second.ID())

	fused := Fuse([][]*core.Document{{first}, {second}}, DefaultRRFConstant)
	require.Len(t, fused, 1)
	assert.InDelta(t, 2.0/61.0, fused[0].Score, 1e-12)
}

func TestFuseTieBreaksByFirstAppearance(t *testing.T) {
	a := makeDoc("A", "alpha")
	b := makeDoc("B", "bravo")

	// Both documents sit at rank 0 of their own list and nowhere else, so
	// their scores tie exactly. The list order decides.
	fused := Fuse([][]*core.Document{{a}, {b}}, DefaultRRFConstant)
	require.Len(t, fused, 2)
	assert.Equal(t, "A", fused[0].Document.Title)
	assert.Equal(t, "B", fused[1].Document.Title)

	flipped := Fuse([][]*core.Document{{b}, {a}}, DefaultRRFConstant)
	assert.Equal(t, "B", flipped[0].Document.Title)
}

func TestFuseIsDeterministic(t *testing.T) {
	lists := [][]*core.Document{
		{makeDoc("A", "alpha"), makeDoc("B", "bravo"), makeDoc("C", "charlie")},
		{makeDoc("C", "charlie"), makeDoc("D", "delta"), makeDoc("A", "alpha")},
	}

	first := Fuse(lists, DefaultRRFConstant)
	for range 10 {
		again := Fuse(lists, DefaultRRFConstant)
		require.Len(t, again, len(first))
		for i := range first {
			assert.Equal(t, first[i].Document.ID(), again[i].Document.ID())
			assert.Equal(t, first[i].Score, again[i].Score)
		}
	}
}

func TestFuseCompleteness(t *testing.T) {
	lists := [][]*core.Document{
		{makeDoc("A", "alpha"), makeDoc("B", "bravo")},
		{makeDoc("C", "charlie")},
		nil,
	}
	fused := Fuse(lists, DefaultRRFConstant)
	assert.Len(t, fused, 3)
}

func TestFuseEmptyInput(t *testing.T) {
	assert.Empty(t, Fuse(nil, DefaultRRFConstant))
	assert.Empty(t, Fuse([][]*core.Document{nil, {}}, DefaultRRFConstant))
}
