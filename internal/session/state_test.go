package session

import (
	"testing"

	"v2browse/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestReduceNavigateCycle(t *testing.T) {
	listing := types.Listing{dir("A", file("f1")), file("B")}

	s := Reduce(State{}, NavigateIssued{Seq: 1, Path: "docs"})
	assert.Equal(t, uint64(1), s.DirSeq)
	assert.True(t, s.Loading())

	s.Selected = keys("B")
	s.File, s.Content = "B", []byte("x")
	s.Err = "Failed to load file"

	s = Reduce(s, ListingLoaded{Seq: 1, Path: "docs/", Items: listing})
	assert.Equal(t, "docs", s.Path)
	assert.Equal(t, listing, s.Listing)
	assert.Empty(t, s.Selected)
	assert.Empty(t, s.File)
	assert.Nil(t, s.Content)
	assert.Empty(t, s.Err)
	assert.False(t, s.Loading())
}

func TestReduceIgnoresStale(t *testing.T) {
	s := Reduce(State{}, NavigateIssued{Seq: 1, Path: "a"})
	s = Reduce(s, NavigateIssued{Seq: 2, Path: "b"})

	assert.True(t, Stale(s, ListingLoaded{Seq: 1}))
	assert.False(t, Stale(s, ListingLoaded{Seq: 2}))

	after := Reduce(s, ListingLoaded{Seq: 1, Path: "a", Items: types.Listing{file("x")}})
	assert.Equal(t, s, after)

	after = Reduce(s, ListingFailed{Seq: 1, Path: "a"})
	assert.Empty(t, after.Err)

	s = Reduce(s, FileIssued{Seq: 3, Name: "x"})
	assert.True(t, Stale(s, FileLoaded{Seq: 2}))
	assert.False(t, Stale(s, FileFailed{Seq: 3}))

	// non-result events are never stale
	assert.False(t, Stale(s, SelectionChanged{}))
}

func TestReduceSelectionSubsetOfListing(t *testing.T) {
	s := Reduce(State{}, NavigateIssued{Seq: 1})
	s = Reduce(s, ListingLoaded{Seq: 1, Items: types.Listing{dir("A", file("f1"), file("f2")), file("B")}})

	s = Reduce(s, SelectionChanged{Keys: map[string]bool{"f1": true, "B": false, "zzz": true, "A": true}})
	assert.Equal(t, keys("f1", "A"), s.Selected)
}

func TestReduceErrors(t *testing.T) {
	s := Reduce(State{}, NavigateIssued{Seq: 1})
	s = Reduce(s, ListingFailed{Seq: 1})
	assert.Equal(t, "Failed to load directory contents", s.Err)
	assert.False(t, s.LoadingDir)

	s = Reduce(s, FileIssued{Seq: 2, Name: "f"})
	s = Reduce(s, FileFailed{Seq: 2, Name: "f"})
	assert.Equal(t, "Failed to load file", s.Err)

	s = Reduce(s, ErrorDismissed{})
	assert.Empty(t, s.Err)
}

func TestReduceContainerSelection(t *testing.T) {
	s := Reduce(State{}, ContainerSelectionChanged{Keys: keys("A", "docs/B")})
	assert.Equal(t, keys("A", "docs/B"), s.ContainerSelected)

	s = Reduce(s, ContainerChanged{Keys: []string{"docs/B", "C"}})
	assert.Equal(t, keys("docs/B"), s.ContainerSelected)

	s = Reduce(s, ContainerSelectionChanged{})
	assert.Empty(t, s.ContainerSelected)
}
