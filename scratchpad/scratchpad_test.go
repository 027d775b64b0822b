package scratchpad_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/memalpha/memalpha/scratchpad"
)

func newStore(t *testing.T) *scratchpad.Store {
	t.Helper()
	store, err := scratchpad.New(t.TempDir())
	gt.NoError(t, err)
	return store
}

func TestStore_CreateAndGet(t *testing.T) {
	store := newStore(t)

	pad, err := store.Create("p1", "a1", "initial notes")
	gt.NoError(t, err)
	gt.True(t, pad != nil)
	gt.Equal(t, pad.ProjectID, "p1")
	gt.Equal(t, pad.AgentID, "a1")
	gt.Equal(t, pad.Content, "initial notes")

	got, err := store.Get("p1", "a1")
	gt.NoError(t, err)
	gt.True(t, got != nil)
	gt.Equal(t, got.Content, "initial notes")
	gt.True(t, got.CreatedAt.Equal(pad.CreatedAt))
}

func TestStore_CreateDuplicateReturnsNil(t *testing.T) {
	store := newStore(t)

	_, err := store.Create("p1", "a1", "first")
	gt.NoError(t, err)

	dup, err := store.Create("p1", "a1", "second")
	gt.NoError(t, err)
	gt.True(t, dup == nil)

	// The original content survives the refused create.
	got, err := store.Get("p1", "a1")
	gt.NoError(t, err)
	gt.Equal(t, got.Content, "first")
}

func TestStore_GetMissingReturnsNil(t *testing.T) {
	store := newStore(t)

	got, err := store.Get("p1", "a1")
	gt.NoError(t, err)
	gt.True(t, got == nil)
}

func TestStore_Update(t *testing.T) {
	store := newStore(t)

	pad, err := store.Create("p1", "a1", "before")
	gt.NoError(t, err)

	updated, err := store.Update("p1", "a1", "after")
	gt.NoError(t, err)
	gt.True(t, updated != nil)
	gt.Equal(t, updated.Content, "after")
	gt.True(t, updated.CreatedAt.Equal(pad.CreatedAt))
	gt.True(t, !updated.UpdatedAt.Before(pad.UpdatedAt))

	got, err := store.Get("p1", "a1")
	gt.NoError(t, err)
	gt.Equal(t, got.Content, "after")
}

func TestStore_UpdateMissingReturnsNil(t *testing.T) {
	store := newStore(t)

	updated, err := store.Update("p1", "a1", "content")
	gt.NoError(t, err)
	gt.True(t, updated == nil)
}

func TestStore_Delete(t *testing.T) {
	store := newStore(t)

	_, err := store.Create("p1", "a1", "short-lived")
	gt.NoError(t, err)

	gt.True(t, store.Delete("p1", "a1"))

	got, err := store.Get("p1", "a1")
	gt.NoError(t, err)
	gt.True(t, got == nil)

	gt.False(t, store.Delete("p1", "a1"))
	gt.False(t, store.Delete("", "a1"))
}

func TestStore_List(t *testing.T) {
	store := newStore(t)

	_, err := store.Create("p1", "a1", "one")
	gt.NoError(t, err)
	_, err = store.Create("p1", "a2", "two")
	gt.NoError(t, err)
	_, err = store.Create("p2", "a1", "three")
	gt.NoError(t, err)

	all, err := store.List("", "")
	gt.NoError(t, err)
	gt.Equal(t, len(all), 3)

	byProject, err := store.List("p1", "")
	gt.NoError(t, err)
	gt.Equal(t, len(byProject), 2)

	byAgent, err := store.List("", "a1")
	gt.NoError(t, err)
	gt.Equal(t, len(byAgent), 2)

	both, err := store.List("p2", "a1")
	gt.NoError(t, err)
	gt.Equal(t, len(both), 1)
	gt.Equal(t, both[0].Content, "three")
}

func TestStore_ListSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := scratchpad.New(dir)
	gt.NoError(t, err)

	_, err = store.Create("p1", "a1", "valid")
	gt.NoError(t, err)
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))

	pads, err := store.List("", "")
	gt.NoError(t, err)
	gt.Equal(t, len(pads), 1)
}

func TestStore_ScopeValidation(t *testing.T) {
	store := newStore(t)

	_, err := store.Create("", "a1", "x")
	gt.True(t, errors.Is(err, scratchpad.ErrMissingProjectID))

	_, err = store.Get("p1", "")
	gt.True(t, errors.Is(err, scratchpad.ErrMissingAgentID))
}

func TestStore_SanitizedScopesStayDistinct(t *testing.T) {
	store := newStore(t)

	first, err := store.Create("team/alpha", "agent-1", "alpha notes")
	gt.NoError(t, err)
	gt.True(t, first != nil)

	got, err := store.Get("team/alpha", "agent-1")
	gt.NoError(t, err)
	gt.True(t, got != nil)
	gt.Equal(t, got.ProjectID, "team/alpha")
	gt.Equal(t, got.Content, "alpha notes")
}
