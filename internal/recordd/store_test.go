package recordd

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/salman-113/storefront/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	return store
}

func TestOpenStore_MissingFileStartsEmpty(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, store.Collections())
	assert.Empty(t, store.List("users", nil))
}

func TestStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create("users", Record{"id": "u-1", "name": "Aysha"}))

	rec, err := store.Get("users", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Aysha", rec["name"])

	_, err = store.Get("users", "u-9")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestStore_CreateDuplicateIdRejected(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create("users", Record{"id": "u-1"}))
	err := store.Create("users", Record{"id": "u-1"})
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyPresent))
}

func TestStore_Patch_ShallowMergeReplacesWholeFields(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create("users", Record{
		"id":   "u-1",
		"name": "Aysha",
		"cart": []any{
			Record{"id": "p-1", "quantity": float64(2)},
		},
		"wishlist": []any{
			Record{"id": "p-2"},
		},
	}))

	// Patching cart replaces the whole array; wishlist and name survive.
	merged, err := store.Patch("users", "u-1", Record{
		"cart": []any{},
	})
	require.NoError(t, err)

	assert.Equal(t, "Aysha", merged["name"])
	assert.Empty(t, merged["cart"])
	assert.Len(t, merged["wishlist"], 1)
}

func TestStore_Patch_CannotChangeId(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create("users", Record{"id": "u-1"}))
	merged, err := store.Patch("users", "u-1", Record{"id": "u-2", "name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", merged["id"])

	_, err = store.Get("users", "u-1")
	assert.NoError(t, err)
}

func TestStore_List_QueryFiltersByExactMatch(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create("users", Record{"id": "u-1", "email": "a@b.co", "password": "x"}))
	require.NoError(t, store.Create("users", Record{"id": "u-2", "email": "c@d.co", "password": "y"}))

	matched := store.List("users", url.Values{"email": {"a@b.co"}})
	require.Len(t, matched, 1)
	assert.Equal(t, "u-1", matched[0]["id"])

	// Multi-field query is a conjunction.
	matched = store.List("users", url.Values{"email": {"a@b.co"}, "password": {"wrong"}})
	assert.Empty(t, matched)
}

func TestStore_ListReturnsCopies(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create("users", Record{"id": "u-1", "name": "Aysha"}))

	recs := store.List("users", nil)
	recs[0]["name"] = "mutated"

	rec, err := store.Get("users", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Aysha", rec["name"])
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create("products", Record{"id": "p-1"}))
	require.NoError(t, store.Delete("products", "p-1"))
	assert.Empty(t, store.List("products", nil))

	err := store.Delete("products", "p-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestStore_MutationsPersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	store, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Create("users", Record{"id": "u-1", "name": "Aysha"}))
	_, err = store.Patch("users", "u-1", Record{"name": "Aysha K"})
	require.NoError(t, err)

	reopened, err := OpenStore(path)
	require.NoError(t, err)
	rec, err := reopened.Get("users", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Aysha K", rec["name"])
}

func TestOpenStore_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := OpenStore(path)
	assert.Error(t, err)
}
