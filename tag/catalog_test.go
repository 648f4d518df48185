package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsFresh(t *testing.T) {
	a := DefaultCatalog()
	b := DefaultCatalog()

	a["61"] = StatementASNB()
	assert.NotSame(t, a["61"], b["61"], "catalogs must not share state")
}

func TestCatalogResolve(t *testing.T) {
	catalog := DefaultCatalog()

	full, err := catalog.Resolve("60F", "60")
	require.NoError(t, err)
	assert.Equal(t, "final_opening_balance", full.Slug)

	// An unregistered sub tag falls back to the bare code.
	bare, err := catalog.Resolve("20X", "20")
	require.NoError(t, err)
	assert.Equal(t, "transaction_reference_number", bare.Slug)

	_, err = catalog.Resolve("99", "99")
	var unknown *UnknownTagError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "99", unknown.Tag)
}

func TestCatalogMerge(t *testing.T) {
	catalog := DefaultCatalog()
	override := StatementASNB()
	catalog.Merge(map[string]*Tag{"61": override})

	got, err := catalog.Resolve("61", "61")
	require.NoError(t, err)
	assert.Same(t, override, got)
}

func TestCatalogHas(t *testing.T) {
	catalog := DefaultCatalog()
	assert.True(t, catalog.Has("86"))
	assert.True(t, catalog.Has("NS"))
	assert.False(t, catalog.Has("99"))
}
