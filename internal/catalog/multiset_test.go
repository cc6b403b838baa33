package catalog_test

import (
	"testing"

	"github.com/dom/account-store/internal/catalog"
	"github.com/stretchr/testify/assert"
)

func TestBuildMultiset(t *testing.T) {
	m := catalog.BuildMultiset([]string{"A", "B", "A"})

	assert.Equal(t, 2, m.Count("A"))
	assert.Equal(t, 1, m.Count("B"))
	assert.Equal(t, 0, m.Count("C"))
	assert.Equal(t, 3, m.Size())
	assert.False(t, m.Empty())
}

func TestBuildMultiset_OrderIndependent(t *testing.T) {
	a := catalog.BuildMultiset([]string{"A", "B", "A", "C"})
	b := catalog.BuildMultiset([]string{"C", "A", "A", "B"})

	assert.Equal(t, a, b)
}

func TestBuildMultiset_Empty(t *testing.T) {
	assert.True(t, catalog.BuildMultiset(nil).Empty())
	assert.True(t, catalog.BuildMultiset([]string{""}).Empty())
}
