package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func sampleFlat() []Category {
	return []Category{
		{ID: 1, Name: "Clothing"},
		{ID: 2, ParentID: ptr(1), Name: "Shoes"},
		{ID: 3, ParentID: ptr(2), Name: "Sneakers"},
		{ID: 4, ParentID: ptr(2), Name: "Boots"},
		{ID: 5, Name: "Food"},
	}
}

func TestBuildTreeLinksParents(t *testing.T) {
	tree := BuildTree(sampleFlat())
	require.Equal(t, 5, tree.Size())

	sneakers, ok := tree.Get(3)
	require.True(t, ok)
	require.NotNil(t, sneakers.Parent)
	assert.Equal(t, int64(2), sneakers.Parent.ID)

	shoes, _ := tree.Get(2)
	require.Len(t, shoes.Children, 2)
	assert.Equal(t, int64(3), shoes.Children[0].ID)
}

func TestPathOf(t *testing.T) {
	tree := BuildTree(sampleFlat())

	path, ok := tree.PathOf(3)
	require.True(t, ok)
	assert.Equal(t, "Clothing > Shoes > Sneakers", path)

	path, ok = tree.PathOf(5)
	require.True(t, ok)
	assert.Equal(t, "Food", path)

	_, ok = tree.PathOf(99)
	assert.False(t, ok)
}

func TestSubtreeIDs(t *testing.T) {
	tree := BuildTree(sampleFlat())

	assert.Equal(t, []int64{2, 3, 4}, tree.SubtreeIDs(2))
	assert.Equal(t, []int64{1, 2, 3, 4}, tree.SubtreeIDs(1))
	assert.Equal(t, []int64{5}, tree.SubtreeIDs(5))
	assert.Nil(t, tree.SubtreeIDs(99))
}

// 父节点缺失的记录按根节点处理，不丢弃
func TestBuildTreeOrphanBecomesRoot(t *testing.T) {
	tree := BuildTree([]Category{
		{ID: 10, ParentID: ptr(999), Name: "Orphan"},
	})

	path, ok := tree.PathOf(10)
	require.True(t, ok)
	assert.Equal(t, "Orphan", path)
}
