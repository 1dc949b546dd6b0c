package pagetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

func strPtr(s string) *string { return &s }

func page(id string, parent *string) models.Page {
	return models.Page{ID: id, ParentID: parent, Title: id}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		pages     []models.Page
		wantCount int
		wantRoots []string
	}{
		{
			name:      "empty input",
			pages:     nil,
			wantCount: 0,
			wantRoots: []string{},
		},
		{
			name: "orphan is excluded",
			pages: []models.Page{
				page("A", nil),
				page("B", strPtr("A")),
				page("C", strPtr("X")),
			},
			wantCount: 2,
			wantRoots: []string{"A"},
		},
		{
			name: "roots keep input order",
			pages: []models.Page{
				page("r2", nil),
				page("c1", strPtr("r1")),
				page("r1", nil),
			},
			wantCount: 3,
			wantRoots: []string{"r2", "r1"},
		},
		{
			name: "self reference never appears",
			pages: []models.Page{
				page("loop", strPtr("loop")),
				page("A", nil),
			},
			wantCount: 1,
			wantRoots: []string{"A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := Build(tt.pages)
			assert.Equal(t, tt.wantCount, Count(forest))

			roots := make([]string, 0, len(forest))
			for _, n := range forest {
				roots = append(roots, n.ID)
			}
			assert.Equal(t, tt.wantRoots, roots)
		})
	}
}

func TestBuild_OrphanExample(t *testing.T) {
	forest := Build([]models.Page{
		page("A", nil),
		page("B", strPtr("A")),
		page("C", strPtr("X")),
	})

	require.Len(t, forest, 1)
	assert.Equal(t, "A", forest[0].ID)
	assert.Equal(t, 0, forest[0].Depth)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "B", forest[0].Children[0].ID)
	assert.Equal(t, 1, forest[0].Children[0].Depth)
	assert.Empty(t, forest[0].Children[0].Children)
	assert.Nil(t, Find(forest, "C"))
}

func TestBuild_DepthMatchesAncestorCount(t *testing.T) {
	pages := []models.Page{
		page("root", nil),
		page("l1a", strPtr("root")),
		page("l1b", strPtr("root")),
		page("l2", strPtr("l1b")),
		page("l3", strPtr("l2")),
	}
	parents := map[string]*string{}
	for i := range pages {
		parents[pages[i].ID] = pages[i].ParentID
	}

	forest := Build(pages)
	assert.Equal(t, len(pages), Count(forest))

	Walk(forest, func(n *models.PageTreeNode) bool {
		ancestors := 0
		for p := parents[n.ID]; p != nil; p = parents[*p] {
			ancestors++
		}
		assert.Equal(t, ancestors, n.Depth, "depth of %s", n.ID)
		return true
	})

	l1b := Find(forest, "l1b")
	require.NotNil(t, l1b)
	assert.Equal(t, "l2", l1b.Children[0].ID)
}

func TestBuild_Idempotent(t *testing.T) {
	pages := []models.Page{
		page("A", nil),
		page("B", strPtr("A")),
		page("C", strPtr("A")),
		page("D", strPtr("C")),
	}
	snapshot := append([]models.Page(nil), pages...)

	first := Build(pages)
	second := Build(pages)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, pages, "input must not be modified")
}

func TestBuildFrom(t *testing.T) {
	pages := []models.Page{
		page("A", nil),
		page("B", strPtr("A")),
		page("C", strPtr("B")),
	}

	sub := BuildFrom(pages, strPtr("A"))
	require.Len(t, sub, 1)
	assert.Equal(t, "B", sub[0].ID)
	assert.Equal(t, 0, sub[0].Depth)
	assert.Equal(t, "C", sub[0].Children[0].ID)
}

func TestDatabasesAndRootPages(t *testing.T) {
	db := page("db-1", nil)
	db.IsDatabase = true
	pages := []models.Page{page("A", nil), db, page("B", strPtr("A"))}

	dbs := Databases(pages)
	require.Len(t, dbs, 1)
	assert.Equal(t, "db-1", dbs[0].ID)

	roots := RootPages(Build(pages))
	require.Len(t, roots, 1)
	assert.Equal(t, "A", roots[0].ID)
}
