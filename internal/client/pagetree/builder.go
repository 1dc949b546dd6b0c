// Package pagetree turns the flat, parent-pointer page list returned by the
// API into the nested forest rendered by the sidebar.
package pagetree

import (
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

const rootKey = ""

// Build returns the forest of pages reachable from the roots (pages without
// a parent). Pages whose parent is missing from the input are dropped.
// Siblings keep their input order; the input is never modified.
func Build(pages []models.Page) []models.PageTreeNode {
	return BuildFrom(pages, nil)
}

// BuildFrom is Build rooted at parentID instead of the top level.
func BuildFrom(pages []models.Page, parentID *string) []models.PageTreeNode {
	// First pass: index children by parent in input order
	byParent := make(map[string][]int, len(pages))
	for i := range pages {
		key := rootKey
		if pages[i].ParentID != nil {
			key = *pages[i].ParentID
		}
		byParent[key] = append(byParent[key], i)
	}

	start := rootKey
	if parentID != nil {
		start = *parentID
	}

	// Second pass: expand from the start key. visited guards against ids that
	// point at themselves or at an ancestor.
	visited := make(map[string]bool, len(pages))
	return expand(pages, byParent, start, 0, visited)
}

func expand(pages []models.Page, byParent map[string][]int, parent string, depth int, visited map[string]bool) []models.PageTreeNode {
	idx := byParent[parent]
	nodes := make([]models.PageTreeNode, 0, len(idx))
	for _, i := range idx {
		page := pages[i]
		if visited[page.ID] {
			continue
		}
		visited[page.ID] = true
		nodes = append(nodes, models.PageTreeNode{
			Page:     page,
			Depth:    depth,
			Children: expand(pages, byParent, page.ID, depth+1, visited),
		})
	}
	return nodes
}

// Databases returns the pages flagged as databases, in input order.
func Databases(pages []models.Page) []models.Page {
	out := make([]models.Page, 0)
	for _, p := range pages {
		if p.IsDatabase {
			out = append(out, p)
		}
	}
	return out
}

// RootPages returns the top-level nodes that are regular pages.
func RootPages(forest []models.PageTreeNode) []models.PageTreeNode {
	out := make([]models.PageTreeNode, 0, len(forest))
	for _, n := range forest {
		if !n.IsDatabase {
			out = append(out, n)
		}
	}
	return out
}

// Walk visits every node depth-first, parents before children. Returning
// false from fn skips the node's subtree.
func Walk(forest []models.PageTreeNode, fn func(node *models.PageTreeNode) bool) {
	for i := range forest {
		if fn(&forest[i]) {
			Walk(forest[i].Children, fn)
		}
	}
}

// Count returns the number of nodes in the forest.
func Count(forest []models.PageTreeNode) int {
	n := 0
	Walk(forest, func(*models.PageTreeNode) bool {
		n++
		return true
	})
	return n
}

// Find returns the node with the given id, or nil.
func Find(forest []models.PageTreeNode, id string) *models.PageTreeNode {
	var found *models.PageTreeNode
	Walk(forest, func(node *models.PageTreeNode) bool {
		if node.ID == id {
			found = node
		}
		return found == nil
	})
	return found
}
