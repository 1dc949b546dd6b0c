package workspace

// PageTreeNode is a page together with its nested children.
// Depth is 0 for roots and grows by one per level.
type PageTreeNode struct {
	Page
	Children []PageTreeNode `json:"children"`
	Depth    int            `json:"depth"`
}
