package catalog

// Category is one active storefront category as exposed to clients.
type Category struct {
	ID       int64  `json:"id"`
	ParentID *int64 `json:"parentId"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
	Slug     string `json:"slug"`
}

// CategoryTreeNode is a category plus its ordered children. Trees are built
// fresh per request and never persisted.
type CategoryTreeNode struct {
	Category
	Children []*CategoryTreeNode `json:"children"`
}

// BuildCategoryForest links one fetched page of categories into a forest.
// A node becomes a child only when its parent is present in the same page;
// otherwise it surfaces as a root. Parents outside the page window therefore
// produce pseudo-roots, an accepted approximation of the full tree.
func BuildCategoryForest(items []Category) []*CategoryTreeNode {
	nodes := make(map[int64]*CategoryTreeNode, len(items))
	for _, item := range items {
		nodes[item.ID] = &CategoryTreeNode{Category: item, Children: make([]*CategoryTreeNode, 0)}
	}

	roots := make([]*CategoryTreeNode, 0, len(items))
	for _, item := range items {
		node := nodes[item.ID]
		if item.ParentID != nil {
			if parent, ok := nodes[*item.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
