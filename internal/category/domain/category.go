package domain

import "sort"

// Category 类目平铺记录，缓存外部存储的就是这个形态
type Category struct {
	ID       int64  `json:"id" gorm:"column:id;primaryKey"`
	ParentID *int64 `json:"parent_id" gorm:"column:parent_id;index"`
	Name     string `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Depth    int    `json:"depth" gorm:"column:depth"`
}

func (Category) TableName() string { return "categories" }

// Node 树节点，父子指针在进程内重建
type Node struct {
	Category
	Parent   *Node
	Children []*Node
}

// Tree 类目树
type Tree struct {
	nodes map[int64]*Node
	roots []*Node
}

// BuildTree 把平铺列表重建为父子链接的树。纯函数，与缓存传输无关。
// 父节点缺失的记录按根节点处理。
func BuildTree(flat []Category) *Tree {
	nodes := make(map[int64]*Node, len(flat))
	for _, c := range flat {
		nodes[c.ID] = &Node{Category: c}
	}

	var roots []*Node
	for _, c := range flat {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok {
				node.Parent = parent
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	for _, n := range nodes {
		sort.Slice(n.Children, func(i, j int) bool { return n.Children[i].ID < n.Children[j].ID })
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].ID < roots[j].ID })

	return &Tree{nodes: nodes, roots: roots}
}

// Get 按 ID 取节点
func (t *Tree) Get(id int64) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// PathOf 返回根到该节点的名称路径，如 "Clothing > Shoes > Sneakers"
func (t *Tree) PathOf(id int64) (string, bool) {
	node, ok := t.nodes[id]
	if !ok {
		return "", false
	}

	var names []string
	for n := node; n != nil; n = n.Parent {
		names = append(names, n.Name)
	}
	// 反转为根在前
	path := ""
	for i := len(names) - 1; i >= 0; i-- {
		if path != "" {
			path += " > "
		}
		path += names[i]
	}
	return path, true
}

// SubtreeIDs 返回该节点及其全部后代的 ID（先序）
func (t *Tree) SubtreeIDs(id int64) []int64 {
	node, ok := t.nodes[id]
	if !ok {
		return nil
	}

	var ids []int64
	var walk func(n *Node)
	walk = func(n *Node) {
		ids = append(ids, n.ID)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(node)
	return ids
}

// Size 节点总数
func (t *Tree) Size() int { return len(t.nodes) }
