package output

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	descriptionColumn = 36
)

// TreeNode represents a node in the file tree.
type TreeNode struct {
	Name        string
	Description string
	IsDir       bool
	Children    []*TreeNode
}

// RenderFileTree renders the files below root as a tree, with descriptions
// aligned in a column. Files maps slash or OS separated relative paths to
// their descriptions; an empty description prints the name only.
func RenderFileTree(root string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	tree := &TreeNode{Name: root, IsDir: true}

	for path, desc := range files {
		parts := strings.Split(filepath.ToSlash(path), "/")
		current := tree

		for i, part := range parts {
			leaf := i == len(parts)-1

			idx := slices.IndexFunc(current.Children, func(c *TreeNode) bool { return c.Name == part })
			var child *TreeNode
			if idx >= 0 {
				child = current.Children[idx]
			} else {
				child = &TreeNode{Name: part, IsDir: !leaf}
				current.Children = append(current.Children, child)
			}

			if leaf {
				child.Description = desc
			}
			current = child
		}
	}

	sortTree(tree)

	var sb strings.Builder
	renderNode(&sb, GetStyles(), tree, "", true, true)
	return sb.String()
}

// sortTree orders directories before files, then by name.
func sortTree(node *TreeNode) {
	slices.SortFunc(node.Children, func(a, b *TreeNode) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})

	for _, child := range node.Children {
		sortTree(child)
	}
}

func renderNode(sb *strings.Builder, styles *Styles, node *TreeNode, prefix string, isRoot, isLast bool) {
	if isRoot {
		sb.WriteString(styles.Bold.Render(node.Name + "/"))
		sb.WriteString("\n")
	} else {
		connector := treeEdge
		if isLast {
			connector = treeLast
		}

		name := node.Name
		if node.IsDir {
			name += "/"
		}
		line := prefix + connector + name

		if node.Description != "" {
			padding := descriptionColumn - len([]rune(line))
			if padding < 2 {
				padding = 2
			}
			line += strings.Repeat(" ", padding) + styles.Muted.Render(node.Description)
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	for i, child := range node.Children {
		childPrefix := ""
		if !isRoot {
			if isLast {
				childPrefix = prefix + treeSpace
			} else {
				childPrefix = prefix + treeVert
			}
		}
		renderNode(sb, styles, child, childPrefix, false, i == len(node.Children)-1)
	}
}
