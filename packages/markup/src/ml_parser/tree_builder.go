package ml_parser

import (
	"strings"

	"markup-go/packages/markup/src/util"
)

// Diagnostic codes reported by the tree builder
const (
	DiagnosticUnmatchedCloseTag = "unmatched-close-tag"
	DiagnosticUnclosedElement   = "unclosed-element"
)

// NodeID indexes a node in a Tree
type NodeID int

// RootID is the synthetic root of every tree
const RootID NodeID = 0

// Child is a child of a tree node: either a leaf element or a nested node
type Child struct {
	Element Element
	Node    NodeID
}

// IsNode reports whether the child is a nested node
func (c Child) IsNode() bool {
	return c.Element == nil
}

// TreeNode represents an element with a body. Close is the matching close
// tag; LogicalEnd is the end of that close tag, or where the element was
// closed implicitly.
type TreeNode struct {
	Tag         *OpenTag
	Parent      NodeID
	Children    []Child
	LogicalEnd  int
	Close       *CloseTag
	Diagnostics []*util.Diagnostic
}

// Name returns the tag name of the node, empty for the root
func (n *TreeNode) Name() string {
	if n.Tag == nil {
		return ""
	}
	return n.Tag.Name
}

// Matched reports whether a close tag was matched to the node
func (n *TreeNode) Matched() bool {
	return n.Close != nil
}

// Tree is an arena of nodes rooted at RootID
type Tree struct {
	Nodes  []TreeNode
	Length int
	// Diagnostics are the close tags that matched no open node
	Diagnostics []*util.Diagnostic
}

// Root returns the synthetic root node
func (t *Tree) Root() *TreeNode {
	return &t.Nodes[RootID]
}

// Node returns node id
func (t *Tree) Node(id NodeID) *TreeNode {
	return &t.Nodes[id]
}

// Walk visits the nodes depth-first in document order. Returning false from
// visit skips the children of that node.
func (t *Tree) Walk(visit func(id NodeID, node *TreeNode, depth int) bool) {
	t.walk(RootID, 0, visit)
}

func (t *Tree) walk(id NodeID, depth int, visit func(NodeID, *TreeNode, int) bool) {
	node := &t.Nodes[id]
	if !visit(id, node, depth) {
		return
	}
	for _, child := range node.Children {
		if child.IsNode() {
			t.walk(child.Node, depth+1, visit)
		}
	}
}

// AllDiagnostics returns the tree diagnostics followed by the node
// diagnostics in document order
func (t *Tree) AllDiagnostics() []*util.Diagnostic {
	diagnostics := append([]*util.Diagnostic(nil), t.Diagnostics...)
	t.Walk(func(_ NodeID, node *TreeNode, _ int) bool {
		diagnostics = append(diagnostics, node.Diagnostics...)
		return true
	})
	return diagnostics
}

// ElementIterator is a forward-only element source, such as a Scanner or
// an ElementSequence
type ElementIterator interface {
	HasNext() bool
	Next() Element
}

// TreeOptions represents options for building a tree
type TreeOptions struct {
	// TagModel classifies empty-content elements and optional end tags. Without
	// one, only self-closed tags are leaves.
	TagModel TagModel
	// KeepText retains text elements in the tree
	KeepText bool
}

// TreeBuilder matches open and close tags with a stack of open nodes
type TreeBuilder struct {
	elements ElementIterator
	model    TagModel
	keepText bool
	tree     *Tree
	stack    []NodeID
}

// NewTreeBuilder creates a new TreeBuilder over an input of length bytes
func NewTreeBuilder(elements ElementIterator, length int, options *TreeOptions) *TreeBuilder {
	if options == nil {
		options = &TreeOptions{}
	}
	tree := &Tree{
		Nodes:  []TreeNode{{Parent: -1, LogicalEnd: length}},
		Length: length,
	}
	return &TreeBuilder{
		elements: elements,
		model:    options.TagModel,
		keepText: options.KeepText,
		tree:     tree,
		stack:    []NodeID{RootID},
	}
}

// BuildTree consumes elements and returns their tree
func BuildTree(elements ElementIterator, length int, options *TreeOptions) *Tree {
	return NewTreeBuilder(elements, length, options).Build()
}

// Build consumes the element iterator and returns the tree
func (tb *TreeBuilder) Build() *Tree {
	for tb.elements.HasNext() {
		switch e := tb.elements.Next().(type) {
		case *OpenTag:
			tb.consumeOpenTag(e)
		case *CloseTag:
			tb.consumeCloseTag(e)
		case *Text:
			if tb.keepText {
				tb.addChild(Child{Element: e})
			}
		default:
			tb.addChild(Child{Element: e})
		}
	}
	for len(tb.stack) > 1 {
		tb.closeImplicitly(tb.tree.Length)
	}
	return tb.tree
}

func (tb *TreeBuilder) top() NodeID {
	return tb.stack[len(tb.stack)-1]
}

func (tb *TreeBuilder) addChild(child Child) {
	parent := &tb.tree.Nodes[tb.top()]
	parent.Children = append(parent.Children, child)
}

func (tb *TreeBuilder) consumeOpenTag(tag *OpenTag) {
	if tag.IsVoid || (tb.model != nil && tb.model.IsEmptyContent(tag.Name)) {
		tb.addChild(Child{Element: tag})
		return
	}
	id := NodeID(len(tb.tree.Nodes))
	tb.tree.Nodes = append(tb.tree.Nodes, TreeNode{
		Tag:        tag,
		Parent:     tb.top(),
		LogicalEnd: tag.To(),
	})
	tb.addChild(Child{Node: id})
	tb.stack = append(tb.stack, id)
}

func (tb *TreeBuilder) consumeCloseTag(tag *CloseTag) {
	for depth := len(tb.stack) - 1; depth > 0; depth-- {
		node := &tb.tree.Nodes[tb.stack[depth]]
		if !strings.EqualFold(node.Tag.Name, tag.Name) {
			continue
		}
		for len(tb.stack)-1 > depth {
			tb.closeImplicitly(tag.From())
		}
		node.Close = tag
		node.LogicalEnd = tag.To()
		tb.stack = tb.stack[:depth]
		tb.addChild(Child{Element: tag})
		return
	}
	tb.tree.Diagnostics = append(tb.tree.Diagnostics, util.NewDiagnostic(DiagnosticUnmatchedCloseTag,
		util.DiagnosticSeverityError, tag.From(), tag.To(), "Unexpected closing tag %q", tag.Name))
	tb.addChild(Child{Element: tag})
}

// closeImplicitly pops the top node, ending it at offset
func (tb *TreeBuilder) closeImplicitly(offset int) {
	node := &tb.tree.Nodes[tb.top()]
	node.LogicalEnd = offset
	if tb.model == nil || !tb.model.HasOptionalEndTag(node.Tag.Name) {
		node.Diagnostics = append(node.Diagnostics, util.NewDiagnostic(DiagnosticUnclosedElement,
			util.DiagnosticSeverityWarning, node.Tag.From(), node.Tag.To(), "Element %q is not closed", node.Tag.Name))
	}
	tb.stack = tb.stack[:len(tb.stack)-1]
}
