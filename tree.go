package peg

import (
	"fmt"
	"strconv"
)

// Node is a successful match of an observable rule
type Node struct {
	Name     string
	Start    Position
	End      Position
	Children []*Node
}

// Text returns what the node matched within `data`, the buffer the
// parse ran over
func (n *Node) Text(data []byte) string {
	return string(data[n.Start.Offset:n.End.Offset])
}

func (n *Node) String() string {
	return n.Format(PlainFormat)
}

// Format prints the node and its children as a tree, passing each
// piece of text through `format`
func (n *Node) Format(format FormatFunc[FormatToken]) string {
	p := nodePrinter{newTreePrinter(format)}
	p.visit(n)
	return p.String()
}

// TreeBuilder is a control that records the matches of observable
// rules as a tree.  Failed matches and everything matched within them
// are dropped.
type TreeBuilder struct {
	Normal
	roots []*Node
	stack []*Node
}

func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{}
}

func (t *TreeBuilder) Start(in *Input, r Rule, _ ...any) {
	t.stack = append(t.stack, &Node{Name: Name(r), Start: in.Position()})
}

func (t *TreeBuilder) Success(in *Input, _ Rule, _ ...any) {
	n := t.pop()
	n.End = in.Position()
	if len(t.stack) == 0 {
		t.roots = append(t.roots, n)
		return
	}
	parent := t.stack[len(t.stack)-1]
	parent.Children = append(parent.Children, n)
}

func (t *TreeBuilder) Failure(*Input, Rule, ...any) {
	t.pop()
}

func (t *TreeBuilder) pop() *Node {
	n := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return n
}

// Roots returns the outermost nodes recorded so far
func (t *TreeBuilder) Roots() []*Node { return t.roots }

// Root returns the last outermost node recorded, which is the start
// rule after a successful parse
func (t *TreeBuilder) Root() *Node {
	if len(t.roots) == 0 {
		return nil
	}
	return t.roots[len(t.roots)-1]
}

// Reset drops everything recorded so the builder can be reused
func (t *TreeBuilder) Reset() {
	t.roots = nil
	t.stack = nil
}

type nodePrinter struct {
	*treePrinter[FormatToken]
}

func (p nodePrinter) visit(n *Node) {
	p.write(p.format(n.Name, FormatToken_Literal))
	p.write(p.format(" ("+formatSpan(n.Start, n.End)+")", FormatToken_Span))
	if len(n.Children) == 0 {
		return
	}
	p.writel("")
	p.children(len(n.Children), func(i int) { p.visit(n.Children[i]) })
}

// formatSpan prints "line:col-line:col", or just the columns when
// the span is within the first line
func formatSpan(start, end Position) string {
	if start.Line == end.Line && start.Line == 1 {
		if start.Column == end.Column {
			return strconv.Itoa(start.Column)
		}
		return fmt.Sprintf("%d..%d", start.Column, end.Column)
	}
	if start.Line == end.Line && start.Column == end.Column {
		return fmt.Sprintf("%d:%d", start.Line, start.Column)
	}
	return fmt.Sprintf("%d:%d..%d:%d", start.Line, start.Column, end.Line, end.Column)
}

// PrintRule prints how `r` is composed as a tree.  Named rules within
// `r` are printed by name only.
func PrintRule(r Rule) string {
	return FormatRule(r, PlainFormat)
}

// FormatRule is PrintRule passing each piece of text through `format`
func FormatRule(r Rule, format FormatFunc[FormatToken]) string {
	p := rulePrinter{newTreePrinter(format)}
	if d, ok := r.(*Def); ok {
		p.write(p.format(d.Name(), FormatToken_Operator))
		if d.Body() == nil {
			p.write(p.format(" (undefined)", FormatToken_Error))
			return p.String()
		}
		p.writel("")
		p.children(1, func(int) { p.visit(d.Body()) })
		return p.String()
	}
	p.visit(r)
	return p.String()
}

type rulePrinter struct {
	*treePrinter[FormatToken]
}

func (p rulePrinter) visit(r Rule) {
	c, ok := r.(composite)
	if !ok {
		token := FormatToken_Literal
		if _, named := r.(*Def); named {
			token = FormatToken_Operand
		}
		p.write(p.format(Name(r), token))
		return
	}
	parts := c.parts()
	p.write(p.format(c.title(), FormatToken_Operator))
	if len(parts) == 0 {
		return
	}
	p.writel("")
	p.children(len(parts), func(i int) { p.visit(parts[i]) })
}
