package sheetcalc

import "fmt"

// treeBuilder assembles an expression tree from the post-order event stream
// the grammar adapter produces. It is a stack machine: each event pops its
// operands and pushes the combined node.
type treeBuilder struct {
	stack []exprNode
	refs  *RefTable
}

func newTreeBuilder() *treeBuilder {
	return &treeBuilder{refs: NewRefTable()}
}

func (b *treeBuilder) push(n exprNode) {
	b.stack = append(b.stack, n)
}

func (b *treeBuilder) pop() exprNode {
	n := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return n
}

// PushLiteral pushes a raw numeric literal.
func (b *treeBuilder) PushLiteral(text string) {
	b.push(&literalNode{text: text})
}

// PushCell resolves a cell name and pushes a reference leaf. Leaves naming
// the same cell share one handle, interned through the reference table.
func (b *treeBuilder) PushCell(name string) error {
	pos := ParsePosition(name)
	if !pos.IsValid() {
		return fmt.Errorf("invalid cell reference %q", name)
	}
	b.push(&cellNode{handle: b.refs.GetOrInsert(pos)})
	return nil
}

// WrapParens groups the node on top of the stack.
func (b *treeBuilder) WrapParens() {
	b.push(newParens(b.pop()))
}

// ApplyUnary applies a prefix operator to the node on top of the stack.
func (b *treeBuilder) ApplyUnary(op UnaryOp) {
	b.push(newUnary(op, b.pop()))
}

// ApplyBinary applies an infix operator to the two nodes on top of the
// stack.
func (b *treeBuilder) ApplyBinary(op BinaryOp) {
	rhs := b.pop()
	lhs := b.pop()
	b.push(newBinary(op, lhs, rhs))
}

// Build pops the finished root. The adapter guarantees exactly one node
// remains when the event stream is well formed.
func (b *treeBuilder) Build() (*exprTree, error) {
	if len(b.stack) != 1 {
		return nil, fmt.Errorf("unbalanced expression: %d nodes on stack", len(b.stack))
	}
	return &exprTree{root: b.pop(), refs: b.refs}, nil
}
