package sheetcalc

import (
	"fmt"
	"strconv"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// parseExpression runs the grammar front-end over the text after the
// leading "=" and replays the resulting syntax tree into the builder as a
// post-order event stream. Any front-end complaint, unsupported construct
// or invalid cell name surfaces as a *ParseError.
func parseExpression(expression string) (*exprTree, error) {
	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, &ParseError{Expression: expression, Err: err}
	}

	b := newTreeBuilder()
	if err := emitNode(tree.Node, b); err != nil {
		return nil, &ParseError{Expression: expression, Err: err}
	}

	built, err := b.Build()
	if err != nil {
		return nil, &ParseError{Expression: expression, Err: err}
	}
	return built, nil
}

// emitNode walks the front-end's tree post-order, emitting builder events.
// The front-end folds source parentheses into tree shape, so grouping is
// re-emitted around every operator-valued operand and the builder's
// canonicalization erases the redundant ones.
func emitNode(n ast.Node, b *treeBuilder) error {
	switch n := n.(type) {
	case *ast.IntegerNode:
		b.PushLiteral(strconv.Itoa(n.Value))

	case *ast.FloatNode:
		b.PushLiteral(strconv.FormatFloat(n.Value, 'g', -1, 64))

	case *ast.IdentifierNode:
		return b.PushCell(n.Value)

	case *ast.UnaryNode:
		op, err := unaryOpFor(n.Operator)
		if err != nil {
			return err
		}
		if err := emitOperand(n.Node, b); err != nil {
			return err
		}
		b.ApplyUnary(op)

	case *ast.BinaryNode:
		op, err := binaryOpFor(n.Operator)
		if err != nil {
			return err
		}
		if err := emitOperand(n.Left, b); err != nil {
			return err
		}
		if err := emitOperand(n.Right, b); err != nil {
			return err
		}
		b.ApplyBinary(op)

	default:
		return fmt.Errorf("unsupported construct %T in formula", n)
	}
	return nil
}

func emitOperand(n ast.Node, b *treeBuilder) error {
	if err := emitNode(n, b); err != nil {
		return err
	}
	switch n.(type) {
	case *ast.UnaryNode, *ast.BinaryNode:
		b.WrapParens()
	}
	return nil
}

func unaryOpFor(operator string) (UnaryOp, error) {
	switch operator {
	case "+":
		return UnaryPlus, nil
	case "-":
		return UnaryMinus, nil
	default:
		return 0, fmt.Errorf("unsupported unary operator %q", operator)
	}
}

func binaryOpFor(operator string) (BinaryOp, error) {
	switch operator {
	case "+":
		return OpAdd, nil
	case "-":
		return OpSub, nil
	case "*":
		return OpMul, nil
	case "/":
		return OpDiv, nil
	default:
		return 0, fmt.Errorf("unsupported operator %q", operator)
	}
}
