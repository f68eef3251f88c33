package tool

import (
	"fmt"
	"math"
	"strings"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

// Evaluator computes an arithmetic expression. Evaluate is the default.
type Evaluator func(expression string) (float64, error)

// Evaluate computes a numeric expression built only from numeric literals,
// unary + and -, and binary + - * / // % **. Anything else the parser can
// represent (names, calls, strings, attributes, comparisons) is rejected
// before evaluation.
func Evaluate(expression string) (float64, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return 0, fmt.Errorf("%w: expression is empty", contractx.ErrInvalidExpression)
	}

	root, err := parseExpression(expression)
	if err != nil {
		return 0, err
	}
	if err := walkExpr(root, validateMathNode); err != nil {
		return 0, err
	}

	value, err := evalMathNode(root)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: result is not a finite number", contractx.ErrArithmetic)
	}
	return value, nil
}

func validateMathNode(n exprNode) error {
	switch v := n.(type) {
	case *numberNode:
		return nil
	case *unaryNode:
		if v.op == "+" || v.op == "-" {
			return nil
		}
	case *binaryNode:
		switch v.op {
		case "+", "-", "*", "/", "//", "%", "**":
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not allowed at position %d", contractx.ErrInvalidExpression, describeNode(n), n.position())
}

func describeNode(n exprNode) string {
	switch v := n.(type) {
	case *stringNode:
		return "string literal"
	case *nameNode:
		return fmt.Sprintf("name %q", v.name)
	case *callNode:
		return "function call"
	case *attributeNode:
		return fmt.Sprintf("attribute %q", v.attr)
	case *compareNode:
		return fmt.Sprintf("comparison %q", v.op)
	case *unaryNode:
		return fmt.Sprintf("operator %q", v.op)
	case *binaryNode:
		return fmt.Sprintf("operator %q", v.op)
	default:
		return fmt.Sprintf("node %T", n)
	}
}

func evalMathNode(n exprNode) (float64, error) {
	switch v := n.(type) {
	case *numberNode:
		return v.value, nil
	case *unaryNode:
		operand, err := evalMathNode(v.operand)
		if err != nil {
			return 0, err
		}
		if v.op == "-" {
			return -operand, nil
		}
		return operand, nil
	case *binaryNode:
		left, err := evalMathNode(v.left)
		if err != nil {
			return 0, err
		}
		right, err := evalMathNode(v.right)
		if err != nil {
			return 0, err
		}
		return applyBinary(v.op, left, right, v.at)
	default:
		return 0, fmt.Errorf("%w: %s is not allowed at position %d", contractx.ErrInvalidExpression, describeNode(n), n.position())
	}
}

func applyBinary(op string, left, right float64, at int) (float64, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, fmt.Errorf("%w: division by zero at position %d", contractx.ErrArithmetic, at)
		}
		return left / right, nil
	case "//":
		if right == 0 {
			return 0, fmt.Errorf("%w: division by zero at position %d", contractx.ErrArithmetic, at)
		}
		return math.Floor(left / right), nil
	case "%":
		if right == 0 {
			return 0, fmt.Errorf("%w: modulo by zero at position %d", contractx.ErrArithmetic, at)
		}
		// Result takes the sign of the divisor.
		r := math.Mod(left, right)
		if r != 0 && (r < 0) != (right < 0) {
			r += right
		}
		return r, nil
	case "**":
		if left == 0 && right < 0 {
			return 0, fmt.Errorf("%w: zero cannot be raised to a negative power at position %d", contractx.ErrArithmetic, at)
		}
		if left < 0 && right != math.Trunc(right) {
			return 0, fmt.Errorf("%w: negative base with fractional exponent at position %d", contractx.ErrArithmetic, at)
		}
		result := math.Pow(left, right)
		if math.IsInf(result, 0) || math.IsNaN(result) {
			return 0, fmt.Errorf("%w: result out of range at position %d", contractx.ErrArithmetic, at)
		}
		return result, nil
	default:
		return 0, fmt.Errorf("%w: operator %q is not allowed at position %d", contractx.ErrInvalidExpression, op, at)
	}
}
