package tool

import (
	"fmt"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

// The parser accepts more than the calculator may evaluate (names, calls,
// strings, attributes, comparisons) so that validation can reject them by
// walking the tree instead of guessing from characters.

type exprNode interface {
	position() int
}

type numberNode struct {
	value float64
	at    int
}

type stringNode struct {
	value string
	at    int
}

type nameNode struct {
	name string
	at   int
}

type callNode struct {
	fn   exprNode
	args []exprNode
	at   int
}

type attributeNode struct {
	value exprNode
	attr  string
	at    int
}

type unaryNode struct {
	op      string
	operand exprNode
	at      int
}

type binaryNode struct {
	op          string
	left, right exprNode
	at          int
}

type compareNode struct {
	op          string
	left, right exprNode
	at          int
}

func (n *numberNode) position() int    { return n.at }
func (n *stringNode) position() int    { return n.at }
func (n *nameNode) position() int      { return n.at }
func (n *callNode) position() int      { return n.at }
func (n *attributeNode) position() int { return n.at }
func (n *unaryNode) position() int     { return n.at }
func (n *binaryNode) position() int    { return n.at }
func (n *compareNode) position() int   { return n.at }

// walkExpr visits n and then its children depth-first, stopping at the first error.
func walkExpr(n exprNode, visit func(exprNode) error) error {
	if err := visit(n); err != nil {
		return err
	}
	switch v := n.(type) {
	case *callNode:
		if err := walkExpr(v.fn, visit); err != nil {
			return err
		}
		for _, arg := range v.args {
			if err := walkExpr(arg, visit); err != nil {
				return err
			}
		}
	case *attributeNode:
		return walkExpr(v.value, visit)
	case *unaryNode:
		return walkExpr(v.operand, visit)
	case *binaryNode:
		if err := walkExpr(v.left, visit); err != nil {
			return err
		}
		return walkExpr(v.right, visit)
	case *compareNode:
		if err := walkExpr(v.left, visit); err != nil {
			return err
		}
		return walkExpr(v.right, visit)
	}
	return nil
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenString
	tokenName
	tokenOp
)

type token struct {
	kind tokenKind
	text string
	at   int
}

func syntaxError(at int, format string, args ...any) error {
	return fmt.Errorf("%w: %s at position %d", contractx.ErrInvalidExpression, fmt.Sprintf(format, args...), at)
}

// Longest operators first so that "**" and "//" win over "*" and "/".
var operators = []string{"**", "//", "<=", ">=", "==", "!=", "+", "-", "*", "/", "%", "<", ">", "(", ")", ",", "."}

func tokenize(input string) ([]token, error) {
	var tokens []token
	pos := 0
	for pos < len(input) {
		ch := input[pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			pos++
		case isDigit(ch) || (ch == '.' && pos+1 < len(input) && isDigit(input[pos+1])):
			end, err := scanNumber(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenNumber, text: input[pos:end], at: pos})
			pos = end
		case ch == '\'' || ch == '"':
			end := strings.IndexByte(input[pos+1:], ch)
			if end < 0 {
				return nil, syntaxError(pos, "unterminated string")
			}
			tokens = append(tokens, token{kind: tokenString, text: input[pos+1 : pos+1+end], at: pos})
			pos += end + 2
		case isNameStart(ch):
			start := pos
			for pos < len(input) && (isNameStart(input[pos]) || isDigit(input[pos])) {
				pos++
			}
			tokens = append(tokens, token{kind: tokenName, text: input[start:pos], at: start})
		default:
			op := ""
			for _, candidate := range operators {
				if strings.HasPrefix(input[pos:], candidate) {
					op = candidate
					break
				}
			}
			if op == "" {
				return nil, syntaxError(pos, "unexpected character %q", ch)
			}
			tokens = append(tokens, token{kind: tokenOp, text: op, at: pos})
			pos += len(op)
		}
	}
	return append(tokens, token{kind: tokenEOF, at: len(input)}), nil
}

func scanNumber(input string, pos int) (int, error) {
	start := pos
	for pos < len(input) && isDigit(input[pos]) {
		pos++
	}
	if pos < len(input) && input[pos] == '.' {
		pos++
		for pos < len(input) && isDigit(input[pos]) {
			pos++
		}
	}
	if pos < len(input) && (input[pos] == 'e' || input[pos] == 'E') {
		pos++
		if pos < len(input) && (input[pos] == '+' || input[pos] == '-') {
			pos++
		}
		digits := pos
		for pos < len(input) && isDigit(input[pos]) {
			pos++
		}
		if digits == pos {
			return 0, syntaxError(start, "invalid number format")
		}
	}
	return pos, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

type exprParser struct {
	tokens []token
	pos    int
}

func parseExpression(input string) (exprNode, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &exprParser{tokens: tokens}
	node, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, syntaxError(tok.at, "unexpected token %q", tok.text)
	}
	return node, nil
}

func (p *exprParser) peek() token {
	return p.tokens[p.pos]
}

func (p *exprParser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *exprParser) matchOp(ops ...string) (token, bool) {
	tok := p.peek()
	if tok.kind != tokenOp {
		return tok, false
	}
	for _, op := range ops {
		if tok.text == op {
			p.pos++
			return tok, true
		}
	}
	return tok, false
}

func (p *exprParser) parseComparison() (exprNode, error) {
	left, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.matchOp("<", ">", "<=", ">=", "==", "!=")
		if !ok {
			return left, nil
		}
		right, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		left = &compareNode{op: tok.text, left: left, right: right, at: tok.at}
	}
}

func (p *exprParser) parseArith() (exprNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.matchOp("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tok.text, left: left, right: right, at: tok.at}
	}
}

func (p *exprParser) parseTerm() (exprNode, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.matchOp("*", "/", "//", "%")
		if !ok {
			return left, nil
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tok.text, left: left, right: right, at: tok.at}
	}
}

// parseFactor handles unary signs, which bind looser than "**" on their right.
func (p *exprParser) parseFactor() (exprNode, error) {
	if tok, ok := p.matchOp("+", "-"); ok {
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: tok.text, operand: operand, at: tok.at}, nil
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (exprNode, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	tok, ok := p.matchOp("**")
	if !ok {
		return base, nil
	}
	exponent, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: tok.text, left: base, right: exponent, at: tok.at}, nil
}

func (p *exprParser) parsePostfix() (exprNode, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		if tok, ok := p.matchOp("("); ok {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			node = &callNode{fn: node, args: args, at: tok.at}
			continue
		}
		if tok, ok := p.matchOp("."); ok {
			name := p.next()
			if name.kind != tokenName {
				return nil, syntaxError(name.at, "expected attribute name")
			}
			node = &attributeNode{value: node, attr: name.text, at: tok.at}
			continue
		}
		return node, nil
	}
}

func (p *exprParser) parseArgs() ([]exprNode, error) {
	var args []exprNode
	if _, ok := p.matchOp(")"); ok {
		return args, nil
	}
	for {
		arg, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if _, ok := p.matchOp(","); ok {
			continue
		}
		if tok, ok := p.matchOp(")"); !ok {
			return nil, syntaxError(tok.at, "missing closing parenthesis")
		}
		return args, nil
	}
}

func (p *exprParser) parsePrimary() (exprNode, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNumber:
		value, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, syntaxError(tok.at, "invalid number %q", tok.text)
		}
		return &numberNode{value: value, at: tok.at}, nil
	case tokenString:
		return &stringNode{value: tok.text, at: tok.at}, nil
	case tokenName:
		return &nameNode{name: tok.text, at: tok.at}, nil
	case tokenOp:
		if tok.text == "(" {
			inner, err := p.parseComparison()
			if err != nil {
				return nil, err
			}
			if closing, ok := p.matchOp(")"); !ok {
				return nil, syntaxError(closing.at, "missing closing parenthesis")
			}
			return inner, nil
		}
		return nil, syntaxError(tok.at, "unexpected token %q", tok.text)
	default:
		return nil, syntaxError(tok.at, "unexpected end of expression")
	}
}
