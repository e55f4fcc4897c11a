// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package builder

import (
	"go/scanner"
	"go/token"

	"github.com/pkg/errors"
	"github.com/rjkoch/diffpy.srfit/equation/literals"
	"go.uber.org/multierr"
)

// power is the exponentiation pseudo-token, lexed from two adjacent
// multiplication tokens.
const power = token.Token(-1)

type tok struct {
	kind token.Token
	lit  string
	pos  token.Pos
}

func (t tok) String() string {
	if t.kind == power {
		return "**"
	}
	if t.lit != "" {
		return t.lit
	}
	return t.kind.String()
}

// lex tokenizes an expression string, merging adjacent multiplication
// tokens into the exponentiation pseudo-token.
func lex(src string) ([]tok, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))
	var lexErr error
	var s scanner.Scanner
	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		lexErr = multierr.Append(lexErr, errors.Errorf("%s at offset %d", msg, pos.Offset))
	}, 0)
	var toks []tok
	for {
		pos, kind, lit := s.Scan()
		if kind == token.SEMICOLON {
			// Inserted by the scanner, never written by the user.
			continue
		}
		if kind == token.MUL {
			if n := len(toks); n > 0 && toks[n-1].kind == token.MUL && toks[n-1].pos+1 == pos {
				toks[n-1] = tok{kind: power, pos: toks[n-1].pos}
				continue
			}
		}
		toks = append(toks, tok{kind: kind, lit: lit, pos: pos})
		if kind == token.EOF {
			break
		}
	}
	return toks, lexErr
}

// binaryOp describes how a binary token builds an operator node.
type binaryOp struct {
	name       string
	symbol     string
	prec       int
	rightAssoc bool
}

var binaryOps = map[token.Token]binaryOp{
	token.ADD: {name: "add", symbol: "+", prec: 1},
	token.SUB: {name: "subtract", symbol: "-", prec: 1},
	token.MUL: {name: "multiply", symbol: "*", prec: 2},
	token.QUO: {name: "divide", symbol: "/", prec: 2},
	power:     {name: "power", symbol: "**", prec: 4, rightAssoc: true},
}

const unaryPrec = 3

type parser struct {
	factory  *Factory
	toks     []tok
	i        int
	makepars bool
}

func (p *parser) peek() tok {
	return p.toks[p.i]
}

func (p *parser) next() tok {
	t := p.toks[p.i]
	if t.kind != token.EOF {
		p.i++
	}
	return t
}

func (p *parser) expect(kind token.Token) error {
	if t := p.next(); t.kind != kind {
		return errors.Errorf("expected %s, got %s", kind, t)
	}
	return nil
}

// parse implements precedence climbing: it consumes binary operators of
// precedence at least minPrec. Exponentiation associates to the right and
// binds tighter than unary negation, matching the conventional reading of
// -x**2 as -(x**2).
func (p *parser) parse(minPrec int) (literals.Literal, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binaryOps[p.peek().kind]
		if !ok || op.prec < minPrec {
			return left, nil
		}
		p.next()
		rightPrec := op.prec + 1
		if op.rightAssoc {
			rightPrec = op.prec
		}
		right, err := p.parse(rightPrec)
		if err != nil {
			return nil, err
		}
		left, err = p.factory.operator(op.name, op.symbol, left, right)
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseUnary() (literals.Literal, error) {
	switch p.peek().kind {
	case token.SUB:
		p.next()
		operand, err := p.parse(unaryPrec)
		if err != nil {
			return nil, err
		}
		return p.factory.operator("negative", "", operand)
	case token.ADD:
		p.next()
		return p.parse(unaryPrec)
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (literals.Literal, error) {
	t := p.next()
	switch t.kind {
	case token.IDENT:
		if p.peek().kind == token.LPAREN {
			return p.parseCall(t.lit)
		}
		return p.identifier(t.lit)
	case token.INT, token.FLOAT:
		return p.factory.constant(t.lit)
	case token.LPAREN:
		inner, err := p.parse(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, errors.Errorf("unexpected %s", t)
}

func (p *parser) parseCall(name string) (literals.Literal, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []literals.Literal
	if p.peek().kind != token.RPAREN {
		for {
			arg, err := p.parse(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != token.COMMA {
				break
			}
			p.next()
		}
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return p.factory.operator(name, "", args...)
}

func (p *parser) identifier(name string) (literals.Literal, error) {
	if arg, ok := p.factory.args[name]; ok {
		return arg, nil
	}
	if !p.makepars {
		return nil, errors.Errorf("unknown argument %s", name)
	}
	arg := literals.NewArgument(name, nil)
	p.factory.args[name] = arg
	return arg, nil
}
