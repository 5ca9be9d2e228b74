// This file is part of Sysdarft.
//
// Sysdarft is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sysdarft is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Sysdarft.  If not, see <https://www.gnu.org/licenses/>.

package assembler

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/sysdarft/sysdarft/curated"
)

// constant expressions are integer arithmetic over arbitrary precision
// values: the expression 2^64-1 must evaluate exactly. hex literals are
// rewritten to decimal before evaluation, mirroring the grammar of the
// textual form. the final value is reduced modulo 2^64; a negative
// result selects the signed encoding.

var base16Pattern = regexp.MustCompile(`0x[0-9A-Fa-f]+`)

// rewrite hex literals to decimal.
func rewriteBase16(expr string) string {
	// the operand text is uppercased before it reaches us
	expr = strings.ReplaceAll(expr, "0X", "0x")

	return base16Pattern.ReplaceAllStringFunc(expr, func(m string) string {
		v, ok := new(big.Int).SetString(m[2:], 16)
		if !ok {
			return m
		}
		return v.String()
	})
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) errorf(format string, args ...interface{}) error {
	return curated.Errorf(ExpressionError,
		fmt.Sprintf("%s: %s", p.input, fmt.Sprintf(format, args...)))
}

func (p *exprParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) next() byte {
	c := p.peek()
	p.pos++
	return c
}

// expr := term (('+'|'-') term)*
func (p *exprParser) expr() (*big.Int, error) {
	v, err := p.term()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek() {
		case '+':
			p.next()
			t, err := p.term()
			if err != nil {
				return nil, err
			}
			v.Add(v, t)
		case '-':
			p.next()
			t, err := p.term()
			if err != nil {
				return nil, err
			}
			v.Sub(v, t)
		default:
			return v, nil
		}
	}
}

// term := power (('*'|'/'|'%') power)*
func (p *exprParser) term() (*big.Int, error) {
	v, err := p.power()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek() {
		case '*':
			p.next()
			t, err := p.power()
			if err != nil {
				return nil, err
			}
			v.Mul(v, t)
		case '/':
			p.next()
			t, err := p.power()
			if err != nil {
				return nil, err
			}
			if t.Sign() == 0 {
				return nil, p.errorf("division by zero")
			}
			v.Quo(v, t)
		case '%':
			p.next()
			t, err := p.power()
			if err != nil {
				return nil, err
			}
			if t.Sign() == 0 {
				return nil, p.errorf("modulo by zero")
			}
			v.Rem(v, t)
		default:
			return v, nil
		}
	}
}

// power := unary ('^' power)?   (right associative)
func (p *exprParser) power() (*big.Int, error) {
	v, err := p.unary()
	if err != nil {
		return nil, err
	}

	if p.peek() == '^' {
		p.next()
		e, err := p.power()
		if err != nil {
			return nil, err
		}
		if e.Sign() < 0 || !e.IsUint64() || e.Uint64() > 256 {
			return nil, p.errorf("unreasonable exponent %v", e)
		}
		v.Exp(v, e, nil)
	}

	return v, nil
}

// unary := ('-'|'+')* primary
func (p *exprParser) unary() (*big.Int, error) {
	neg := false
	for p.peek() == '-' || p.peek() == '+' {
		if p.next() == '-' {
			neg = !neg
		}
	}

	v, err := p.primary()
	if err != nil {
		return nil, err
	}
	if neg {
		v.Neg(v)
	}
	return v, nil
}

// primary := number | '(' expr ')'
func (p *exprParser) primary() (*big.Int, error) {
	if p.peek() == '(' {
		p.next()
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.next() != ')' {
			return nil, p.errorf("unbalanced parentheses")
		}
		return v, nil
	}

	start := p.pos
	for p.peek() >= '0' && p.peek() <= '9' {
		p.next()
	}
	if p.pos == start {
		return nil, p.errorf("expected a number at position %d", start)
	}

	v, ok := new(big.Int).SetString(p.input[start:p.pos], 10)
	if !ok {
		return nil, p.errorf("bad number %q", p.input[start:p.pos])
	}
	return v, nil
}

var twoTo64 = new(big.Int).Lsh(big.NewInt(1), 64)

// evaluateConstant evaluates the expression inside a $( ) constant. The
// return values are the unsigned 64-bit bit pattern of the result and
// whether the result was negative. Expressions containing a decimal
// point are IEEE-754 doubles and carry their bit pattern in the value.
func evaluateConstant(expr string) (uint64, bool, error) {
	if strings.Contains(expr, ".") {
		f, err := strconv.ParseFloat(expr, 64)
		if err != nil {
			return 0, false, curated.Errorf(ExpressionError,
				fmt.Sprintf("%s: bad floating point constant", expr))
		}
		return math.Float64bits(f), false, nil
	}

	p := &exprParser{input: rewriteBase16(expr)}
	v, err := p.expr()
	if err != nil {
		return 0, false, err
	}
	if p.pos != len(p.input) {
		return 0, false, p.errorf("trailing characters at position %d", p.pos)
	}

	signed := v.Sign() < 0

	// reduce modulo 2^64. for negative values the residue is the two's
	// complement bit pattern.
	v.Mod(v, twoTo64)

	return v.Uint64(), signed, nil
}
