// ════════════════════════════════════════════════════════════════════════════════════════════════
// 🔤 TEXT FORM PARSER
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: ndhist
// Component: Axis And Histogram Text Reader
//
// Description:
//   Reads the constructor-call text that axis and histogram String methods
//   produce and rebuilds the described objects through their constructors.
//
// Accepted forms:
//   regular_axis(bins, low, high [, label=..., uoflow=...])
//   polar_axis(bins [, start] [, label=...])
//   variable_axis(edge, edge, ... [, label=..., uoflow=...])
//   category_axis('a', 'b', ... [, label=...])
//   integer_axis(low, high [, label=..., uoflow=...])
//   histogram(<axis>, <axis>, ...)
//
//   Strings may use single or double quotes. Booleans are True/False in either
//   case. Floats may be spelled inf, -inf, +Inf or nan.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package parser

import (
	"math"
	"strconv"
	"strings"

	"ndhist/axis"
	"ndhist/histogram"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// PUBLIC ENTRY POINTS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// ParseAxis reads one axis constructor call.
func ParseAxis(s string) (axis.Axis, error) {
	p, err := newParser(s)
	if err != nil {
		return nil, err
	}
	c, err := p.call()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return c.axis()
}

// ParseHistogram reads a histogram(...) call and returns an empty histogram
// over the described axes.
func ParseHistogram(s string) (*histogram.Histogram, error) {
	p, err := newParser(s)
	if err != nil {
		return nil, err
	}
	c, err := p.call()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	if c.name != "histogram" {
		return nil, syntaxErr(c.pos, "expected histogram(...), got %s(...)", c.name)
	}
	if len(c.kwargs) > 0 {
		return nil, syntaxErr(c.kwargs[0].pos, "histogram takes no keyword %q", c.kwargs[0].key)
	}
	axes := make([]axis.Axis, len(c.args))
	for i, v := range c.args {
		if v.call == nil {
			return nil, syntaxErr(v.pos, "histogram argument %d is not an axis", i)
		}
		a, err := v.call.axis()
		if err != nil {
			return nil, err
		}
		axes[i] = a
	}
	return histogram.New(axes...)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SYNTAX TREE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// value is one argument: exactly one of tok or call is meaningful.
type value struct {
	tok  token
	call *callExpr
	pos  int
}

type kwarg struct {
	key string
	val value
	pos int
}

type callExpr struct {
	name   string
	args   []value
	kwargs []kwarg
	pos    int
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// RECURSIVE DESCENT
// ═══════════════════════════════════════════════════════════════════════════════════════════════

type parser struct {
	lex lexer
	tok token // one-token lookahead
}

func newParser(s string) (*parser, error) {
	p := &parser{lex: lexer{src: s}}
	return p, p.advance()
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(k tokenKind) (token, error) {
	t := p.tok
	if t.kind != k {
		return t, syntaxErr(t.pos, "expected %s, found %s", k, t.kind)
	}
	return t, p.advance()
}

func (p *parser) end() error {
	if p.tok.kind != tokEOF {
		return syntaxErr(p.tok.pos, "trailing %s", p.tok.kind)
	}
	return nil
}

// call parses ident '(' [arg {',' arg}] ')'. Positional arguments must come
// before keyword arguments and a keyword may appear once.
func (p *parser) call() (*callExpr, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	c := &callExpr{name: name.text, pos: name.pos}
	if p.tok.kind == tokRParen {
		return c, p.advance()
	}
	for {
		if err := p.arg(c); err != nil {
			return nil, err
		}
		if p.tok.kind == tokRParen {
			return c, p.advance()
		}
		if _, err := p.expect(tokComma); err != nil {
			return nil, err
		}
	}
}

func (p *parser) arg(c *callExpr) error {
	start := p.tok
	if start.kind == tokIdent {
		// An identifier is a keyword, a nested call or a bare word like True.
		if err := p.advance(); err != nil {
			return err
		}
		switch p.tok.kind {
		case tokEquals:
			if err := p.advance(); err != nil {
				return err
			}
			for _, kw := range c.kwargs {
				if kw.key == start.text {
					return syntaxErr(start.pos, "keyword %q repeated", start.text)
				}
			}
			v, err := p.operand()
			if err != nil {
				return err
			}
			c.kwargs = append(c.kwargs, kwarg{key: start.text, val: v, pos: start.pos})
			return nil
		case tokLParen:
			// Rewind by re-lexing from the identifier.
			p.lex.pos = start.pos
			if err := p.advance(); err != nil {
				return err
			}
			sub, err := p.call()
			if err != nil {
				return err
			}
			return p.positional(c, value{call: sub, pos: start.pos})
		default:
			return p.positional(c, value{tok: start, pos: start.pos})
		}
	}
	v, err := p.operand()
	if err != nil {
		return err
	}
	return p.positional(c, v)
}

func (p *parser) positional(c *callExpr, v value) error {
	if len(c.kwargs) > 0 {
		return syntaxErr(v.pos, "positional argument after keyword argument")
	}
	c.args = append(c.args, v)
	return nil
}

// operand is a literal: number, string or bare word.
func (p *parser) operand() (value, error) {
	t := p.tok
	switch t.kind {
	case tokNumber, tokString, tokIdent:
		return value{tok: t, pos: t.pos}, p.advance()
	}
	return value{}, syntaxErr(t.pos, "expected a value, found %s", t.kind)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// VALUE CONVERSION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func (v value) float() (float64, error) {
	if v.call == nil && (v.tok.kind == tokNumber || v.tok.kind == tokIdent) {
		if x, err := strconv.ParseFloat(v.tok.text, 64); err == nil {
			return x, nil
		}
	}
	return 0, syntaxErr(v.pos, "expected a number")
}

func (v value) int() (int, error) {
	if v.call == nil && v.tok.kind == tokNumber {
		if n, err := strconv.Atoi(v.tok.text); err == nil {
			return n, nil
		}
		// Integral floats such as 4.0 are accepted.
		if x, err := strconv.ParseFloat(v.tok.text, 64); err == nil && x == math.Trunc(x) && math.Abs(x) <= math.MaxInt32 {
			return int(x), nil
		}
	}
	return 0, syntaxErr(v.pos, "expected an integer")
}

func (v value) str() (string, error) {
	if v.call == nil && v.tok.kind == tokString {
		return v.tok.text, nil
	}
	return "", syntaxErr(v.pos, "expected a string")
}

func (v value) bool() (bool, error) {
	if v.call == nil && v.tok.kind == tokIdent {
		switch strings.ToLower(v.tok.text) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, syntaxErr(v.pos, "expected True or False")
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// AXIS CONSTRUCTION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// options turns label= and uoflow= into constructor options. Any other keyword
// is rejected; uoflow is forwarded even where the axis kind refuses it, so the
// constructor reports that.
func (c *callExpr) options() ([]axis.Option, error) {
	var opts []axis.Option
	for _, kw := range c.kwargs {
		switch kw.key {
		case "label":
			s, err := kw.val.str()
			if err != nil {
				return nil, err
			}
			opts = append(opts, axis.WithLabel(s))
		case "uoflow":
			b, err := kw.val.bool()
			if err != nil {
				return nil, err
			}
			opts = append(opts, axis.WithUoflow(b))
		default:
			return nil, syntaxErr(kw.pos, "%s got an unexpected keyword %q", c.name, kw.key)
		}
	}
	return opts, nil
}

func (c *callExpr) arity(lo, hi int) error {
	if n := len(c.args); n < lo || n > hi {
		return syntaxErr(c.pos, "%s takes %d to %d positional arguments, got %d", c.name, lo, hi, n)
	}
	return nil
}

func (c *callExpr) floats() ([]float64, error) {
	xs := make([]float64, len(c.args))
	for i, v := range c.args {
		x, err := v.float()
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}
	return xs, nil
}

func (c *callExpr) axis() (axis.Axis, error) {
	opts, err := c.options()
	if err != nil {
		return nil, err
	}
	switch c.name {
	case axis.KindRegular.Constructor():
		if err := c.arity(3, 3); err != nil {
			return nil, err
		}
		bins, err := c.args[0].int()
		if err != nil {
			return nil, err
		}
		lo, err := c.args[1].float()
		if err != nil {
			return nil, err
		}
		hi, err := c.args[2].float()
		if err != nil {
			return nil, err
		}
		return axis.NewRegular(bins, lo, hi, opts...)

	case axis.KindPolar.Constructor():
		if err := c.arity(1, 2); err != nil {
			return nil, err
		}
		bins, err := c.args[0].int()
		if err != nil {
			return nil, err
		}
		start := 0.0
		if len(c.args) == 2 {
			if start, err = c.args[1].float(); err != nil {
				return nil, err
			}
		}
		return axis.NewPolar(bins, start, opts...)

	case axis.KindVariable.Constructor():
		edges, err := c.floats()
		if err != nil {
			return nil, err
		}
		return axis.NewVariable(edges, opts...)

	case axis.KindCategory.Constructor():
		values := make([]string, len(c.args))
		for i, v := range c.args {
			if values[i], err = v.str(); err != nil {
				return nil, err
			}
		}
		return axis.NewCategory(values, opts...)

	case axis.KindInteger.Constructor():
		if err := c.arity(2, 2); err != nil {
			return nil, err
		}
		lo, err := c.args[0].int()
		if err != nil {
			return nil, err
		}
		hi, err := c.args[1].int()
		if err != nil {
			return nil, err
		}
		return axis.NewInteger(lo, hi, opts...)
	}
	return nil, syntaxErr(c.pos, "unknown constructor %s", c.name)
}
