package axis

import (
	"strings"

	"ndhist/utils"
)

// call renders the canonical constructor-call form of an axis. Options are
// appended only when they differ from their defaults.
type call struct {
	sb    strings.Builder
	first bool
}

func newCall(k Kind) *call {
	c := &call{first: true}
	c.sb.WriteString(k.Constructor())
	c.sb.WriteByte('(')
	return c
}

func (c *call) sep() {
	if !c.first {
		c.sb.WriteString(", ")
	}
	c.first = false
}

func (c *call) real(x float64) *call {
	c.sep()
	c.sb.WriteString(utils.Ftoa(x))
	return c
}

func (c *call) integer(n int) *call {
	c.sep()
	c.sb.WriteString(utils.Itoa(n))
	return c
}

func (c *call) text(s string) *call {
	c.sep()
	c.sb.WriteString(Quote(s))
	return c
}

func (c *call) options(b *base, withUoflow bool) *call {
	if b.label != "" {
		c.sep()
		c.sb.WriteString("label=")
		c.sb.WriteString(Quote(b.label))
	}
	if withUoflow && !b.uoflow {
		c.sep()
		c.sb.WriteString("uoflow=False")
	}
	return c
}

func (c *call) done() string {
	c.sb.WriteByte(')')
	return c.sb.String()
}

// Quote renders s as a single-quoted literal. Backslashes and single quotes
// are escaped; every other byte is written as is.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', '\'':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
