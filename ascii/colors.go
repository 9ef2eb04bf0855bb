// Package ascii provides semantic names for terminal colors so they
// can be grouped in themes.
package ascii

import (
	"github.com/fatih/color"

	"github.com/clarete/peg"
)

var (
	Red    = color.New(color.FgRed, color.Bold)
	Yellow = color.New(color.FgYellow, color.Bold)
	Green  = color.New(color.FgGreen, color.Bold)
	Blue   = color.New(color.FgBlue, color.Bold)
	Cyan   = color.New(color.FgCyan, color.Bold)
	Gray   = color.New(color.FgHiBlack)

	// 256-color palette
	Orange  = color.New(38, 5, 208)
	Gray245 = color.New(color.Bold, 38, 5, 245)
	Purple  = color.New(color.Bold, 38, 5, 99)
	Pink    = color.New(color.Bold, 38, 5, 127)
)

// Theme defines semantic color mappings
type Theme struct {
	// Diagnostic levels
	Error   *color.Color
	Warning *color.Color
	Info    *color.Color
	Hint    *color.Color

	// UI elements
	Muted   *color.Color // secondary/dimmed text
	Accent  *color.Color // highlighted/emphasized text
	Success *color.Color

	// Tree printers
	Operator *color.Color
	Operand  *color.Color
	Literal  *color.Color
	Span     *color.Color
}

// DefaultTheme provides a sensible default color mapping.
var DefaultTheme = Theme{
	Error:   Red,
	Warning: Yellow,
	Info:    Cyan,
	Hint:    Gray,

	Muted:   Gray,
	Accent:  Cyan,
	Success: Green,

	Operator: Purple,
	Operand:  Pink,
	Literal:  Gray245,
	Span:     Orange,
}

// Format colors the pieces of text printed by the rule and parse tree
// printers.  It has the signature of peg.FormatFunc.
func (t Theme) Format(input string, token peg.FormatToken) string {
	var c *color.Color
	switch token {
	case peg.FormatToken_Operator:
		c = t.Operator
	case peg.FormatToken_Operand:
		c = t.Operand
	case peg.FormatToken_Literal:
		c = t.Literal
	case peg.FormatToken_Span:
		c = t.Span
	case peg.FormatToken_Error:
		c = t.Error
	}
	if c == nil {
		return input
	}
	return c.Sprint(input)
}

// Enable turns colors on or off for every theme.  Colors are off by
// default when the output isn't a terminal.
func Enable(on bool) {
	color.NoColor = !on
}
