package peg

import (
	"strings"
)

// FormatToken tells a FormatFunc what kind of text is being printed,
// so it can decorate each piece differently (colors, mostly)
type FormatToken int

const (
	FormatToken_None FormatToken = iota
	FormatToken_Operator
	FormatToken_Operand
	FormatToken_Literal
	FormatToken_Span
	FormatToken_Error
)

type FormatFunc[T any] func(input string, token T) string

// PlainFormat returns the input untouched
func PlainFormat(input string, _ FormatToken) string { return input }

type treePrinter[T any] struct {
	padStr *[]string
	output *strings.Builder
	format FormatFunc[T]
}

func newTreePrinter[T any](format FormatFunc[T]) *treePrinter[T] {
	return &treePrinter[T]{
		padStr: &[]string{},
		output: &strings.Builder{},
		format: format,
	}
}

func (tp *treePrinter[T]) indent(s string) {
	*tp.padStr = append(*tp.padStr, s)
}

func (tp *treePrinter[T]) unindent() {
	index := len(*tp.padStr) - 1
	*tp.padStr = (*tp.padStr)[:index]
}

func (tp *treePrinter[T]) padding() {
	for _, item := range *tp.padStr {
		tp.write(item)
	}
}

func (tp *treePrinter[T]) writel(s string) {
	tp.write(s)
	tp.output.WriteRune('\n')
}

func (tp *treePrinter[T]) write(s string) {
	tp.output.WriteString(s)
}

func (tp *treePrinter[T]) pwrite(s string) {
	tp.padding()
	tp.write(s)
}

// children prints each item with the box drawing prefix that fits its
// position within the list.  Every item but the last is followed by a
// line break.
func (tp *treePrinter[T]) children(n int, visit func(i int)) {
	for i := 0; i < n; i++ {
		switch {
		case i == n-1:
			tp.pwrite("└── ")
			tp.indent("    ")
			visit(i)
			tp.unindent()
		default:
			tp.pwrite("├── ")
			tp.indent("│   ")
			visit(i)
			tp.unindent()
			tp.write("\n")
		}
	}
}

func (tp *treePrinter[T]) String() string {
	return tp.output.String()
}

var literalSanitizer = strings.NewReplacer(
	`"`, `\"`,
	`\`, `\\`,
	string('\n'), `\n`,
	string('\r'), `\r`,
	string('\t'), `\t`,
	string(rune(0)), `\0`,
)

func escapeLiteral(s string) string {
	return literalSanitizer.Replace(s)
}
