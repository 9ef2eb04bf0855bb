// Package benchmarks holds a JSON grammar written with the peg
// combinators and measures it against other JSON parsers.
package benchmarks

import (
	"github.com/clarete/peg"
	"github.com/clarete/peg/unescape"
)

var (
	ws  = peg.Star(peg.One(' ', '\t', '\n', '\r'))
	sep = peg.Seq(ws, peg.One(','), ws)

	value = peg.Declare("value")

	xdigit      = peg.Define("xdigit", peg.Ranges('0', '9', 'a', 'f', 'A', 'F'))
	unicode     = peg.Define("unicode", peg.One('u'), peg.Rep(4, peg.Must(xdigit)), peg.Star(peg.String(`\u`), peg.Rep(4, peg.Must(xdigit))))
	escapedChar = peg.Define("escaped_char", peg.One('"', '\\', '/', 'b', 'f', 'n', 'r', 't'))
	escaped     = peg.Define("escaped", peg.Sor(unicode, escapedChar))
	unescaped   = peg.Define("unescaped", peg.Plus(peg.NotAt(peg.One('"', '\\')), peg.UTF8.NotRange(0, 0x1f)))
	char        = peg.Define("char", peg.Sor(peg.Seq(peg.One('\\'), peg.Must(escaped)), unescaped))
	content     = peg.Define("string_content", peg.Until(peg.One('"'), peg.Must(char)))
	str         = peg.Define("string", peg.One('"'), peg.State(unescape.NewState, peg.Must(content)))

	digits = peg.Define("digits", peg.Plus(peg.Range('0', '9')))
	number = peg.Define("number",
		peg.Opt(peg.One('-')),
		peg.Sor(peg.One('0'), peg.Seq(peg.Range('1', '9'), peg.Star(peg.Range('0', '9')))),
		peg.Opt(peg.One('.'), peg.Must(digits)),
		peg.Opt(peg.One('e', 'E'), peg.Opt(peg.One('+', '-')), peg.Must(digits)))

	endArray = peg.Define("end_array", peg.One(']'))
	array    = peg.Define("array", peg.One('['), ws, peg.Sor(endArray,
		peg.Seq(peg.ListMust(value, sep), ws, peg.Must(endArray))))

	nameSeparator = peg.Define("name_separator", peg.One(':'))
	member        = peg.Define("member", str, ws, peg.Must(nameSeparator), ws, peg.Must(value))
	endObject     = peg.Define("end_object", peg.One('}'))
	object        = peg.Define("object", peg.One('{'), ws, peg.Sor(endObject,
		peg.Seq(peg.ListMust(member, sep), ws, peg.Must(endObject))))

	// JSON matches a whole document: a single value with optional
	// whitespace around it
	JSON = peg.Define("text", ws, peg.Must(value), ws, peg.Must(peg.Eof()))
)

func init() {
	value.Set(peg.Sor(
		str,
		number,
		object,
		array,
		peg.Define("true", peg.String("true")),
		peg.Define("false", peg.String("false")),
		peg.Define("null", peg.String("null")),
	))
}

// Messages are the errors raised where the document is malformed
var Messages = map[string]string{
	"text":           "no valid JSON",
	"end_array":      "incomplete array, expected ']'",
	"end_object":     "incomplete object, expected '}'",
	"member":         "expected member",
	"name_separator": "expected ':'",
	"value":          "expected value",
	"digits":         "expected at least one digit",
	"xdigit":         "incomplete universal character name",
	"escaped":        "unknown escape sequence",
	"char":           "invalid character in string",
	"string_content": "unterminated string",
	"Eof":            "unexpected character after JSON value",
}

// Control raises errors with Messages
func Control() peg.Control {
	return peg.Normal{Messages: Messages}
}

// Validate reports whether `data` is a well formed document.  A
// malformed one fails with a *peg.ParseError saying what's wrong.
func Validate(data []byte) error {
	_, err := peg.Parse(JSON, data, "json", peg.WithControlOption(Control()))
	return err
}

// Strings returns every string in the document, keys included, in the
// order they appear and with escape sequences decoded
func Strings(data []byte) ([]string, error) {
	var out []string
	_, err := peg.Parse(JSON, data, "json",
		peg.WithControlOption(Control()),
		peg.WithStates(&out),
		peg.WithActionsOption(peg.Actions{
			"unicode":      unescape.UnescapeJ,
			"escaped_char": unescape.UnescapeC(`"\/bfnrt`, "\"\\/\b\f\n\r\t"),
			"unescaped":    unescape.AppendAll,
		}))
	if err != nil {
		return nil, err
	}
	return out, nil
}
