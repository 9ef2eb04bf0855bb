package peg

// Named ASCII character classes.  Being definitions they show up in
// traces and can have actions attached by name.
var (
	Alnum           = Define("alnum", Ranges('a', 'z', 'A', 'Z', '0', '9'))
	Alpha           = Define("alpha", Ranges('a', 'z', 'A', 'Z'))
	Blank           = Define("blank", One(' ', '\t'))
	Digit           = Define("digit", Range('0', '9'))
	Lower           = Define("lower", Range('a', 'z'))
	Upper           = Define("upper", Range('A', 'Z'))
	Nul             = Define("nul", One(0))
	Print           = Define("print", Range(32, 126))
	Seven           = Define("seven", Range(0, 127))
	Space           = Define("space", One(' ', '\n', '\r', '\t', '\v', '\f'))
	XDigit          = Define("xdigit", Ranges('0', '9', 'a', 'f', 'A', 'F'))
	IdentifierFirst = Define("identifier_first", Ranges('a', 'z', 'A', 'Z', '_'))
	IdentifierOther = Define("identifier_other", Ranges('a', 'z', 'A', 'Z', '0', '9', '_'))
	Identifier      = Define("identifier", IdentifierFirst, Star(IdentifierOther))

	// Shebang matches a `#!` line up to and including its line feed
	Shebang = Define("shebang", IfMust(String("#!"), Until(Eolf())))
)

// Builtins lists the named classes by name
var Builtins = map[string]*Def{
	"alnum":            Alnum,
	"alpha":            Alpha,
	"blank":            Blank,
	"digit":            Digit,
	"lower":            Lower,
	"upper":            Upper,
	"nul":              Nul,
	"print":            Print,
	"seven":            Seven,
	"space":            Space,
	"xdigit":           XDigit,
	"identifier_first": IdentifierFirst,
	"identifier_other": IdentifierOther,
	"identifier":       Identifier,
	"shebang":          Shebang,
}
