package peg

import "fmt"

// Input is the cursor all rules read from and advance.  It wraps a
// contiguous byte buffer and keeps track of the line and column of
// the current position.  Lines are 1-based and columns are 0-based
// byte counts.
type Input struct {
	data   []byte
	pos    int
	end    int
	line   int
	column int
	source string

	// from points to the input this one was nested in, so errors
	// can report where an included source was pulled from
	from *Input
}

// InputOption customizes an Input at construction time
type InputOption func(in *Input)

// WithPosition sets the line and column of the first byte of the
// input.  Useful when the buffer is a fragment of a larger source.
func WithPosition(line, column int) InputOption {
	return func(in *Input) {
		in.line = line
		in.column = column
	}
}

// WithParent chains the input to an enclosing input
func WithParent(parent *Input) InputOption {
	return func(in *Input) { in.from = parent }
}

// NewInput creates a cursor over `data`.  The `source` label shows up
// in positions and error messages.
func NewInput(data []byte, source string, opts ...InputOption) *Input {
	in := &Input{
		data:   data,
		end:    len(data),
		line:   1,
		source: source,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// NewStringInput is the same as NewInput but takes a string
func NewStringInput(s, source string, opts ...InputOption) *Input {
	return NewInput([]byte(s), source, opts...)
}

// Empty returns true when all the input has been consumed
func (in *Input) Empty() bool { return in.pos == in.end }

// Size returns how many bytes are left to be consumed
func (in *Input) Size() int { return in.end - in.pos }

func (in *Input) Line() int      { return in.line }
func (in *Input) Column() int    { return in.column }
func (in *Input) Offset() int    { return in.pos }
func (in *Input) Source() string { return in.source }
func (in *Input) Parent() *Input { return in.from }

// PeekByte returns the byte `offset` positions after the cursor.  The
// caller must make sure the offset is within Size().
func (in *Input) PeekByte(offset int) byte {
	return in.data[in.pos+offset]
}

// Bytes returns the remaining input.  The slice is shared with the
// cursor and must not be modified.
func (in *Input) Bytes() []byte { return in.data[in.pos:in.end] }

// String returns the remaining input as a string
func (in *Input) String() string { return string(in.data[in.pos:in.end]) }

// Bump consumes `n` bytes, updating line and column for each line
// terminator found along the way
func (in *Input) Bump(n int) {
	for i := 0; i < n; i++ {
		if in.data[in.pos] == '\n' {
			in.line++
			in.column = 0
		} else {
			in.column++
		}
		in.pos++
	}
}

// BumpInLine consumes `n` bytes known not to contain a line
// terminator, so only the column moves
func (in *Input) BumpInLine(n int) {
	in.pos += n
	in.column += n
}

// BumpRune consumes one decoded unit `width` bytes wide.  The unit is
// treated as a line terminator when it decoded to '\n', regardless of
// how many bytes encode it.
func (in *Input) BumpRune(r rune, width int) {
	if r != '\n' {
		in.BumpInLine(width)
		return
	}
	in.pos += width
	in.line++
	in.column = 0
}

// BumpIf consumes one byte if there's any left
func (in *Input) BumpIf() bool {
	if in.Empty() {
		return false
	}
	in.Bump(1)
	return true
}

// Position returns a snapshot of where the cursor currently is
func (in *Input) Position() Position {
	return Position{
		Source: in.source,
		Line:   in.line,
		Column: in.column,
		Offset: in.pos,
	}
}

// Mark captures the current location so it can be restored if the
// match that follows fails
func (in *Input) Mark() Marker {
	return Marker{in: in, pos: in.pos, line: in.line, column: in.column}
}

// Matched returns an input that spans exactly what was consumed
// since `m` was taken.  It starts at the marked line and column and
// shares the parent chain of `in`.
func (in *Input) Matched(m Marker) *Input {
	return &Input{
		data:   in.data[:in.pos],
		pos:    m.pos,
		end:    in.pos,
		line:   m.line,
		column: m.column,
		source: in.source,
		from:   in.from,
	}
}

// Marker is a restore point for an Input.  Rules that must not move
// the cursor when they fail take a marker before matching and then
// settle it with one of Success, Failure, Done or Result.
type Marker struct {
	in     *Input
	pos    int
	line   int
	column int
}

// Success keeps whatever the input consumed since the mark
func (m Marker) Success() bool { return true }

// Failure restores the input to the marked location
func (m Marker) Failure() bool {
	m.Rewind()
	return false
}

// Rewind restores the input to the marked location
func (m Marker) Rewind() {
	m.in.pos = m.pos
	m.in.line = m.line
	m.in.column = m.column
}

// Done commits when `ok` is true and rewinds otherwise.  It returns
// `ok` so it can wrap the return value of a match.
func (m Marker) Done(ok bool) bool {
	if ok {
		return m.Success()
	}
	return m.Failure()
}

// Result is Done for the (bool, error) pair returned by rules.  The
// input is only kept when the match succeeded without errors.
func (m Marker) Result(ok bool, err error) (bool, error) {
	if err != nil {
		m.Rewind()
		return false, err
	}
	return m.Done(ok), nil
}

// Position is a point within an input source
type Position struct {
	Source string
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Column)
}
