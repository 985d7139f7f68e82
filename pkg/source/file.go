package source

// Line describes a single physical line within a source file: the line
// number (counting from 1) and the byte span it occupies.
type Line struct {
	text   []byte
	span   Span
	number int
}

// String returns the text of this line, excluding the trailing newline.
func (l Line) String() string {
	return string(l.text[l.span.Start:l.span.End])
}

// Number returns the 1-based line number.
func (l Line) Number() int {
	return l.number
}

// Start returns the byte offset at which this line begins.
func (l Line) Start() int {
	return l.span.Start
}

// File represents a single source file: a name and its raw byte contents.
// FileID assignment is owned by Manager, not File itself.
type File struct {
	filename string
	contents []byte
}

// NewFile constructs a new source file from a filename and its raw bytes.
func NewFile(filename string, contents []byte) *File {
	return &File{filename: filename, contents: contents}
}

// Filename returns the name under which this file was registered.
func (f *File) Filename() string {
	return f.filename
}

// Contents returns the raw bytes of this source file.
func (f *File) Contents() []byte {
	return f.contents
}

// FindLine determines the line enclosing the start of the given span.  If
// the span starts beyond the end of the file, the last physical line is
// returned.
func (f *File) FindLine(span Span) Line {
	index := span.Start
	num := 1
	start := 0

	for i := 0; i < len(f.contents); i++ {
		if i == index {
			return Line{f.contents, Span{start, endOfLine(index, f.contents)}, num}
		} else if f.contents[i] == '\n' {
			num++
			start = i + 1
		}
	}

	return Line{f.contents, Span{start, len(f.contents)}, num}
}

// Column computes the 1-based column of a byte offset within its enclosing
// line.
func (f *File) Column(offset int) int {
	line := f.FindLine(Span{offset, offset})
	return 1 + (offset - line.Start())
}

func endOfLine(index int, text []byte) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}

	return len(text)
}
