package source

import "fmt"

// Span represents a contiguous slice of a source buffer, identified by byte
// offsets rather than a string slice.  Keeping the physical indices lets
// later stages (diagnostics, the printer) recover the enclosing line without
// re-scanning from the start of the file.
type Span struct {
	// Start is the first byte of this span in the source buffer.
	Start int
	// End is one past the final byte of this span in the source buffer.
	End int
}

// NewSpan constructs a span, checking the internal invariant that Start
// cannot exceed End.
func NewSpan(start, end int) Span {
	if start > end {
		panic(fmt.Sprintf("invalid span: %d > %d", start, end))
	}

	return Span{start, end}
}

// Length returns the number of bytes covered by this span.
func (s Span) Length() int {
	return s.End - s.Start
}

// Join returns the smallest span enclosing both s and other.
func (s Span) Join(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}

	end := s.End
	if other.End > end {
		end = other.End
	}

	return Span{start, end}
}
