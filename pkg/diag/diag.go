// Package diag implements the structured diagnostic emitter shared by every
// stage of the compiler pipeline: the lexer, parser, constant folder,
// semantic analyzer and driver all accumulate diagnostics here instead of
// raising exceptions, so a single pass can surface many independent errors.
package diag

import (
	"fmt"
	"io"
	"sort"

	"github.com/splanck/viper-sub025/pkg/source"
)

// Severity classifies a diagnostic.
type Severity int

// Severities, ordered from least to most serious.
const (
	Note Severity = iota
	Warning
	Error
)

// String renders the severity the way it appears in diagnostic text.
func (s Severity) String() string {
	switch s {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "error"
	}
}

// Diagnostic is a single structured compiler message keyed by a stable code.
// Downstream tests assert on Code, never on Message wording.
type Diagnostic struct {
	Severity Severity
	Code     string
	FileID   source.FileID
	Span     source.Span
	Message  string
	// seq records insertion order, used to break ties when two diagnostics
	// share a location: ordered by location, then insertion order.
	seq int
}

// Emitter collects diagnostics tagged by severity, a stable code, a source
// location and a message.  It is the only sink written by every stage of the
// pipeline; the driver owns it and lends it, mutably, to each stage in turn.
type Emitter struct {
	mgr   *source.Manager
	diags []Diagnostic
	seq   int
}

// NewEmitter constructs an emitter that renders locations using the given
// source manager.
func NewEmitter(mgr *source.Manager) *Emitter {
	return &Emitter{mgr: mgr}
}

// Add records a new diagnostic.
func (e *Emitter) Add(sev Severity, code string, fileID source.FileID, span source.Span, msg string) {
	e.diags = append(e.diags, Diagnostic{sev, code, fileID, span, msg, e.seq})
	e.seq++
}

// Errorf is a convenience wrapper for Add(Error, ...).
func (e *Emitter) Errorf(code string, fileID source.FileID, span source.Span, format string, args ...any) {
	e.Add(Error, code, fileID, span, fmt.Sprintf(format, args...))
}

// Warnf is a convenience wrapper for Add(Warning, ...).
func (e *Emitter) Warnf(code string, fileID source.FileID, span source.Span, format string, args ...any) {
	e.Add(Warning, code, fileID, span, fmt.Sprintf(format, args...))
}

// ErrorCount returns the number of Error-severity diagnostics recorded.
func (e *Emitter) ErrorCount() int {
	count := 0

	for _, d := range e.diags {
		if d.Severity == Error {
			count++
		}
	}

	return count
}

// Diagnostics returns all recorded diagnostics, ordered by source location
// and then by insertion order for ties.
func (e *Emitter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(e.diags))
	copy(out, e.diags)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FileID != out[j].FileID {
			return out[i].FileID < out[j].FileID
		}

		if out[i].Span.Start != out[j].Span.Start {
			return out[i].Span.Start < out[j].Span.Start
		}

		return out[i].seq < out[j].seq
	})

	return out
}

// PrintAll renders every diagnostic to w using the three-line format:
//
//	<file>:<line>:<col>: <severity>[<code>]: <message>
//	<source line>
//	    ^^^^
func (e *Emitter) PrintAll(w io.Writer) {
	for _, d := range e.Diagnostics() {
		e.printOne(w, d)
	}
}

func (e *Emitter) printOne(w io.Writer, d Diagnostic) {
	f := e.mgr.Get(d.FileID)
	if f == nil {
		fmt.Fprintf(w, "<unknown>: %s[%s]: %s\n", d.Severity, d.Code, d.Message)
		return
	}

	line := f.FindLine(d.Span)
	col := 1 + (d.Span.Start - line.Start())

	fmt.Fprintf(w, "%s:%d:%d: %s[%s]: %s\n", f.Filename(), line.Number(), col, d.Severity, d.Code, d.Message)
	fmt.Fprintln(w, line.String())

	lineOffset := d.Span.Start - line.Start()
	length := d.Span.Length()

	if maxLen := len(line.String()) - lineOffset; length > maxLen {
		length = maxLen
	}

	if length < 1 {
		length = 1
	}

	for i := 0; i < lineOffset; i++ {
		fmt.Fprint(w, " ")
	}

	for i := 0; i < length; i++ {
		fmt.Fprint(w, "^")
	}

	fmt.Fprintln(w)
}
