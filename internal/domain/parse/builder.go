package parse

import (
	"bufio"
	"io"
	"sort"
	"time"

	"github.com/clbarnes/ddrank/internal/domain/model"
)

// LineDefect records one malformed line as a non-fatal diagnostic.
type LineDefect struct {
	// LineNo is 1-based within the source file.
	LineNo int
	Text   string
	Reason error
}

// Builder assembles line outcomes for one file into a Tournament.
// Feed it every line in order, then call Build once.
type Builder struct {
	source  string
	level   model.Level
	date    time.Time
	lineNo  int
	entries []model.Entry
	defects []LineDefect
}

// NewBuilder creates a builder for one result file. The level and date come
// from the file's location and name, not its contents.
func NewBuilder(source string, level model.Level, date time.Time) *Builder {
	return &Builder{source: source, level: level, date: date}
}

// Add classifies one raw line and records it.
func (b *Builder) Add(line string) {
	b.lineNo++
	out := ParseLine(line)
	switch out.Kind {
	case EntryLine:
		b.entries = append(b.entries, out.Entry)
	case Malformed:
		b.defects = append(b.defects, LineDefect{LineNo: b.lineNo, Text: line, Reason: out.Reason})
	case Skip:
	}
}

// Defects returns the malformed-line diagnostics collected so far.
func (b *Builder) Defects() []LineDefect {
	return b.defects
}

// Build validates the collected entries and emits the Tournament.
//
// Entries are sorted by position; source files need not be ordered. On a tie
// consistency violation the whole file is rejected with a
// *TieConsistencyError and contributes no tournament. A file with no entries
// at all builds an empty Tournament, which is valid and simply awards no
// points. Duplicate teams are accepted as distinct entries.
func (b *Builder) Build() (model.Tournament, error) {
	entries := make([]model.Entry, len(b.entries))
	copy(entries, b.entries)
	// Stable so entries tied at one position keep their file order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Position < entries[j].Position
	})

	t := model.Tournament{
		Source:  b.source,
		Date:    b.date,
		Level:   b.level,
		Entries: entries,
	}

	expected := uint64(1)
	for _, group := range t.TieGroups() {
		if got := group[0].Position; got != expected {
			return model.Tournament{}, &TieConsistencyError{Position: got, Expected: expected}
		}
		expected += uint64(len(group))
	}

	return t, nil
}

// Read scans r line by line and builds the file's Tournament. It returns the
// malformed-line diagnostics alongside the result; a non-nil error is either
// a read failure or a *TieConsistencyError rejection.
func Read(r io.Reader, source string, level model.Level, date time.Time) (model.Tournament, []LineDefect, error) {
	b := NewBuilder(source, level, date)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		b.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return model.Tournament{}, b.Defects(), err
	}

	t, err := b.Build()
	return t, b.Defects(), err
}
