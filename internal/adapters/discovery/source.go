// Package discovery enumerates tournament result files under a corpus root.
//
// The root holds one directory per tournament level; result files may sit
// anywhere beneath a level directory, arbitrarily nested. A file is a
// tournament when its name starts with an ISO-8601 date and ends in .tsv.
// The walker yields (level, date, reader) tuples so the rest of the
// pipeline never touches filesystem mechanics.
package discovery

import (
	"context"
	"io"
	"time"

	"github.com/clbarnes/ddrank/internal/domain/model"
)

// Result is one discovered result file, tagged with the level directory it
// was found under and the date from its filename.
type Result struct {
	// Path identifies the file as given in the corpus; it becomes the
	// tournament's Source identity.
	Path  string
	Level model.Level
	Date  time.Time
	// Open yields the file's content. Each call returns a fresh reader.
	Open func() (io.ReadCloser, error)
}

// Diagnostic reports a skipped directory or subtree, for the run report.
type Diagnostic struct {
	Path string
	Err  error
}

// Source enumerates result files. Implementations other than the filesystem
// walker exist only in tests; anything honoring this contract plugs in.
type Source interface {
	// Discover returns every qualifying result file plus the diagnostics
	// accumulated while walking. The returned error reflects an unusable
	// root or cancellation, never a per-directory defect.
	Discover(ctx context.Context) ([]Result, []Diagnostic, error)
}
