package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/clbarnes/ddrank/internal/domain/parse"
)

// FileDiagnostic names one file the run could not use and why.
type FileDiagnostic struct {
	Path string
	Err  error
}

// LineDiagnostic carries the malformed lines of one otherwise accepted file.
type LineDiagnostic struct {
	Path    string
	Defects []parse.LineDefect
}

// Report summarizes one ranking run: what was found, what was kept, and
// every defect encountered along the way. Diagnostics are sorted by path so
// two runs over the same corpus produce identical reports.
type Report struct {
	RunID    string
	Started  time.Time
	Duration time.Duration

	FilesDiscovered int
	FilesParsed     int
	FilesRejected   int
	FilesUnreadable int
	MalformedLines  int
	PlayersRanked   int

	// Unreadable files failed on open or read.
	Unreadable []FileDiagnostic
	// Rejected files carried an inconsistent tie structure.
	Rejected []FileDiagnostic
	// Malformed holds per-file line defects from accepted and rejected files.
	Malformed []LineDiagnostic
	// Skipped holds directories the walker could not use: unknown names
	// under the root, or subtrees it could not read.
	Skipped []FileDiagnostic
}

func newReport() *Report {
	return &Report{
		RunID:   uuid.New().String(),
		Started: time.Now(),
	}
}
