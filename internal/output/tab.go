// Package output provides validation report formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/mafvalidate/internal/batch"
)

// ReportWriter writes validation records in tab-delimited format.
type ReportWriter struct {
	w       *bufio.Writer
	columns []string
	summary Summary
	showAll bool // if false, only invalid files are written
}

// NewReportWriter creates a new tab-delimited report writer.
func NewReportWriter(w io.Writer, showAll bool) *ReportWriter {
	return &ReportWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#File",
			"Status",
			"Kind",
			"Line",
			"Blocks",
			"Sequences",
			"Sources",
			"Digest",
			"Message",
		},
		summary: newSummary(),
		showAll: showAll,
	}
}

// WriteHeader writes the header line.
func (rw *ReportWriter) WriteHeader() error {
	_, err := rw.w.WriteString(strings.Join(rw.columns, "\t") + "\n")
	return err
}

// Write writes a single record.
func (rw *ReportWriter) Write(rec batch.Record) error {
	rw.summary.add(rec)
	if rec.Valid && !rw.showAll {
		return nil
	}

	status := "INVALID"
	if rec.Valid {
		status = "VALID"
	}

	kind := "-"
	if rec.Kind != 0 {
		kind = rec.Kind.String()
	} else if !rec.Valid {
		kind = "ReadError"
	}

	line := "-"
	if rec.Line > 0 {
		line = strconv.Itoa(rec.Line)
	}

	blocks, sequences, sources := "-", "-", "-"
	if rec.Valid {
		blocks = strconv.Itoa(rec.Blocks)
		sequences = strconv.Itoa(rec.Sequences)
		sources = strconv.Itoa(rec.Sources)
	}

	values := []string{
		rec.Path,
		status,
		kind,
		line,
		blocks,
		sequences,
		sources,
		orDash(rec.Digest),
		orDash(sanitize(rec.Message)),
	}

	_, err := rw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (rw *ReportWriter) Flush() error {
	return rw.w.Flush()
}

// Summary returns counts over every record written so far.
func (rw *ReportWriter) Summary() Summary {
	return rw.summary
}

// WriteSummary writes a summary of the validation results.
func (rw *ReportWriter) WriteSummary(w io.Writer) {
	rw.summary.Write(w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// sanitize keeps free text on one tab-delimited field.
func sanitize(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}
