package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/mafvalidate/internal/batch"
	"github.com/inodb/mafvalidate/internal/maf"
)

// StoredResult pairs a validation record with the identity of the file
// it was computed from.
type StoredResult struct {
	Fingerprint FileFingerprint
	Record      batch.Record
	ValidatedAt time.Time
}

// WriteResults batch-inserts the results of one run using the Appender API.
// Duplicate paths within the run keep their first entry.
func (s *Store) WriteResults(runID string, results []StoredResult) error {
	if len(results) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(results))
	deduped := make([]StoredResult, 0, len(results))
	for _, r := range results {
		if !seen[r.Record.Path] {
			seen[r.Record.Path] = true
			deduped = append(deduped, r)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "validation_results")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	now := time.Now().UTC()
	for _, r := range deduped {
		rec := r.Record
		validatedAt := r.ValidatedAt
		if validatedAt.IsZero() {
			validatedAt = now
		}
		var kind string
		if rec.Kind != 0 {
			kind = rec.Kind.String()
		}
		if err := appender.AppendRow(
			runID, rec.Path, r.Fingerprint.Size, r.Fingerprint.modTimeNanos(),
			rec.CheckChromNames, rec.Valid, kind, int64(rec.Line), rec.Text, rec.Message,
			int64(rec.Lines), int64(rec.Blocks), int64(rec.Sequences), int64(rec.Sources),
			rec.Digest, validatedAt,
		); err != nil {
			return fmt.Errorf("append validation result: %w", err)
		}
	}

	return appender.Flush()
}

// LookupFresh returns the most recent record for the fingerprinted file,
// provided the file has not changed since and was validated with the same
// chromosome-name setting.
func (s *Store) LookupFresh(fp FileFingerprint, checkChromNames bool) (*batch.Record, error) {
	rows, err := s.db.Query(`SELECT
		path, check_chrom_names, valid, kind, line, text, message,
		lines, blocks, sequences, sources, digest
		FROM validation_results
		WHERE path=? AND size=? AND mod_time_ns=? AND check_chrom_names=?
		ORDER BY validated_at DESC
		LIMIT 1`,
		fp.Path, fp.Size, fp.modTimeNanos(), checkChromNames)
	if err != nil {
		return nil, fmt.Errorf("query validation result: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// RunResults returns every record written for a run, ordered by path.
func (s *Store) RunResults(runID string) ([]batch.Record, error) {
	rows, err := s.db.Query(`SELECT
		path, check_chrom_names, valid, kind, line, text, message,
		lines, blocks, sequences, sources, digest
		FROM validation_results
		WHERE run_id=?
		ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run results: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// RunSummary counts valid and invalid files recorded for a run.
func (s *Store) RunSummary(runID string) (valid, invalid int, err error) {
	var v, inv int64
	err = s.db.QueryRow(`SELECT
		COUNT(*) FILTER (WHERE valid),
		COUNT(*) FILTER (WHERE NOT valid)
		FROM validation_results
		WHERE run_id=?`, runID).Scan(&v, &inv)
	if err != nil {
		return 0, 0, fmt.Errorf("query run summary: %w", err)
	}
	return int(v), int(inv), nil
}

// ClearResults removes all stored validation results.
func (s *Store) ClearResults() error {
	_, err := s.db.Exec("DELETE FROM validation_results")
	return err
}

// scanRecords scans rows into Record slices.
func scanRecords(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]batch.Record, error) {
	var records []batch.Record
	for rows.Next() {
		var rec batch.Record
		var kind string
		var line, lines, blocks, sequences, sources int64

		if err := rows.Scan(
			&rec.Path, &rec.CheckChromNames, &rec.Valid, &kind, &line, &rec.Text, &rec.Message,
			&lines, &blocks, &sequences, &sources, &rec.Digest,
		); err != nil {
			return nil, fmt.Errorf("scan validation result: %w", err)
		}

		if kind != "" {
			k, ok := maf.ParseKind(kind)
			if !ok {
				return nil, fmt.Errorf("unknown violation kind %q", kind)
			}
			rec.Kind = k
		}
		rec.Line = int(line)
		rec.Lines = int(lines)
		rec.Blocks = int(blocks)
		rec.Sequences = int(sequences)
		rec.Sources = int(sources)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate validation results: %w", err)
	}
	return records, nil
}
