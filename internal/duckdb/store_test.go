package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/mafvalidate/internal/batch"
	"github.com/inodb/mafvalidate/internal/maf"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fingerprint(path string, size int64) FileFingerprint {
	return FileFingerprint{
		Path:    path,
		Size:    size,
		ModTime: time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC),
	}
}

func sampleResults() []StoredResult {
	return []StoredResult{
		{
			Fingerprint: fingerprint("chr1.maf", 2048),
			Record: batch.Record{
				Path: "chr1.maf", Valid: true,
				Lines: 120, Blocks: 10, Sequences: 50, Sources: 5,
				Digest: "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
			},
		},
		{
			Fingerprint: fingerprint("chr2.maf", 4096),
			Record: batch.Record{
				Path: "chr2.maf", Kind: maf.KindOutOfRange, Line: 17,
				Text:    "s hg19.chr2 10 5 + 12 ACGTA",
				Message: "out of range sequence (10 + 5 > 12)",
			},
		},
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Empty(t, s.Path())
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "results.duckdb")
	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
	assert.Equal(t, dbPath, s.Path())
}

func TestWriteAndRunResults(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteResults("run-1", sampleResults()))

	records, err := s.RunResults("run-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "chr1.maf", records[0].Path)
	assert.True(t, records[0].Valid)
	assert.Zero(t, records[0].Kind)
	assert.Equal(t, 10, records[0].Blocks)
	assert.Equal(t, 50, records[0].Sequences)

	assert.Equal(t, "chr2.maf", records[1].Path)
	assert.False(t, records[1].Valid)
	assert.Equal(t, maf.KindOutOfRange, records[1].Kind)
	assert.Equal(t, 17, records[1].Line)
	assert.Equal(t, "s hg19.chr2 10 5 + 12 ACGTA", records[1].Text)

	records, err = s.RunResults("run-2")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWriteResults_DeduplicatesPaths(t *testing.T) {
	s := openInMemory(t)
	results := sampleResults()
	results = append(results, results[0])

	require.NoError(t, s.WriteResults("run-1", results))

	valid, invalid, err := s.RunSummary("run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, valid)
	assert.Equal(t, 1, invalid)
}

func TestWriteResults_Empty(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteResults("run-1", nil))

	valid, invalid, err := s.RunSummary("run-1")
	require.NoError(t, err)
	assert.Zero(t, valid)
	assert.Zero(t, invalid)
}

func TestLookupFresh(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteResults("run-1", sampleResults()))

	rec, err := s.LookupFresh(fingerprint("chr1.maf", 2048), false)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Valid)
	assert.Equal(t, 5, rec.Sources)

	// File grew since it was validated.
	rec, err = s.LookupFresh(fingerprint("chr1.maf", 2049), false)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// File touched since it was validated.
	touched := fingerprint("chr1.maf", 2048)
	touched.ModTime = touched.ModTime.Add(time.Nanosecond)
	rec, err = s.LookupFresh(touched, false)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Different options need a fresh validation.
	rec, err = s.LookupFresh(fingerprint("chr1.maf", 2048), true)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLookupFresh_LatestRunWins(t *testing.T) {
	s := openInMemory(t)

	older := sampleResults()[1]
	older.ValidatedAt = time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.WriteResults("run-1", []StoredResult{older}))

	newer := older
	newer.Record.Kind = maf.KindFooter
	newer.ValidatedAt = time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.WriteResults("run-2", []StoredResult{newer}))

	rec, err := s.LookupFresh(older.Fingerprint, false)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, maf.KindFooter, rec.Kind)
}

func TestClearResults(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteResults("run-1", sampleResults()))
	require.NoError(t, s.ClearResults())

	records, err := s.RunResults("run-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.duckdb")

	s, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.WriteResults("run-1", sampleResults()))
	require.NoError(t, s.Close())

	s, err = Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	rec, err := s.LookupFresh(fingerprint("chr2.maf", 4096), false)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, maf.KindOutOfRange, rec.Kind)
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.maf")
	require.NoError(t, os.WriteFile(path, []byte("##maf version=1\n\n"), 0o644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, fp.Path)
	assert.Equal(t, int64(17), fp.Size)
	assert.False(t, fp.ModTime.IsZero())

	_, err = StatFile(filepath.Join(t.TempDir(), "missing.maf"))
	assert.Error(t, err)
}
