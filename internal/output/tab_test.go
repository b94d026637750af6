package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/mafvalidate/internal/batch"
	"github.com/inodb/mafvalidate/internal/maf"
)

func validRecord() batch.Record {
	return batch.Record{
		Path:      "chr1.maf",
		Valid:     true,
		Lines:     25,
		Blocks:    3,
		Sequences: 12,
		Sources:   5,
		Digest:    "abc123",
	}
}

func invalidRecord() batch.Record {
	return batch.Record{
		Path:    "chr2.maf.gz",
		Kind:    maf.KindSourceLength,
		Line:    6,
		Text:    "s hg19.chr1 10 4 + 1001 ACGT",
		Message: "different source lengths for hg19.chr1 (1001, previously 1000)",
	}
}

func TestReportWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewReportWriter(&buf, true)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	header := buf.String()
	for _, col := range []string{"#File", "Status", "Kind", "Line", "Digest", "Message"} {
		assert.Contains(t, header, col)
	}
	assert.True(t, strings.HasSuffix(header, "\n"))
}

func TestReportWriter_WriteAll(t *testing.T) {
	var buf bytes.Buffer
	w := NewReportWriter(&buf, true)

	require.NoError(t, w.Write(validRecord()))
	require.NoError(t, w.Write(invalidRecord()))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, []string{"chr1.maf", "VALID", "-", "-", "3", "12", "5", "abc123", "-"},
		strings.Split(lines[0], "\t"))
	assert.Equal(t, []string{
		"chr2.maf.gz", "INVALID", "SourceLengthError", "6", "-", "-", "-", "-",
		"different source lengths for hg19.chr1 (1001, previously 1000)",
	}, strings.Split(lines[1], "\t"))
}

func TestReportWriter_InvalidOnly(t *testing.T) {
	var buf bytes.Buffer
	w := NewReportWriter(&buf, false)

	require.NoError(t, w.Write(validRecord()))
	require.NoError(t, w.Write(invalidRecord()))
	require.NoError(t, w.Flush())

	out := buf.String()
	assert.NotContains(t, out, "chr1.maf\t")
	assert.Contains(t, out, "chr2.maf.gz")

	// Hidden records still count.
	s := w.Summary()
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Valid)
	assert.Equal(t, 1, s.Invalid)
}

func TestReportWriter_ReadError(t *testing.T) {
	var buf bytes.Buffer
	w := NewReportWriter(&buf, false)

	require.NoError(t, w.Write(batch.Record{
		Path:    "missing.maf",
		Message: "open maf file: open missing.maf:\tno such file\nor directory",
	}))
	require.NoError(t, w.Flush())

	fields := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Len(t, fields, 9)
	assert.Equal(t, "ReadError", fields[2])
	assert.Equal(t, "open maf file: open missing.maf: no such file or directory", fields[8])
	assert.Equal(t, 1, w.Summary().ReadErrors)
}

func TestReportWriter_WriteSummary(t *testing.T) {
	w := NewReportWriter(&bytes.Buffer{}, false)
	require.NoError(t, w.Write(validRecord()))
	require.NoError(t, w.Write(invalidRecord()))
	require.NoError(t, w.Write(invalidRecord()))
	footer := invalidRecord()
	footer.Kind = maf.KindFooter
	require.NoError(t, w.Write(footer))

	var out bytes.Buffer
	w.WriteSummary(&out)
	summary := out.String()

	assert.Contains(t, summary, "Total files:  4")
	assert.Contains(t, summary, "Valid:        1 (25.0%)")
	assert.Contains(t, summary, "Invalid:      3")
	assert.NotContains(t, summary, "Read errors")
	assert.Contains(t, summary, "SourceLengthError:")
	assert.Contains(t, summary, "FooterError:")
	// Kinds are listed in declaration order.
	assert.Less(t, strings.Index(summary, "SourceLengthError"), strings.Index(summary, "FooterError"))
}

func TestSummary_Empty(t *testing.T) {
	var out bytes.Buffer
	newSummary().Write(&out)
	assert.Contains(t, out.String(), "Valid:        0 (0.0%)")
}
