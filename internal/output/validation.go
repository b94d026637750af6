package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/inodb/mafvalidate/internal/batch"
	"github.com/inodb/mafvalidate/internal/maf"
)

// Summary counts validation outcomes.
type Summary struct {
	Total      int
	Valid      int
	Invalid    int
	ReadErrors int
	ByKind     map[maf.Kind]int
}

func newSummary() Summary {
	return Summary{ByKind: make(map[maf.Kind]int)}
}

func (s *Summary) add(rec batch.Record) {
	s.Total++
	switch {
	case rec.Valid:
		s.Valid++
	case rec.Kind != 0:
		s.Invalid++
		s.ByKind[rec.Kind]++
	default:
		s.ReadErrors++
	}
}

// Write writes the summary in human-readable form.
func (s Summary) Write(w io.Writer) {
	validRate := float64(0)
	if s.Total > 0 {
		validRate = float64(s.Valid) / float64(s.Total) * 100
	}
	fmt.Fprintf(w, "\nValidation Summary:\n")
	fmt.Fprintf(w, "  Total files:  %d\n", s.Total)
	fmt.Fprintf(w, "  Valid:        %d (%.1f%%)\n", s.Valid, validRate)
	fmt.Fprintf(w, "  Invalid:      %d\n", s.Invalid)
	if s.ReadErrors > 0 {
		fmt.Fprintf(w, "  Read errors:  %d\n", s.ReadErrors)
	}

	kinds := make([]maf.Kind, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		fmt.Fprintf(w, "    %-36s %d\n", k.String()+":", s.ByKind[k])
	}
}
