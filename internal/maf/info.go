package maf

import "strconv"

// Status describes how a block's sequence relates to the neighbouring block
// of the same source.
type Status byte

// Status characters used on "i" lines.
const (
	StatusContiguous  Status = 'C' // adjacent block is contiguous
	StatusIntervening Status = 'I' // bases lie between this block and the next
	StatusNew         Status = 'N' // first sequence from this src
	StatusNewBridged  Status = 'n' // first sequence, bridged by another src
	StatusMissing     Status = 'M' // missing data (Ns) before or after
	StatusTandem      Status = 'T' // sequence used before (tandem duplication)
)

func validStatus(s string) bool {
	if len(s) != 1 {
		return false
	}
	switch Status(s[0]) {
	case StatusContiguous, StatusIntervening, StatusNew, StatusNewBridged, StatusMissing, StatusTandem:
		return true
	}
	return false
}

// InfoLine holds the fields of an "i" line.
type InfoLine struct {
	Src         string
	LeftStatus  Status
	LeftCount   int64
	RightStatus Status
	RightCount  int64
}

// ParseInfoLine parses an "i" line, e.g. "i panTro1.chr6 N 0 C 0", and
// checks it against prev, the tokens of the line directly above it, which
// must be the "s" line for the same src.
func ParseInfoLine(tokens, prev []string) (*InfoLine, error) {
	if len(tokens) != 6 {
		return nil, violation(KindILineFormat, "\"i\" line has %d fields, want 6", len(tokens))
	}
	if len(prev) == 0 || prev[0] != "s" {
		return nil, violation(KindILineFormat, "\"i\" line does not follow an \"s\" line")
	}

	var counts [2]int64
	for n, i := range []int{3, 5} {
		c, err := strconv.ParseInt(tokens[i], 10, 64)
		if err != nil {
			return nil, violation(KindILineFormat, "\"i\" line has non integer count %q", tokens[i])
		}
		if c < 0 {
			return nil, violation(KindILineFormat, "\"i\" line has negative count %q", tokens[i])
		}
		counts[n] = c
	}

	for n, i := range []int{2, 4} {
		if !validStatus(tokens[i]) {
			return nil, violation(KindILineFormat, "\"i\" line has invalid status %q", tokens[i])
		}
		if Status(tokens[i][0]) == StatusIntervening && counts[n] < 1 {
			return nil, violation(KindILineFormat, "\"i\" line has invalid count %q for status I", tokens[i+1])
		}
	}

	if len(prev) < 2 || prev[1] != tokens[1] {
		var prevSrc string
		if len(prev) > 1 {
			prevSrc = prev[1]
		}
		return nil, violation(KindILineFormat,
			"\"i\" line src %q differs from previous \"s\" line src %q", tokens[1], prevSrc)
	}

	return &InfoLine{
		Src:         tokens[1],
		LeftStatus:  Status(tokens[2][0]),
		LeftCount:   counts[0],
		RightStatus: Status(tokens[4][0]),
		RightCount:  counts[1],
	}, nil
}
