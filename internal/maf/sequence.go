package maf

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Gap is the gap character in aligned text.
const Gap = '-'

// chromNamePattern splits a src field such as "hg19.chr1" into species and
// chromosome.
var chromNamePattern = regexp.MustCompile(`^(.+?)\.(chr.+)`)

// SequenceLine holds the fields of an "s" line.
type SequenceLine struct {
	Src     string
	Start   int64
	Size    int64
	Strand  byte
	SrcSize int64
	Text    string
}

// ParseSequenceLine parses and checks the fields of an "s" line, e.g.
// "s hg18.chr7 27578828 38 + 158545518 AAA-GGGAATGTTAACCAAATGA---ATTGTCTCTTACGGTG".
// Checks run in a fixed order so the first failing field decides the kind.
func ParseSequenceLine(tokens []string) (*SequenceLine, error) {
	if len(tokens) != 7 {
		return nil, violation(KindFieldNumber, "incorrect number of fields (%d, want 7)", len(tokens))
	}

	strand := tokens[4]
	if strand != "+" && strand != "-" {
		return nil, violation(KindStrandCharacter, "unexpected character in strand field %q", strand)
	}

	text := tokens[6]
	ungapped := int64(len(text) - strings.Count(text, string(Gap)))
	size, err := strconv.ParseInt(tokens[3], 10, 64)
	if err != nil || size != ungapped {
		return nil, violation(KindAlignmentLength,
			"incorrect seq len (should be %d) or alignment field", ungapped)
	}

	start, err := parseCoordinate(tokens[2])
	if err != nil {
		return nil, violation(KindStartField, "bad start field %q: %v", tokens[2], err)
	}

	srcSize, err := parseCoordinate(tokens[5])
	if err != nil {
		return nil, violation(KindSourceSizeField, "bad srcSize field %q: %v", tokens[5], err)
	}

	// size is non-negative here, so srcSize-size cannot overflow.
	if start > srcSize-size {
		return nil, violation(KindOutOfRange, "out of range sequence (%d + %d > %d)", start, size, srcSize)
	}

	return &SequenceLine{
		Src:     tokens[1],
		Start:   start,
		Size:    size,
		Strand:  strand[0],
		SrcSize: srcSize,
		Text:    text,
	}, nil
}

var errCoordinateTooLarge = errors.New("exceeds the largest supported coordinate")

// parseCoordinate parses a non-negative start or srcSize field. Values
// beyond int64 are rejected rather than compared inexactly.
func parseCoordinate(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	switch {
	case errors.Is(err, strconv.ErrRange) && n > 0:
		return 0, errCoordinateTooLarge
	case err != nil && n >= 0:
		return 0, errors.New("not an integer")
	case n < 0:
		return 0, errors.New("negative")
	}
	return n, nil
}

// sourceKey returns the registry key for src. With checkChrom the src must
// be of the form "species.chrN".
func sourceKey(src string, checkChrom bool) (SourceKey, error) {
	if !checkChrom {
		return SourceKey{Species: src}, nil
	}
	m := chromNamePattern.FindStringSubmatch(src)
	if m == nil {
		return SourceKey{}, violation(KindSpeciesField, "name (src) field without \".chr\" suffix: %q", src)
	}
	return SourceKey{Species: m[1], Chrom: m[2]}, nil
}
