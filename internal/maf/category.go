// Package maf validates Multiple Alignment Format (MAF) files.
//
// A MAF file starts with a "##maf" header, followed by alignment blocks.
// Each block opens with an "a" line and holds "s", "i", "e" and "q" lines;
// blocks are separated by blank lines and the file ends with one.
// See https://genome.ucsc.edu/FAQ/FAQformat.html#format5.
package maf

import "strings"

// Category is the syntactic type of a MAF line.
type Category int

// Line categories.
const (
	CategoryUnknown Category = iota
	CategoryHeader
	CategoryComment
	CategoryBlockStart
	CategorySequence
	CategoryInfo
	CategoryOther
	CategoryBlank
)

func (c Category) String() string {
	switch c {
	case CategoryHeader:
		return "header"
	case CategoryComment:
		return "comment"
	case CategoryBlockStart:
		return "a"
	case CategorySequence:
		return "s"
	case CategoryInfo:
		return "i"
	case CategoryOther:
		return "e/q"
	case CategoryBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// Classify returns the category of a line from its leading character.
// The header is positional and never returned here.
func Classify(line string) Category {
	line = strings.TrimSpace(line)
	if line == "" {
		return CategoryBlank
	}
	switch line[0] {
	case '#':
		return CategoryComment
	case 'a':
		return CategoryBlockStart
	case 's':
		return CategorySequence
	case 'i':
		return CategoryInfo
	case 'e', 'q':
		return CategoryOther
	default:
		return CategoryUnknown
	}
}
