package maf

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a format violation.
type Kind int

// Violation kinds.
const (
	KindHeader Kind = iota + 1
	KindFieldNumber
	KindStrandCharacter
	KindAlignmentLength
	KindStartField
	KindSourceSizeField
	KindOutOfRange
	KindSourceLength
	KindSpeciesField
	KindMissingAlignmentBlockLine
	KindAlignmentBlockLineKeyValuePair
	KindILineFormat
	KindFooter
)

var kindNames = map[Kind]string{
	KindHeader:                         "HeaderError",
	KindFieldNumber:                    "FieldNumberError",
	KindStrandCharacter:                "StrandCharacterError",
	KindAlignmentLength:                "AlignmentLengthError",
	KindStartField:                     "StartFieldError",
	KindSourceSizeField:                "SourceSizeFieldError",
	KindOutOfRange:                     "OutOfRangeError",
	KindSourceLength:                   "SourceLengthError",
	KindSpeciesField:                   "SpeciesFieldError",
	KindMissingAlignmentBlockLine:      "MissingAlignmentBlockLineError",
	KindAlignmentBlockLineKeyValuePair: "AlignmentBlockLineKeyValuePairError",
	KindILineFormat:                    "ILineFormatError",
	KindFooter:                         "FooterError",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind whose String form is s.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// ValidationError is the first format violation found in a file.
type ValidationError struct {
	Kind    Kind
	File    string
	Line    int
	Text    string
	Message string
}

func (e *ValidationError) Error() string {
	prefix := "maf"
	if e.File != "" {
		prefix = "maf " + e.File
	}
	if e.Text == "" {
		return fmt.Sprintf("%s: %s at line %d: %s", prefix, e.Kind, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s at line %d: %s: %s", prefix, e.Kind, e.Line, e.Message, e.Text)
}

// KindOf reports the violation kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return 0, false
}

// lineError is a violation detected by a field validator before the
// caller has attached file and line context.
type lineError struct {
	kind Kind
	msg  string
}

func (e *lineError) Error() string { return e.msg }

func violation(kind Kind, format string, args ...any) *lineError {
	return &lineError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
