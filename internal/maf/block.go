package maf

import "strings"

// validateBlockStart checks that every attribute on an "a" line is a
// key=value pair, e.g. "a score=23262.0 pass=2".
func validateBlockStart(tokens []string) error {
	for _, tok := range tokens[1:] {
		if len(strings.Split(tok, "=")) != 2 {
			return violation(KindAlignmentBlockLineKeyValuePair,
				"alignment line does not contain good key-value pairs")
		}
	}
	return nil
}
