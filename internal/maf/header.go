package maf

import "strings"

// ValidateHeader checks the first line of a MAF file, e.g.
// "##maf version=1 scoring=tba.v8". A violation is returned as a
// *ValidationError at line 1 with no file name.
func ValidateHeader(line string) error {
	if err := validateHeader(line); err != nil {
		return &ValidationError{Kind: err.kind, Line: 1, Text: line, Message: err.msg}
	}
	return nil
}

func validateHeader(line string) *lineError {
	if !strings.HasPrefix(line, "##") {
		return violation(KindHeader, "bad header, fails to start with `##'")
	}

	hasVersion := false
	for _, tok := range strings.Fields(line)[1:] {
		if strings.HasPrefix(tok, "=") || strings.HasSuffix(tok, "=") {
			return violation(KindHeader, "bad header, there may be no whitespace surrounding \"=\"")
		}
		kv := strings.Split(tok, "=")
		if len(kv) != 2 {
			return violation(KindHeader, "bad header, there may be no whitespace surrounding \"=\"")
		}
		if kv[0] == "version" {
			hasVersion = true
		}
	}
	if !hasVersion {
		return violation(KindHeader, "bad header, no version information")
	}
	return nil
}
