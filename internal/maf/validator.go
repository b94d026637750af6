package maf

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

// Options configures a Validator.
type Options struct {
	// CheckChromNames requires every src field to look like "species.chrN".
	CheckChromNames bool
}

// Result summarizes a file that passed validation.
type Result struct {
	File      string
	Lines     int
	Blocks    int
	Sequences int
	Sources   int
	Digest    string // BLAKE3 of the decompressed content, hex encoded
}

// Validator checks MAF files. Each call to Validate starts from fresh
// state, so a Validator may be reused for many files but must not be
// shared between goroutines.
type Validator struct {
	opts   Options
	logger *zap.Logger
}

// NewValidator creates a validator with the given options.
func NewValidator(opts Options) *Validator {
	return &Validator{
		opts:   opts,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (v *Validator) SetLogger(l *zap.Logger) {
	v.logger = l
}

// ValidateFile validates the MAF file at path ("-" for stdin).
// Compressed input is decompressed transparently.
func (v *Validator) ValidateFile(path string) (*Result, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return v.Validate(in, path)
}

// Validate reads r to the end, or up to the first violation. name
// identifies the file in reports. A violation is returned as a
// *ValidationError; any other error comes from reading r.
func (v *Validator) Validate(r io.Reader, name string) (*Result, error) {
	h := blake3.New()
	br := bufio.NewReader(io.TeeReader(r, h))

	header, err := readLine(br)
	if err == io.EOF {
		return nil, &ValidationError{
			Kind:    KindHeader,
			File:    name,
			Line:    1,
			Message: "empty file, no header",
		}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = strings.TrimRight(header, "\r\n")
	if err := validateHeader(header); err != nil {
		return nil, v.fail(err, name, 1, header)
	}

	m := newMachine(v.opts)
	lineNumber := 1
	last := header
	for {
		raw, err := readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", lineNumber+1, err)
		}
		lineNumber++

		line := strings.TrimSpace(raw)
		if err := m.feed(line); err != nil {
			return nil, v.fail(err, name, lineNumber, line)
		}
		last = line
	}

	if lineNumber == 1 || last != "" {
		return nil, v.fail(violation(KindFooter, "bad footer, should end with a blank line"),
			name, lineNumber, last)
	}

	res := &Result{
		File:      name,
		Lines:     lineNumber,
		Blocks:    m.blocks,
		Sequences: m.sequences,
		Sources:   m.sources.Len(),
		Digest:    hex.EncodeToString(h.Sum(nil)),
	}
	v.logger.Debug("maf file is valid",
		zap.String("file", name),
		zap.Int("lines", res.Lines),
		zap.Int("blocks", res.Blocks),
		zap.Int("sources", res.Sources))
	return res, nil
}

// fail attaches file and line context to a field validator error.
func (v *Validator) fail(err error, name string, lineNumber int, text string) error {
	var le *lineError
	if !errors.As(err, &le) {
		return err
	}
	ve := &ValidationError{
		Kind:    le.kind,
		File:    name,
		Line:    lineNumber,
		Text:    text,
		Message: le.msg,
	}
	v.logger.Debug("maf file is invalid",
		zap.String("file", name),
		zap.Stringer("kind", ve.Kind),
		zap.Int("line", ve.Line))
	return ve
}

// readLine returns the next line including its terminator. A final line
// without a newline is still returned; io.EOF means no more lines.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err == io.EOF && line != "" {
		return line, nil
	}
	return line, err
}
