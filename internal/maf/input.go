package maf

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// input is an opened, possibly decompressed, MAF stream.
type input struct {
	io.Reader
	file *os.File
	gz   *gzip.Reader
}

// openInput opens path for reading. "-" reads stdin. Gzip (including
// bgzip) and xz streams are detected by their magic bytes.
func openInput(path string) (*input, error) {
	in := &input{}
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open maf file: %w", err)
		}
		in.file = f
		r = f
	}

	if err := in.wrap(r); err != nil {
		in.Close()
		return nil, err
	}
	return in, nil
}

func (in *input) wrap(r io.Reader) error {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return fmt.Errorf("read maf header: %w", err)
	}

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		in.gz, err = gzip.NewReader(br)
		if err != nil {
			return fmt.Errorf("create gzip reader: %w", err)
		}
		in.Reader = in.gz
	case bytes.HasPrefix(magic, xzMagic):
		xr, err := xz.NewReader(br)
		if err != nil {
			return fmt.Errorf("create xz reader: %w", err)
		}
		in.Reader = xr
	default:
		in.Reader = br
	}
	return nil
}

// Close closes the decompressor and underlying file.
func (in *input) Close() error {
	if in.gz != nil {
		in.gz.Close()
	}
	if in.file != nil {
		return in.file.Close()
	}
	return nil
}
