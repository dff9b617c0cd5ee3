package gateway

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"settlement-profit/internal/domain"
)

// CSVWorkbook implements the WorkbookSource interface for CSV exports of the
// settlement report. Files that are not valid UTF-8 are decoded as Windows-1251.
type CSVWorkbook struct {
	comma rune
}

// NewCSVWorkbook creates a new reader. A zero comma sniffs the delimiter from the header.
func NewCSVWorkbook(comma rune) *CSVWorkbook {
	return &CSVWorkbook{comma: comma}
}

// Rows reads the CSV file at path record by record, header first.
func (r *CSVWorkbook) Rows(ctx context.Context, path string, fn func(cells []string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %w", domain.ErrInvalidWorkbook, path, err)
	}
	defer file.Close()

	head, err := peek(file)
	if err != nil {
		return fmt.Errorf("%w: failed to read header from %s: %w", domain.ErrInvalidWorkbook, path, err)
	}
	comma := r.comma
	if comma == 0 {
		comma = sniffDelimiter(head)
	}

	var src io.Reader = file
	if !utf8.Valid(trimPartialRune(head)) {
		src = transform.NewReader(file, charmap.Windows1251.NewDecoder())
	} else if bytes.HasPrefix(head, utf8BOM) {
		if _, err := file.Seek(int64(len(utf8BOM)), io.SeekStart); err != nil {
			return fmt.Errorf("%w: failed to skip BOM in %s: %w", domain.ErrInvalidWorkbook, path, err)
		}
	}

	reader := csv.NewReader(src)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: error reading record from %s: %w", domain.ErrInvalidWorkbook, path, err)
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// peek reads the start of file and rewinds it.
func peek(file *os.File) ([]byte, error) {
	buf := make([]byte, 4096)
	n, err := file.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// trimPartialRune drops a multi-byte sequence cut off at the end of the peeked chunk.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}

// sniffDelimiter picks ';', '\t' or ',' by counting them in the first line.
func sniffDelimiter(head []byte) rune {
	line := head
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	best, bestCount := ',', 0
	for _, candidate := range []byte{';', '\t', ','} {
		if count := bytes.Count(line, []byte{candidate}); count > bestCount {
			best, bestCount = rune(candidate), count
		}
	}
	return best
}
