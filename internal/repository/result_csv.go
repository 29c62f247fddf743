package repository

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"offline-payment-sync/internal/models"
)

// StatusColumn is the outcome column of a result file.
const StatusColumn = "status"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadResultRows parses a client-submitted result file. The match column is
// located by header name; comma, semicolon and tab delimiters are accepted.
// Rows with an empty match value are dropped. Line numbers count the header
// as line 1.
func ReadResultRows(r io.Reader, matchField string) ([]models.ResultRow, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	sample, _ := br.Peek(1024)

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comma = sniffDelimiter(sample)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("result file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	matchIdx, statusIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case matchField:
			matchIdx = i
		case StatusColumn:
			statusIdx = i
		}
	}
	if matchIdx < 0 {
		return nil, fmt.Errorf("result file has no %q column", matchField)
	}
	if statusIdx < 0 {
		return nil, fmt.Errorf("result file has no %q column", StatusColumn)
	}

	var rows []models.ResultRow
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", line, err)
		}

		value := field(record, matchIdx)
		if value == "" {
			continue
		}
		rows = append(rows, models.ResultRow{
			Line:       line,
			MatchValue: value,
			Status:     field(record, statusIdx),
		})
	}
	return rows, nil
}

// WriteResultCSV renders the two-column file submitted per payment.
func WriteResultCSV(matchField string, rows []models.ResultRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{matchField, StatusColumn}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.MatchValue, row.Status}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write result csv: %w", err)
	}
	return buf.Bytes(), nil
}

func sniffDelimiter(sample []byte) rune {
	firstLine := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		firstLine = sample[:i]
	}
	switch {
	case bytes.ContainsRune(firstLine, ','):
		return ','
	case bytes.ContainsRune(firstLine, ';'):
		return ';'
	case bytes.ContainsRune(firstLine, '\t'):
		return '\t'
	}
	return ','
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
