package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/ledger-replay/internal/models"
)

const (
	columnType   = "type"
	columnClient = "client"
	columnTx     = "tx"
	columnAmount = "amount"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrUnknownAction = errors.New("unknown transaction type")
	ErrEmptyField    = errors.New("empty required field")
)

// RowError describes a record that could not be decoded.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// CSVReader decodes transactions from a CSV stream with a header row.
// Columns are matched by name, rows may be short, and every field is
// trimmed of surrounding whitespace.
type CSVReader struct {
	reader  *csv.Reader
	columns map[string]int
}

// NewCSVReader reads the header row and prepares the column mapping.
func NewCSVReader(r io.Reader) (*CSVReader, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{columnType, columnClient, columnTx} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	return &CSVReader{reader: reader, columns: columns}, nil
}

// Next decodes the next record. It returns io.EOF at the end of the stream.
func (c *CSVReader) Next() (models.Transaction, error) {
	record, err := c.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return models.Transaction{}, io.EOF
		}
		return models.Transaction{}, fmt.Errorf("read record: %w", err)
	}
	line, _ := c.reader.FieldPos(0)

	return c.decode(record, line)
}

// ReadAll decodes every remaining record.
func (c *CSVReader) ReadAll() ([]models.Transaction, error) {
	var txs []models.Transaction
	for {
		tx, err := c.Next()
		if errors.Is(err, io.EOF) {
			return txs, nil
		}
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
}

func (c *CSVReader) decode(record []string, line int) (models.Transaction, error) {
	var tx models.Transaction

	action, ok := models.ParseAction(c.field(record, columnType))
	if !ok {
		return tx, &RowError{Line: line, Column: columnType, Err: fmt.Errorf("%w: %q", ErrUnknownAction, c.field(record, columnType))}
	}
	tx.Action = action

	client, err := parseUint(c.field(record, columnClient), 16)
	if err != nil {
		return tx, &RowError{Line: line, Column: columnClient, Err: err}
	}
	tx.Client = uint16(client)

	txID, err := parseUint(c.field(record, columnTx), 32)
	if err != nil {
		return tx, &RowError{Line: line, Column: columnTx, Err: err}
	}
	tx.TxID = uint32(txID)

	if raw := c.field(record, columnAmount); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return tx, &RowError{Line: line, Column: columnAmount, Err: err}
		}
		tx.Amount = models.NewAmount(amount)
	}

	return tx, nil
}

// field returns the trimmed value of the named column, or "" when the row
// is too short or the column is not in the header.
func (c *CSVReader) field(record []string, name string) string {
	i, ok := c.columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseUint(s string, bitSize int) (uint64, error) {
	if s == "" {
		return 0, ErrEmptyField
	}
	return strconv.ParseUint(s, 10, bitSize)
}
