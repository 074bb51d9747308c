package sink

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/ledger-replay/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCSVWriter_WriteAccounts(t *testing.T) {
	accounts := []models.Account{
		{Client: 1, Available: dec("1.5000"), Held: dec("0"), Locked: false},
		{Client: 2, Available: dec("-1"), Held: dec("0"), Locked: true},
		{Client: 3, Available: dec("0.12345"), Held: dec("2.00005"), Locked: false},
	}

	var buf bytes.Buffer
	err := NewCSVWriter(&buf).WriteAccounts(context.Background(), accounts)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "client,available,held,total,locked", lines[0])
	assert.Equal(t, "1,1.5,0,1.5,false", lines[1])
	assert.Equal(t, "2,-1,0,-1,true", lines[2])
	assert.Equal(t, "3,0.1234,2,2.1234,false", lines[3])
}

func TestCSVWriter_NoAccounts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(&buf).WriteAccounts(context.Background(), nil))
	assert.Equal(t, "client,available,held,total,locked\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCSVWriter_WriteFailure(t *testing.T) {
	err := NewCSVWriter(failingWriter{}).WriteAccounts(context.Background(), []models.Account{{Client: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "0"},
		{"1.0000", "1"},
		{"2.50", "2.5"},
		{"-3.1000", "-3.1"},
		{"0.00005", "0"},
		{"0.00015", "0.0002"},
		{"0.00025", "0.0002"},
		{"123456789.98765", "123456789.9876"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAmount(dec(tt.input)))
		})
	}
}

func TestRow_TotalMatchesAvailablePlusHeld(t *testing.T) {
	accounts := []models.Account{
		{Client: 1, Available: dec("10.25"), Held: dec("3.3333")},
		{Client: 2, Available: dec("-4.0001"), Held: dec("4.0001")},
		{Client: 3, Available: dec("0"), Held: dec("7")},
		{Client: 4, Available: dec("0.12345"), Held: dec("2.00005")},
		{Client: 5, Available: dec("0.00015"), Held: dec("0.00015")},
		{Client: 6, Available: dec("-1.99995"), Held: dec("3.33335")},
	}

	for _, account := range accounts {
		row := Row(account)
		sum := dec(row[1]).Add(dec(row[2]))
		assert.True(t, sum.Equal(dec(row[3])), "client %d: %s + %s != %s", account.Client, row[1], row[2], row[3])
	}
}
