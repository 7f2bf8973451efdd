package importer

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
)

// RawRow is one parsed pledge-import line, keyed by recognized column.
type RawRow struct {
	Email    string
	Name     string
	Amount   string
	Date     string
	Reward   string
	Location string
	Address  string
	Size     string
	Color    string
}

type column int

const (
	colUnknown column = iota
	colEmail
	colName
	colAmount
	colDate
	colReward
	colLocation
	colAddress
	colSize
	colColor
)

// classifyHeader maps a header cell onto a known column by substring, the
// way the historical spreadsheets named things ("Subtotal", "Created at",
// "Billing Country", even the misspelt "Billing Count").
func classifyHeader(header string) column {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.Contains(h, "email"):
		return colEmail
	case strings.Contains(h, "name"):
		return colName
	case strings.Contains(h, "amount"), strings.Contains(h, "price"), strings.Contains(h, "subtotal"):
		return colAmount
	case strings.Contains(h, "date"), strings.Contains(h, "created"):
		return colDate
	case strings.Contains(h, "reward"):
		return colReward
	case strings.Contains(h, "location"), strings.Contains(h, "country"), strings.Contains(h, "billing count"):
		return colLocation
	case strings.Contains(h, "address"):
		return colAddress
	case strings.Contains(h, "size"):
		return colSize
	case strings.Contains(h, "color"):
		return colColor
	default:
		return colUnknown
	}
}

// parsePledgeCSV reads the whole input into RawRows. Only a completely
// unreadable input errors; row-level problems are the caller's business.
func parsePledgeCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable CSV input")
	}
	if len(records) < 2 {
		return nil, nil
	}
	layout := make([]column, len(records[0]))
	for i, header := range records[0] {
		layout[i] = classifyHeader(header)
	}
	rows := make([]RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		var row RawRow
		for i, cell := range record {
			if i >= len(layout) {
				break
			}
			value := strings.TrimSpace(cell)
			switch layout[i] {
			case colEmail:
				row.Email = value
			case colName:
				row.Name = value
			case colAmount:
				row.Amount = value
			case colDate:
				row.Date = value
			case colReward:
				row.Reward = value
			case colLocation:
				row.Location = value
			case colAddress:
				row.Address = value
			case colSize:
				row.Size = value
			case colColor:
				row.Color = value
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cleanAmount strips the currency noise spreadsheets carry ("$1,234.00")
// before decimal parsing.
func cleanAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return decimal.NewFromString(cleaned)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006",
}

// parseDate accepts the date shapes seen in exports. Empty input is not an
// error; it means "stamp with now".
func parseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized date "+value)
}
