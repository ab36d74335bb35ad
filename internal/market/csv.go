package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/krishimitra/crop-advisor/internal/domain"
)

// expected column order of the mandi price CSV.
const priceColumns = 10

// LoadCSVFile reads the mandi price table at path.
func LoadCSVFile(path string) ([]domain.MarketPriceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price table: %w", err)
	}
	defer f.Close()
	return LoadCSV(f)
}

// LoadCSV parses mandi price records from quoted-field-aware CSV data.
// The first row is the header and is skipped. Rows with fewer than the
// expected columns are dropped; unparseable prices load as 0 rather than
// failing the whole table.
func LoadCSV(r io.Reader) ([]domain.MarketPriceRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, validated below
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse price table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("price table is empty")
	}

	records := make([]domain.MarketPriceRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < priceColumns {
			continue
		}
		records = append(records, domain.MarketPriceRecord{
			State:       strings.TrimSpace(row[0]),
			District:    strings.TrimSpace(row[1]),
			Market:      strings.TrimSpace(row[2]),
			Commodity:   strings.TrimSpace(row[3]),
			Variety:     strings.TrimSpace(row[4]),
			Grade:       strings.TrimSpace(row[5]),
			ArrivalDate: strings.TrimSpace(row[6]),
			MinPrice:    parseIntOrZero(row[7]),
			MaxPrice:    parseIntOrZero(row[8]),
			ModalPrice:  parseIntOrZero(row[9]),
		})
	}
	return records, nil
}

// parseIntOrZero parses a price column, returning 0 on failure.
func parseIntOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
