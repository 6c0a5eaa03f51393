package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mercaprice/mercaprice-backend/internal/domain"
)

// Required columns of a snapshot table. Extra columns are ignored.
const (
	colProductID   = "product_id"
	colProductName = "product_name"
	colPrice       = "price"
)

// Result is a cleaned snapshot table plus the number of rows dropped during
// cleaning. Dropped rows are never surfaced individually; the count exists
// for diagnostics only.
type Result struct {
	Records []domain.ProductPriceRecord
	Dropped int
}

// Clean parses one raw semicolon-delimited snapshot table and returns the
// rows that survive validation. Cleaning is fault tolerant per row:
//   - malformed rows (wrong field count, quoting damage) are skipped;
//   - product ids are trimmed, empty ids dropped;
//   - prices accept a comma decimal separator and are dropped when
//     non-numeric or not strictly positive.
//
// A table with zero surviving rows is a NoDataError; source names the
// snapshot for the error message.
func Clean(r io.Reader, source string) (*Result, error) {
	br := bufio.NewReader(r)
	stripBOM(br)

	cr := csv.NewReader(br)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, &domain.NoDataError{Source: source}
	}
	idx := columnIndex(header)
	idID, okID := idx[colProductID]
	idName, okName := idx[colProductName]
	idPrice, okPrice := idx[colPrice]
	if !okID || !okName || !okPrice {
		return nil, &domain.NoDataError{Source: source}
	}

	res := &Result{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Damaged row, not a damaged table.
			res.Dropped++
			continue
		}
		row, ok := cleanRow(rec, idID, idName, idPrice)
		if !ok {
			res.Dropped++
			continue
		}
		res.Records = append(res.Records, row)
	}

	if len(res.Records) == 0 {
		return nil, &domain.NoDataError{Source: source}
	}
	return res, nil
}

func cleanRow(rec []string, idID, idName, idPrice int) (domain.ProductPriceRecord, bool) {
	if idID >= len(rec) || idName >= len(rec) || idPrice >= len(rec) {
		return domain.ProductPriceRecord{}, false
	}
	id := strings.TrimSpace(rec[idID])
	if id == "" {
		return domain.ProductPriceRecord{}, false
	}
	price, ok := parsePrice(rec[idPrice])
	if !ok {
		return domain.ProductPriceRecord{}, false
	}
	return domain.ProductPriceRecord{
		ProductID: id,
		Name:      rec[idName],
		Price:     price,
	}, true
}

// parsePrice coerces a locale-flexible price string. Comma is accepted as
// the decimal separator; anything non-numeric or not strictly positive is
// rejected.
func parsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.Sign() <= 0 {
		return decimal.Decimal{}, false
	}
	return d, true
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func stripBOM(br *bufio.Reader) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	b, err := br.Peek(3)
	if err == nil && b[0] == bom[0] && b[1] == bom[1] && b[2] == bom[2] {
		_, _ = br.Discard(3)
	}
}
