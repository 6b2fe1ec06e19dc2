package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

type CSVReader struct {
	now func() time.Time
}

func NewCSVReader() *CSVReader { return &CSVReader{now: time.Now} }

func (r *CSVReader) Read(data []byte) ([]domain.AccountStats, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // BOM de Excel

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsToStats(rows, r.now().UTC())
}

// coma o tab, según lo que más aparezca en la primera línea
func detectDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.Count(first, []byte("\t")) > bytes.Count(first, []byte(",")) {
		return '\t'
	}
	return ','
}
