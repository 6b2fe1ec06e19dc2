package importer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

// XLSXReader usa la primera hoja del libro.
type XLSXReader struct {
	now func() time.Time
}

func NewXLSXReader() *XLSXReader { return &XLSXReader{now: time.Now} }

func (r *XLSXReader) Read(data []byte) ([]domain.AccountStats, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rowsToStats(rows, r.now().UTC())
}
