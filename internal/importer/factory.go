package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

// AccountStatsReader lee filas de cuentas de un archivo ya cargado en memoria.
type AccountStatsReader interface {
	Read(data []byte) ([]domain.AccountStats, error)
}

// Factory elige el reader por extensión.
type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) ReaderFor(filename string) (AccountStatsReader, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".tsv":
		return NewCSVReader(), nil
	case ".xlsx":
		return NewXLSXReader(), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}
}
