package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

// SnapshotFile persiste el roster completo como JSON (userID -> Player).
// Escribe primero en <path>.tmp y luego hace rename atómico sobre <path>.
type SnapshotFile struct {
	Path string
}

func NewSnapshotFile(path string) *SnapshotFile { return &SnapshotFile{Path: path} }

func (f *SnapshotFile) stagingPath() string { return f.Path + ".tmp" }

// Load lee el primario; si falla prueba el staging. Si fallan los dos devuelve
// ErrSnapshotUnreadable, salvo primer arranque: no hay primario y el staging
// no existe o quedó a medio escribir (nunca se commiteó nada).
func (f *SnapshotFile) Load() (map[string]domain.Player, error) {
	m, errPrimary := readSnapshot(f.Path)
	if errPrimary == nil {
		return m, nil
	}
	m, errStaging := readSnapshot(f.stagingPath())
	if errStaging == nil {
		return m, nil
	}
	if errors.Is(errPrimary, fs.ErrNotExist) {
		switch {
		case errors.Is(errStaging, fs.ErrNotExist):
			return map[string]domain.Player{}, nil
		case errors.Is(errStaging, errCorrupt):
			log.Warn().Err(errStaging).Str("path", f.stagingPath()).Msg("no roster snapshot committed yet, ignoring broken staging file")
			return map[string]domain.Player{}, nil
		}
	}
	return nil, fmt.Errorf("%w: primary: %v; staging: %v", ErrSnapshotUnreadable, errPrimary, errStaging)
}

// Save serializa el mapa entero. El rename es el único punto de "commit".
func (f *SnapshotFile) Save(players map[string]domain.Player) error {
	if err := f.writeStaging(players); err != nil {
		return err
	}
	return f.promote()
}

func (f *SnapshotFile) writeStaging(players map[string]domain.Player) error {
	if players == nil {
		players = map[string]domain.Player{}
	}
	b, err := json.MarshalIndent(players, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp, err := os.Create(f.stagingPath())
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	return tmp.Close()
}

func (f *SnapshotFile) promote() error {
	return os.Rename(f.stagingPath(), f.Path)
}

// errCorrupt: el archivo existe pero el contenido no es un roster válido.
var errCorrupt = errors.New("corrupt snapshot")

func readSnapshot(path string) (map[string]domain.Player, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]domain.Player
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", errCorrupt, path, err)
	}
	// Save nunca escribe null; si aparece, el archivo no es nuestro
	if m == nil {
		return nil, fmt.Errorf("%w: %s: not a roster object", errCorrupt, path)
	}
	for id, p := range m {
		if !p.Role.Valid() {
			return nil, fmt.Errorf("%w: %s: user %s: %w %q", errCorrupt, path, id, domain.ErrInvalidRole, p.Role)
		}
	}
	return m, nil
}
