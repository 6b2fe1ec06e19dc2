package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

// ReplayReader lee los JSON que deja el parser externo de replays
// (uno por partida). Los directorios se recorren recursivamente.
type ReplayReader struct{}

func NewReplayReader() *ReplayReader { return &ReplayReader{} }

// FileError junta los archivos que no se pudieron leer sin cortar el lote.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e FileError) Unwrap() error { return e.Err }

func (r *ReplayReader) ReadPaths(paths ...string) ([]domain.Replay, []FileError) {
	var files []string
	var bad []FileError
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			bad = append(bad, FileError{Path: p, Err: err})
		}
	}
	sort.Strings(files)

	out := make([]domain.Replay, 0, len(files))
	for _, f := range files {
		rp, err := r.ReadFile(f)
		if err != nil {
			bad = append(bad, FileError{Path: f, Err: err})
			continue
		}
		out = append(out, rp)
	}
	return out, bad
}

func (r *ReplayReader) ReadFile(path string) (domain.Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Replay{}, err
	}
	rp, err := r.Decode(data)
	if err != nil {
		return domain.Replay{}, err
	}
	rp.SourceFile = path
	return rp, nil
}

func (r *ReplayReader) Decode(data []byte) (domain.Replay, error) {
	var rp domain.Replay
	if err := json.Unmarshal(data, &rp); err != nil {
		return rp, fmt.Errorf("decode replay: %w", err)
	}
	if err := validateReplay(rp); err != nil {
		return rp, err
	}
	return rp, nil
}

var errBadReplay = errors.New("invalid replay")

func validateReplay(rp domain.Replay) error {
	if strings.TrimSpace(rp.MatchID) == "" {
		return fmt.Errorf("%w: missing match_id", errBadReplay)
	}
	if rp.WinnerTeam != 0 && rp.WinnerTeam != 1 {
		return fmt.Errorf("%w: winner_team %d", errBadReplay, rp.WinnerTeam)
	}
	if len(rp.Players) == 0 {
		return fmt.Errorf("%w: no players", errBadReplay)
	}
	slots := map[int]bool{}
	for _, p := range rp.Players {
		if slots[p.Slot] {
			return fmt.Errorf("%w: duplicate slot %d", errBadReplay, p.Slot)
		}
		slots[p.Slot] = true
		if p.BattleTag == "" || p.Hero == "" {
			return fmt.Errorf("%w: slot %d missing battletag or hero", errBadReplay, p.Slot)
		}
	}
	return nil
}
