package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

func fakeRoster(t *testing.T, n int) map[string]domain.Player {
	t.Helper()
	f := gofakeit.New(42)
	out := make(map[string]domain.Player, n)
	for i := 0; i < n; i++ {
		id := f.Numerify("1##################")
		out[id] = domain.Player{
			Username: f.Username(),
			Role:     domain.Roles[f.IntRange(0, len(domain.Roles)-1)],
			Active:   f.Bool(),
		}
	}
	return out
}

func TestSnapshotFile_RoundTrip(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json"))
	want := fakeRoster(t, 25)

	require.NoError(t, sf.Save(want))
	got, err := sf.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("roster mismatch (-want +got):\n%s", diff)
	}

	_, err = os.Stat(sf.stagingPath())
	require.True(t, errors.Is(err, os.ErrNotExist), "staging file must be consumed by the rename")
}

func TestSnapshotFile_WireFormat(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json"))
	require.NoError(t, sf.Save(map[string]domain.Player{
		"U1": {Username: "Alice", Role: domain.RoleTank, Active: true},
	}))

	b, err := os.ReadFile(sf.Path)
	require.NoError(t, err)
	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	require.Equal(t, map[string]any{"username": "Alice", "role": "T", "active": true}, raw["U1"])
}

func TestSnapshotFile_CrashBeforeRenameKeepsOldPrimary(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json"))
	old := map[string]domain.Player{"U1": {Username: "Alice", Role: domain.RoleTank, Active: true}}
	require.NoError(t, sf.Save(old))

	// staging escrito, rename nunca ocurrió
	next := map[string]domain.Player{"U1": {Username: "Alice", Role: domain.RoleHealer, Active: false}}
	require.NoError(t, sf.writeStaging(next))

	got, err := sf.Load()
	require.NoError(t, err)
	require.Equal(t, old, got)
}

func TestSnapshotFile_CrashMidStagingWriteKeepsOldPrimary(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json"))
	old := map[string]domain.Player{"U1": {Username: "Alice", Role: domain.RoleTank, Active: true}}
	require.NoError(t, sf.Save(old))

	require.NoError(t, os.WriteFile(sf.stagingPath(), []byte(`{"U1": {"usern`), 0o644))

	got, err := sf.Load()
	require.NoError(t, err)
	require.Equal(t, old, got)
}

func TestSnapshotFile_CrashAfterRenameHasNewPrimary(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json"))
	require.NoError(t, sf.Save(map[string]domain.Player{"U1": {Username: "Alice", Role: domain.RoleTank}}))
	next := map[string]domain.Player{"U2": {Username: "Bob", Role: domain.RoleFlex}}
	require.NoError(t, sf.writeStaging(next))
	require.NoError(t, sf.promote())

	got, err := sf.Load()
	require.NoError(t, err)
	require.Equal(t, next, got)
}

func TestSnapshotFile_FallsBackToStaging(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json"))
	want := map[string]domain.Player{"U1": {Username: "Alice", Role: domain.RoleBruiser, Active: true}}
	require.NoError(t, sf.writeStaging(want))
	require.NoError(t, os.WriteFile(sf.Path, []byte("not json"), 0o644))

	got, err := sf.Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSnapshotFile_BothUnreadableIsFatal(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json"))
	require.NoError(t, os.WriteFile(sf.Path, []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(sf.stagingPath(), []byte("}"), 0o644))

	_, err := sf.Load()
	require.ErrorIs(t, err, ErrSnapshotUnreadable)
}

func TestSnapshotFile_PrimaryCorruptStagingMissingIsFatal(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json"))
	require.NoError(t, os.WriteFile(sf.Path, []byte("{"), 0o644))

	_, err := sf.Load()
	require.ErrorIs(t, err, ErrSnapshotUnreadable)
}

func TestSnapshotFile_InvalidRoleRejected(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json"))
	require.NoError(t, os.WriteFile(sf.Path, []byte(`{"U1":{"username":"x","role":"Z","active":true}}`), 0o644))

	_, err := sf.Load()
	require.ErrorIs(t, err, ErrSnapshotUnreadable)
}

func TestSnapshotFile_FirstRunStartsEmpty(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "nested", "roster.json"))
	got, err := sf.Load()
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, sf.Save(nil))
	got, err = sf.Load()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSnapshotFile_NullPrimaryIsNotARoster(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json"))
	require.NoError(t, os.WriteFile(sf.Path, []byte("null"), 0o644))

	_, err := sf.Load()
	require.ErrorIs(t, err, ErrSnapshotUnreadable)

	want := map[string]domain.Player{"U1": {Username: "Alice", Role: domain.RoleTank, Active: true}}
	require.NoError(t, sf.writeStaging(want))
	got, err := sf.Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSnapshotFile_FirstSaveInterruptedStartsEmpty(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json"))
	require.NoError(t, os.WriteFile(sf.stagingPath(), []byte(`{"U1": {"usern`), 0o644))

	got, err := sf.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)

	got["U1"] = domain.Player{Username: "Alice", Role: domain.RoleTank, Active: true}
	require.NoError(t, sf.Save(got))
	again, err := sf.Load()
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestSnapshotFile_NullStagingWithoutPrimaryStartsEmpty(t *testing.T) {
	sf := NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json"))
	require.NoError(t, os.WriteFile(sf.stagingPath(), []byte("null"), 0o644))

	got, err := sf.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}
