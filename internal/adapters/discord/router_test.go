package discord

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/hots-lobby-bot/internal/app/service"
	"github.com/jose-valero/hots-lobby-bot/internal/domain"
	"github.com/jose-valero/hots-lobby-bot/internal/infra/storage"
)

// recorder junta todo lo que sale hacia Discord, en orden.
type recorder struct {
	events     []string
	components [][]discordgo.MessageComponent
}

func (r *recorder) Ack(context.Context) error {
	r.events = append(r.events, "ack")
	return nil
}

func (r *recorder) Defer(context.Context) error {
	r.events = append(r.events, "defer")
	return nil
}

func (r *recorder) Notice(_ context.Context, msg string) error {
	r.events = append(r.events, "notice: "+msg)
	return nil
}

func (r *recorder) Reply(_ context.Context, content string, components ...discordgo.MessageComponent) {
	r.events = append(r.events, "reply: "+content)
	r.components = append(r.components, components)
}

func (r *recorder) Public(_ context.Context, channelID, content string) error {
	r.events = append(r.events, fmt.Sprintf("public %s: %s", channelID, content))
	return nil
}

func (r *recorder) Announce(_ context.Context, guildID, msg string) error {
	r.events = append(r.events, fmt.Sprintf("announce %s: %s", guildID, msg))
	return nil
}

func newTestRouter(t *testing.T) (*Router, *recorder, *service.RosterStore) {
	t.Helper()
	rec := &recorder{}
	store := service.NewRosterStore(storage.NewSnapshotFile(filepath.Join(t.TempDir(), "roster.json")))
	lobby := service.NewLobbyService(store, rec)
	return NewRouter(nil, "G1", lobby, nil, nil, nil), rec, store
}

func event(t discordgo.InteractionType, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      t,
		GuildID:   "G1",
		ChannelID: "C1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: userID}},
	}}
}

func command(userID, name string, opts map[string]string) (*discordgo.InteractionCreate, domain.Interaction) {
	return event(discordgo.InteractionApplicationCommand, userID),
		domain.Interaction{Kind: domain.KindCommand, ID: name, InvokerID: userID, GuildID: "G1", Options: opts}
}

func button(userID, customID string) (*discordgo.InteractionCreate, domain.Interaction) {
	return event(discordgo.InteractionMessageComponent, userID),
		domain.Interaction{Kind: domain.KindButton, ID: customID, InvokerID: userID, GuildID: "G1"}
}

func TestHandle_JoinRepliesThenAnnounces(t *testing.T) {
	r, rec, _ := newTestRouter(t)
	ic, in := command("U1", "join", map[string]string{"username": "Alice", "role": "T"})
	r.handle(rec, ic, in)

	assert.Equal(t, []string{
		"defer",
		"reply: ✅ You joined the lobby as **Alice** (🛡️ Tank).",
		"announce G1: <@U1> (Alice) has joined as 🛡️ Tank",
	}, rec.events)
	require.Len(t, rec.components, 1)
	assert.Len(t, rec.components[0], 2)
}

func TestHandle_PlayersButtonEchoesAfterReply(t *testing.T) {
	r, rec, store := newTestRouter(t)
	store.Set("U1", domain.Player{Username: "Alice", Role: domain.RoleTank, Active: true})

	ic, in := button("U2", service.ButtonPlayers)
	r.handle(rec, ic, in)

	assert.Equal(t, []string{
		"defer",
		"reply: 📋 **Lobby (1)**\n<@U1>: (Alice) 🛡️ Tank",
		"public C1: Alice (🛡️ Tank)",
	}, rec.events)
}

func TestHandle_PlayersCommandHasNoEcho(t *testing.T) {
	r, rec, store := newTestRouter(t)
	store.Set("U1", domain.Player{Username: "Alice", Role: domain.RoleTank, Active: true})

	ic, in := command("U2", "players", nil)
	r.handle(rec, ic, in)

	require.Len(t, rec.events, 2)
	assert.Equal(t, "defer", rec.events[0])
}

func TestHandle_UnknownButtonIsAckedSilently(t *testing.T) {
	r, rec, _ := newTestRouter(t)
	ic, in := button("U1", "queue_join_old")
	r.handle(rec, ic, in)

	assert.Equal(t, []string{"ack"}, rec.events)
	assert.Empty(t, rec.components)
}

func TestHandle_UnknownCommandGetsNotice(t *testing.T) {
	r, rec, _ := newTestRouter(t)
	ic, in := command("U1", "queue", nil)
	r.handle(rec, ic, in)

	assert.Equal(t, []string{"notice: ℹ️ Unknown command."}, rec.events)
}

func TestHandle_DoubleClickIsLimited(t *testing.T) {
	r, rec, store := newTestRouter(t)
	store.Set("U1", domain.Player{Username: "Alice", Role: domain.RoleTank, Active: true})

	ic, in := button("U1", service.ButtonLeave)
	r.handle(rec, ic, in)
	r.handle(rec, ic, in)

	require.Len(t, rec.events, 4)
	assert.Equal(t, "announce G1: <@U1> (Alice) has left", rec.events[2])
	assert.Equal(t, "notice: ⏳ Easy, one click per second…", rec.events[3])
}

func TestHandle_AdminIntentRejectedForMembers(t *testing.T) {
	r, rec, store := newTestRouter(t)
	store.Set("U1", domain.Player{Username: "Alice", Role: domain.RoleTank, Active: true})

	ic, in := command("U2", "clear", nil)
	r.handle(rec, ic, in)

	assert.Equal(t, []string{"defer", "reply: 🔒 You don't have permission for this."}, rec.events)
	assert.Len(t, store.Active(), 1)
}

func TestHandle_AdminClearHasNoAnnouncement(t *testing.T) {
	r, rec, store := newTestRouter(t)
	store.Set("U1", domain.Player{Username: "Alice", Role: domain.RoleTank, Active: true})

	ic, in := command("U9", "clear", nil)
	ic.Member.Permissions = discordgo.PermissionAdministrator
	r.handle(rec, ic, in)

	assert.Equal(t, []string{"defer", "reply: 🧹 Lobby cleared (1 players removed)."}, rec.events)
	assert.Empty(t, store.Active())
}
