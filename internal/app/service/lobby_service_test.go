package service

import (
	"context"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/hots-lobby-bot/internal/domain"
)

func TestJoin_SetsAllFields(t *testing.T) {
	ctx := context.Background()
	svc, p, _ := newLobby()
	f := gofakeit.New(7)

	for i := 0; i < 20; i++ {
		uid := f.Numerify("##########")
		name := f.Username()
		role := domain.Roles[f.IntRange(0, 4)]

		out := svc.Join(ctx, uid, name, string(role))
		require.Equal(t, ControlsActions, out.Controls)

		got, ok := svc.Store().Get(uid)
		require.True(t, ok)
		assert.Equal(t, domain.Player{Username: name, Role: role, Active: true}, got)
	}
	assert.Equal(t, 20, p.saves)
}

func TestJoin_OverwritesExisting(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobby()

	svc.Join(ctx, "U1", "Alice", "T")
	svc.Leave(ctx, "U1")
	svc.Join(ctx, "U1", "Alicia", "H")

	got, _ := svc.Store().Get("U1")
	assert.Equal(t, domain.Player{Username: "Alicia", Role: domain.RoleHealer, Active: true}, got)
	assert.Len(t, svc.Store().Snapshot(), 1)
}

func TestJoin_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, p, _ := newLobby()

	out := svc.Join(ctx, "U1", "  ", "T")
	assert.Contains(t, out.Reply, "Missing username")
	out = svc.Join(ctx, "U1", "Alice", "Z")
	assert.Contains(t, out.Reply, "Unknown role")
	assert.Empty(t, out.Announcement)

	_, pr := svc.Store().Lookup("U1")
	assert.Equal(t, domain.Absent, pr)
	assert.Zero(t, p.saves)
}

func TestJoin_Announcement(t *testing.T) {
	svc, _, _ := newLobby()
	out := svc.Join(context.Background(), "U1", "Alice", "T")
	assert.Equal(t, "<@U1> (Alice) has joined as 🛡️ Tank", out.Announcement)
}

func TestLeave_PreservesIdentity(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobby()
	svc.Join(ctx, "U1", "Alice", "B")

	out := svc.Leave(ctx, "U1")
	assert.Equal(t, "<@U1> (Alice) has left", out.Announcement)

	got, ok := svc.Store().Get("U1")
	require.True(t, ok)
	assert.Equal(t, domain.Player{Username: "Alice", Role: domain.RoleBruiser, Active: false}, got)
}

func TestLeave_NonMember(t *testing.T) {
	svc, _, _ := newLobby()
	out := svc.Leave(context.Background(), "U9")
	assert.Contains(t, out.Reply, "not in the lobby")
	assert.Empty(t, out.Announcement)
	_, pr := svc.Store().Lookup("U9")
	assert.Equal(t, domain.Absent, pr)
}

func TestRejoin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobby()

	out := svc.Rejoin(ctx, "U1")
	assert.Contains(t, out.Reply, "not in the lobby")
	assert.Empty(t, out.Announcement)

	svc.Join(ctx, "U1", "Alice", "T")
	before, _ := svc.Store().Get("U1")
	out = svc.Rejoin(ctx, "U1")
	assert.Contains(t, out.Reply, "already in the lobby")
	assert.Empty(t, out.Announcement)
	after, _ := svc.Store().Get("U1")
	assert.Equal(t, before, after)

	svc.Leave(ctx, "U1")
	out = svc.Rejoin(ctx, "U1")
	assert.Equal(t, "<@U1> (Alice) has rejoined as 🛡️ Tank", out.Announcement)
	got, _ := svc.Store().Get("U1")
	assert.Equal(t, domain.Player{Username: "Alice", Role: domain.RoleTank, Active: true}, got)
}

func TestPlayers_ListsOnlyActive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobby()
	svc.Join(ctx, "U1", "Alice", "T")
	svc.Join(ctx, "U2", "Bob", "H")
	svc.Join(ctx, "U3", "Carol", "A")
	svc.Leave(ctx, "U2")
	svc.SetName(ctx, "U4", "Dave")

	out := svc.Players(false)
	assert.Contains(t, out.Reply, "<@U1>: (Alice) 🛡️ Tank")
	assert.Contains(t, out.Reply, "<@U3>: (Carol) ⚔️ Assassin")
	assert.NotContains(t, out.Reply, "Bob")
	assert.NotContains(t, out.Reply, "Dave")
	assert.Empty(t, out.Echo)

	out = svc.Players(true)
	assert.Equal(t, "Alice (🛡️ Tank)\nCarol (⚔️ Assassin)", out.Echo)
}

func TestPlayers_Empty(t *testing.T) {
	svc, _, _ := newLobby()
	out := svc.Players(true)
	assert.Equal(t, "ℹ️ No players in the lobby.", out.Reply)
	assert.Empty(t, out.Echo)
}

func TestScenario_JoinLeaveRejoin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobby()

	svc.Join(ctx, "U1", "Alice", "T")
	assert.Contains(t, svc.Players(true).Echo, "Alice (🛡️ Tank)")

	svc.Leave(ctx, "U1")
	assert.Contains(t, svc.Players(true).Reply, "No players")

	svc.Rejoin(ctx, "U1")
	assert.Equal(t, "Alice (🛡️ Tank)", svc.Players(true).Echo)
}

func TestScenario_NameBeforeJoin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobby()

	out := svc.SetName(ctx, "U2", "Bob")
	assert.Contains(t, out.Reply, "not in the lobby yet")
	got, ok := svc.Store().Get("U2")
	require.True(t, ok)
	assert.Equal(t, domain.Player{Username: "Bob", Role: domain.RoleFlex, Active: false}, got)

	svc.Join(ctx, "U2", "Bob", "H")
	got, _ = svc.Store().Get("U2")
	assert.Equal(t, domain.Player{Username: "Bob", Role: domain.RoleHealer, Active: true}, got)
}

func TestSetName_MemberKeepsRoleAndActive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobby()
	svc.Join(ctx, "U1", "Alice", "A")

	out := svc.SetName(ctx, "U1", "Alicia")
	assert.Contains(t, out.Reply, "Alicia")
	got, _ := svc.Store().Get("U1")
	assert.Equal(t, domain.Player{Username: "Alicia", Role: domain.RoleAssassin, Active: true}, got)
}

func TestSetRole_MemberOnly(t *testing.T) {
	ctx := context.Background()
	svc, p, _ := newLobby()

	out := svc.SetRole(ctx, "U1", "H")
	assert.Contains(t, out.Reply, "not in the lobby")
	_, pr := svc.Store().Lookup("U1")
	assert.Equal(t, domain.Absent, pr)
	assert.Zero(t, p.saves)

	svc.Join(ctx, "U1", "Alice", "T")
	svc.Leave(ctx, "U1")
	out = svc.SetRole(ctx, "U1", "healer")
	assert.Contains(t, out.Reply, "💚 Healer")
	got, _ := svc.Store().Get("U1")
	assert.Equal(t, domain.Player{Username: "Alice", Role: domain.RoleHealer, Active: false}, got)
}

func TestHandle_AssignRoleShortcut(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobby()

	it := ParseIntent(domain.Interaction{Kind: domain.KindButton, ID: "B", InvokerID: "U1"})
	out, err := svc.Handle(ctx, it)
	require.NoError(t, err)
	assert.Contains(t, out.Reply, "not in the lobby")
	_, pr := svc.Store().Lookup("U1")
	assert.Equal(t, domain.Absent, pr)

	svc.Join(ctx, "U1", "Alice", "T")
	out, err = svc.Handle(ctx, it)
	require.NoError(t, err)
	assert.Empty(t, out.Announcement)
	got, _ := svc.Store().Get("U1")
	assert.Equal(t, domain.Player{Username: "Alice", Role: domain.RoleBruiser, Active: true}, got)
}

func TestHandle_Buttons(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobby()
	btn := func(id string) Outcome {
		out, err := svc.Handle(ctx, ParseIntent(domain.Interaction{Kind: domain.KindButton, ID: id, InvokerID: "U1"}))
		require.NoError(t, err)
		return out
	}

	assert.Contains(t, btn(ButtonJoin).Reply, "/join")
	assert.Contains(t, btn(ButtonName).Reply, "/name")
	assert.Equal(t, ControlsRoleSelector, btn(ButtonRole).Controls)

	svc.Join(ctx, "U1", "Alice", "T")
	svc.Leave(ctx, "U1")
	out := btn(ButtonJoin)
	assert.Contains(t, out.Announcement, "has rejoined")
	assert.Contains(t, btn(ButtonPlayers).Echo, "Alice")
}

func TestHandle_NonRosterIntent(t *testing.T) {
	svc, _, _ := newLobby()
	_, err := svc.Handle(context.Background(), Intent{Kind: IntentMMR})
	require.Error(t, err)
}

func TestClear_DeactivatesAndKeepsRecords(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobby()
	svc.Join(ctx, "U1", "Alice", "T")
	svc.Join(ctx, "U2", "Bob", "H")
	svc.Leave(ctx, "U2")

	out := svc.Clear(ctx)
	assert.Contains(t, out.Reply, "1 players")
	assert.Empty(t, out.Announcement)
	assert.Empty(t, svc.Store().Active())
	assert.Len(t, svc.Store().Snapshot(), 2)

	back := svc.Rejoin(ctx, "U1")
	assert.Contains(t, back.Reply, "Alice")
	assert.Len(t, svc.Store().Active(), 1)
}

func TestTeams_SplitsEvenly(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobby()
	for i, r := range []string{"T", "A", "B", "H", "F"} {
		svc.Join(ctx, string(rune('a'+i)), "p"+r, r)
	}
	noShuffle := func(int, func(i, j int)) {}
	t1, t2 := svc.Teams(noShuffle)
	assert.Len(t, t1, 3)
	assert.Len(t, t2, 2)
	assert.Equal(t, "a", t1[0].UserID)
	assert.Equal(t, "b", t2[0].UserID)

	txt := FormatTeams(t1, t2)
	assert.True(t, strings.HasPrefix(txt, "**Team 1**"))
	assert.Contains(t, txt, "<@b>: (pA) ⚔️ Assassin")
}

func TestAnnounce_RetriesOnce(t *testing.T) {
	ctx := context.Background()
	svc, _, a := newLobby()

	a.fails = 1
	svc.Announce(ctx, "G1", "hello")
	assert.Equal(t, []string{"G1|hello"}, a.msgs)

	a.fails = 2
	svc.Announce(ctx, "G1", "lost")
	assert.Equal(t, []string{"G1|hello"}, a.msgs)

	svc.Announce(ctx, "G1", "")
	assert.Len(t, a.msgs, 1)
}

func TestAnnounce_FailureDoesNotRollBack(t *testing.T) {
	ctx := context.Background()
	svc, _, a := newLobby()
	a.fails = 5

	out := svc.Join(ctx, "U1", "Alice", "T")
	svc.Announce(ctx, "G1", out.Announcement)

	_, pr := svc.Store().Lookup("U1")
	assert.Equal(t, domain.Active, pr)
}
