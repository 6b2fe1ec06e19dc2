package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/hots-lobby-bot/internal/adapters/heroesprofile"
	"github.com/jose-valero/hots-lobby-bot/internal/app/service"
)

// dispatch: un case por intent. IntentUnknown ya se filtró en handle.
func (r *Router) dispatch(ctx context.Context, rsp responder, ic *discordgo.InteractionCreate, it service.Intent) error {
	if it.AdminOnly() && !r.requireAdmin(ic) {
		rsp.Reply(ctx, "🔒 You don't have permission for this.")
		return nil
	}

	switch it.Kind {
	case service.IntentJoin, service.IntentLeave, service.IntentRejoin,
		service.IntentName, service.IntentRole, service.IntentRoleSelector,
		service.IntentAssignRole, service.IntentPlayers, service.IntentClear:
		out, err := r.lobby.Handle(ctx, it)
		if err != nil {
			return err
		}
		r.deliver(ctx, rsp, ic, out)
		return nil

	case service.IntentSetChannel:
		msg, err := r.channels.Set(ctx, it.Tag, it.ChannelID, it.ChannelName)
		if err != nil {
			return err
		}
		rsp.Reply(ctx, msg)
		return nil

	case service.IntentChannels:
		msg, err := r.channels.Show(ctx)
		if err != nil {
			return err
		}
		rsp.Reply(ctx, msg)
		return nil

	case service.IntentAnnounceChannel:
		msg, err := r.channels.SetAnnounceChannel(ctx, it.ChannelName)
		if err != nil {
			return err
		}
		rsp.Reply(ctx, msg)
		return nil

	case service.IntentGather:
		return r.gather(ctx, rsp, ic)

	case service.IntentTeams:
		return r.teams(ctx, rsp, ic)

	case service.IntentMMR:
		if r.stats == nil {
			rsp.Reply(ctx, "ℹ️ MMR lookups are not configured.")
			return nil
		}
		defer step(ctx, "mmr.lookup")()
		msg, err := r.stats.DescribeMMR(ctx, it.BattleTag)
		if err != nil {
			return err
		}
		rsp.Reply(ctx, msg)
		return nil

	case service.IntentUnknown:
		return nil
	}
	return fmt.Errorf("unhandled intent %s", it.Kind)
}

// deliver: 1) respuesta privada 2) eco público 3) anuncio (best effort, después del commit)
func (r *Router) deliver(ctx context.Context, rsp responder, ic *discordgo.InteractionCreate, out service.Outcome) {
	rsp.Reply(ctx, out.Reply, componentsFor(out.Controls)...)
	if out.Echo != "" {
		if err := rsp.Public(ctx, ic.ChannelID, out.Echo); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("players echo")
		}
	}
	if out.Announcement != "" {
		r.lobby.Announce(ctx, ic.GuildID, out.Announcement)
	}
}

func (r *Router) gather(ctx context.Context, rsp responder, ic *discordgo.InteractionCreate) error {
	chs, err := r.channels.Lookup(ctx, service.TagLobby)
	if err != nil {
		return err
	}
	lobby, ok := chs[service.TagLobby]
	if !ok {
		rsp.Reply(ctx, "ℹ️ No lobby channel registered. Use `/setchannel tag:lobby`.")
		return nil
	}
	moved := r.moveAll(ctx, ic.GuildID, r.lobby.Store().Active(), lobby.ChannelID)
	rsp.Reply(ctx, fmt.Sprintf("🎧 Moved %d players to <#%s>.", moved, lobby.ChannelID))
	return nil
}

func (r *Router) teams(ctx context.Context, rsp responder, ic *discordgo.InteractionCreate) error {
	team1, team2 := r.lobby.Teams(nil)
	if len(team1)+len(team2) < 2 {
		rsp.Reply(ctx, "ℹ️ Need at least 2 active players to make teams.")
		return nil
	}
	if err := rsp.Public(ctx, ic.ChannelID, service.FormatTeams(team1, team2)); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("teams post")
	}

	chs, err := r.channels.Lookup(ctx, service.TagTeam1, service.TagTeam2)
	if err != nil {
		return err
	}
	moved := 0
	if c, ok := chs[service.TagTeam1]; ok {
		moved += r.moveAll(ctx, ic.GuildID, team1, c.ChannelID)
	}
	if c, ok := chs[service.TagTeam2]; ok {
		moved += r.moveAll(ctx, ic.GuildID, team2, c.ChannelID)
	}
	rsp.Reply(ctx, fmt.Sprintf("🎲 Teams posted (%d vs %d), %d players moved.", len(team1), len(team2), moved))
	return nil
}

func errorReply(err error) string {
	switch {
	case errors.Is(err, heroesprofile.ErrUnavailable):
		return "⚠️ Heroes Profile data unavailable right now, try again later."
	case errors.Is(err, context.DeadlineExceeded):
		return "⚠️ That took too long, try again."
	}
	return "⚠️ Something went wrong: " + err.Error()
}
