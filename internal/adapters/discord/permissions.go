package discord

import "github.com/bwmarrin/discordgo"

// isAdmin: owner del guild, bit Administrator o alguno de los roles configurados.
func isAdmin(guild *discordgo.Guild, m *discordgo.Member, adminRoleIDs []string) bool {
	if m == nil || m.User == nil {
		return false
	}
	if guild != nil && m.User.ID == guild.OwnerID {
		return true
	}

	// Discord manda los permisos ya calculados en la interacción
	if m.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	if guild != nil {
		var perms int64
		for _, rid := range m.Roles {
			for _, ro := range guild.Roles {
				if ro.ID == rid {
					perms |= ro.Permissions
				}
			}
		}
		if perms&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	if len(adminRoleIDs) > 0 {
		has := make(map[string]struct{}, len(m.Roles))
		for _, rid := range m.Roles {
			has[rid] = struct{}{}
		}
		for _, want := range adminRoleIDs {
			if _, ok := has[want]; ok {
				return true
			}
		}
	}
	return false
}

func (r *Router) requireAdmin(ic *discordgo.InteractionCreate) bool {
	var guild *discordgo.Guild
	if r.s != nil && r.s.State != nil {
		guild, _ = r.s.State.Guild(ic.GuildID)
	}
	return isAdmin(guild, ic.Member, r.adminRoleIDs)
}
