package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestIsAdmin(t *testing.T) {
	guild := &discordgo.Guild{
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "r-admin", Permissions: discordgo.PermissionAdministrator},
			{ID: "r-mod", Permissions: discordgo.PermissionManageMessages},
		},
	}
	member := func(id string, perms int64, roles ...string) *discordgo.Member {
		return &discordgo.Member{User: &discordgo.User{ID: id}, Permissions: perms, Roles: roles}
	}

	tests := []struct {
		name   string
		guild  *discordgo.Guild
		m      *discordgo.Member
		admins []string
		want   bool
	}{
		{"owner", guild, member("owner", 0), nil, true},
		{"interaction permissions", nil, member("u", discordgo.PermissionAdministrator), nil, true},
		{"admin role in guild", guild, member("u", 0, "r-admin"), nil, true},
		{"configured role", guild, member("u", 0, "r-mod"), []string{"r-mod"}, true},
		{"plain member", guild, member("u", 0, "r-mod"), nil, false},
		{"no member", guild, nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAdmin(tt.guild, tt.m, tt.admins))
		})
	}
}
