package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jose-valero/hots-lobby-bot/internal/infra/storage"
)

// Tags válidos del registro de canales.
const (
	TagLobby = "lobby"
	TagTeam1 = "team1"
	TagTeam2 = "team2"
)

var ChannelTags = []string{TagLobby, TagTeam1, TagTeam2}

type ChannelService struct {
	channels        ChannelRepo
	settings        SettingsRepo
	defaultAnnounce string
}

func NewChannelService(channels ChannelRepo, settings SettingsRepo, defaultAnnounce string) *ChannelService {
	return &ChannelService{channels: channels, settings: settings, defaultAnnounce: defaultAnnounce}
}

func (s *ChannelService) Set(ctx context.Context, tag, channelID, channelName string) (string, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if !validTag(tag) {
		return fmt.Sprintf("❌ Unknown tag %q. Use one of: %s.", tag, strings.Join(ChannelTags, ", ")), nil
	}
	if channelID == "" {
		return "❌ Missing channel.", nil
	}
	if err := s.channels.Save(ctx, tag, channelID, channelName); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ **%s** → <#%s>", tag, channelID), nil
}

func (s *ChannelService) Lookup(ctx context.Context, tags ...string) (map[string]storage.Channel, error) {
	return s.channels.GetMany(ctx, tags)
}

func (s *ChannelService) Show(ctx context.Context) (string, error) {
	all, err := s.channels.GetAll(ctx)
	if err != nil {
		return "", err
	}
	ann, err := s.AnnounceChannel(ctx)
	if err != nil {
		return "", err
	}

	tags := make([]string, 0, len(all))
	for t := range all {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	var b strings.Builder
	b.WriteString("📡 **Channels**\n")
	if len(tags) == 0 {
		b.WriteString("No channels registered. Use `/setchannel`.\n")
	}
	for _, t := range tags {
		c := all[t]
		fmt.Fprintf(&b, "• %s → <#%s> (%s)\n", t, c.ChannelID, c.ChannelName)
	}
	fmt.Fprintf(&b, "• announcements → #%s", ann)
	return b.String(), nil
}

// AnnounceChannel: setting guardado o el default de config.
func (s *ChannelService) AnnounceChannel(ctx context.Context) (string, error) {
	return s.settings.GetOr(ctx, storage.SettingAnnounceChannel, s.defaultAnnounce)
}

func (s *ChannelService) SetAnnounceChannel(ctx context.Context, name string) (string, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "#")
	if name == "" {
		return "❌ Missing channel name.", nil
	}
	if err := s.settings.Set(ctx, storage.SettingAnnounceChannel, name); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Announcements will be posted in **#%s**.", name), nil
}

func validTag(t string) bool {
	for _, v := range ChannelTags {
		if v == t {
			return true
		}
	}
	return false
}
