package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"

	"github.com/leeineian/cooli/sys"
)

const profileImageSize = 1024

// keyPermissionNames lists the moderator-relevant permissions shown by /whois, in display order.
var keyPermissionNames = []struct {
	perm discord.Permissions
	name string
}{
	{discord.PermissionAdministrator, "Administrator"},
	{discord.PermissionBanMembers, "Ban Members"},
	{discord.PermissionKickMembers, "Kick Members"},
	{discord.PermissionManageGuild, "Manage Guild"},
	{discord.PermissionManageChannels, "Manage Channels"},
	{discord.PermissionManageRoles, "Manage Roles"},
	{discord.PermissionManageMessages, "Manage Messages"},
	{discord.PermissionManageWebhooks, "Manage Webhooks"},
	{discord.PermissionViewAuditLog, "View Audit Log"},
	{discord.PermissionManageEvents, "Manage Events"},
	{discord.PermissionManageThreads, "Manage Threads"},
	{discord.PermissionModerateMembers, "Moderate Members"},
	{discord.PermissionManageNicknames, "Manage Nicknames"},
	{discord.PermissionMentionEveryone, "Mention Everyone"},
	{discord.PermissionMuteMembers, "Mute Members"},
	{discord.PermissionDeafenMembers, "Deafen Members"},
	{discord.PermissionMoveMembers, "Move Members"},
	{discord.PermissionManageGuildExpressions, "Manage Expressions"},
}

func init() {
	memberOption := func(description string) []discord.ApplicationCommandOption {
		return []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "member",
				Description: description,
			},
		}
	}
	guildOnly := []discord.InteractionContextType{discord.InteractionContextTypeGuild}

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "whois",
		Description: "Gets user information",
		Contexts:    guildOnly,
		Options:     memberOption("The user to get information for; defaults to you"),
	}, handleWhois)

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "avatar",
		Description: "Shows a member's avatar",
		Contexts:    guildOnly,
		Options:     memberOption("The member you want to get the avatar from; defaults to you"),
	}, handleAvatar)

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "banner",
		Description: "Shows a member's banner",
		Contexts:    guildOnly,
		Options:     memberOption("The member you want to get the banner from; defaults to you"),
	}, handleBanner)
}

// keyPermissions names the moderator permissions set in perms.
func keyPermissions(perms discord.Permissions) []string {
	var names []string
	for _, kp := range keyPermissionNames {
		if perms.Has(kp.perm) {
			names = append(names, kp.name)
		}
	}
	return names
}

// formatUserInfo renders the /whois body. The @everyone role shares the
// guild's id and is left out of the role list.
func formatUserInfo(member discord.ResolvedMember, guild discord.Guild) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n%s\n", member.User.Username, member.Mention())

	dates := []string{fmt.Sprintf(sys.MsgWhoisRegistered, member.User.CreatedAt().Unix())}
	if member.JoinedAt != nil {
		dates = append([]string{fmt.Sprintf(sys.MsgWhoisJoined, member.JoinedAt.Unix())}, dates...)
	}
	b.WriteString(strings.Join(dates, " · "))

	var roles []string
	for _, id := range member.RoleIDs {
		if id == guild.ID {
			continue
		}
		roles = append(roles, discord.RoleMention(id))
	}
	if len(roles) > 0 {
		b.WriteString("\n\n" + fmt.Sprintf(sys.MsgWhoisRoles, len(roles), strings.Join(roles, ", ")))
	}

	if perms := keyPermissions(member.Permissions); len(perms) > 0 {
		b.WriteString("\n\n" + fmt.Sprintf(sys.MsgWhoisPermissions, strings.Join(perms, ", ")))
	}

	switch {
	case member.User.ID == guild.OwnerID:
		b.WriteString("\n\n" + fmt.Sprintf(sys.MsgWhoisAcknowledged, sys.MsgWhoisOwner))
	case member.Permissions.Has(discord.PermissionAdministrator):
		b.WriteString("\n\n" + fmt.Sprintf(sys.MsgWhoisAcknowledged, sys.MsgWhoisAdmin))
	}

	b.WriteString("\n" + fmt.Sprintf(sys.MsgWhoisFooter, member.User.ID))
	return b.String()
}

// targetMember returns the "member" option, falling back to the invoker.
func targetMember(event *events.ApplicationCommandInteractionCreate) (discord.ResolvedMember, bool) {
	data := event.SlashCommandInteractionData()
	var member discord.ResolvedMember
	if m, ok := data.OptMember("member"); ok {
		member = m
	} else if _, ok := data.OptUser("member"); ok {
		return discord.ResolvedMember{}, false
	} else if m := event.Member(); m != nil {
		member = *m
	} else {
		return discord.ResolvedMember{}, false
	}
	// Resolved members arrive without a guild id, which member asset URLs need.
	if guildID := event.GuildID(); guildID != nil {
		member.GuildID = *guildID
	}
	return member, true
}

func imageMessage(title, url string, ephemeral bool) discord.MessageCreate {
	return discord.NewMessageCreate().
		WithIsComponentsV2(true).
		AddComponents(
			discord.NewContainer(
				discord.NewTextDisplay(title),
				discord.NewMediaGallery(discord.MediaGalleryItem{Media: discord.UnfurledMediaItem{URL: url}}),
			),
		).
		WithEphemeral(ephemeral)
}

func handleWhois(event *events.ApplicationCommandInteractionCreate) {
	guildID, ok := requireGuild(event)
	if !ok {
		return
	}
	member, ok := targetMember(event)
	if !ok {
		respondEphemeral(event, sys.ErrDMNotMember)
		return
	}

	if err := event.DeferCreateMessage(false); err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 10*time.Second)
	defer cancel()

	guild, err := lookupGuild(ctx, event.Client(), guildID)
	if err != nil {
		sys.LogGeneral(sys.MsgGeneralFailed, "whois", guildID, err)
		guild = discord.Guild{ID: guildID}
	}

	components := []discord.ContainerSubComponent{
		discord.NewSection(discord.NewTextDisplay(formatUserInfo(member, guild))).
			WithAccessory(discord.NewThumbnail(member.EffectiveAvatarURL(discord.WithSize(profileImageSize)))),
	}
	// Banners are only on the full user object.
	if user, err := event.Client().Rest.GetUser(member.User.ID, rest.WithCtx(ctx)); err == nil {
		if banner := user.BannerURL(discord.WithSize(profileImageSize)); banner != nil {
			components = append(components,
				discord.NewMediaGallery(discord.MediaGalleryItem{Media: discord.UnfurledMediaItem{URL: *banner}}))
		}
	}

	_, err = event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(),
		discord.NewMessageUpdate().
			WithIsComponentsV2(true).
			WithComponents(discord.NewContainer(components...)).
			WithAllowedMentions(&discord.AllowedMentions{}),
		rest.WithCtx(ctx))
	if err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
	}
}

func handleAvatar(event *events.ApplicationCommandInteractionCreate) {
	if _, ok := requireGuild(event); !ok {
		return
	}
	member, ok := targetMember(event)
	if !ok {
		respondEphemeral(event, sys.ErrDMNotMember)
		return
	}
	msg := imageMessage(
		fmt.Sprintf(sys.MsgAvatarTitle, member.EffectiveName()),
		member.EffectiveAvatarURL(discord.WithSize(profileImageSize)),
		false,
	)
	if err := event.CreateMessage(msg); err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
	}
}

func handleBanner(event *events.ApplicationCommandInteractionCreate) {
	guildID, ok := requireGuild(event)
	if !ok {
		return
	}
	member, ok := targetMember(event)
	if !ok {
		respondEphemeral(event, sys.ErrDMNotMember)
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 3*time.Second)
	defer cancel()

	banner := member.BannerURL(discord.WithSize(profileImageSize))
	if banner == nil {
		user, err := event.Client().Rest.GetUser(member.User.ID, rest.WithCtx(ctx))
		if err != nil {
			sys.LogGeneral(sys.MsgGeneralFailed, "banner", guildID, err)
			respondEphemeral(event, sys.ErrBannerFailed)
			return
		}
		banner = user.BannerURL(discord.WithSize(profileImageSize))
	}
	if banner == nil {
		respondEphemeral(event, sys.ErrNoBanner)
		return
	}

	msg := imageMessage(fmt.Sprintf(sys.MsgBannerTitle, member.EffectiveName()), *banner, false)
	if err := event.CreateMessage(msg); err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
	}
}
