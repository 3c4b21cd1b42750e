package home

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeineian/cooli/sys"
)

func boolPtr(b bool) *bool { return &b }

func TestDecideAnonymous(t *testing.T) {
	tests := []struct {
		name      string
		requested *bool
		isMod     bool
		anonymous bool
		allowed   bool
	}{
		{"mod default", nil, true, true, true},
		{"member default", nil, false, false, true},
		{"mod signs", boolPtr(false), true, false, true},
		{"mod anonymous", boolPtr(true), true, true, true},
		{"member signs", boolPtr(false), false, false, true},
		{"member anonymous", boolPtr(true), false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anonymous, allowed := decideAnonymous(tt.requested, tt.isMod)
			assert.Equal(t, tt.anonymous, anonymous)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestIsModerator(t *testing.T) {
	assert.True(t, isModerator(discord.PermissionAdministrator))
	assert.True(t, isModerator(discord.PermissionManageMessages))
	assert.True(t, isModerator(discord.PermissionManageChannels|discord.PermissionSendMessages))
	assert.False(t, isModerator(discord.PermissionSendMessages|discord.PermissionKickMembers))
	assert.False(t, isModerator(0))
}

func TestDMTargetProblem(t *testing.T) {
	const botID, authorID snowflake.ID = 1, 2

	assert.Equal(t, sys.ErrDMSelfBot, dmTargetProblem(discord.User{ID: botID, Bot: true}, botID, authorID))
	assert.Equal(t, sys.ErrDMSelf, dmTargetProblem(discord.User{ID: authorID}, botID, authorID))
	assert.Equal(t, sys.ErrDMBot, dmTargetProblem(discord.User{ID: 3, Bot: true}, botID, authorID))
	assert.Empty(t, dmTargetProblem(discord.User{ID: 3}, botID, authorID))
}

func containerText(t *testing.T, c discord.ContainerComponent) string {
	t.Helper()
	var parts []string
	for _, sub := range c.Components {
		switch v := sub.(type) {
		case discord.TextDisplayComponent:
			parts = append(parts, v.Content)
		case discord.SectionComponent:
			for _, s := range v.Components {
				if td, ok := s.(discord.TextDisplayComponent); ok {
					parts = append(parts, td.Content)
				}
			}
		}
	}
	return strings.Join(parts, "\n")
}

func messageContainer(t *testing.T, msg discord.MessageCreate) discord.ContainerComponent {
	t.Helper()
	require.Len(t, msg.Components, 1)
	c, ok := msg.Components[0].(discord.ContainerComponent)
	require.True(t, ok)
	return c
}

func TestBuildDirectMessage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("anonymous", func(t *testing.T) {
		msg := buildDirectMessage("Cool Server", "be nice", nil, now)
		text := containerText(t, messageContainer(t, msg))
		assert.Contains(t, text, "## Message from Cool Server\nbe nice")
		assert.NotContains(t, text, " by ")
		assert.Contains(t, text, fmt.Sprintf("<t:%d:f>", now.Unix()))
		require.NotNil(t, msg.AllowedMentions)
		assert.Empty(t, msg.AllowedMentions.Parse)
	})

	t.Run("signed", func(t *testing.T) {
		nick := "Mod Person"
		sender := &discord.Member{User: discord.User{ID: 5, Username: "mod"}, Nick: &nick}
		c := messageContainer(t, buildDirectMessage("Cool Server", "be nice", sender, now))

		section, ok := c.Components[0].(discord.SectionComponent)
		require.True(t, ok)
		assert.IsType(t, discord.ThumbnailComponent{}, section.Accessory)
		assert.Contains(t, containerText(t, c), "## Message from Cool Server by Mod Person")
	})
}

func TestSendOutcome(t *testing.T) {
	assert.Equal(t, sys.MsgSent, sendOutcome(nil, sys.ErrSayForbidden))
	assert.Equal(t, sys.ErrSayForbidden,
		sendOutcome(&rest.Error{Code: rest.JSONErrorCodeLackPermissionsToPerformAction}, sys.ErrSayForbidden))
	assert.Equal(t, sys.ErrSayForbidden,
		sendOutcome(fmt.Errorf("wrapped: %w", &rest.Error{Code: rest.JSONErrorCodeMissingAccess}), sys.ErrSayForbidden))
	assert.Equal(t, sys.ErrDMClosed,
		sendOutcome(&rest.Error{Code: rest.JSONErrorCodeCannotSendMessagesToThisUser}, sys.ErrSendFailed))
	assert.Equal(t, sys.ErrSendFailed, sendOutcome(errors.New("network down"), sys.ErrSayForbidden))
}

func TestKeyPermissions(t *testing.T) {
	assert.Empty(t, keyPermissions(discord.PermissionSendMessages|discord.PermissionViewChannel))
	assert.Equal(t,
		[]string{"Ban Members", "Manage Messages"},
		keyPermissions(discord.PermissionManageMessages|discord.PermissionBanMembers|discord.PermissionSendMessages))
}

func TestFormatUserInfo(t *testing.T) {
	const guildID snowflake.ID = 1000
	joined := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	member := discord.ResolvedMember{
		Member: discord.Member{
			User:     discord.User{ID: 42, Username: "alice"},
			RoleIDs:  []snowflake.ID{guildID, 7, 8},
			JoinedAt: &joined,
		},
		Permissions: discord.PermissionAdministrator,
	}

	t.Run("admin", func(t *testing.T) {
		text := formatUserInfo(member, discord.Guild{ID: guildID, OwnerID: 99})
		assert.Contains(t, text, "## alice\n<@42>")
		assert.Contains(t, text, fmt.Sprintf("<t:%d:D>", joined.Unix()))
		assert.Contains(t, text, "**Roles [2]**\n<@&7>, <@&8>")
		assert.NotContains(t, text, "<@&1000>")
		assert.Contains(t, text, "Administrator")
		assert.Contains(t, text, sys.MsgWhoisAdmin)
		assert.True(t, strings.HasSuffix(text, "-# ID: 42"))
	})

	t.Run("owner", func(t *testing.T) {
		text := formatUserInfo(member, discord.Guild{ID: guildID, OwnerID: 42})
		assert.Contains(t, text, sys.MsgWhoisOwner)
		assert.NotContains(t, text, sys.MsgWhoisAdmin)
	})

	t.Run("plain member", func(t *testing.T) {
		plain := member
		plain.Permissions = discord.PermissionSendMessages
		plain.RoleIDs = []snowflake.ID{guildID}
		plain.JoinedAt = nil

		text := formatUserInfo(plain, discord.Guild{ID: guildID, OwnerID: 99})
		assert.NotContains(t, text, "Roles")
		assert.NotContains(t, text, "Key Permissions")
		assert.NotContains(t, text, "Acknowledgements")
		assert.NotContains(t, text, "Joined")
		assert.Contains(t, text, "Registered")
	})
}

func TestPickChoice(t *testing.T) {
	_, ok := pickChoice(nil, func(int) int { return 0 })
	assert.False(t, ok)
	_, ok = pickChoice([]string{"only"}, func(int) int { return 0 })
	assert.False(t, ok)

	var gotN int
	choice, ok := pickChoice([]string{"tea", "coffee", "water"}, func(n int) int {
		gotN = n
		return 2
	})
	require.True(t, ok)
	assert.Equal(t, 3, gotN)
	assert.Equal(t, "water", choice)
}

func TestChooseReply(t *testing.T) {
	assert.Equal(t, sys.ErrChooseNeedsOptions, chooseReply([]string{"pizza"}))

	reply := chooseReply([]string{"pizza", "sushi"})
	assert.True(t, reply == fmt.Sprintf(sys.MsgChoose, "pizza") || reply == fmt.Sprintf(sys.MsgChoose, "sushi"), reply)
}

func TestHasAnyPermission(t *testing.T) {
	assert.True(t, hasAnyPermission(discord.PermissionAdministrator, discord.PermissionBanMembers))
	assert.True(t, hasAnyPermission(discord.PermissionKickMembers, discord.PermissionBanMembers, discord.PermissionKickMembers))
	assert.False(t, hasAnyPermission(discord.PermissionKickMembers, discord.PermissionBanMembers))
	assert.False(t, hasAnyPermission(discord.PermissionKickMembers))
}
