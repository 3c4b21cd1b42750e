package home

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeineian/cooli/sys"
)

func TestParsePrefixCommand(t *testing.T) {
	name, args, ok := parsePrefixCommand(".ping", ".")
	require.True(t, ok)
	assert.Equal(t, "ping", name)
	assert.Empty(t, args)

	name, args, ok = parsePrefixCommand("c?PREFIX now please", "c?")
	require.True(t, ok)
	assert.Equal(t, "prefix", name)
	assert.Equal(t, []string{"now", "please"}, args)

	for _, content := range []string{"ping", ".", ". ping", "", "!ping"} {
		_, _, ok := parsePrefixCommand(content, ".")
		assert.False(t, ok, content)
	}
}

func TestIsBareMention(t *testing.T) {
	bot := snowflake.ID(123456789012345678)

	assert.True(t, isBareMention("<@123456789012345678>", bot))
	assert.True(t, isBareMention(" <@!123456789012345678> ", bot))
	assert.False(t, isBareMention("<@123456789012345678> hi", bot))
	assert.False(t, isBareMention("<@999>", bot))
}

func TestCheckPrefix(t *testing.T) {
	assert.Empty(t, checkPrefix("!"))
	assert.Empty(t, checkPrefix("ñññññ"))
	assert.NotEmpty(t, checkPrefix(""))
	assert.NotEmpty(t, checkPrefix("toolong"))
}

func TestDefaultPrefixFollowsConfig(t *testing.T) {
	prev := sys.GlobalConfig
	t.Cleanup(func() { sys.GlobalConfig = prev })

	sys.GlobalConfig = nil
	assert.Equal(t, sys.DefaultPrefix, defaultPrefix())

	sys.GlobalConfig = &sys.Config{DefaultPrefix: "?"}
	assert.Equal(t, "?", defaultPrefix())
}

func TestZoneChoices(t *testing.T) {
	assert.Len(t, zoneChoices(""), len(commonZones))
	assert.Len(t, zoneChoices("tokyo"), 1)

	exotic := zoneChoices("Antarctica/Troll")
	require.Len(t, exotic, 1)
	assert.Empty(t, zoneChoices("Nowhere/Special"))
}
