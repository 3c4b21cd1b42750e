package home

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leeineian/cooli/sys"
)

func TestCheckTrigger(t *testing.T) {
	assert.Empty(t, checkTrigger("hello"))
	assert.Empty(t, checkTrigger("ñandu"))
	assert.Equal(t, sys.ErrAutoreplyEmpty, checkTrigger(""))

	for _, trigger := range []string{"!ping", ".help", "`code`", "/slash", "\"quoted\"", "-dash"} {
		assert.Equal(t, sys.ErrAutoreplySpecialChar, checkTrigger(trigger), trigger)
	}
}

func TestMatchAutoreplies(t *testing.T) {
	list := []sys.Autoreply{
		{Trigger: "good morning", Response: "gm!"},
		{Trigger: "Pizza", Response: "🍕"},
		{Trigger: "bye", Response: "see ya"},
	}

	matched := matchAutoreplies(list, "GOOD MORNING everyone, pizza time")
	assert.Equal(t, []sys.Autoreply{list[0], list[1]}, matched)
	assert.Empty(t, matchAutoreplies(list, "nothing here"))
}

func TestFormatAutoreplyResponse(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"https://tenor.com/view/cat", "**[Attachment](<https://tenor.com/view/cat>)**"},
		{"https://example.com/a.GIF", "**[Attachment](<https://example.com/a.GIF>)**"},
		{"https://example.com", "**[URL](<https://example.com>)**"},
		{"http://example.com/page", "**[URL](<http://example.com/page>)**"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAutoreplyResponse(tt.in), tt.in)
	}
}

func TestFormatAutoreplyList(t *testing.T) {
	out := formatAutoreplyList([]sys.Autoreply{
		{Trigger: "hi", Response: "hello"},
		{Trigger: "cat", Response: "https://cdn.discordapp.com/cat.png"},
	})
	assert.Equal(t, sys.MsgAutoreplyListHeader+
		"> `hi` → hello\n"+
		"> `cat` → **[Attachment](<https://cdn.discordapp.com/cat.png>)**", out)
}
