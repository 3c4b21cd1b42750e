package home

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/leeineian/cooli/sys"
)

const gameSearchFixture = `{
  "count": 2,
  "results": [
    {
      "slug": "the-witcher-3-wild-hunt",
      "name": "The Witcher 3: Wild Hunt",
      "released": "2015-05-18",
      "background_image": "https://media.rawg.io/media/games/witcher3.jpg",
      "rating": 4.66,
      "metacritic": 92,
      "platforms": [
        {"platform": {"id": 4, "name": "PC"}},
        {"platform": {"id": 1, "name": "Xbox One"}}
      ],
      "genres": [{"id": 5, "name": "RPG"}, {"id": 4, "name": "Action"}]
    },
    {"slug": "the-witcher", "name": "The Witcher"}
  ]
}`

const gameDetailsFixture = `{
  "slug": "the-witcher-3-wild-hunt",
  "description": "<p>Geralt &amp; Ciri</p>\n<p>An <em>open world</em> RPG.</p>",
  "website": "https://thewitcher.com/en/witcher3",
  "developers": [{"name": "CD PROJEKT RED"}],
  "publishers": [{"name": "CD PROJEKT RED"}, {"name": "Warner Bros."}]
}`

func newTestRawg(t *testing.T, handler http.HandlerFunc) *rawgClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &rawgClient{baseURL: srv.URL, key: "test-key", http: srv.Client()}
}

func TestRawgLookup(t *testing.T) {
	var searched string
	client := newTestRawg(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		switch r.URL.Path {
		case "/games":
			searched = r.URL.Query().Get("search")
			fmt.Fprint(w, gameSearchFixture)
		case "/games/the-witcher-3-wild-hunt":
			fmt.Fprint(w, gameDetailsFixture)
		default:
			http.NotFound(w, r)
		}
	})

	info, err := client.lookup(context.Background(), "witcher 3 & more")
	require.NoError(t, err)
	assert.Equal(t, "witcher 3 & more", searched)

	released := time.Date(2015, 5, 18, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, gameInfo{
		Name:        "The Witcher 3: Wild Hunt",
		URL:         "https://thewitcher.com/en/witcher3",
		Description: "Geralt & Ciri\nAn open world RPG.",
		Released:    fmt.Sprintf("<t:%d:D>", released.Unix()),
		Platforms:   "PC, Xbox One",
		Developers:  "CD PROJEKT RED",
		Publishers:  "CD PROJEKT RED, Warner Bros.",
		Genres:      "RPG, Action",
		Rating:      "4.66",
		Metacritic:  "92",
		Image:       "https://media.rawg.io/media/games/witcher3.jpg",
	}, info)
}

func TestRawgLookupNoResults(t *testing.T) {
	client := newTestRawg(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"count": 0, "results": []}`)
	})

	_, err := client.lookup(context.Background(), "zzzz")
	assert.ErrorIs(t, err, errGameNotFound)
}

func TestRawgLookupHTTPError(t *testing.T) {
	client := newTestRawg(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "bad key"}`, http.StatusUnauthorized)
	})

	_, err := client.lookup(context.Background(), "witcher")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errGameNotFound)
	assert.Contains(t, err.Error(), "401")
}

func TestRawgLookupInvalidJSON(t *testing.T) {
	client := newTestRawg(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>maintenance</html>`)
	})

	_, err := client.lookup(context.Background(), "witcher")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errGameNotFound)
}

func TestParseGameInfoFallbacks(t *testing.T) {
	hit := gjson.Parse(`{"slug": "obscure", "name": "Obscure", "released": null, "rating": 0, "metacritic": null, "platforms": [], "genres": null}`)
	info := parseGameInfo(hit, gjson.Parse(`{"description": "", "website": ""}`))

	assert.Equal(t, "https://rawg.io/games/obscure", info.URL)
	assert.Equal(t, sys.MsgGameUnknown, info.Description)
	assert.Equal(t, sys.MsgGameUnknown, info.Released)
	assert.Equal(t, sys.MsgGameUnknown, info.Platforms)
	assert.Equal(t, sys.MsgGameUnknown, info.Genres)
	assert.Equal(t, sys.MsgGameUnknown, info.Developers)
	assert.Equal(t, sys.MsgGameUnknown, info.Rating)
	assert.Equal(t, sys.MsgGameUnknown, info.Metacritic)
	assert.Empty(t, info.Image)
}

func TestCleanDescriptionTruncates(t *testing.T) {
	long := "<p>" + strings.Repeat("a", maxGameDescription+50) + "</p>"
	got := cleanDescription(long)
	assert.Equal(t, maxGameDescription, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestRenderGame(t *testing.T) {
	info := gameInfo{Name: "Celeste", URL: "https://rawg.io/games/celeste", Description: "Climb.", Platforms: "PC"}

	c := renderGame(info)
	text := containerText(t, c)
	assert.Contains(t, text, "## [Celeste](https://rawg.io/games/celeste)\nClimb.")
	assert.Contains(t, text, fmt.Sprintf(sys.MsgGamePlatforms, "PC"))
	assert.Len(t, c.Components, 3)

	info.Image = "https://media.rawg.io/celeste.jpg"
	assert.Len(t, renderGame(info).Components, 4)
}
