package home

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/tidwall/gjson"

	"github.com/leeineian/cooli/sys"
)

const (
	rawgBaseURL          = "https://api.rawg.io/api"
	maxGameDescription   = 1000
	maxGameResponseBytes = 2 << 20
)

var (
	errGameNotFound = errors.New("no game matched")
	htmlTagPattern  = regexp.MustCompile(`<[^>]*>`)
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "game",
		Description: "Search for a game by name and return its details",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "title",
				Description: "Name of the game to search for",
				Required:    true,
				MaxLength:   intPtr(100),
			},
		},
	}, handleGame)
}

type gameInfo struct {
	Name        string
	URL         string
	Description string
	Released    string
	Platforms   string
	Developers  string
	Publishers  string
	Genres      string
	Rating      string
	Metacritic  string
	Image       string
}

// rawgClient looks games up on RAWG: a search picks the top hit, then its
// detail page fills in description, website and studios.
type rawgClient struct {
	baseURL string
	key     string
	http    *http.Client
}

func newRawgClient(key string) *rawgClient {
	return &rawgClient{
		baseURL: rawgBaseURL,
		key:     key,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *rawgClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	query.Set("key", c.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGameResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rawg %s: status %d", path, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("rawg %s: invalid JSON", path)
	}
	return body, nil
}

func (c *rawgClient) lookup(ctx context.Context, title string) (gameInfo, error) {
	search, err := c.get(ctx, "/games", url.Values{"search": {title}})
	if err != nil {
		return gameInfo{}, err
	}
	top := gjson.GetBytes(search, "results.0")
	slug := top.Get("slug").String()
	if !top.Exists() || slug == "" {
		return gameInfo{}, errGameNotFound
	}

	details, err := c.get(ctx, "/games/"+url.PathEscape(slug), url.Values{})
	if err != nil {
		return gameInfo{}, err
	}
	return parseGameInfo(top, gjson.ParseBytes(details)), nil
}

// parseGameInfo merges a search hit with its detail document. Missing
// values read as N/A.
func parseGameInfo(hit, details gjson.Result) gameInfo {
	info := gameInfo{
		Name:        hit.Get("name").String(),
		URL:         details.Get("website").String(),
		Description: cleanDescription(details.Get("description").String()),
		Released:    sys.MsgGameUnknown,
		Platforms:   joinNames(hit.Get("platforms.#.platform.name")),
		Developers:  joinNames(details.Get("developers.#.name")),
		Publishers:  joinNames(details.Get("publishers.#.name")),
		Genres:      joinNames(hit.Get("genres.#.name")),
		Rating:      nonZero(hit.Get("rating")),
		Metacritic:  nonZero(hit.Get("metacritic")),
		Image:       hit.Get("background_image").String(),
	}
	if info.URL == "" {
		info.URL = "https://rawg.io/games/" + hit.Get("slug").String()
	}
	if released, err := time.Parse(time.DateOnly, hit.Get("released").String()); err == nil {
		info.Released = fmt.Sprintf("<t:%d:D>", released.Unix())
	}
	return info
}

func cleanDescription(raw string) string {
	text := strings.TrimSpace(html.UnescapeString(htmlTagPattern.ReplaceAllString(raw, "")))
	if text == "" {
		return sys.MsgGameUnknown
	}
	return sys.Truncate(text, maxGameDescription)
}

func joinNames(r gjson.Result) string {
	var names []string
	for _, n := range r.Array() {
		if s := n.String(); s != "" {
			names = append(names, s)
		}
	}
	if len(names) == 0 {
		return sys.MsgGameUnknown
	}
	return strings.Join(names, ", ")
}

func nonZero(r gjson.Result) string {
	if !r.Exists() || r.Float() == 0 {
		return sys.MsgGameUnknown
	}
	return r.String()
}

func renderGame(info gameInfo) discord.ContainerComponent {
	fields := strings.Join([]string{
		fmt.Sprintf(sys.MsgGamePlatforms, info.Platforms),
		fmt.Sprintf(sys.MsgGameReleased, info.Released),
		fmt.Sprintf(sys.MsgGameDevelopers, info.Developers),
		fmt.Sprintf(sys.MsgGamePublishers, info.Publishers),
		fmt.Sprintf(sys.MsgGameGenres, info.Genres),
		fmt.Sprintf(sys.MsgGameRating, info.Rating),
		fmt.Sprintf(sys.MsgGameMetacritic, info.Metacritic),
	}, "\n")

	components := []discord.ContainerSubComponent{
		discord.NewTextDisplay(fmt.Sprintf("## [%s](%s)\n%s", info.Name, info.URL, info.Description)),
		discord.NewSmallSeparator(),
		discord.NewTextDisplay(fields),
	}
	if info.Image != "" {
		components = append(components,
			discord.NewMediaGallery(discord.MediaGalleryItem{Media: discord.UnfurledMediaItem{URL: info.Image}}))
	}
	return discord.NewContainer(components...)
}

func handleGame(event *events.ApplicationCommandInteractionCreate) {
	if sys.GlobalConfig == nil || sys.GlobalConfig.RawgAPIKey == "" {
		respondEphemeral(event, sys.ErrGameNotEnabled)
		return
	}
	title := strings.TrimSpace(event.SlashCommandInteractionData().String("title"))

	if err := event.DeferCreateMessage(false); err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
		return
	}

	ctx, cancel := context.WithTimeout(sys.AppContext, 15*time.Second)
	defer cancel()

	info, err := newRawgClient(sys.GlobalConfig.RawgAPIKey).lookup(ctx, title)
	switch {
	case errors.Is(err, errGameNotFound):
		editDeferred(event, sys.ErrGameNotFound)
		return
	case err != nil:
		sys.LogGameWarn(sys.MsgGameLookupFailed, title, err)
		editDeferred(event, sys.ErrGameFetch)
		return
	}

	_, err = event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(),
		discord.NewMessageUpdate().
			WithIsComponentsV2(true).
			WithComponents(renderGame(info)))
	if err != nil {
		sys.LogError(sys.MsgLoaderRespondError, err)
	}
}
