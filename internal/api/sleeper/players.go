package sleeper

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/smallery/sleeper-fantasy-api/internal/logging"
	"github.com/smallery/sleeper-fantasy-api/internal/models"
	"github.com/smallery/sleeper-fantasy-api/internal/repository/disk"
	"github.com/smallery/sleeper-fantasy-api/internal/search"
)

const (
	DefaultSport         = "nfl"
	defaultLookbackHours = 24
	defaultTrendingLimit = 25
	nameMatchThreshold   = 0.7
)

type TrendType string

const (
	TrendAdd  TrendType = "add"
	TrendDrop TrendType = "drop"
)

type TrendingOptions struct {
	LookbackHours int
	Limit         int
}

type PlayerOptions struct {
	// Sport is used by lookups that do not take a sport argument.
	Sport string
	// CacheFile overrides the per-user cache location of the default sport's snapshot.
	CacheFile string
	CacheTTL  time.Duration
	Logger    *slog.Logger
}

// PlayerAPI serves the bulk player snapshot from a disk cache that is refreshed
// from the API once it is older than the cache TTL, and answers lookups and
// searches over it.
type PlayerAPI struct {
	client *Client
	sport  string
	logger *slog.Logger

	mu     sync.Mutex
	cache  *disk.PlayerCache
	caches map[string]*disk.PlayerCache
}

func NewPlayerAPI(client *Client, opts PlayerOptions) (*PlayerAPI, error) {
	sport := opts.Sport
	if sport == "" {
		sport = DefaultSport
	}

	cache, err := disk.NewPlayerCache(opts.CacheFile, opts.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("creating player cache: %w", err)
	}

	return &PlayerAPI{
		client: client,
		sport:  sport,
		logger: opts.Logger,
		cache:  cache,
		caches: map[string]*disk.PlayerCache{sport: cache},
	}, nil
}

func (p *PlayerAPI) Sport() string {
	return p.sport
}

func (p *PlayerAPI) sportOrDefault(sport string) string {
	if sport == "" {
		return p.sport
	}
	return sport
}

func (p *PlayerAPI) cacheFor(sport string) *disk.PlayerCache {
	sport = p.sportOrDefault(sport)

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.caches[sport]; ok {
		return c
	}
	c := p.cache.ForSport(sport)
	p.caches[sport] = c
	return c
}

func (p *PlayerAPI) IsCacheValid(sport string) bool {
	return p.cacheFor(sport).IsValid()
}

// RawPlayers returns the snapshot for sport, from disk while the cache is fresh and
// from the API otherwise. A failure to persist a fetched snapshot is only logged.
// An empty sport means the configured one.
func (p *PlayerAPI) RawPlayers(ctx context.Context, sport string) (models.PlayerSnapshot, error) {
	sport = p.sportOrDefault(sport)
	cache := p.cacheFor(sport)

	if cache.IsValid() {
		snapshot, err := cache.Load()
		if err != nil {
			return nil, fmt.Errorf("loading player cache: %w", err)
		}
		logging.Debug(p.logger, "player snapshot served from cache", "sport", sport, "count", len(snapshot))
		return snapshot, nil
	}

	var snapshot models.PlayerSnapshot
	if err := p.client.Get(ctx, fmt.Sprintf("players/%s", sport), nil, &snapshot); err != nil {
		return nil, fmt.Errorf("fetching %s players: %w", sport, err)
	}
	if snapshot == nil {
		snapshot = models.PlayerSnapshot{}
	}

	if err := cache.Save(snapshot); err != nil {
		logging.Warn(p.logger, "could not save player cache", "path", cache.Path(), "error", err)
	}

	return snapshot, nil
}

// GetAllPlayers returns one Player per snapshot entry, ordered by player ID.
func (p *PlayerAPI) GetAllPlayers(ctx context.Context, sport string) ([]models.Player, error) {
	snapshot, err := p.RawPlayers(ctx, sport)
	if err != nil {
		return nil, err
	}

	players := make([]models.Player, 0, len(snapshot))
	for _, id := range sortedIDs(snapshot) {
		players = append(players, models.NewPlayer(id, snapshot[id]))
	}
	return players, nil
}

func (p *PlayerAPI) RawTrendingPlayers(ctx context.Context, sport string, trend TrendType, opts TrendingOptions) ([]models.TrendingEntry, error) {
	sport = p.sportOrDefault(sport)
	if trend != TrendAdd && trend != TrendDrop {
		return nil, fmt.Errorf("%w: trend type must be either add or drop, got %q", ErrValidation, trend)
	}
	if opts.LookbackHours <= 0 {
		opts.LookbackHours = defaultLookbackHours
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultTrendingLimit
	}

	params := url.Values{}
	params.Set("lookback_hours", strconv.Itoa(opts.LookbackHours))
	params.Set("limit", strconv.Itoa(opts.Limit))

	var entries []models.TrendingEntry
	endpoint := fmt.Sprintf("players/%s/trending/%s", sport, trend)
	if err := p.client.Get(ctx, endpoint, params, &entries); err != nil {
		return nil, fmt.Errorf("fetching trending %s players: %w", trend, err)
	}
	if entries == nil {
		entries = []models.TrendingEntry{}
	}
	return entries, nil
}

// GetTrendingPlayers joins the trending feed with the snapshot, keeping feed order.
// Feed entries missing from the snapshot are skipped.
func (p *PlayerAPI) GetTrendingPlayers(ctx context.Context, sport string, trend TrendType, opts TrendingOptions) ([]models.Player, error) {
	sport = p.sportOrDefault(sport)
	entries, err := p.RawTrendingPlayers(ctx, sport, trend, opts)
	if err != nil {
		return nil, err
	}

	snapshot, err := p.RawPlayers(ctx, sport)
	if err != nil {
		return nil, err
	}

	players := make([]models.Player, 0, len(entries))
	for _, entry := range entries {
		attrs, ok := snapshot[entry.PlayerID]
		if !ok {
			continue
		}

		player := models.NewPlayer(entry.PlayerID, attrs)
		if trend == TrendAdd {
			player.AddCount = entry.Count
		} else {
			player.DropCount = entry.Count
		}
		players = append(players, player)
	}

	return players, nil
}

func (p *PlayerAPI) GetPlayer(ctx context.Context, playerID string) (models.Player, error) {
	snapshot, err := p.RawPlayers(ctx, p.sport)
	if err != nil {
		return models.Player{}, err
	}

	attrs, ok := snapshot[playerID]
	if !ok {
		return models.Player{}, fmt.Errorf("player %s: %w", playerID, ErrNotFound)
	}
	return models.NewPlayer(playerID, attrs), nil
}

// SearchPlayersRaw returns the raw records matching pred. Each record is a copy
// whose player_id is overwritten with its snapshot key, so the key is what a query
// on player_id sees.
func (p *PlayerAPI) SearchPlayersRaw(ctx context.Context, pred search.Predicate) ([]map[string]any, error) {
	if err := search.Validate(pred); err != nil {
		return nil, err
	}

	snapshot, err := p.RawPlayers(ctx, p.sport)
	if err != nil {
		return nil, err
	}

	records := make([]map[string]any, 0, len(snapshot))
	for _, id := range sortedIDs(snapshot) {
		record := maps.Clone(snapshot[id])
		if record == nil {
			record = map[string]any{}
		}
		record["player_id"] = id
		records = append(records, record)
	}

	matched, err := search.Filter(records, pred)
	if err != nil {
		return nil, fmt.Errorf("searching players: %w", err)
	}
	return matched, nil
}

func (p *PlayerAPI) SearchPlayers(ctx context.Context, pred search.Predicate) ([]models.Player, error) {
	matched, err := p.SearchPlayersRaw(ctx, pred)
	if err != nil {
		return nil, err
	}

	players := make([]models.Player, 0, len(matched))
	for _, record := range matched {
		players = append(players, models.NewPlayer(record["player_id"].(string), record))
	}
	return players, nil
}

// GetPlayersByTeam returns the players whose team abbreviation matches, ignoring case.
func (p *PlayerAPI) GetPlayersByTeam(ctx context.Context, teamAbbr string) ([]models.Player, error) {
	players, err := p.GetAllPlayers(ctx, p.sport)
	if err != nil {
		return nil, err
	}

	team := make([]models.Player, 0)
	for _, player := range players {
		if player.TeamAbbr != "" && strings.EqualFold(player.TeamAbbr, teamAbbr) {
			team = append(team, player)
		}
	}
	return team, nil
}

// FindPlayerByName returns the player whose full name is closest to name by
// Levenshtein similarity, if any clears the match threshold.
func (p *PlayerAPI) FindPlayerByName(ctx context.Context, name string) (models.Player, error) {
	players, err := p.GetAllPlayers(ctx, p.sport)
	if err != nil {
		return models.Player{}, err
	}

	target := strings.ToLower(strings.TrimSpace(name))
	var best *models.Player
	bestScore := 0.0

	for i, player := range players {
		fullName := strings.ToLower(player.FullName())
		if fullName == "" || target == "" {
			continue
		}

		distance := fuzzy.LevenshteinDistance(target, fullName)
		maxLen := float64(max(len(target), len(fullName)))
		similarity := 1 - float64(distance)/maxLen

		if similarity > nameMatchThreshold && similarity > bestScore {
			bestScore = similarity
			best = &players[i]
		}
	}

	if best == nil {
		return models.Player{}, fmt.Errorf("player named %q: %w", name, ErrNotFound)
	}
	return *best, nil
}

func sortedIDs(snapshot models.PlayerSnapshot) []string {
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
