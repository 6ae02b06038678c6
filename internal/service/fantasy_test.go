package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallery/sleeper-fantasy-api/internal/api/sleeper"
	"github.com/smallery/sleeper-fantasy-api/internal/models"
	"github.com/smallery/sleeper-fantasy-api/internal/repository/memory"
	"github.com/smallery/sleeper-fantasy-api/internal/search"
)

type stubLeague struct {
	metadataCalls int
	week          int
	scores        []models.CurrentScore
	standings     []models.TeamStanding
	whoHas        models.WhoHasResult
	monitor       models.PlayersToMonitorReport
	trending      []models.TrendingPlayer
	players       map[string]models.Player
	team          []models.Player
	searched      search.Predicate
	refreshErr    error
}

func (s *stubLeague) GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	s.metadataCalls++
	return &models.LeagueMetadata{CurrentWeek: s.week, LastUpdated: time.Now()}, nil
}

func (s *stubLeague) GetStandings(ctx context.Context) ([]models.TeamStanding, error) {
	return s.standings, nil
}

func (s *stubLeague) GetCurrentScores(ctx context.Context, week int) ([]models.CurrentScore, error) {
	if week != s.week {
		return nil, errors.New("wrong week")
	}
	return s.scores, nil
}

func (s *stubLeague) WhoHas(ctx context.Context, playerName string) (models.WhoHasResult, error) {
	return s.whoHas, nil
}

func (s *stubLeague) GetPlayersToMonitor(ctx context.Context) (models.PlayersToMonitorReport, error) {
	return s.monitor, nil
}

func (s *stubLeague) GetTrending(ctx context.Context, trend sleeper.TrendType, limit int) ([]models.TrendingPlayer, error) {
	return s.trending, nil
}

func (s *stubLeague) LookupPlayer(ctx context.Context, idOrName string) (models.Player, error) {
	p, ok := s.players[idOrName]
	if !ok {
		return models.Player{}, sleeper.ErrNotFound
	}
	return p, nil
}

func (s *stubLeague) SearchPlayers(ctx context.Context, pred search.Predicate) ([]models.Player, error) {
	s.searched = pred
	var out []models.Player
	for _, id := range []string{"1", "2"} {
		if p, ok := s.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubLeague) GetProTeam(ctx context.Context, teamAbbr string) ([]models.Player, error) {
	return s.team, nil
}

func (s *stubLeague) RefreshPlayers(ctx context.Context) (int, error) {
	return 42, s.refreshErr
}

func player(id, first, last, pos, team string) models.Player {
	return models.NewPlayer(id, map[string]any{
		"first_name": first, "last_name": last, "position": pos, "team": team,
	})
}

func newTestService(stub *stubLeague) *FantasyService {
	return NewFantasyService(stub, memory.NewRepository())
}

func TestGetCurrentWeekCachesMetadata(t *testing.T) {
	stub := &stubLeague{week: 6}
	svc := newTestService(stub)

	for i := 0; i < 3; i++ {
		week, err := svc.GetCurrentWeek(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 6, week)
	}
	assert.Equal(t, 1, stub.metadataCalls)

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err := svc.GetCurrentWeek(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stub.metadataCalls)
}

func TestGetCurrentScores(t *testing.T) {
	stub := &stubLeague{week: 3, scores: []models.CurrentScore{
		{MatchupID: 1, HomeTeam: "Alpha", AwayTeam: "Bravo", HomeScore: 101.5, AwayScore: 99},
	}}
	svc := newTestService(stub)

	text, err := svc.GetCurrentScores(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "Week 3 Current Scores")
	assert.Contains(t, text, "*Alpha* vs *Bravo*")
	assert.Contains(t, text, "Current: 101.50 - 99.00")
}

func TestFinalScoreReportTrophies(t *testing.T) {
	stub := &stubLeague{week: 3, scores: []models.CurrentScore{
		{MatchupID: 1, HomeTeam: "Alpha", AwayTeam: "Bravo", HomeScore: 140, AwayScore: 90},
		{MatchupID: 2, HomeTeam: "Charlie", AwayTeam: "Delta", HomeScore: 100, AwayScore: 101},
		{MatchupID: 3, HomeTeam: "Echo", HomeScore: 80},
	}}
	svc := newTestService(stub)

	text, err := svc.GetFinalScoreReport(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "Highest Score: Alpha (140.00)")
	assert.Contains(t, text, "Lowest Score: Bravo (90.00)")
	assert.Contains(t, text, "Biggest Win: Alpha (Margin: 50.00)")
	assert.Contains(t, text, "Closest Win: Delta (Margin: 1.00)")
	assert.NotContains(t, text, "Echo")
}

func TestMondayNightCloseGames(t *testing.T) {
	stub := &stubLeague{week: 3, scores: []models.CurrentScore{
		{HomeTeam: "Alpha", AwayTeam: "Bravo", HomeScore: 140, AwayScore: 90},
		{HomeTeam: "Charlie", AwayTeam: "Delta", HomeScore: 100, AwayScore: 110},
		{HomeTeam: "Echo", AwayTeam: "Foxtrot", HomeScore: 100, AwayScore: 101},
	}}
	svc := newTestService(stub)

	text, err := svc.GetMondayNightCloseGames(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, text, "Alpha")
	assert.Less(t, strings.Index(text, "Echo"), strings.Index(text, "Charlie"))
}

func TestWhoHas(t *testing.T) {
	tests := []struct {
		name   string
		result models.WhoHasResult
		want   []string
	}{
		{
			name:   "not found",
			result: models.WhoHasResult{Found: false},
			want:   []string{"No player found matching 'ghost'"},
		},
		{
			name:   "free agent",
			result: models.WhoHasResult{Found: true, PlayerName: "Bijan Robinson", Position: "RB", ProTeam: "ATL"},
			want:   []string{"*Bijan Robinson* (RB - ATL)", "Free Agent"},
		},
		{
			name:   "starter",
			result: models.WhoHasResult{Found: true, PlayerName: "Patrick Mahomes", Position: "QB", ProTeam: "KC", RosterID: 1, TeamName: "Alpha", IsStarter: true},
			want:   []string{"*Alpha*", "Starting"},
		},
		{
			name:   "reserve",
			result: models.WhoHasResult{Found: true, PlayerName: "Lamar Jackson", Position: "QB", RosterID: 2, TeamName: "Bravo", OnReserve: true},
			want:   []string{"(QB - -)", "IR"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&stubLeague{whoHas: tt.result})
			text, err := svc.WhoHas(context.Background(), "ghost")
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, text, w)
			}
		})
	}
}

func TestGetPlayersToMonitor(t *testing.T) {
	stub := &stubLeague{week: 9}
	svc := newTestService(stub)

	text, err := svc.GetPlayersToMonitor(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "No players to monitor")

	stub.monitor = models.PlayersToMonitorReport{Teams: []models.TeamMonitorReport{
		{TeamName: "Alpha", Players: []models.PlayerToMonitor{{Name: "Christian McCaffrey", Position: "RB", InjuryStatus: "IR"}}},
	}}
	text, err = svc.GetPlayersToMonitor(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "*Alpha:*")
	assert.Contains(t, text, "RB Christian McCaffrey - IR")
}

func TestGetTrendingReport(t *testing.T) {
	added := player("9509", "Bijan", "Robinson", "RB", "ATL")
	added.AddCount = 300
	stub := &stubLeague{trending: []models.TrendingPlayer{
		{Player: added},
		{Player: player("4881", "Lamar", "Jackson", "QB", "BAL"), TeamName: "Bravo"},
	}}
	svc := newTestService(stub)

	text, err := svc.GetTrendingReport(context.Background(), sleeper.TrendAdd, 0)
	require.NoError(t, err)
	assert.Contains(t, text, "Most Added")
	assert.Contains(t, text, "1. RB Bijan Robinson (ATL) - 300 - FA")
	assert.Contains(t, text, "2. QB Lamar Jackson (BAL) - 0 - Bravo")
}

func TestGetPlayerCard(t *testing.T) {
	p := models.NewPlayer("4034", map[string]any{
		"first_name": "Christian", "last_name": "McCaffrey", "position": "RB", "team": "SF",
		"age": 28.0, "injury_status": "IR", "college": "Stanford",
	})
	svc := newTestService(&stubLeague{players: map[string]models.Player{"4034": p}})

	text, err := svc.GetPlayerCard(context.Background(), "4034")
	require.NoError(t, err)
	assert.Contains(t, text, "*Christian McCaffrey* (RB - SF)")
	assert.Contains(t, text, "Injury: IR")
	assert.Contains(t, text, "Age: 28")
	assert.Contains(t, text, "College: Stanford")

	text, err = svc.GetPlayerCard(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Contains(t, text, "No player found")
}

func TestSearchPlayers(t *testing.T) {
	stub := &stubLeague{players: map[string]models.Player{
		"1": player("1", "Patrick", "Mahomes", "QB", "KC"),
		"2": player("2", "Lamar", "Jackson", "QB", "BAL"),
	}}
	svc := newTestService(stub)

	text, err := svc.SearchPlayers(context.Background(), `{"position": "QB"}`)
	require.NoError(t, err)
	assert.Contains(t, text, "2 players found")
	assert.Contains(t, text, "QB Lamar Jackson (BAL)")
	require.NotNil(t, stub.searched)

	stub.searched = nil
	text, err = svc.SearchPlayers(context.Background(), `{"AND": "nope"}`)
	require.NoError(t, err)
	assert.Contains(t, text, "Invalid query")
	assert.Nil(t, stub.searched)
}

func TestGetProTeamOrdersByPosition(t *testing.T) {
	stub := &stubLeague{team: []models.Player{
		player("3", "Travis", "Kelce", "TE", "KC"),
		player("4", "Kansas City", "Chiefs", "DEF", "KC"),
		player("1", "Patrick", "Mahomes", "QB", "KC"),
		player("5", "Long", "Snapper", "LS", "KC"),
	}}
	svc := newTestService(stub)

	text, err := svc.GetProTeam(context.Background(), "kc")
	require.NoError(t, err)
	assert.Contains(t, text, "*KC*")
	assert.Less(t, strings.Index(text, "Mahomes"), strings.Index(text, "Kelce"))
	assert.Less(t, strings.Index(text, "Kelce"), strings.Index(text, "Chiefs"))
	assert.Less(t, strings.Index(text, "Chiefs"), strings.Index(text, "Snapper"))

	stub.team = nil
	text, err = svc.GetProTeam(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.Contains(t, text, "No players found")
}

func TestWarmPlayerCache(t *testing.T) {
	stub := &stubLeague{}
	svc := newTestService(stub)

	n, err := svc.WarmPlayerCache(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	stub.refreshErr = errors.New("boom")
	_, err = svc.WarmPlayerCache(context.Background())
	assert.Error(t, err)
}
