package fantasy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/smallery/sleeper-fantasy-api/internal/api/sleeper"
	"github.com/smallery/sleeper-fantasy-api/internal/models"
	"github.com/smallery/sleeper-fantasy-api/internal/search"
)

// MonitoredStatuses are the injury designations reported by GetPlayersToMonitor.
var MonitoredStatuses = []any{"Questionable", "Doubtful", "Out", "IR", "PUP", "Sus"}

// API answers league-level questions for one Sleeper league by combining the
// stateless endpoints with the cached player snapshot.
type API struct {
	sleeper  *sleeper.API
	players  *sleeper.PlayerAPI
	leagueID string
	now      func() time.Time
}

func NewAPI(sleeperAPI *sleeper.API, players *sleeper.PlayerAPI, leagueID string) *API {
	return &API{
		sleeper:  sleeperAPI,
		players:  players,
		leagueID: leagueID,
		now:      time.Now,
	}
}

func (a *API) Players() *sleeper.PlayerAPI {
	return a.players
}

// GetLeagueMetadata fails when the league's sport differs from the sport the
// player snapshot is loaded for.
func (a *API) GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	league, err := a.sleeper.GetLeague(ctx, a.leagueID)
	if err != nil {
		return nil, fmt.Errorf("fetching league metadata: %w", err)
	}

	sport := a.players.Sport()
	if league.Sport != "" && league.Sport != sport {
		return nil, fmt.Errorf("%w: league %s plays %s but players are loaded for %s",
			sleeper.ErrValidation, a.leagueID, league.Sport, sport)
	}
	state, err := a.sleeper.GetState(ctx, sport)
	if err != nil {
		return nil, err
	}

	return &models.LeagueMetadata{
		LeagueID:     league.LeagueID,
		Name:         league.Name,
		Sport:        sport,
		Season:       league.Season,
		SeasonType:   state.SeasonType,
		CurrentWeek:  state.Week,
		TotalRosters: league.TotalRosters,
		IsActive:     league.Status == "in_season",
		LastUpdated:  a.now(),
	}, nil
}

type leagueTeams struct {
	rosters []models.Roster
	names   map[int]string
	owners  map[int]string
}

func (t leagueTeams) name(rosterID int) string {
	if name, ok := t.names[rosterID]; ok {
		return name
	}
	return fmt.Sprintf("Team %d", rosterID)
}

func (a *API) loadTeams(ctx context.Context) (leagueTeams, error) {
	rosters, err := a.sleeper.GetRosters(ctx, a.leagueID)
	if err != nil {
		return leagueTeams{}, err
	}
	users, err := a.sleeper.GetLeagueUsers(ctx, a.leagueID)
	if err != nil {
		return leagueTeams{}, err
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	teams := leagueTeams{
		rosters: rosters,
		names:   make(map[int]string, len(rosters)),
		owners:  make(map[int]string, len(rosters)),
	}
	for _, r := range rosters {
		if u, ok := byID[r.OwnerID]; ok {
			teams.names[r.RosterID] = u.TeamName()
			teams.owners[r.RosterID] = u.DisplayName
		}
	}
	return teams, nil
}

func (a *API) GetStandings(ctx context.Context) ([]models.TeamStanding, error) {
	teams, err := a.loadTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching standings: %w", err)
	}

	standings := make([]models.TeamStanding, len(teams.rosters))
	for i, r := range teams.rosters {
		s := r.Settings
		standings[i] = models.TeamStanding{
			RosterID:      r.RosterID,
			TeamName:      teams.name(r.RosterID),
			OwnerName:     teams.owners[r.RosterID],
			Wins:          s.Wins,
			Losses:        s.Losses,
			Ties:          s.Ties,
			PointsFor:     s.PointsFor(),
			PointsAgainst: s.PointsAgainst(),
			WinPercentage: winPercentage(s.Wins, s.Losses, s.Ties),
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].WinPercentage != standings[j].WinPercentage {
			return standings[i].WinPercentage > standings[j].WinPercentage
		}
		return standings[i].PointsFor > standings[j].PointsFor
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}

	return standings, nil
}

func winPercentage(wins, losses, ties int) float64 {
	games := wins + losses + ties
	if games == 0 {
		return 0
	}
	return (float64(wins) + float64(ties)/2) / float64(games)
}

// GetCurrentScores pairs the week's matchup entries by matchup ID. Entries
// without a matchup ID (byes) are left out.
func (a *API) GetCurrentScores(ctx context.Context, week int) ([]models.CurrentScore, error) {
	matchups, err := a.sleeper.GetMatchups(ctx, a.leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("fetching current scores: %w", err)
	}
	teams, err := a.loadTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching current scores: %w", err)
	}

	sort.SliceStable(matchups, func(i, j int) bool {
		if matchups[i].MatchupID != matchups[j].MatchupID {
			return matchups[i].MatchupID < matchups[j].MatchupID
		}
		return matchups[i].RosterID < matchups[j].RosterID
	})

	var scores []models.CurrentScore
	for i := 0; i < len(matchups); i++ {
		home := matchups[i]
		if home.MatchupID == 0 {
			continue
		}
		score := models.CurrentScore{
			MatchupID:    home.MatchupID,
			HomeRosterID: home.RosterID,
			HomeTeam:     teams.name(home.RosterID),
			HomeScore:    home.Score(),
		}
		if i+1 < len(matchups) && matchups[i+1].MatchupID == home.MatchupID {
			away := matchups[i+1]
			score.AwayRosterID = away.RosterID
			score.AwayTeam = teams.name(away.RosterID)
			score.AwayScore = away.Score()
			i++
		}
		scores = append(scores, score)
	}

	return scores, nil
}

// WhoHas finds the closest-named player and the league roster holding them.
// An unmatched name is reported through Found rather than an error.
func (a *API) WhoHas(ctx context.Context, playerName string) (models.WhoHasResult, error) {
	player, err := a.players.FindPlayerByName(ctx, playerName)
	if errors.Is(err, sleeper.ErrNotFound) {
		return models.WhoHasResult{PlayerName: playerName, Found: false}, nil
	}
	if err != nil {
		return models.WhoHasResult{}, err
	}

	teams, err := a.loadTeams(ctx)
	if err != nil {
		return models.WhoHasResult{}, fmt.Errorf("fetching league rosters: %w", err)
	}

	result := models.WhoHasResult{
		PlayerID:   player.PlayerID,
		PlayerName: player.FullName(),
		Position:   player.Position,
		ProTeam:    player.TeamAbbr,
		Found:      true,
	}
	for _, r := range teams.rosters {
		if !r.HasPlayer(player.PlayerID) {
			continue
		}
		result.RosterID = r.RosterID
		result.TeamName = teams.name(r.RosterID)
		result.IsStarter = r.IsStarter(player.PlayerID)
		result.OnReserve = contains(r.Reserve, player.PlayerID)
		break
	}
	return result, nil
}

// GetPlayersToMonitor lists every league starter carrying one of the
// MonitoredStatuses, grouped by team in roster order.
func (a *API) GetPlayersToMonitor(ctx context.Context) (models.PlayersToMonitorReport, error) {
	teams, err := a.loadTeams(ctx)
	if err != nil {
		return models.PlayersToMonitorReport{}, fmt.Errorf("fetching league rosters: %w", err)
	}

	var starters []any
	for _, r := range teams.rosters {
		for _, id := range r.Starters {
			starters = append(starters, id)
		}
	}
	if len(starters) == 0 {
		return models.PlayersToMonitorReport{}, nil
	}

	pred := search.Cond("player_id", search.OpIn, starters).
		Cond("injury_status", search.OpIn, MonitoredStatuses)
	flagged, err := a.players.SearchPlayers(ctx, pred)
	if err != nil {
		return models.PlayersToMonitorReport{}, fmt.Errorf("searching injured starters: %w", err)
	}

	byID := make(map[string]models.Player, len(flagged))
	for _, p := range flagged {
		byID[p.PlayerID] = p
	}

	var report models.PlayersToMonitorReport
	for _, r := range teams.rosters {
		var players []models.PlayerToMonitor
		for _, id := range r.Starters {
			p, ok := byID[id]
			if !ok {
				continue
			}
			players = append(players, models.PlayerToMonitor{
				Name:         p.FullName(),
				Position:     p.Position,
				InjuryStatus: p.InjuryStatus,
			})
		}
		if len(players) > 0 {
			report.Teams = append(report.Teams, models.TeamMonitorReport{
				TeamName: teams.name(r.RosterID),
				Players:  players,
			})
		}
	}
	return report, nil
}

// GetTrending returns the trending players of the league's sport, each tagged
// with the league team rostering them.
func (a *API) GetTrending(ctx context.Context, trend sleeper.TrendType, limit int) ([]models.TrendingPlayer, error) {
	players, err := a.players.GetTrendingPlayers(ctx, a.players.Sport(), trend, sleeper.TrendingOptions{Limit: limit})
	if err != nil {
		return nil, err
	}
	teams, err := a.loadTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching league rosters: %w", err)
	}

	trending := make([]models.TrendingPlayer, 0, len(players))
	for _, p := range players {
		tp := models.TrendingPlayer{Player: p}
		for _, r := range teams.rosters {
			if r.HasPlayer(p.PlayerID) {
				tp.TeamName = teams.name(r.RosterID)
				break
			}
		}
		trending = append(trending, tp)
	}
	return trending, nil
}

// LookupPlayer resolves a player ID first and falls back to a name match.
func (a *API) LookupPlayer(ctx context.Context, idOrName string) (models.Player, error) {
	player, err := a.players.GetPlayer(ctx, idOrName)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, sleeper.ErrNotFound) {
		return models.Player{}, err
	}
	return a.players.FindPlayerByName(ctx, idOrName)
}

func (a *API) SearchPlayers(ctx context.Context, pred search.Predicate) ([]models.Player, error) {
	return a.players.SearchPlayers(ctx, pred)
}

func (a *API) GetProTeam(ctx context.Context, teamAbbr string) ([]models.Player, error) {
	return a.players.GetPlayersByTeam(ctx, teamAbbr)
}

// RefreshPlayers makes sure the snapshot of the league's sport is on disk and
// returns its size.
func (a *API) RefreshPlayers(ctx context.Context) (int, error) {
	snapshot, err := a.players.RawPlayers(ctx, a.players.Sport())
	if err != nil {
		return 0, err
	}
	return len(snapshot), nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
