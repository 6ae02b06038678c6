package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/smallery/sleeper-fantasy-api/internal/api/sleeper"
	"github.com/smallery/sleeper-fantasy-api/internal/models"
	"github.com/smallery/sleeper-fantasy-api/internal/repository/memory"
	"github.com/smallery/sleeper-fantasy-api/internal/search"
)

const (
	metadataMaxAge     = 24 * time.Hour
	closeGameMargin    = 16
	maxSearchResults   = 25
	defaultTrendingTop = 10
)

// LeagueAPI is the league data the service reports on.
type LeagueAPI interface {
	GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error)
	GetStandings(ctx context.Context) ([]models.TeamStanding, error)
	GetCurrentScores(ctx context.Context, week int) ([]models.CurrentScore, error)
	WhoHas(ctx context.Context, playerName string) (models.WhoHasResult, error)
	GetPlayersToMonitor(ctx context.Context) (models.PlayersToMonitorReport, error)
	GetTrending(ctx context.Context, trend sleeper.TrendType, limit int) ([]models.TrendingPlayer, error)
	LookupPlayer(ctx context.Context, idOrName string) (models.Player, error)
	SearchPlayers(ctx context.Context, pred search.Predicate) ([]models.Player, error)
	GetProTeam(ctx context.Context, teamAbbr string) ([]models.Player, error)
	RefreshPlayers(ctx context.Context) (int, error)
}

type FantasyService struct {
	api  LeagueAPI
	repo *memory.Repository
	now  func() time.Time
}

func NewFantasyService(api LeagueAPI, repo *memory.Repository) *FantasyService {
	return &FantasyService{api: api, repo: repo, now: time.Now}
}

func (s *FantasyService) GetCurrentWeek(ctx context.Context) (int, error) {
	metadata, err := s.getLeagueMetadata(ctx)
	if err != nil {
		return 0, err
	}

	slog.Info("Current week", "week", metadata.CurrentWeek)
	return metadata.CurrentWeek, nil
}

func (s *FantasyService) getLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	if metadata, ok := s.repo.FreshMetadata(s.now(), metadataMaxAge); ok {
		return metadata, nil
	}

	metadata, err := s.api.GetLeagueMetadata(ctx)
	if err != nil {
		return nil, err
	}
	s.repo.SaveMetadata(metadata)
	return metadata, nil
}

func (s *FantasyService) GetStandings(ctx context.Context) (string, error) {
	standings, err := s.api.GetStandings(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching standings: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("🏆 *Current Standings*\n\n")
	for _, team := range standings {
		sb.WriteString(fmt.Sprintf("%d. *%s*\n", team.Rank, team.TeamName))
		sb.WriteString(fmt.Sprintf("   Record: %d-%d-%d\n", team.Wins, team.Losses, team.Ties))
		sb.WriteString(fmt.Sprintf("   Points For: %.2f\n", team.PointsFor))
		sb.WriteString(fmt.Sprintf("   Points Against: %.2f\n\n", team.PointsAgainst))
	}

	return sb.String(), nil
}

func (s *FantasyService) currentScores(ctx context.Context) (int, []models.CurrentScore, error) {
	week, err := s.GetCurrentWeek(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("error fetching current week: %w", err)
	}

	scores, err := s.api.GetCurrentScores(ctx, week)
	if err != nil {
		return 0, nil, fmt.Errorf("error fetching current scores: %w", err)
	}
	return week, scores, nil
}

func (s *FantasyService) GetCurrentScores(ctx context.Context) (string, error) {
	week, scores, err := s.currentScores(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 *Week %d Current Scores*\n\n", week))

	if len(scores) == 0 {
		sb.WriteString("No matchups this week.")
		return sb.String(), nil
	}

	for _, score := range scores {
		if score.AwayTeam == "" {
			sb.WriteString(fmt.Sprintf("*%s* %.2f (no opponent)\n\n", score.HomeTeam, score.HomeScore))
			continue
		}
		sb.WriteString(fmt.Sprintf("*%s* vs *%s*\n", score.HomeTeam, score.AwayTeam))
		sb.WriteString(fmt.Sprintf("Current: %.2f - %.2f\n\n", score.HomeScore, score.AwayScore))
	}

	return sb.String(), nil
}

func (s *FantasyService) WhoHas(ctx context.Context, playerName string) (string, error) {
	result, err := s.api.WhoHas(ctx, playerName)
	if err != nil {
		return "", fmt.Errorf("error checking who has player: %w", err)
	}

	if !result.Found {
		return fmt.Sprintf("🔍 No player found matching '%s'.", playerName), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (%s - %s)\n", result.PlayerName, result.Position, orDash(result.ProTeam)))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")

	if result.RosterID != 0 {
		sb.WriteString(fmt.Sprintf("*%s*\n", result.TeamName))
		switch {
		case result.IsStarter:
			sb.WriteString("Starting\n")
		case result.OnReserve:
			sb.WriteString("IR\n")
		default:
			sb.WriteString("Bench\n")
		}
	} else {
		sb.WriteString("Free Agent\n")
	}

	return sb.String(), nil
}

func (s *FantasyService) GetPlayersToMonitor(ctx context.Context) (string, error) {
	week, err := s.GetCurrentWeek(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching current week: %w", err)
	}

	report, err := s.api.GetPlayersToMonitor(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching players to monitor: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚑 *Week %d Players to Monitor*\n\n", week))

	if len(report.Teams) == 0 {
		sb.WriteString("No players to monitor at this time.")
		return sb.String(), nil
	}

	for _, team := range report.Teams {
		sb.WriteString(fmt.Sprintf("*%s:*\n", team.TeamName))
		for _, player := range team.Players {
			sb.WriteString(fmt.Sprintf("  • %s %s - %s\n", player.Position, player.Name, player.InjuryStatus))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (s *FantasyService) GetFinalScoreReport(ctx context.Context) (string, error) {
	_, scores, err := s.currentScores(ctx)
	if err != nil {
		return "", err
	}

	report := processScores(scores)
	return formatFinalScoreReport(report), nil
}

func processScores(scores []models.CurrentScore) models.FinalScoreReport {
	var report models.FinalScoreReport
	for _, score := range scores {
		if score.AwayTeam != "" {
			report.Scores = append(report.Scores, score)
		}
	}
	if len(report.Scores) == 0 {
		return report
	}

	var highScore, lowScore float64
	var biggestWin, closestWin float64
	var highScoreTeam, lowScoreTeam, biggestWinTeam, closestWinTeam string

	highScore = -math.MaxFloat64
	lowScore = math.MaxFloat64
	biggestWin = -math.MaxFloat64
	closestWin = math.MaxFloat64

	for _, score := range report.Scores {
		if score.HomeScore > highScore {
			highScore = score.HomeScore
			highScoreTeam = score.HomeTeam
		}
		if score.AwayScore > highScore {
			highScore = score.AwayScore
			highScoreTeam = score.AwayTeam
		}

		if score.HomeScore < lowScore {
			lowScore = score.HomeScore
			lowScoreTeam = score.HomeTeam
		}
		if score.AwayScore < lowScore {
			lowScore = score.AwayScore
			lowScoreTeam = score.AwayTeam
		}

		winner := score.AwayTeam
		if score.HomeScore > score.AwayScore {
			winner = score.HomeTeam
		}
		margin := math.Abs(score.HomeScore - score.AwayScore)
		if margin > biggestWin {
			biggestWin = margin
			biggestWinTeam = winner
		}
		if margin < closestWin {
			closestWin = margin
			closestWinTeam = winner
		}
	}

	report.Trophies = []models.Trophy{
		{Category: "High Score", Team: highScoreTeam, Value: highScore},
		{Category: "Low Score", Team: lowScoreTeam, Value: lowScore},
		{Category: "Biggest Win", Team: biggestWinTeam, Value: biggestWin},
		{Category: "Closest Win", Team: closestWinTeam, Value: closestWin},
	}

	return report
}

func formatFinalScoreReport(report models.FinalScoreReport) string {
	var sb strings.Builder

	sb.WriteString("📊 *Final Scores:*\n\n")

	if len(report.Scores) == 0 {
		sb.WriteString("No completed matchups.")
		return sb.String()
	}

	sort.SliceStable(report.Scores, func(i, j int) bool {
		return report.Scores[i].HomeScore+report.Scores[i].AwayScore > report.Scores[j].HomeScore+report.Scores[j].AwayScore
	})

	for _, m := range report.Scores {
		sb.WriteString(fmt.Sprintf("%s %.2f - %.2f %s\n", m.HomeTeam, m.HomeScore, m.AwayScore, m.AwayTeam))
	}

	sb.WriteString("\n🏆 *Trophies:*\n")
	for _, t := range report.Trophies {
		switch t.Category {
		case "High Score":
			sb.WriteString(fmt.Sprintf("Highest Score: %s (%.2f)\n", t.Team, t.Value))
		case "Low Score":
			sb.WriteString(fmt.Sprintf("Lowest Score: %s (%.2f)\n", t.Team, t.Value))
		case "Biggest Win":
			sb.WriteString(fmt.Sprintf("Biggest Win: %s (Margin: %.2f)\n", t.Team, t.Value))
		case "Closest Win":
			sb.WriteString(fmt.Sprintf("Closest Win: %s (Margin: %.2f)\n", t.Team, t.Value))
		}
	}

	return sb.String()
}

func (s *FantasyService) GetMondayNightCloseGames(ctx context.Context) (string, error) {
	_, scores, err := s.currentScores(ctx)
	if err != nil {
		return "", err
	}

	return formatMondayNightCloseGames(findCloseGames(scores)), nil
}

func findCloseGames(scores []models.CurrentScore) []models.CloseGame {
	var closeGames []models.CloseGame

	for _, score := range scores {
		if score.AwayTeam == "" {
			continue
		}
		margin := math.Abs(score.HomeScore - score.AwayScore)
		if margin <= closeGameMargin {
			closeGames = append(closeGames, models.CloseGame{
				HomeTeam:  score.HomeTeam,
				AwayTeam:  score.AwayTeam,
				HomeScore: score.HomeScore,
				AwayScore: score.AwayScore,
				Margin:    margin,
			})
		}
	}

	sort.SliceStable(closeGames, func(i, j int) bool {
		return closeGames[i].Margin < closeGames[j].Margin
	})

	return closeGames
}

func formatMondayNightCloseGames(closeGames []models.CloseGame) string {
	var sb strings.Builder

	sb.WriteString("🏈 *Monday Night Watch List*\n\n")

	if len(closeGames) == 0 {
		sb.WriteString("No close games this week. All outcomes are likely decided.")
		return sb.String()
	}

	for _, game := range closeGames {
		sb.WriteString(fmt.Sprintf("%s %.2f - %.2f %s (Margin: %.2f)\n",
			game.HomeTeam, game.HomeScore, game.AwayScore, game.AwayTeam, game.Margin))
	}

	return sb.String()
}

// GetTrendingReport lists the most added or dropped players league-wide and
// who in this league rosters them.
func (s *FantasyService) GetTrendingReport(ctx context.Context, trend sleeper.TrendType, limit int) (string, error) {
	if limit <= 0 {
		limit = defaultTrendingTop
	}

	players, err := s.api.GetTrending(ctx, trend, limit)
	if err != nil {
		return "", fmt.Errorf("error fetching trending players: %w", err)
	}

	var sb strings.Builder
	verb := "Added"
	if trend == sleeper.TrendDrop {
		verb = "Dropped"
	}
	sb.WriteString(fmt.Sprintf("📈 *Most %s (24h)*\n\n", verb))

	if len(players) == 0 {
		sb.WriteString("No trending players right now.")
		return sb.String(), nil
	}

	for i, tp := range players {
		count := tp.Player.AddCount
		if trend == sleeper.TrendDrop {
			count = tp.Player.DropCount
		}
		owner := "FA"
		if tp.TeamName != "" {
			owner = tp.TeamName
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s (%s) - %d - %s\n",
			i+1, tp.Player.Position, tp.Player.FullName(), orDash(tp.Player.TeamAbbr), count, owner))
	}

	return sb.String(), nil
}

func (s *FantasyService) GetPlayerCard(ctx context.Context, idOrName string) (string, error) {
	player, err := s.api.LookupPlayer(ctx, idOrName)
	if errors.Is(err, sleeper.ErrNotFound) {
		return fmt.Sprintf("🔍 No player found matching '%s'.", idOrName), nil
	}
	if err != nil {
		return "", fmt.Errorf("error looking up player: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (%s - %s)\n", player.FullName(), orDash(player.Position), orDash(player.TeamAbbr)))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("ID: %s\n", player.PlayerID))
	if player.Status != "" {
		sb.WriteString(fmt.Sprintf("Status: %s\n", player.Status))
	}
	if player.InjuryStatus != "" {
		sb.WriteString(fmt.Sprintf("Injury: %s\n", player.InjuryStatus))
	}
	if player.Age > 0 {
		sb.WriteString(fmt.Sprintf("Age: %d\n", player.Age))
	}
	if player.YearsExp > 0 {
		sb.WriteString(fmt.Sprintf("Experience: %d yrs\n", player.YearsExp))
	}
	if player.College != "" {
		sb.WriteString(fmt.Sprintf("College: %s\n", player.College))
	}

	return sb.String(), nil
}

// SearchPlayers runs a JSON query such as {"position": "QB", "age": {"<": 25}}
// against the player snapshot.
func (s *FantasyService) SearchPlayers(ctx context.Context, query string) (string, error) {
	pred, err := search.ParseJSON([]byte(query))
	if err != nil {
		return fmt.Sprintf("Invalid query: %v", err), nil
	}

	players, err := s.api.SearchPlayers(ctx, pred)
	if errors.Is(err, search.ErrInvalidQuery) || errors.Is(err, search.ErrTypeMismatch) {
		return fmt.Sprintf("Invalid query: %v", err), nil
	}
	if err != nil {
		return "", fmt.Errorf("error searching players: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔎 *%d players found*\n\n", len(players)))
	for i, p := range players {
		if i == maxSearchResults {
			sb.WriteString(fmt.Sprintf("...and %d more\n", len(players)-maxSearchResults))
			break
		}
		sb.WriteString(fmt.Sprintf("%s %s (%s)\n", orDash(p.Position), p.FullName(), orDash(p.TeamAbbr)))
	}

	return sb.String(), nil
}

var positionOrder = map[string]int{"QB": 0, "RB": 1, "WR": 2, "TE": 3, "K": 4, "DEF": 5}

func (s *FantasyService) GetProTeam(ctx context.Context, teamAbbr string) (string, error) {
	players, err := s.api.GetProTeam(ctx, teamAbbr)
	if err != nil {
		return "", fmt.Errorf("error fetching team players: %w", err)
	}
	if len(players) == 0 {
		return fmt.Sprintf("🔍 No players found for team '%s'.", teamAbbr), nil
	}

	sort.SliceStable(players, func(i, j int) bool {
		pi, oki := positionOrder[players[i].Position]
		pj, okj := positionOrder[players[j].Position]
		if oki != okj {
			return oki
		}
		if pi != pj {
			return pi < pj
		}
		if players[i].Position != players[j].Position {
			return players[i].Position < players[j].Position
		}
		return players[i].FullName() < players[j].FullName()
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s*\n\n", strings.ToUpper(teamAbbr)))
	for _, p := range players {
		injury := ""
		if p.InjuryStatus != "" {
			injury = fmt.Sprintf(" (%s)", p.InjuryStatus)
		}
		sb.WriteString(fmt.Sprintf("▫️ %s %s%s\n", orDash(p.Position), p.FullName(), injury))
	}

	return sb.String(), nil
}

// WarmPlayerCache refreshes the on-disk player snapshot when it has gone stale.
func (s *FantasyService) WarmPlayerCache(ctx context.Context) (int, error) {
	n, err := s.api.RefreshPlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("error refreshing player cache: %w", err)
	}
	slog.Info("Player cache ready", "players", n)
	return n, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
