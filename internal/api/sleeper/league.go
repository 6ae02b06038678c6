package sleeper

import (
	"context"
	"fmt"

	"github.com/smallery/sleeper-fantasy-api/internal/models"
)

func (a *API) GetLeague(ctx context.Context, leagueID string) (*models.League, error) {
	return getOne[models.League](ctx, a.client, fmt.Sprintf("league/%s", leagueID), fmt.Sprintf("league %s", leagueID))
}

func (a *API) GetRosters(ctx context.Context, leagueID string) ([]models.Roster, error) {
	return getList[models.Roster](ctx, a.client, fmt.Sprintf("league/%s/rosters", leagueID), "rosters")
}

func (a *API) GetLeagueUsers(ctx context.Context, leagueID string) ([]models.User, error) {
	return getList[models.User](ctx, a.client, fmt.Sprintf("league/%s/users", leagueID), "league users")
}

func (a *API) GetMatchups(ctx context.Context, leagueID string, week int) ([]models.Matchup, error) {
	return getList[models.Matchup](ctx, a.client, fmt.Sprintf("league/%s/matchups/%d", leagueID, week), "matchups")
}

func (a *API) GetWinnersBracket(ctx context.Context, leagueID string) ([]models.BracketMatch, error) {
	return getList[models.BracketMatch](ctx, a.client, fmt.Sprintf("league/%s/winners_bracket", leagueID), "winners bracket")
}

func (a *API) GetLosersBracket(ctx context.Context, leagueID string) ([]models.BracketMatch, error) {
	return getList[models.BracketMatch](ctx, a.client, fmt.Sprintf("league/%s/losers_bracket", leagueID), "losers bracket")
}

// GetTransactions returns the transactions of one week (the API calls it a round).
func (a *API) GetTransactions(ctx context.Context, leagueID string, week int) ([]models.Transaction, error) {
	return getList[models.Transaction](ctx, a.client, fmt.Sprintf("league/%s/transactions/%d", leagueID, week), "transactions")
}

func (a *API) GetTradedPicks(ctx context.Context, leagueID string) ([]models.TradedPick, error) {
	return getList[models.TradedPick](ctx, a.client, fmt.Sprintf("league/%s/traded_picks", leagueID), "traded picks")
}

func (a *API) GetLeagueDrafts(ctx context.Context, leagueID string) ([]models.Draft, error) {
	return getList[models.Draft](ctx, a.client, fmt.Sprintf("league/%s/drafts", leagueID), "league drafts")
}
