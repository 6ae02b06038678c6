package sleeper

import (
	"context"
	"fmt"

	"github.com/smallery/sleeper-fantasy-api/internal/models"
)

// GetUser looks a user up by user ID or username; the API accepts either.
func (a *API) GetUser(ctx context.Context, idOrUsername string) (*models.User, error) {
	if idOrUsername == "" {
		return nil, fmt.Errorf("%w: user ID or username is required", ErrValidation)
	}
	return getOne[models.User](ctx, a.client, fmt.Sprintf("user/%s", idOrUsername), fmt.Sprintf("user %s", idOrUsername))
}

func (a *API) GetUserLeagues(ctx context.Context, userID, sport string, season int) ([]models.League, error) {
	if err := a.checkSeason(season); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("user/%s/leagues/%s/%d", userID, sport, season)
	leagues, err := getList[models.League](ctx, a.client, endpoint, "user leagues")
	if err != nil {
		return nil, err
	}
	if len(leagues) == 0 {
		return nil, fmt.Errorf("leagues for the %d season: %w", season, ErrNotFound)
	}
	return leagues, nil
}

// GetUserLeaguesAllSeasons walks every season from FirstSeason to the current year.
func (a *API) GetUserLeaguesAllSeasons(ctx context.Context, userID, sport string) ([]models.League, error) {
	var all []models.League
	for season := FirstSeason; season <= a.now().Year(); season++ {
		endpoint := fmt.Sprintf("user/%s/leagues/%s/%d", userID, sport, season)
		leagues, err := getList[models.League](ctx, a.client, endpoint, "user leagues")
		if err != nil {
			return nil, err
		}
		all = append(all, leagues...)
	}
	return all, nil
}

func (a *API) GetUserDrafts(ctx context.Context, userID, sport string, season int) ([]models.Draft, error) {
	if err := a.checkSeason(season); err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("user/%s/drafts/%s/%d", userID, sport, season)
	return getList[models.Draft](ctx, a.client, endpoint, "user drafts")
}

func (a *API) checkSeason(season int) error {
	current := a.now().Year()
	if season < FirstSeason || season > current {
		return fmt.Errorf("%w: season %d outside %d-%d", ErrValidation, season, FirstSeason, current)
	}
	return nil
}
