package sleeper

import (
	"context"
	"fmt"
	"time"

	"github.com/smallery/sleeper-fantasy-api/internal/models"
)

// FirstSeason is the earliest season the Sleeper API holds data for.
const FirstSeason = 2015

// API maps the stateless user, league, draft and state endpoints.
type API struct {
	client *Client
	now    func() time.Time
}

func NewAPI(client *Client) *API {
	return &API{client: client, now: time.Now}
}

func (a *API) GetState(ctx context.Context, sport string) (*models.SportState, error) {
	var state models.SportState
	if err := a.client.Get(ctx, fmt.Sprintf("state/%s", sport), nil, &state); err != nil {
		return nil, fmt.Errorf("fetching %s state: %w", sport, err)
	}
	return &state, nil
}

func getOne[T any](ctx context.Context, c *Client, endpoint, what string) (*T, error) {
	var result *T
	if err := c.Get(ctx, endpoint, nil, &result); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", what, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return result, nil
}

func getList[T any](ctx context.Context, c *Client, endpoint, what string) ([]T, error) {
	var result []T
	if err := c.Get(ctx, endpoint, nil, &result); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", what, err)
	}
	if result == nil {
		result = []T{}
	}
	return result, nil
}
