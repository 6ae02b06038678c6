package sleeper

import (
	"context"
	"fmt"

	"github.com/smallery/sleeper-fantasy-api/internal/models"
)

func (a *API) GetDraft(ctx context.Context, draftID string) (*models.Draft, error) {
	return getOne[models.Draft](ctx, a.client, fmt.Sprintf("draft/%s", draftID), fmt.Sprintf("draft %s", draftID))
}

func (a *API) GetDraftPicks(ctx context.Context, draftID string) ([]models.Pick, error) {
	return getList[models.Pick](ctx, a.client, fmt.Sprintf("draft/%s/picks", draftID), "draft picks")
}

func (a *API) GetDraftTradedPicks(ctx context.Context, draftID string) ([]models.TradedPick, error) {
	return getList[models.TradedPick](ctx, a.client, fmt.Sprintf("draft/%s/traded_picks", draftID), "draft traded picks")
}
