package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/smallery/sleeper-fantasy-api/internal/api/sleeper"
)

type fakeReports struct {
	calls []string
	err   error
}

func (f *fakeReports) record(call string) (string, error) {
	f.calls = append(f.calls, call)
	if f.err != nil {
		return "", f.err
	}
	return "report: " + call, nil
}

func (f *fakeReports) GetCurrentScores(ctx context.Context) (string, error) {
	return f.record("scores")
}

func (f *fakeReports) GetStandings(ctx context.Context) (string, error) {
	return f.record("standings")
}

func (f *fakeReports) WhoHas(ctx context.Context, playerName string) (string, error) {
	return f.record("whohas " + playerName)
}

func (f *fakeReports) GetPlayersToMonitor(ctx context.Context) (string, error) {
	return f.record("monitor")
}

func (f *fakeReports) GetFinalScoreReport(ctx context.Context) (string, error) {
	return f.record("finalscore")
}

func (f *fakeReports) GetMondayNightCloseGames(ctx context.Context) (string, error) {
	return f.record("mondaynight")
}

func (f *fakeReports) GetTrendingReport(ctx context.Context, trend sleeper.TrendType, limit int) (string, error) {
	return f.record("trending " + string(trend) + " " + strconv.Itoa(limit))
}

func (f *fakeReports) GetPlayerCard(ctx context.Context, idOrName string) (string, error) {
	return f.record("player " + idOrName)
}

func (f *fakeReports) SearchPlayers(ctx context.Context, query string) (string, error) {
	return f.record("search " + query)
}

func (f *fakeReports) GetProTeam(ctx context.Context, teamAbbr string) (string, error) {
	return f.record("nflteam " + teamAbbr)
}

func commandUpdate(text string) tgbotapi.Update {
	command := strings.SplitN(text, " ", 2)[0]
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: 99},
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: len(command)},
			},
		},
	}
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		text     string
		wantText string
		wantCall string
	}{
		{"/start", "Welcome to SleeperBot!", ""},
		{"/help", "/search <json query>", ""},
		{"/scores", "report: scores", "scores"},
		{"/standings", "report: standings", "standings"},
		{"/whohas Justin Jefferson", "report: whohas Justin Jefferson", "whohas Justin Jefferson"},
		{"/whohas", "Please provide a player name", ""},
		{"/monitor", "report: monitor", "monitor"},
		{"/finalscore", "report: finalscore", "finalscore"},
		{"/mondaynight", "report: mondaynight", "mondaynight"},
		{"/trending", "report: trending add 0", "trending add 0"},
		{"/trending drop 5", "report: trending drop 5", "trending drop 5"},
		{"/trending sideways", "Usage: /trending", ""},
		{"/player 4046", "report: player 4046", "player 4046"},
		{"/player", "Please provide a player ID or name", ""},
		{`/search {"position": "QB"}`, `report: search {"position": "QB"}`, `search {"position": "QB"}`},
		{"/search", "Please provide a JSON query", ""},
		{"/nflteam KC", "report: nflteam KC", "nflteam KC"},
		{"/nflteam", "Please provide a team abbreviation", ""},
		{"/bogus", "Unknown command", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			reports := &fakeReports{}
			h := NewHandler(reports)

			msg := h.HandleCommand(context.Background(), commandUpdate(tt.text))

			assert.Equal(t, int64(99), msg.ChatID)
			assert.Contains(t, msg.Text, tt.wantText)
			if tt.wantCall == "" {
				assert.Empty(t, reports.calls)
			} else {
				assert.Equal(t, []string{tt.wantCall}, reports.calls)
			}
		})
	}
}

func TestHandleCommandReportsErrors(t *testing.T) {
	h := NewHandler(&fakeReports{err: errors.New("upstream down")})

	msg := h.HandleCommand(context.Background(), commandUpdate("/standings"))

	assert.Equal(t, "Error fetching standings: upstream down", msg.Text)
	assert.Empty(t, msg.ParseMode)
}
