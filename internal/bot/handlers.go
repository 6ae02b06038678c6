package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/smallery/sleeper-fantasy-api/internal/api/sleeper"
)

const helpText = "Available commands:\n" +
	"/scores - Get current scores\n" +
	"/standings - Get league standings\n" +
	"/whohas <player> - Check which team has a player\n" +
	"/monitor - Get injured starters to monitor\n" +
	"/finalscore - Get final score report\n" +
	"/mondaynight - Get close games for Monday night\n" +
	"/trending [add|drop] [limit] - Most added or dropped players\n" +
	"/player <id or name> - Show a player card\n" +
	"/search <json query> - Search players, e.g. {\"position\": \"QB\", \"age\": {\"<\": 25}}\n" +
	"/nflteam <abbr> - List a pro team's players"

// Reports is the set of league reports the bot can answer with.
type Reports interface {
	GetCurrentScores(ctx context.Context) (string, error)
	GetStandings(ctx context.Context) (string, error)
	WhoHas(ctx context.Context, playerName string) (string, error)
	GetPlayersToMonitor(ctx context.Context) (string, error)
	GetFinalScoreReport(ctx context.Context) (string, error)
	GetMondayNightCloseGames(ctx context.Context) (string, error)
	GetTrendingReport(ctx context.Context, trend sleeper.TrendType, limit int) (string, error)
	GetPlayerCard(ctx context.Context, idOrName string) (string, error)
	SearchPlayers(ctx context.Context, query string) (string, error)
	GetProTeam(ctx context.Context, teamAbbr string) (string, error)
}

type Handler struct {
	reports Reports
}

func NewHandler(reports Reports) *Handler {
	return &Handler{reports: reports}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to SleeperBot! Use /help to see available commands."
	case "help":
		msg.Text = helpText
		msg.ParseMode = ""
	case "scores":
		h.reply(&msg, "fetching scores", func() (string, error) { return h.reports.GetCurrentScores(ctx) })
	case "standings":
		h.reply(&msg, "fetching standings", func() (string, error) { return h.reports.GetStandings(ctx) })
	case "whohas":
		if args == "" {
			msg.Text = "Please provide a player name. Usage: /whohas <player name>"
			return msg
		}
		h.reply(&msg, "checking who has player", func() (string, error) { return h.reports.WhoHas(ctx, args) })
	case "monitor":
		h.reply(&msg, "fetching players to monitor", func() (string, error) { return h.reports.GetPlayersToMonitor(ctx) })
	case "finalscore":
		h.reply(&msg, "generating final score report", func() (string, error) { return h.reports.GetFinalScoreReport(ctx) })
	case "mondaynight":
		h.reply(&msg, "generating Monday night close games report", func() (string, error) { return h.reports.GetMondayNightCloseGames(ctx) })
	case "trending":
		h.handleTrending(ctx, &msg, args)
	case "player":
		if args == "" {
			msg.Text = "Please provide a player ID or name. Usage: /player <id or name>"
			return msg
		}
		h.reply(&msg, "looking up player", func() (string, error) { return h.reports.GetPlayerCard(ctx, args) })
	case "search":
		if args == "" {
			msg.Text = "Please provide a JSON query. Usage: /search {\"position\": \"QB\"}"
			msg.ParseMode = ""
			return msg
		}
		h.reply(&msg, "searching players", func() (string, error) { return h.reports.SearchPlayers(ctx, args) })
	case "nflteam":
		if args == "" {
			msg.Text = "Please provide a team abbreviation. Usage: /nflteam <abbr>"
			return msg
		}
		h.reply(&msg, "fetching team players", func() (string, error) { return h.reports.GetProTeam(ctx, args) })
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) reply(msg *tgbotapi.MessageConfig, action string, report func() (string, error)) {
	text, err := report()
	if err != nil {
		msg.Text = fmt.Sprintf("Error %s: %v", action, err)
		msg.ParseMode = ""
		return
	}
	msg.Text = text
}

func (h *Handler) handleTrending(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	trend := sleeper.TrendAdd
	limit := 0

	for _, field := range strings.Fields(args) {
		if n, err := strconv.Atoi(field); err == nil {
			limit = n
			continue
		}
		switch sleeper.TrendType(strings.ToLower(field)) {
		case sleeper.TrendAdd:
			trend = sleeper.TrendAdd
		case sleeper.TrendDrop:
			trend = sleeper.TrendDrop
		default:
			msg.Text = "Usage: /trending [add|drop] [limit]"
			return
		}
	}

	h.reply(msg, "fetching trending players", func() (string, error) {
		return h.reports.GetTrendingReport(ctx, trend, limit)
	})
}
