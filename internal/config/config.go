package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	TelegramBot TelegramBot
	SleeperAPI  SleeperAPI
	Schedule    Schedule
	Log         Log
	HealthAddr  string `envconfig:"HEALTH_ADDR" default:":80"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type SleeperAPI struct {
	BaseURL   string        `envconfig:"SLEEPER_BASE_URL" default:"https://api.sleeper.app/v1"`
	APIKey    string        `envconfig:"SLEEPER_API_KEY"`
	Timeout   time.Duration `envconfig:"SLEEPER_TIMEOUT" default:"10s"`
	Sport     string        `envconfig:"SPORT" default:"nfl"`
	LeagueID  string        `envconfig:"LEAGUE_ID" required:"true"`
	CacheFile string        `envconfig:"PLAYER_CACHE_FILE"`
	CacheTTL  time.Duration `envconfig:"PLAYER_CACHE_TTL" default:"24h"`
	// RateLimit is requests per minute; zero disables limiting.
	RateLimit int           `envconfig:"SLEEPER_RATE_LIMIT" default:"1000"`
}

// Schedule holds standard five-field cron expressions evaluated in Location.
type Schedule struct {
	Location    string `envconfig:"SCHEDULE_TZ" default:"America/Chicago"`
	Trending    string `envconfig:"SCHEDULE_TRENDING" default:"0 9 * * *"`
	Scoreboard  string `envconfig:"SCHEDULE_SCOREBOARD" default:"30 7 * * 1,2,5"`
	Standings   string `envconfig:"SCHEDULE_STANDINGS" default:"30 7 * * 3"`
	Monitor     string `envconfig:"SCHEDULE_MONITOR" default:"30 7 * * 0"`
	PlayerCache string `envconfig:"SCHEDULE_PLAYER_CACHE" default:"0 4 * * *"`
}

type Log struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if err := c.Schedule.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s Schedule) Validate() error {
	if _, err := time.LoadLocation(s.Location); err != nil {
		return fmt.Errorf("invalid SCHEDULE_TZ %q: %w", s.Location, err)
	}

	for name, expr := range s.Jobs() {
		if _, err := cron.ParseStandard(expr); err != nil {
			return fmt.Errorf("invalid cron expression for %s job %q: %w", name, expr, err)
		}
	}
	return nil
}

// Jobs maps job names to their cron expressions.
func (s Schedule) Jobs() map[string]string {
	return map[string]string{
		"trending":     s.Trending,
		"scoreboard":   s.Scoreboard,
		"standings":    s.Standings,
		"monitor":      s.Monitor,
		"player_cache": s.PlayerCache,
	}
}
