package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/smallery/sleeper-fantasy-api/internal/api/sleeper"
	"github.com/smallery/sleeper-fantasy-api/internal/config"
)

const jobTimeout = 2 * time.Minute

// Reports is what the scheduled jobs publish.
type Reports interface {
	GetCurrentScores(ctx context.Context) (string, error)
	GetStandings(ctx context.Context) (string, error)
	GetPlayersToMonitor(ctx context.Context) (string, error)
	GetTrendingReport(ctx context.Context, trend sleeper.TrendType, limit int) (string, error)
	WarmPlayerCache(ctx context.Context) (int, error)
}

type Scheduler struct {
	s           gocron.Scheduler
	reports     Reports
	sendMessage func(string) error
	schedule    config.Schedule
}

func NewScheduler(schedule config.Schedule, reports Reports, sendMessage func(string) error) (*Scheduler, error) {
	location, err := time.LoadLocation(schedule.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %w", schedule.Location, err)
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		reports:     reports,
		sendMessage: sendMessage,
		schedule:    schedule,
	}, nil
}

func (s *Scheduler) tasks() map[string]func() {
	return map[string]func(){
		"trending":     s.sendTrending,
		"scoreboard":   s.sendScoreboard,
		"standings":    s.sendStandings,
		"monitor":      s.sendPlayersToMonitor,
		"player_cache": s.warmPlayerCache,
	}
}

// Start registers one cron job per configured schedule and starts the scheduler.
// A job with an empty expression is skipped.
func (s *Scheduler) Start() error {
	jobs := s.schedule.Jobs()
	tasks := s.tasks()

	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		expr := jobs[name]
		if expr == "" {
			slog.Info("Job disabled", "job", name)
			continue
		}
		task, ok := tasks[name]
		if !ok {
			return fmt.Errorf("no task for %s job", name)
		}

		_, err := s.s.NewJob(
			gocron.CronJob(expr, false),
			gocron.NewTask(task),
			gocron.WithName(name),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s job: %w", name, err)
		}
		slog.Info("Job scheduled", "job", name, "cron", expr)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) Jobs() []gocron.Job {
	return s.s.Jobs()
}

func (s *Scheduler) publish(what string, report func(ctx context.Context) (string, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	text, err := report(ctx)
	if err != nil {
		slog.Error("Failed to get "+what, "error", err)
		return
	}
	if err := s.sendMessage(text); err != nil {
		slog.Error("Failed to send "+what, "error", err)
	}
}

func (s *Scheduler) sendTrending() {
	s.publish("trending players", func(ctx context.Context) (string, error) {
		return s.reports.GetTrendingReport(ctx, sleeper.TrendAdd, 0)
	})
}

func (s *Scheduler) sendScoreboard() {
	s.publish("current scores", s.reports.GetCurrentScores)
}

func (s *Scheduler) sendStandings() {
	s.publish("standings", s.reports.GetStandings)
}

func (s *Scheduler) sendPlayersToMonitor() {
	s.publish("players to monitor", s.reports.GetPlayersToMonitor)
}

func (s *Scheduler) warmPlayerCache() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.reports.WarmPlayerCache(ctx); err != nil {
		slog.Error("Failed to warm player cache", "error", err)
	}
}
