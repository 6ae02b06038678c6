package models

import "time"

type LeagueMetadata struct {
	LeagueID     string
	Name         string
	Sport        string
	Season       string
	SeasonType   string
	CurrentWeek  int
	TotalRosters int
	IsActive     bool
	LastUpdated  time.Time
}

type TeamStanding struct {
	Rank          int
	RosterID      int
	TeamName      string
	OwnerName     string
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
	WinPercentage float64
}

type CurrentScore struct {
	MatchupID    int
	HomeRosterID int
	AwayRosterID int
	HomeTeam     string
	AwayTeam     string
	HomeScore    float64
	AwayScore    float64
}

type WhoHasResult struct {
	PlayerID   string
	PlayerName string
	Position   string
	ProTeam    string
	Found      bool
	RosterID   int
	TeamName   string
	IsStarter  bool
	OnReserve  bool
}

type PlayerToMonitor struct {
	Name         string
	Position     string
	InjuryStatus string
}

type TeamMonitorReport struct {
	TeamName string
	Players  []PlayerToMonitor
}

type PlayersToMonitorReport struct {
	Teams []TeamMonitorReport
}

type Trophy struct {
	Category string
	Team     string
	Value    float64
}

type FinalScoreReport struct {
	Scores   []CurrentScore
	Trophies []Trophy
}

type CloseGame struct {
	HomeTeam  string
	AwayTeam  string
	HomeScore float64
	AwayScore float64
	Margin    float64
}

// TrendingPlayer is a trending player together with the league team rostering them, if any.
type TrendingPlayer struct {
	Player   Player
	TeamName string
}
