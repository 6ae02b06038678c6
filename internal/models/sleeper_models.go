package models

import (
	"encoding/json"
	"fmt"
)

const avatarBaseURL = "https://sleepercdn.com/avatars"

type User struct {
	UserID      string         `json:"user_id"`
	Username    string         `json:"username"`
	DisplayName string         `json:"display_name"`
	Avatar      string         `json:"avatar"`
	IsOwner     bool           `json:"is_owner"`
	Metadata    map[string]any `json:"metadata"`
}

func (u User) AvatarURL() string {
	if u.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", avatarBaseURL, u.Avatar)
}

func (u User) AvatarThumbnailURL() string {
	if u.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("%s/thumbs/%s", avatarBaseURL, u.Avatar)
}

// TeamName returns the league-specific team name when one is set, otherwise the display name.
func (u User) TeamName() string {
	if name, ok := u.Metadata["team_name"].(string); ok && name != "" {
		return name
	}
	return u.DisplayName
}

type League struct {
	LeagueID         string             `json:"league_id"`
	Name             string             `json:"name"`
	Status           string             `json:"status"`
	Sport            string             `json:"sport"`
	Season           string             `json:"season"`
	SeasonType       string             `json:"season_type"`
	TotalRosters     int                `json:"total_rosters"`
	RosterPositions  []string           `json:"roster_positions"`
	Settings         map[string]any     `json:"settings"`
	ScoringSettings  map[string]float64 `json:"scoring_settings"`
	Metadata         map[string]any     `json:"metadata"`
	Avatar           string             `json:"avatar"`
	DraftID          string             `json:"draft_id"`
	PreviousLeagueID string             `json:"previous_league_id"`
	BracketID        *int64             `json:"bracket_id"`
	LoserBracketID   *int64             `json:"loser_bracket_id"`
	LastTransaction  string             `json:"last_transaction_id"`
}

type Roster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	LeagueID string         `json:"league_id"`
	Starters []string       `json:"starters"`
	Players  []string       `json:"players"`
	Reserve  []string       `json:"reserve"`
	Settings RosterSettings `json:"settings"`
}

type RosterSettings struct {
	Wins               int `json:"wins"`
	Losses             int `json:"losses"`
	Ties               int `json:"ties"`
	Fpts               int `json:"fpts"`
	FptsDecimal        int `json:"fpts_decimal"`
	FptsAgainst        int `json:"fpts_against"`
	FptsAgainstDecimal int `json:"fpts_against_decimal"`
	WaiverPosition     int `json:"waiver_position"`
	WaiverBudgetUsed   int `json:"waiver_budget_used"`
	TotalMoves         int `json:"total_moves"`
}

func (s RosterSettings) PointsFor() float64 {
	return float64(s.Fpts) + float64(s.FptsDecimal)/100
}

func (s RosterSettings) PointsAgainst() float64 {
	return float64(s.FptsAgainst) + float64(s.FptsAgainstDecimal)/100
}

// HasPlayer reports whether the roster carries the player anywhere, reserve included.
func (r Roster) HasPlayer(playerID string) bool {
	for _, id := range r.Players {
		if id == playerID {
			return true
		}
	}
	for _, id := range r.Reserve {
		if id == playerID {
			return true
		}
	}
	return false
}

func (r Roster) IsStarter(playerID string) bool {
	for _, id := range r.Starters {
		if id == playerID {
			return true
		}
	}
	return false
}

type Matchup struct {
	RosterID     int      `json:"roster_id"`
	MatchupID    int      `json:"matchup_id"`
	Starters     []string `json:"starters"`
	Players      []string `json:"players"`
	Points       float64  `json:"points"`
	CustomPoints *float64 `json:"custom_points"`
}

// Score prefers a commissioner override over computed points.
func (m Matchup) Score() float64 {
	if m.CustomPoints != nil {
		return *m.CustomPoints
	}
	return m.Points
}

type BracketMatch struct {
	Round     int            `json:"r"`
	MatchID   int            `json:"m"`
	Team1     *int           `json:"t1"`
	Team2     *int           `json:"t2"`
	Winner    *int           `json:"w"`
	Loser     *int           `json:"l"`
	Team1From map[string]int `json:"t1_from"`
	Team2From map[string]int `json:"t2_from"`
	Place     *int           `json:"p"`
}

type Transaction struct {
	TransactionID string         `json:"transaction_id"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	StatusUpdated int64          `json:"status_updated"`
	Created       int64          `json:"created"`
	Creator       string         `json:"creator"`
	Leg           int            `json:"leg"`
	RosterIDs     []int          `json:"roster_ids"`
	ConsenterIDs  []int          `json:"consenter_ids"`
	Adds          map[string]int `json:"adds"`
	Drops         map[string]int `json:"drops"`
	DraftPicks    []TradedPick   `json:"draft_picks"`
	WaiverBudget  []WaiverBudget `json:"waiver_budget"`
	Settings      map[string]any `json:"settings"`
	Metadata      map[string]any `json:"metadata"`
}

type WaiverBudget struct {
	Sender   int `json:"sender"`
	Receiver int `json:"receiver"`
	Amount   int `json:"amount"`
}

type TradedPick struct {
	Season          string `json:"season"`
	Round           int    `json:"round"`
	RosterID        int    `json:"roster_id"`
	PreviousOwnerID int    `json:"previous_owner_id"`
	OwnerID         int    `json:"owner_id"`
}

type Draft struct {
	DraftID        string         `json:"draft_id"`
	LeagueID       string         `json:"league_id"`
	Season         string         `json:"season"`
	SeasonType     string         `json:"season_type"`
	Sport          string         `json:"sport"`
	Status         string         `json:"status"`
	Type           string         `json:"type"`
	StartTime      int64          `json:"start_time"`
	DraftOrder     map[string]int `json:"draft_order"`
	SlotToRosterID map[string]int `json:"slot_to_roster_id"`
	Settings       map[string]any `json:"settings"`
	Metadata       map[string]any `json:"metadata"`
}

type Pick struct {
	DraftID   string       `json:"draft_id"`
	PlayerID  string       `json:"player_id"`
	PickedBy  string       `json:"picked_by"`
	RosterID  json.Number  `json:"roster_id"`
	Round     int          `json:"round"`
	DraftSlot int          `json:"draft_slot"`
	PickNo    int          `json:"pick_no"`
	IsKeeper  *bool        `json:"is_keeper"`
	Metadata  PickMetadata `json:"metadata"`
}

type PickMetadata struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PlayerID     string `json:"player_id"`
	Position     string `json:"position"`
	Team         string `json:"team"`
	Status       string `json:"status"`
	Sport        string `json:"sport"`
	Number       string `json:"number"`
	InjuryStatus string `json:"injury_status"`
	NewsUpdated  string `json:"news_updated"`
}

func (p Pick) PlayerName() string {
	return fmt.Sprintf("%s %s", p.Metadata.FirstName, p.Metadata.LastName)
}

type SportState struct {
	Week               int    `json:"week"`
	DisplayWeek        int    `json:"display_week"`
	Leg                int    `json:"leg"`
	Season             string `json:"season"`
	SeasonType         string `json:"season_type"`
	SeasonStartDate    string `json:"season_start_date"`
	PreviousSeason     string `json:"previous_season"`
	LeagueSeason       string `json:"league_season"`
	LeagueCreateSeason string `json:"league_create_season"`
}

type TrendingEntry struct {
	PlayerID string `json:"player_id"`
	Count    int    `json:"count"`
}
