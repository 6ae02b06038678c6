package models

import (
	"encoding/json"
	"strings"
)

// PlayerSnapshot is the full player collection for one sport keyed by player ID,
// exactly as the upstream API returns it.
type PlayerSnapshot map[string]map[string]any

// Player is one entry of a PlayerSnapshot with the commonly used attributes promoted.
// AddCount and DropCount are only populated on results of a trending query.
type Player struct {
	PlayerID     string
	FirstName    string
	LastName     string
	Position     string
	TeamAbbr     string
	Sport        string
	Status       string
	InjuryStatus string
	Age          int
	College      string
	YearsExp     int
	AddCount     int
	DropCount    int

	attributes map[string]any
}

// NewPlayer builds a Player from a snapshot entry. The snapshot key is authoritative
// for the player ID.
func NewPlayer(playerID string, attrs map[string]any) Player {
	if playerID == "" {
		playerID = stringAttr(attrs, "player_id")
	}

	team := stringAttr(attrs, "team_abbr")
	if team == "" {
		team = stringAttr(attrs, "team")
	}

	return Player{
		PlayerID:     playerID,
		FirstName:    stringAttr(attrs, "first_name"),
		LastName:     stringAttr(attrs, "last_name"),
		Position:     stringAttr(attrs, "position"),
		TeamAbbr:     team,
		Sport:        stringAttr(attrs, "sport"),
		Status:       stringAttr(attrs, "status"),
		InjuryStatus: stringAttr(attrs, "injury_status"),
		Age:          intAttr(attrs, "age"),
		College:      stringAttr(attrs, "college"),
		YearsExp:     intAttr(attrs, "years_exp"),
		attributes:   attrs,
	}
}

func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Attribute returns a source field that has no first-class field on Player.
func (p Player) Attribute(name string) (any, bool) {
	v, ok := p.attributes[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (p Player) Attributes() map[string]any {
	return p.attributes
}

func stringAttr(attrs map[string]any, key string) string {
	switch v := attrs[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func intAttr(attrs map[string]any, key string) int {
	switch v := attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}
