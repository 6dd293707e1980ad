package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Athlete is a roster entry. The roster endpoint relays ESPN athletes
// (fullName, headshot.href, position.abbreviation) while the stats database
// uses first_name, last_name, photo_url and a plain position string; both
// shapes decode into the same struct.
type Athlete struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	FullName  string `json:"full_name"`
	Jersey    string `json:"jersey,omitempty"`
	Position  string `json:"position,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	Team      string `json:"team,omitempty"`
}

// wireAthlete accepts every field spelling seen on the roster and stats endpoints.
type wireAthlete struct {
	ID          FlexString      `json:"id"`
	PlayerID    FlexString      `json:"player_id"`
	FullName    string          `json:"fullName"`
	DisplayName string          `json:"displayName"`
	FullSnake   string          `json:"full_name"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	FirstSnake  string          `json:"first_name"`
	LastSnake   string          `json:"last_name"`
	Jersey      FlexString      `json:"jersey"`
	Position    json.RawMessage `json:"position"`
	PhotoURL    string          `json:"photo_url"`
	Headshot    *struct {
		Href string `json:"href"`
	} `json:"headshot"`
	Team json.RawMessage `json:"team"`
}

// UnmarshalJSON decodes either roster shape.
func (a *Athlete) UnmarshalJSON(data []byte) error {
	var w wireAthlete
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("failed to decode athlete: %w", err)
	}

	*a = Athlete{
		ID:        firstNonEmpty(w.ID.String(), w.PlayerID.String()),
		FirstName: firstNonEmpty(w.FirstName, w.FirstSnake),
		LastName:  firstNonEmpty(w.LastName, w.LastSnake),
		FullName:  firstNonEmpty(w.FullName, w.DisplayName, w.FullSnake),
		Jersey:    w.Jersey.String(),
		Position:  decodePosition(w.Position),
		PhotoURL:  w.PhotoURL,
		Team:      decodeTeam(w.Team),
	}
	if a.PhotoURL == "" && w.Headshot != nil {
		a.PhotoURL = w.Headshot.Href
	}
	if a.FullName == "" {
		a.FullName = strings.TrimSpace(a.FirstName + " " + a.LastName)
	}
	if a.LastName == "" {
		if parts := strings.Fields(a.FullName); len(parts) > 0 {
			a.LastName = parts[len(parts)-1]
		}
	}
	return nil
}

// Validate checks that the athlete can be keyed and labelled.
func (a *Athlete) Validate() error {
	if a.ID == "" {
		return errors.New("athlete ID must not be empty")
	}
	if a.FullName == "" {
		return errors.New("athlete name must not be empty")
	}
	return nil
}

// decodePosition accepts "QB" or {"name": "Quarterback", "abbreviation": "QB"}.
func decodePosition(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name         string `json:"name"`
		Abbreviation string `json:"abbreviation"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return firstNonEmpty(obj.Abbreviation, obj.Name)
	}
	return ""
}

// decodeTeam accepts a team name string or an object with a name field.
func decodeTeam(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		DisplayName string `json:"displayName"`
		Name        string `json:"name"`
		TeamName    string `json:"team_name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return firstNonEmpty(obj.DisplayName, obj.Name, obj.TeamName)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
