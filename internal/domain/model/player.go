// Package model contains domain models passed between layers.
package model

// Player is a rostered player as supplied by the import layer. The
// optimization core reads players but never mutates them.
type Player struct {
	ID     string `json:"id" koanf:"id"`
	Name   string `json:"name" koanf:"name"`
	Rating int    `json:"rating" koanf:"rating"`
	Team   string `json:"team,omitempty" koanf:"team"`
	// Availability lists ISO dates (YYYY-MM-DD) the player can play on.
	// An empty list means always available.
	Availability []string `json:"availability,omitempty" koanf:"availability"`
	// History is the rating evolution, oldest first.
	History []RatingPoint `json:"history,omitempty" koanf:"history"`
}

// RatingPoint is a rating observed on a date (YYYY-MM-DD).
type RatingPoint struct {
	Date   string `json:"date" koanf:"date"`
	Rating int    `json:"rating" koanf:"rating"`
}

// AvailableOn reports whether the player can be fielded on date. An empty
// date or an empty availability list always matches.
func (p Player) AvailableOn(date string) bool {
	if date == "" || len(p.Availability) == 0 {
		return true
	}
	for _, d := range p.Availability {
		if d == date {
			return true
		}
	}
	return false
}

// TeamRating returns the aggregate rating of players.
func TeamRating(players []Player) int {
	total := 0
	for _, p := range players {
		total += p.Rating
	}
	return total
}

// Names returns player names in order.
func Names(players []Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}
