package entities

import "strings"

type Intent string

const (
	IntentUpcomingBookings Intent = "upcoming_bookings"
	IntentPastBookings     Intent = "past_bookings"
	IntentUserName         Intent = "user_name"
	IntentGeneral          Intent = "general"
)

// ParseIntent maps a model label onto the fixed intent set; anything else is general.
func ParseIntent(label string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(label))) {
	case IntentUpcomingBookings:
		return IntentUpcomingBookings
	case IntentPastBookings:
		return IntentPastBookings
	case IntentUserName:
		return IntentUserName
	default:
		return IntentGeneral
	}
}

type Classification struct {
	Intent Intent
	Answer string
}
