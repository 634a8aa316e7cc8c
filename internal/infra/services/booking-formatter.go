package services

import (
	"clinic-connector/internal/domain/entities"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	NoBookingsMessage         = "You don't have any bookings with us yet."
	NoUpcomingBookingsMessage = "You don't have any upcoming bookings."
	NoPastBookingsMessage     = "You don't have any past bookings."

	notSpecified      = "Not specified"
	bookingSeparator  = "------------------------------"
	displayTimeLayout = "Monday, January 02, 2006 at 03:04 PM"
)

type bookingKey struct {
	clinic         string
	specialization string
	doctor         string
	timeKind       entities.BookingTimeKind
	timeNative     int64
	timeRaw        string
	bookingDate    string
}

type resolvedBooking struct {
	booking  entities.Booking
	when     time.Time
	resolved bool
}

// FormatUpcomingBookings renders the user's upcoming bookings, soonest first.
func FormatUpcomingBookings(bookings []entities.Booking) string {
	return formatBookings(bookings, entities.BookingStatusUpcoming, NoUpcomingBookingsMessage, "📅 Your upcoming bookings:", true)
}

// FormatPastBookings renders the user's completed bookings, most recent first.
func FormatPastBookings(bookings []entities.Booking) string {
	return formatBookings(bookings, entities.BookingStatusCompleted, NoPastBookingsMessage, "🗂️ Your past bookings:", false)
}

func formatBookings(bookings []entities.Booking, status, noneFound, header string, upcoming bool) string {
	if len(bookings) == 0 {
		return NoBookingsMessage
	}

	selected := dedupeBookings(filterByStatus(bookings, status))
	if len(selected) == 0 {
		return noneFound
	}

	resolved := make([]resolvedBooking, 0, len(selected))
	for _, b := range selected {
		when, ok := b.Timestamp.Resolve()
		if !ok {
			when = time.Time{}
		}
		resolved = append(resolved, resolvedBooking{booking: b, when: when, resolved: ok})
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		if upcoming {
			return resolved[i].when.Before(resolved[j].when)
		}
		return resolved[i].when.After(resolved[j].when)
	})

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")
	for _, rb := range resolved {
		writeBookingBlock(&sb, rb, upcoming)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func filterByStatus(bookings []entities.Booking, status string) []entities.Booking {
	var out []entities.Booking
	for _, b := range bookings {
		if strings.EqualFold(strings.TrimSpace(b.BookingStatus), status) {
			out = append(out, b)
		}
	}
	return out
}

// dedupeBookings keeps the first of any bookings sharing clinic, specialization,
// doctor, timestamp and booking date.
func dedupeBookings(bookings []entities.Booking) []entities.Booking {
	seen := make(map[bookingKey]struct{}, len(bookings))
	out := make([]entities.Booking, 0, len(bookings))
	for _, b := range bookings {
		key := bookingKey{
			clinic:         b.ClinicName,
			specialization: b.Specialization,
			doctor:         b.DoctorName,
			timeKind:       b.Timestamp.Kind,
			timeRaw:        b.Timestamp.Raw,
			bookingDate:    b.BookingDate,
		}
		if b.Timestamp.Kind == entities.BookingTimeNative {
			key.timeNative = b.Timestamp.Native.UnixNano()
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b)
	}
	return out
}

func writeBookingBlock(sb *strings.Builder, rb resolvedBooking, upcoming bool) {
	b := rb.booking
	fmt.Fprintf(sb, "🏥 Clinic: %s\n", orNotSpecified(b.ClinicName))
	fmt.Fprintf(sb, "🩺 Specialization: %s\n", orNotSpecified(b.Specialization))
	fmt.Fprintf(sb, "👨‍⚕️ Doctor: %s\n", orNotSpecified(b.DoctorName))
	fmt.Fprintf(sb, "🕒 Time: %s\n", displayBookingTime(rb, upcoming))
	fmt.Fprintf(sb, "📆 Booked on: %s\n", orNotSpecified(b.BookingDate))
	sb.WriteString(bookingSeparator)
	sb.WriteString("\n")
}

func displayBookingTime(rb resolvedBooking, upcoming bool) string {
	if !rb.resolved {
		if rb.booking.Timestamp.Kind == entities.BookingTimeText {
			return orNotSpecified(rb.booking.Timestamp.Raw)
		}
		return notSpecified
	}

	when := rb.when
	if upcoming {
		when = when.In(entities.ClinicLocation)
	}
	return when.Format(displayTimeLayout)
}

func orNotSpecified(value string) string {
	if strings.TrimSpace(value) == "" {
		return notSpecified
	}
	return value
}
