package entities

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const (
	BookingStatusUpcoming  = "upcoming"
	BookingStatusCompleted = "completed"
)

// ClinicLocation is the fixed regional zone booking timestamps are written and shown in.
var ClinicLocation = time.FixedZone("IST", 5*60*60+30*60)

const bookingTimeZoneSuffix = "UTC+5:30"

var bookingTimeLayouts = []string{
	"January 2, 2006 at 3:04:05 PM",
	"Jan 2, 2006 at 3:04:05 PM",
}

type Booking struct {
	UID            string      `json:"uid" bson:"uid"`
	ClinicName     string      `json:"clinicName" bson:"clinicName"`
	Specialization string      `json:"specialization" bson:"specialization"`
	DoctorName     string      `json:"doctorName" bson:"doctorName"`
	Timestamp      BookingTime `json:"timestamp" bson:"timestamp"`
	BookingStatus  string      `json:"bookingStatus" bson:"bookingStatus"`
	BookingDate    string      `json:"bookingDate" bson:"bookingDate"`
}

type BookingTimeKind int

const (
	BookingTimeMissing BookingTimeKind = iota
	BookingTimeNative
	BookingTimeText
)

// BookingTime is the booking timestamp as stored: absent, a native datetime, or free text.
type BookingTime struct {
	Kind   BookingTimeKind
	Native time.Time
	Raw    string
}

func NativeBookingTime(t time.Time) BookingTime {
	return BookingTime{Kind: BookingTimeNative, Native: t}
}

func TextBookingTime(raw string) BookingTime {
	return BookingTime{Kind: BookingTimeText, Raw: raw}
}

// Resolve normalizes the timestamp. ok is false when it is missing or unparseable.
func (bt BookingTime) Resolve() (time.Time, bool) {
	switch bt.Kind {
	case BookingTimeNative:
		return bt.Native, !bt.Native.IsZero()
	case BookingTimeText:
		return parseBookingTimestamp(bt.Raw)
	default:
		return time.Time{}, false
	}
}

func parseBookingTimestamp(raw string) (time.Time, bool) {
	value := strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(raw)
	value = strings.TrimSpace(value)

	value, found := strings.CutSuffix(value, bookingTimeZoneSuffix)
	if !found {
		return time.Time{}, false
	}
	value = strings.TrimSpace(value)

	for _, layout := range bookingTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, ClinicLocation); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UnmarshalBSONValue accepts BSON datetimes, timestamps, strings and
// {seconds|_seconds} documents exported from other stores.
func (bt *BookingTime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.DateTime:
		if ms, ok := raw.DateTimeOK(); ok {
			*bt = NativeBookingTime(time.UnixMilli(ms).UTC())
			return nil
		}
	case bsontype.Timestamp:
		if sec, _, ok := raw.TimestampOK(); ok {
			*bt = NativeBookingTime(time.Unix(int64(sec), 0).UTC())
			return nil
		}
	case bsontype.String:
		if s, ok := raw.StringValueOK(); ok {
			*bt = TextBookingTime(s)
			return nil
		}
	case bsontype.EmbeddedDocument:
		if doc, ok := raw.DocumentOK(); ok {
			for _, key := range []string{"seconds", "_seconds"} {
				if value, err := doc.LookupErr(key); err == nil {
					if sec, ok := rawSeconds(value); ok {
						*bt = NativeBookingTime(time.Unix(sec, 0).UTC())
						return nil
					}
				}
			}
		}
	}

	*bt = BookingTime{}
	return nil
}

func rawSeconds(value bson.RawValue) (int64, bool) {
	switch value.Type {
	case bsontype.Int64:
		return value.Int64OK()
	case bsontype.Int32:
		v, ok := value.Int32OK()
		return int64(v), ok
	case bsontype.Double:
		v, ok := value.DoubleOK()
		return int64(v), ok
	}
	return 0, false
}
