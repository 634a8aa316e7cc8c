package repoconstants

const (
	USERS_COLLECTION    = "users"
	BOOKINGS_COLLECTION = "bookings"
)
