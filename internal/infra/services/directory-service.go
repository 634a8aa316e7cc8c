package services

import (
	"clinic-connector/internal/domain/entities"
	"clinic-connector/internal/domain/interfaces/repository"
	repoconstants "clinic-connector/internal/domain/interfaces/repository/constants"
	"clinic-connector/internal/infra/logger"
	"clinic-connector/internal/util"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDirectoryUnavailable = errors.New("directory unavailable")
)

// DirectoryService is read-only access to the users and bookings collections.
type DirectoryService struct {
	UserRepository    repository.Repository[entities.UserRecord]
	BookingRepository repository.Repository[entities.Booking]
	CountryCode       string
	Logger            *logger.Logger
}

func NewDirectoryService(userRepository repository.Repository[entities.UserRecord], bookingRepository repository.Repository[entities.Booking], countryCode string, logger *logger.Logger) *DirectoryService {
	return &DirectoryService{
		UserRepository:    userRepository,
		BookingRepository: bookingRepository,
		CountryCode:       countryCode,
		Logger:            logger,
	}
}

func (ds *DirectoryService) Available() bool {
	return true
}

// FindUserByPhone returns the first user whose phone matches any stored variant
// of the normalized number and who has a non-empty uid.
func (ds *DirectoryService) FindUserByPhone(ctx context.Context, phone string) (entities.UserRecord, error) {
	variants := util.PhoneVariants(phone, ds.CountryCode)
	if len(variants) == 0 {
		return entities.UserRecord{}, ErrUserNotFound
	}

	filter := bson.M{
		"phone": bson.M{"$in": variants},
		"uid":   bson.M{"$exists": true, "$ne": ""},
	}

	user, err := ds.UserRepository.FindOne(ctx, repoconstants.USERS_COLLECTION, filter)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.UserRecord{}, ErrUserNotFound
	}
	if err != nil {
		return entities.UserRecord{}, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	return user, nil
}

func (ds *DirectoryService) FindBookingsByUID(ctx context.Context, uid string) ([]entities.Booking, error) {
	bookings, err := ds.BookingRepository.FindMany(ctx, repoconstants.BOOKINGS_COLLECTION, bson.M{"uid": uid})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	ds.Logger.Debug(fmt.Sprintf("Found %d bookings for uid %s", len(bookings), uid))
	return bookings, nil
}

// UnavailableDirectory stands in when no database is configured.
type UnavailableDirectory struct{}

func (UnavailableDirectory) Available() bool {
	return false
}

func (UnavailableDirectory) FindUserByPhone(ctx context.Context, phone string) (entities.UserRecord, error) {
	return entities.UserRecord{}, ErrDirectoryUnavailable
}

func (UnavailableDirectory) FindBookingsByUID(ctx context.Context, uid string) ([]entities.Booking, error) {
	return nil, ErrDirectoryUnavailable
}
