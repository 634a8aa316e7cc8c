package Iservices

import (
	"clinic-connector/internal/domain/entities"
	"context"
)

// IDirectoryService is read-only access to users and their bookings.
type IDirectoryService interface {
	FindUserByPhone(ctx context.Context, phone string) (entities.UserRecord, error)
	FindBookingsByUID(ctx context.Context, uid string) ([]entities.Booking, error)
	Available() bool
}

// IIdentityCache resolves a sender phone number to a user record. A nil record means unknown.
type IIdentityCache interface {
	Resolve(ctx context.Context, phone string) *entities.UserRecord
	Get(ctx context.Context, phone string) (*entities.UserRecord, bool)
	Put(ctx context.Context, phone string, user *entities.UserRecord)
	Expire(ctx context.Context, phone string)
}
