package services

import (
	"clinic-connector/internal/domain/entities"
	Iservices "clinic-connector/internal/domain/interfaces/services"
	"clinic-connector/internal/infra/logger"
	"clinic-connector/internal/pkg/jsonx"
	"clinic-connector/internal/util"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/redis/go-redis/v9"
)

const identityKeyPrefix = "identity:"

// IdentityCache resolves phone numbers to user records, remembering both hits
// and misses for TTL. Entries are kept in ristretto and, when a redis client is
// given, mirrored there so replicas share lookups.
type IdentityCache struct {
	Directory   Iservices.IDirectoryService
	Redis       *redis.Client
	TTL         time.Duration
	CountryCode string
	Now         func() time.Time
	Logger      *logger.Logger

	l1 *ristretto.Cache[string, entities.CacheEntry]
}

func NewIdentityCache(directory Iservices.IDirectoryService, redisClient *redis.Client, ttl time.Duration, countryCode string, logger *logger.Logger) (*IdentityCache, error) {
	if ttl <= 0 {
		ttl = 300 * time.Second
	}

	l1, err := ristretto.NewCache(&ristretto.Config[string, entities.CacheEntry]{
		NumCounters:        100000,
		MaxCost:            10000,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}

	return &IdentityCache{
		Directory:   directory,
		Redis:       redisClient,
		TTL:         ttl,
		CountryCode: countryCode,
		Now:         time.Now,
		Logger:      logger,
		l1:          l1,
	}, nil
}

// Resolve returns the cached record for phone, or queries the directory and
// caches whatever it answers. Directory errors resolve to nil.
func (ic *IdentityCache) Resolve(ctx context.Context, phone string) *entities.UserRecord {
	key := util.NormalizePhone(phone, ic.CountryCode)

	if user, ok := ic.Get(ctx, key); ok {
		return user
	}

	var user *entities.UserRecord
	record, err := ic.Directory.FindUserByPhone(ctx, key)
	switch {
	case err == nil:
		user = &record
	case errors.Is(err, ErrUserNotFound):
		ic.Logger.Info(fmt.Sprintf("No user registered for phone %s", key))
	default:
		ic.Logger.Error(fmt.Sprintf("Failed to look up phone %s: %v", key, err))
	}

	ic.Put(ctx, key, user)
	return user
}

// Get returns the entry for an already normalized phone while it is still valid.
func (ic *IdentityCache) Get(ctx context.Context, phone string) (*entities.UserRecord, bool) {
	now := ic.Now()

	if entry, found := ic.l1.Get(ic.key(phone)); found {
		if entry.Valid(now, ic.TTL) {
			return entry.Value, true
		}
		ic.l1.Del(ic.key(phone))
	}

	if ic.Redis == nil {
		return nil, false
	}

	data, err := ic.Redis.Get(ctx, ic.key(phone)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			ic.Logger.Warn(fmt.Sprintf("Failed to read identity from redis: %v", err))
		}
		return nil, false
	}

	var entry entities.CacheEntry
	if err := jsonx.Unmarshal(data, &entry); err != nil {
		ic.Logger.Warn(fmt.Sprintf("Discarding unreadable identity entry for %s: %v", phone, err))
		return nil, false
	}
	if !entry.Valid(now, ic.TTL) {
		return nil, false
	}

	ic.setL1(phone, entry)
	return entry.Value, true
}

// Put stores user (nil for unknown) under an already normalized phone.
func (ic *IdentityCache) Put(ctx context.Context, phone string, user *entities.UserRecord) {
	entry := entities.CacheEntry{Value: user, FetchedAt: ic.Now()}
	ic.setL1(phone, entry)

	if ic.Redis == nil {
		return
	}

	data, err := jsonx.Marshal(entry)
	if err != nil {
		ic.Logger.Warn(fmt.Sprintf("Failed to encode identity entry: %v", err))
		return
	}
	if err := ic.Redis.Set(ctx, ic.key(phone), data, ic.TTL).Err(); err != nil {
		ic.Logger.Warn(fmt.Sprintf("Failed to write identity to redis: %v", err))
	}
}

func (ic *IdentityCache) Expire(ctx context.Context, phone string) {
	ic.l1.Del(ic.key(phone))

	if ic.Redis != nil {
		if err := ic.Redis.Del(ctx, ic.key(phone)).Err(); err != nil {
			ic.Logger.Warn(fmt.Sprintf("Failed to expire identity in redis: %v", err))
		}
	}
}

func (ic *IdentityCache) Close() {
	ic.l1.Close()
}

func (ic *IdentityCache) setL1(phone string, entry entities.CacheEntry) {
	remaining := ic.TTL - ic.Now().Sub(entry.FetchedAt)
	if remaining <= 0 {
		return
	}
	ic.l1.SetWithTTL(ic.key(phone), entry, 1, remaining)
	ic.l1.Wait()
}

func (ic *IdentityCache) key(phone string) string {
	return identityKeyPrefix + phone
}
