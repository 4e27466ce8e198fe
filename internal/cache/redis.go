package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"dorm-backend/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Cache keys. List keys share an entity prefix so a pattern clears them all.
const (
	BuildingsListKey = "buildings:list"
	RoomsListKey     = "rooms:list"
	StudentsListKey  = "students:list"
	GuestsListKey    = "guests:list"
	AssetsListKey    = "assets:list"
	BillsListKey     = "bills:list"
	UsersListKey     = "users:list"
	StatsKey         = "stats:dashboard"
	RevenueKey       = "stats:revenue"
)

var (
	client     *redis.Client
	defaultTTL = 5 * time.Minute
)

// Init initializes the Redis connection. On failure the client stays nil and
// every cache call degrades to a miss.
func Init(addr, password string, db int, ttl time.Duration) error {
	if ttl > 0 {
		defaultTTL = ttl
	}
	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// Close releases the client
func Close() {
	if client != nil {
		client.Close()
		client = nil
	}
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		metrics.CacheResults.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheResults.WithLabelValues("hit").Inc()
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("[Redis] Failed to set %s: %v", key, err)
	}
}

// Fetch returns the cached JSON value for key, or calls load and caches its
// result. Load errors are never cached.
func Fetch[T any](ctx context.Context, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if data, ok := GetCached(ctx, key); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		InvalidateKeys(ctx, key)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if client != nil {
		if data, err := json.Marshal(v); err == nil {
			SetCached(ctx, key, data, defaultTTL)
		}
	}
	return v, nil
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateBuildingCaches clears building lists
// Called when: CreateBuilding, UpdateBuilding, DeleteBuilding
func InvalidateBuildingCaches(ctx context.Context) {
	InvalidatePattern(ctx, "buildings:*")
}

// InvalidateRoomCaches clears room lists and the dashboard stats derived from rooms
// Called when: CreateRoom, UpdateRoom, RecountRoom
func InvalidateRoomCaches(ctx context.Context) {
	InvalidatePattern(ctx, "rooms:*")
	InvalidateKeys(ctx, StatsKey)
}

// InvalidateRoomDeleteCaches also clears the cascaded assets and bills
// Called when: DeleteRoom
func InvalidateRoomDeleteCaches(ctx context.Context) {
	InvalidateRoomCaches(ctx)
	InvalidatePattern(ctx, "assets:*")
	InvalidatePattern(ctx, "bills:*")
	InvalidateKeys(ctx, RevenueKey)
}

// InvalidateStudentCaches clears students plus the room occupancy they affect
// Called when: CreateStudent, UpdateStudent, DeleteStudent
func InvalidateStudentCaches(ctx context.Context) {
	InvalidatePattern(ctx, "students:*")
	InvalidateRoomCaches(ctx)
}

// InvalidateGuestCaches clears guests plus the room occupancy they affect
// Called when: CreateGuest, UpdateGuest, CheckoutGuest
func InvalidateGuestCaches(ctx context.Context) {
	InvalidatePattern(ctx, "guests:*")
	InvalidateRoomCaches(ctx)
}

// InvalidateAssetCaches clears asset lists
func InvalidateAssetCaches(ctx context.Context) {
	InvalidatePattern(ctx, "assets:*")
}

// InvalidateBillCaches clears bills and revenue
// Called when: CreateBill, UpdateBill, PayBill, UnpayBill, DeleteBill
func InvalidateBillCaches(ctx context.Context) {
	InvalidatePattern(ctx, "bills:*")
	InvalidateKeys(ctx, RevenueKey)
}

// InvalidateUserCaches clears all user-related caches
func InvalidateUserCaches(ctx context.Context) {
	InvalidatePattern(ctx, "users:*")
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

// Enabled reports whether a Redis client is configured
func Enabled() bool {
	return client != nil
}
