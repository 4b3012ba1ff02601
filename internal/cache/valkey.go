package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyClient caches hot read paths: venue listings and auth lookups.
// All cache methods degrade to a miss on infrastructure errors.
type ValkeyClient struct {
	client       *redis.Client
	usersHashKey string
	listTTL      time.Duration
}

func NewValkeyClient() (*ValkeyClient, error) {
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	password := os.Getenv("VALKEY_PASSWORD")
	usersHashKey := os.Getenv("VALKEY_USERS_HASH_KEY")
	if usersHashKey == "" {
		usersHashKey = "users:auth"
	}

	listTTLSec := 60
	if v := os.Getenv("VALKEY_LIST_TTL_SEC"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			listTTLSec = parsed
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client:       rdb,
		usersHashKey: usersHashKey,
		listTTL:      time.Duration(listTTLSec) * time.Second,
	}, nil
}

// GetUserIDByAuth resolves basic-auth credentials from the auth hash.
func (v *ValkeyClient) GetUserIDByAuth(ctx context.Context, username, passwordHash string) (int64, error) {
	authString := fmt.Sprintf("%s:%s", username, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	userIDStr, err := v.client.HGet(ctx, v.usersHashKey, cacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("user not found in cache")
		}
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in cache: %w", err)
	}

	return userID, nil
}

// SetUserAuth stores resolved credentials so later requests skip the
// database lookup.
func (v *ValkeyClient) SetUserAuth(ctx context.Context, username, passwordHash string, userID int64) error {
	authString := fmt.Sprintf("%s:%s", username, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	return v.client.HSet(ctx, v.usersHashKey, cacheKey, strconv.FormatInt(userID, 10)).Err()
}

// GetJSON loads a cached value into dest, reporting whether it was present.
func (v *ValkeyClient) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	payload, err := v.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("cache lookup error: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return false, fmt.Errorf("invalid cached payload: %w", err)
	}
	return true, nil
}

// SetJSON stores a value under the list TTL. Stale listings age out instead
// of being invalidated on every write.
func (v *ValkeyClient) SetJSON(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache payload: %w", err)
	}
	return v.client.Set(ctx, key, payload, v.listTTL).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
