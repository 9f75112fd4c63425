// Package session persists signed-in user sessions in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "job-board/internal/common/errors"
	"job-board/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	revokedKeyPrefix = "token:revoked:"
	roleKeyPrefix    = "profile:role:"
)

func SessionKey(token string) string { return sessionKeyPrefix + token }
func RevokedKey(token string) string { return revokedKeyPrefix + token }
func RoleKey(userID string) string   { return roleKeyPrefix + userID }

// Store reads and writes sessions, revocations and cached profile roles.
type Store struct {
	rdb        *redis.Client
	sessionTTL time.Duration
	roleTTL    time.Duration
}

func NewStore(rdb *redis.Client, sessionTTL, roleTTL time.Duration) *Store {
	return &Store{rdb: rdb, sessionTTL: sessionTTL, roleTTL: roleTTL}
}

func (s *Store) SessionTTL() time.Duration { return s.sessionTTL }

// Save stores sess, expiring with the token or the configured TTL, whichever is sooner.
func (s *Store) Save(ctx context.Context, sess *models.Session) error {
	ttl := sess.TTL(time.Now(), s.sessionTTL)
	if ttl <= 0 {
		return commonerrors.NewUnauthenticatedError("session already expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, SessionKey(sess.Token), data, ttl).Err(); err != nil {
		return commonerrors.NewSessionStoreFailedError(err)
	}
	return nil
}

// Get returns the stored session, or nil when there is none.
func (s *Store) Get(ctx context.Context, token string) (*models.Session, error) {
	data, err := s.rdb.Get(ctx, SessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, commonerrors.NewSessionStoreFailedError(err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// unreadable entries are treated as absent
		_ = s.rdb.Del(ctx, SessionKey(token)).Err()
		return nil, nil
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, SessionKey(token)).Err(); err != nil {
		return commonerrors.NewSessionStoreFailedError(err)
	}
	return nil
}

// Revoke marks token unusable for ttl, which should cover its remaining lifetime.
func (s *Store) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.sessionTTL
	}
	if err := s.rdb.Set(ctx, RevokedKey(token), time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return commonerrors.NewSessionStoreFailedError(err)
	}
	return nil
}

func (s *Store) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, RevokedKey(token)).Result()
	if err != nil {
		return false, commonerrors.NewSessionStoreFailedError(err)
	}
	return n > 0, nil
}

// CachedRole returns the cached role for userID and whether it was found.
func (s *Store) CachedRole(ctx context.Context, userID string) (models.Role, bool, error) {
	val, err := s.rdb.Get(ctx, RoleKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, commonerrors.NewSessionStoreFailedError(err)
	}
	role := models.Role(val)
	if !role.Valid() {
		return "", false, nil
	}
	return role, true, nil
}

func (s *Store) CacheRole(ctx context.Context, userID string, role models.Role) error {
	if err := s.rdb.Set(ctx, RoleKey(userID), string(role), s.roleTTL).Err(); err != nil {
		return commonerrors.NewSessionStoreFailedError(err)
	}
	return nil
}

func (s *Store) ClearRole(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, RoleKey(userID)).Err(); err != nil {
		return commonerrors.NewSessionStoreFailedError(err)
	}
	return nil
}

// ResolveRole returns the cached role for userID, calling load and caching
// its result on a miss. A failing cache is skipped, not fatal.
func (s *Store) ResolveRole(ctx context.Context, userID string, load func(ctx context.Context) (models.Role, error)) (models.Role, error) {
	if role, ok, err := s.CachedRole(ctx, userID); err == nil && ok {
		return role, nil
	}

	role, err := load(ctx)
	if err != nil {
		return "", err
	}
	if !role.Valid() {
		role = models.RoleRegular
	}
	_ = s.CacheRole(ctx, userID, role)
	return role, nil
}
