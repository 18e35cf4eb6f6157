package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/smenuberu/dashboard/internal/config"
	"github.com/smenuberu/dashboard/internal/domain"
)

var ErrBusy = errors.New("Операция уже выполняется")

// Store keeps the dashboard's own per-user state in redis: form drafts, the
// busy flag of each draft, suggestion sequence numbers and notification
// settings.
type Store struct {
	rdb         *redis.Client
	draftTTL    time.Duration
	busyTTL     time.Duration
	operationTO time.Duration
}

func New(cfg *config.Config, rdb *redis.Client) *Store {
	return &Store{
		rdb:         rdb,
		draftTTL:    time.Duration(cfg.Draft.Expiration) * time.Second,
		busyTTL:     time.Duration(cfg.Draft.BusyTimeout) * time.Second,
		operationTO: time.Duration(cfg.Redis.OperationExpiration) * time.Second,
	}
}

func draftKey(userID, draftID string) string {
	return fmt.Sprintf("draft_%s_%s", userID, draftID)
}

func busyKey(userID, draftID string) string {
	return fmt.Sprintf("busy_%s_%s", userID, draftID)
}

func seqKey(scope string) string {
	return fmt.Sprintf("suggest_seq_%s", scope)
}

func notificationsKey(userID string) string {
	return fmt.Sprintf("notifications_%s", userID)
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.operationTO <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.operationTO)
}

// SaveDraft stores v as JSON and refreshes the draft expiration.
func (s *Store) SaveDraft(ctx context.Context, userID, draftID string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.rdb.Set(ctx, draftKey(userID, draftID), data, s.draftTTL).Err()
}

// LoadDraft decodes the stored draft into v. A missing or expired draft
// yields domain.ErrNotFound.
func (s *Store) LoadDraft(ctx context.Context, userID, draftID string, v any) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data, err := s.rdb.Get(ctx, draftKey(userID, draftID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		}
		return err
	}

	return json.Unmarshal(data, v)
}

func (s *Store) DeleteDraft(ctx context.Context, userID, draftID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.rdb.Del(ctx, draftKey(userID, draftID), busyKey(userID, draftID)).Err()
}

// releaseScript deletes the busy flag only if it still carries our token, so
// a holder whose flag expired cannot clear a newer one.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquireBusy marks the draft as having an operation in flight. It returns
// ErrBusy while another operation holds the flag. The flag expires on its own
// after the busy timeout.
func (s *Store) AcquireBusy(ctx context.Context, userID, draftID string) (release func(), err error) {
	token := uuid.NewString()
	key := busyKey(userID, draftID)

	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.rdb.SetNX(opCtx, key, token, s.busyTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBusy
	}

	return func() {
		// the request context may already be done here
		ctx, cancel := s.withTimeout(context.WithoutCancel(ctx))
		defer cancel()
		_ = releaseScript.Run(ctx, s.rdb, []string{key}, token).Err()
	}, nil
}

// Next issues the next suggestion token for scope.
func (s *Store) Next(ctx context.Context, scope string) (uint64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := seqKey(scope)
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.draftTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return uint64(incr.Val()), nil
}

// Current returns the last token issued for scope, 0 if none.
func (s *Store) Current(ctx context.Context, scope string) (uint64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.rdb.Get(ctx, seqKey(scope)).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

// NotificationSettings returns the saved toggles, or the defaults for a user
// who never saved any.
func (s *Store) NotificationSettings(ctx context.Context, userID string) (domain.NotificationSettings, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	settings := domain.DefaultNotificationSettings()
	data, err := s.rdb.Get(ctx, notificationsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return settings, nil
		}
		return settings, err
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.DefaultNotificationSettings(), err
	}
	return settings, nil
}

func (s *Store) SaveNotificationSettings(ctx context.Context, userID string, settings domain.NotificationSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.rdb.Set(ctx, notificationsKey(userID), data, 0).Err()
}
