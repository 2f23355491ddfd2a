// Package session keeps onboarding form state between screens.
//
// A draft is a flat key-value map scoped to one user. Screens read the whole
// draft and write patches; nothing else touches it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix = "onboarding:"

	MaxFields    = 64
	MaxKeyLength = 64
)

var (
	ErrEmptyKey      = errors.New("draft key cannot be empty")
	ErrKeyTooLong    = fmt.Errorf("draft key longer than %d characters", MaxKeyLength)
	ErrTooManyFields = fmt.Errorf("draft cannot hold more than %d fields", MaxFields)
)

// Draft is the onboarding form data collected so far.
type Draft map[string]string

// Store is the onboarding state contract.
type Store interface {
	Get(ctx context.Context, userID string) (Draft, error)
	// Patch sets every key in patch. An empty value removes the key.
	// The patch applies whole or not at all, and the merged draft may not
	// hold more than MaxFields fields. The merged draft is returned.
	Patch(ctx context.Context, userID string, patch Draft) (Draft, error)
	Clear(ctx context.Context, userID string) error
}

// RedisStore keeps each draft in a Redis hash that expires ttl after the last
// non-empty patch.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func draftKey(userID string) string {
	return keyPrefix + userID
}

func (s *RedisStore) Get(ctx context.Context, userID string) (Draft, error) {
	fields, err := s.client.HGetAll(ctx, draftKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return Draft(fields), nil
}

// patchScript applies a patch to the draft hash in one step. It counts the
// fields the merged draft would hold and replies -1 without writing when that
// exceeds the limit. Otherwise it removes and sets fields, refreshes the TTL
// while any field is left and replies with the merged hash.
//
// KEYS[1] draft key
// ARGV[1] field limit, ARGV[2] ttl in ms, ARGV[3] number of pairs to set,
// followed by the field/value pairs and then the fields to remove.
var patchScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])
local first = 4
local last = first + 2 * tonumber(ARGV[3]) - 1

local count = redis.call('HLEN', key)
for i = first, last, 2 do
	if redis.call('HEXISTS', key, ARGV[i]) == 0 then
		count = count + 1
	end
end
for i = last + 1, #ARGV do
	if redis.call('HEXISTS', key, ARGV[i]) == 1 then
		count = count - 1
	end
end
if count > limit then
	return -1
end

for i = last + 1, #ARGV do
	redis.call('HDEL', key, ARGV[i])
end
for i = first, last, 2 do
	redis.call('HSET', key, ARGV[i], ARGV[i + 1])
end
if count > 0 then
	redis.call('PEXPIRE', key, ttl)
end
return redis.call('HGETALL', key)
`)

func (s *RedisStore) Patch(ctx context.Context, userID string, patch Draft) (Draft, error) {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		if k == "" {
			return nil, ErrEmptyKey
		}
		if len(k) > MaxKeyLength {
			return nil, ErrKeyTooLong
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return s.Get(ctx, userID)
	}
	// Stable argument order for the script.
	sort.Strings(keys)

	var removed []interface{}
	var set []interface{}
	for _, k := range keys {
		if patch[k] == "" {
			removed = append(removed, k)
			continue
		}
		set = append(set, k, patch[k])
	}
	if len(set)/2 > MaxFields {
		return nil, ErrTooManyFields
	}

	args := append([]interface{}{MaxFields, s.ttl.Milliseconds(), len(set) / 2}, set...)
	args = append(args, removed...)

	reply, err := patchScript.Run(ctx, s.client, []string{draftKey(userID)}, args...).Result()
	if err != nil {
		return nil, fmt.Errorf("patch draft: %w", err)
	}
	return parsePatchReply(reply)
}

func parsePatchReply(reply interface{}) (Draft, error) {
	switch v := reply.(type) {
	case int64:
		return nil, ErrTooManyFields
	case []interface{}:
		if len(v)%2 != 0 {
			return nil, fmt.Errorf("patch draft: odd reply length %d", len(v))
		}
		draft := make(Draft, len(v)/2)
		for i := 0; i < len(v); i += 2 {
			field, ok1 := v[i].(string)
			value, ok2 := v[i+1].(string)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("patch draft: unexpected reply element %T", v[i])
			}
			draft[field] = value
		}
		return draft, nil
	default:
		return nil, fmt.Errorf("patch draft: unexpected reply %T", reply)
	}
}

func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
