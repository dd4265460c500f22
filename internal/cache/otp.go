package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// OTPTTL is the validity window of a password-reset code.
	OTPTTL = 180 * time.Second
	// ResetSessionTTL bounds how long a verified phone stays usable
	// for the final reset step.
	ResetSessionTTL = 10 * time.Minute
	// MaxOTPAttempts caps verify attempts per issued code.
	MaxOTPAttempts = 5
)

// OTPStore holds the short-lived secrets of the phone reset flow: the
// code itself, a per-code attempt counter, and the "phone verified"
// session marker minted after a successful verify.
type OTPStore interface {
	SaveOTP(ctx context.Context, phone, code string) error
	// GetOTP returns "" when the code is absent or expired.
	GetOTP(ctx context.Context, phone string) (string, error)
	IncrAttempts(ctx context.Context, phone string) (int64, error)

	SaveResetSession(ctx context.Context, sessionID, phone string) error
	// GetResetSession returns "" when the session is absent or expired.
	GetResetSession(ctx context.Context, sessionID string) (string, error)
	DeleteResetSession(ctx context.Context, sessionID string) error
}

type RedisOTPStore struct {
	rdb *redis.Client
}

func NewOTPStore(rdb *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{rdb: rdb}
}

func (s *RedisOTPStore) SaveOTP(ctx context.Context, phone, code string) error {
	if err := s.rdb.Set(ctx, "otp:"+phone, code, OTPTTL).Err(); err != nil {
		return err
	}
	// fresh code, fresh attempt budget
	return s.rdb.Del(ctx, "otp_attempts:"+phone).Err()
}

func (s *RedisOTPStore) GetOTP(ctx context.Context, phone string) (string, error) {
	code, err := s.rdb.Get(ctx, "otp:"+phone).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return code, err
}

func (s *RedisOTPStore) IncrAttempts(ctx context.Context, phone string) (int64, error) {
	key := "otp_attempts:" + phone
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		s.rdb.Expire(ctx, key, OTPTTL)
	}
	return n, nil
}

func (s *RedisOTPStore) SaveResetSession(ctx context.Context, sessionID, phone string) error {
	return s.rdb.Set(ctx, "pwreset:"+sessionID, phone, ResetSessionTTL).Err()
}

func (s *RedisOTPStore) GetResetSession(ctx context.Context, sessionID string) (string, error) {
	phone, err := s.rdb.Get(ctx, "pwreset:"+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return phone, err
}

func (s *RedisOTPStore) DeleteResetSession(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, "pwreset:"+sessionID).Err()
}
