// SPDX-License-Identifier: Apache-2.0

// Package pinlock implements the local PIN gate protecting the application.
//
// The PIN never leaves the device. It is stored as hex(SHA-256(salt ":" pin))
// next to a random per-device salt; older releases stored the PIN in
// plaintext, which Verify migrates to the salted hash on the first
// successful match. Repeated failures trigger a timed lockout. All
// persistent fields live in the key-value store; the unlocked flag is
// in-memory only, so backgrounding the application starts a new session.
package pinlock

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/store"
)

const (
	maxFailures     = 5
	lockoutDuration = 5 * time.Minute
)

// kv keys. keyLegacyPIN is the plaintext location used by older releases.
const (
	keySalt         = "pin_salt"
	keyHash         = "pin_hash"
	keyFailures     = "pin_failures"
	keyLockoutStart = "pin_lockout_start"
	keyLegacyPIN    = "app_pin"
)

// State is the PIN gate state derived from the persisted fields.
type State int

const (
	// StateUnconfigured means no PIN has been set; the gate is open.
	StateUnconfigured State = iota
	// StateLocked means a PIN is set and has not been entered this session.
	StateLocked
	// StateUnlocked means the PIN was entered successfully this session.
	StateUnlocked
	// StateLockedOut means too many failures; entry is refused until the
	// lockout window passes.
	StateLockedOut
)

// Status is one evaluation of the gate at a point in time.
type Status struct {
	State State
	// LockoutRemaining is non-zero only in [StateLockedOut].
	LockoutRemaining time.Duration
}

var (
	// ErrInvalidPIN is returned by Configure for anything that is not
	// exactly four digits.
	ErrInvalidPIN = errors.New("pin must be exactly four digits")

	// ErrLockedOut is returned by Verify during an active lockout window.
	ErrLockedOut = errors.New("pin entry locked out")
)

// KeyValueStore is the persistence surface the gate needs. Satisfied by
// [store.KVRepository].
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Service is the PIN gate. Safe for concurrent use.
type Service struct {
	kv     KeyValueStore
	logger *logger.Logger

	mu       sync.Mutex
	unlocked bool
}

// NewService constructs a PIN gate over the given key-value store.
func NewService(kv KeyValueStore, log *logger.Logger) *Service {
	return &Service{kv: kv, logger: log}
}

// Status evaluates the gate at the given time.
func (s *Service) Status(ctx context.Context, now time.Time) (Status, error) {
	configured, err := s.configured(ctx)
	if err != nil {
		return Status{}, err
	}
	if !configured {
		return Status{State: StateUnconfigured}, nil
	}

	if remaining, err := s.lockoutRemaining(ctx, now); err != nil {
		return Status{}, err
	} else if remaining > 0 {
		return Status{State: StateLockedOut, LockoutRemaining: remaining}, nil
	}

	s.mu.Lock()
	unlocked := s.unlocked
	s.mu.Unlock()

	if unlocked {
		return Status{State: StateUnlocked}, nil
	}
	return Status{State: StateLocked}, nil
}

// Configure sets a new PIN, replacing any previous one and clearing failure
// state and any legacy plaintext PIN. The gate is unlocked afterwards.
func (s *Service) Configure(ctx context.Context, pin string) error {
	if !validPIN(pin) {
		return ErrInvalidPIN
	}

	salt, err := generateSalt()
	if err != nil {
		return fmt.Errorf("generate pin salt: %w", err)
	}

	if err = s.kv.Put(ctx, keySalt, salt); err != nil {
		return fmt.Errorf("save pin salt: %w", err)
	}
	if err = s.kv.Put(ctx, keyHash, hashPIN(salt, pin)); err != nil {
		return fmt.Errorf("save pin hash: %w", err)
	}

	if err = s.clearFailures(ctx); err != nil {
		return err
	}
	if err = s.kv.Delete(ctx, keyLegacyPIN); err != nil {
		return fmt.Errorf("delete legacy pin: %w", err)
	}

	s.mu.Lock()
	s.unlocked = true
	s.mu.Unlock()

	return nil
}

// Verify checks pin against the stored credential. During an active lockout
// it returns [ErrLockedOut] without consuming an attempt. A legacy plaintext
// match is transparently migrated to the salted hash.
func (s *Service) Verify(ctx context.Context, now time.Time, pin string) error {
	remaining, err := s.lockoutRemaining(ctx, now)
	if err != nil {
		return err
	}
	if remaining > 0 {
		return fmt.Errorf("%w: %s remaining", ErrLockedOut, remaining.Round(time.Second))
	}

	match, err := s.matches(ctx, pin)
	if err != nil {
		return err
	}

	if !match {
		if err = s.recordFailure(ctx, now); err != nil {
			return err
		}
		return errors.New("wrong pin")
	}

	if err = s.clearFailures(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.unlocked = true
	s.mu.Unlock()

	return nil
}

// HandleHidden marks the session as ended. The next Status evaluation
// reports [StateLocked] until the PIN is entered again.
func (s *Service) HandleHidden() {
	s.mu.Lock()
	s.unlocked = false
	s.mu.Unlock()
}

// Disable removes the PIN and all related state, opening the gate.
func (s *Service) Disable(ctx context.Context) error {
	for _, key := range []string{keySalt, keyHash, keyFailures, keyLockoutStart, keyLegacyPIN} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}

	s.mu.Lock()
	s.unlocked = false
	s.mu.Unlock()

	return nil
}

func (s *Service) configured(ctx context.Context) (bool, error) {
	if _, err := s.kv.Get(ctx, keyHash); err == nil {
		return true, nil
	} else if !errors.Is(err, store.ErrKeyNotFound) {
		return false, fmt.Errorf("read pin hash: %w", err)
	}

	if _, err := s.kv.Get(ctx, keyLegacyPIN); err == nil {
		return true, nil
	} else if !errors.Is(err, store.ErrKeyNotFound) {
		return false, fmt.Errorf("read legacy pin: %w", err)
	}

	return false, nil
}

// matches compares pin against the salted hash, falling back to the legacy
// plaintext value. A legacy match re-stores the PIN as a salted hash and
// deletes the plaintext.
func (s *Service) matches(ctx context.Context, pin string) (bool, error) {
	storedHash, err := s.kv.Get(ctx, keyHash)
	if err == nil {
		salt, err := s.kv.Get(ctx, keySalt)
		if err != nil {
			return false, fmt.Errorf("read pin salt: %w", err)
		}
		candidate := hashPIN(salt, pin)
		return subtle.ConstantTimeCompare([]byte(candidate), []byte(storedHash)) == 1, nil
	}
	if !errors.Is(err, store.ErrKeyNotFound) {
		return false, fmt.Errorf("read pin hash: %w", err)
	}

	legacy, err := s.kv.Get(ctx, keyLegacyPIN)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read legacy pin: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(legacy), []byte(pin)) != 1 {
		return false, nil
	}

	if err = s.migrateLegacy(ctx, pin); err != nil {
		s.logger.Warn().Err(err).
			Str("func", "Service.matches").
			Msg("failed to migrate legacy plaintext pin")
	}

	return true, nil
}

func (s *Service) migrateLegacy(ctx context.Context, pin string) error {
	salt, err := generateSalt()
	if err != nil {
		return fmt.Errorf("generate pin salt: %w", err)
	}
	if err = s.kv.Put(ctx, keySalt, salt); err != nil {
		return fmt.Errorf("save pin salt: %w", err)
	}
	if err = s.kv.Put(ctx, keyHash, hashPIN(salt, pin)); err != nil {
		return fmt.Errorf("save pin hash: %w", err)
	}
	if err = s.kv.Delete(ctx, keyLegacyPIN); err != nil {
		return fmt.Errorf("delete legacy pin: %w", err)
	}
	return nil
}

func (s *Service) lockoutRemaining(ctx context.Context, now time.Time) (time.Duration, error) {
	failures, err := s.failureCount(ctx)
	if err != nil {
		return 0, err
	}
	if failures < maxFailures {
		return 0, nil
	}

	raw, err := s.kv.Get(ctx, keyLockoutStart)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read lockout start: %w", err)
	}

	startUnix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse lockout start: %w", err)
	}

	end := time.Unix(startUnix, 0).Add(lockoutDuration)
	if now.Before(end) {
		return end.Sub(now), nil
	}

	// Window has passed; failures start over.
	if err = s.clearFailures(ctx); err != nil {
		return 0, err
	}
	return 0, nil
}

func (s *Service) failureCount(ctx context.Context) (int, error) {
	raw, err := s.kv.Get(ctx, keyFailures)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read pin failures: %w", err)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse pin failures: %w", err)
	}
	return n, nil
}

func (s *Service) recordFailure(ctx context.Context, now time.Time) error {
	failures, err := s.failureCount(ctx)
	if err != nil {
		return err
	}

	failures++
	if err = s.kv.Put(ctx, keyFailures, strconv.Itoa(failures)); err != nil {
		return fmt.Errorf("save pin failures: %w", err)
	}

	if failures >= maxFailures {
		if err = s.kv.Put(ctx, keyLockoutStart, strconv.FormatInt(now.Unix(), 10)); err != nil {
			return fmt.Errorf("save lockout start: %w", err)
		}
		s.logger.Warn().
			Str("func", "Service.recordFailure").
			Int("failures", failures).
			Msg("pin entry locked out")
	}

	return nil
}

func (s *Service) clearFailures(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyFailures); err != nil {
		return fmt.Errorf("delete pin failures: %w", err)
	}
	if err := s.kv.Delete(ctx, keyLockoutStart); err != nil {
		return fmt.Errorf("delete lockout start: %w", err)
	}
	return nil
}

func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func generateSalt() (string, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	return hex.EncodeToString(salt), nil
}

func hashPIN(salt, pin string) string {
	sum := sha256.Sum256([]byte(salt + ":" + pin))
	return hex.EncodeToString(sum[:])
}
