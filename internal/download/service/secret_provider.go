package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"sync"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/opsdeck/filegate/internal/errors"
)

// signingSecretKey is the settings row holding the token signing secret.
const signingSecretKey = "download_token_signing_secret"

// signingSecretBytes is the raw length of a generated signing secret.
const signingSecretBytes = 32

// secretProvider implements SecretProvider over the settings repository.
//
// First-time provisioning is atomic at two levels: in-process callers are
// collapsed onto one flight via singleflight, and the repository's
// GetOrCreate relies on a unique constraint so concurrent processes racing
// on a cold start still converge on a single stored value. The resolved
// secret is cached for the lifetime of the process; the secret never
// changes while the service runs.
type secretProvider struct {
	settingRepo SettingRepository
	keeper      SecretKeeper // nil when no KMS key is configured

	group singleflight.Group

	mu     sync.RWMutex
	cached []byte
}

// NewSecretProvider creates a SecretProvider backed by the settings
// repository. If keeper is non-nil the secret is wrapped before persistence
// and unwrapped on read.
func NewSecretProvider(settingRepo SettingRepository, keeper SecretKeeper) SecretProvider {
	return &secretProvider{
		settingRepo: settingRepo,
		keeper:      keeper,
	}
}

// GetOrCreate returns the process-wide signing secret, generating and
// persisting it on first use.
func (s *secretProvider) GetOrCreate(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	secret, err, _ := s.group.Do(signingSecretKey, func() (any, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}

	return secret.([]byte), nil
}

// load generates a candidate secret, lets the store pick the winner, and
// caches the decoded result.
func (s *secretProvider) load(ctx context.Context) ([]byte, error) {
	candidate, err := s.generateCandidate(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := s.settingRepo.GetOrCreate(ctx, signingSecretKey, candidate)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get or create signing secret")
	}

	secret, err := s.decode(ctx, stored)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = secret
	s.mu.Unlock()

	return secret, nil
}

// generateCandidate produces a new random secret in its stored encoding:
// plain hex, or base64 ciphertext when a keeper is configured.
func (s *secretProvider) generateCandidate(ctx context.Context) (string, error) {
	raw := make([]byte, signingSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", apperrors.Wrap(err, "failed to generate signing secret")
	}

	encoded := hex.EncodeToString(raw)
	if s.keeper == nil {
		return encoded, nil
	}

	wrapped, err := s.keeper.Encrypt(ctx, []byte(encoded))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to wrap signing secret")
	}
	return base64.StdEncoding.EncodeToString(wrapped), nil
}

// decode converts a stored value back to raw secret bytes, unwrapping it
// first when a keeper is configured.
func (s *secretProvider) decode(ctx context.Context, stored string) ([]byte, error) {
	encoded := stored

	if s.keeper != nil {
		wrapped, err := base64.StdEncoding.DecodeString(stored)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to decode wrapped signing secret")
		}
		plaintext, err := s.keeper.Decrypt(ctx, wrapped)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to unwrap signing secret")
		}
		encoded = string(plaintext)
	}

	secret, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode signing secret")
	}

	return secret, nil
}
