package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	apperrors "github.com/opsdeck/filegate/internal/errors"
)

// tokenService implements TokenService using HMAC-SHA256 over the signed
// message "{resource_id}|{resource_type}|{timestamp}".
type tokenService struct {
	secretProvider SecretProvider

	// now is swappable in tests to simulate expiry.
	now func() time.Time
}

// NewTokenService creates a new TokenService backed by the given secret provider.
func NewTokenService(secretProvider SecretProvider) TokenService {
	return &tokenService{
		secretProvider: secretProvider,
		now:            time.Now,
	}
}

// signedMessage builds the exact byte string the signature is computed over.
// It must be reproduced identically at verification time; any field mismatch
// invalidates the token.
func signedMessage(resourceID int64, resourceType downloadDomain.ResourceType, timestamp int64) string {
	return fmt.Sprintf("%d|%s|%d", resourceID, resourceType, timestamp)
}

// sign computes the lowercase hex HMAC-SHA256 of the signed message.
func (t *tokenService) sign(secret []byte, resourceID int64, resourceType downloadDomain.ResourceType, timestamp int64) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(signedMessage(resourceID, resourceType, timestamp)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Issue mints a token for the given resource identity. The wire format is
// "{unix_timestamp_seconds}|{lowercase_hex_hmac_sha256}".
func (t *tokenService) Issue(
	ctx context.Context,
	resourceID int64,
	resourceType downloadDomain.ResourceType,
	ttl time.Duration,
) (string, error) {
	secret, err := t.secretProvider.GetOrCreate(ctx)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to load token signing secret")
	}

	timestamp := t.now().UTC().Unix()
	signature := t.sign(secret, resourceID, resourceType, timestamp)

	return fmt.Sprintf("%d|%s", timestamp, signature), nil
}

// Verify checks the token against the supplied resource identity and ttl.
//
// The checks, in order:
//  1. The token splits into exactly two "|"-separated parts with a numeric timestamp.
//  2. The token is not older than ttl. No clock-skew tolerance is applied;
//     this is a fixed design choice, not an oversight.
//  3. The recomputed signature matches under constant-time comparison.
//
// Any failure, including an error from the secret provider, verifies as
// false. Verification never returns an error to its caller.
func (t *tokenService) Verify(
	ctx context.Context,
	token string,
	resourceID int64,
	resourceType downloadDomain.ResourceType,
	ttl time.Duration,
) bool {
	parts := strings.Split(token, "|")
	if len(parts) != 2 {
		return false
	}

	timestamp, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}

	// Expiry check: now - timestamp > ttl fails. A timestamp from the
	// future also fails; tokens are minted by this same process.
	age := t.now().UTC().Unix() - timestamp
	if age < 0 || age > int64(ttl.Seconds()) {
		return false
	}

	secret, err := t.secretProvider.GetOrCreate(ctx)
	if err != nil {
		// Fail closed: an unreachable secret store must never admit a token.
		return false
	}

	expected := t.sign(secret, resourceID, resourceType, timestamp)
	return hmac.Equal([]byte(expected), []byte(parts[1]))
}
