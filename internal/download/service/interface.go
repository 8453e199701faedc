// Package service implements the cryptographic and filesystem primitives of
// the download core: capability tokens, signing-secret provisioning, path
// resolution, and audit entry signing.
package service

import (
	"context"
	"time"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
)

// TokenService mints and verifies HMAC-based download capability tokens.
// Tokens are stateless: any holder of the signing secret can reconstruct
// them, so nothing is persisted per token.
type TokenService interface {
	// Issue returns a token of the form "{unix_ts}|{hex hmac-sha256}" bound
	// to the given resource identity. The ttl is not embedded in the token;
	// it is supplied again at verification time.
	Issue(ctx context.Context, resourceID int64, resourceType downloadDomain.ResourceType, ttl time.Duration) (string, error)

	// Verify reports whether the token is well-formed, unexpired, and
	// carries a valid signature for the given resource identity. It never
	// returns an error: any failure, including a failing secret provider,
	// verifies as false (fail-closed).
	Verify(ctx context.Context, token string, resourceID int64, resourceType downloadDomain.ResourceType, ttl time.Duration) bool
}

// SecretProvider supplies the process-wide token signing secret, creating
// and persisting it on first use. Implementations must be safe for
// concurrent first-time initialization: all callers observe the same secret.
type SecretProvider interface {
	GetOrCreate(ctx context.Context) ([]byte, error)
}

// SettingRepository persists named settings. GetOrCreate must be atomic at
// the store level (unique-constraint insert then read), so concurrent
// callers racing on a cold start converge on one stored value.
type SettingRepository interface {
	GetOrCreate(ctx context.Context, key, candidate string) (string, error)
}

// SecretKeeper wraps and unwraps the signing secret before persistence.
// Backed by gocloud.dev/secrets when a KMS key URI is configured.
type SecretKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// PathResolver maps resource metadata to a canonical physical path confined
// to the resource root.
type PathResolver interface {
	// Resolve returns the canonical absolute path for the record's file.
	// Returns domain.ErrPathEscapesRoot if the path canonicalizes outside
	// the root (checked before existence), domain.ErrResourceNotFound if
	// the file is missing or not a regular file.
	Resolve(record *downloadDomain.ResourceRecord) (string, error)
}

// AuditSigner signs and verifies audit entries so tampering with the stored
// trail can be detected.
type AuditSigner interface {
	Sign(secret []byte, entry *downloadDomain.AuditEntry) ([]byte, error)
	Verify(secret []byte, entry *downloadDomain.AuditEntry) error
}
