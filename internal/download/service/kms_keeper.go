package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	// Register KMS provider drivers for secrets.OpenKeeper.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsKeeper implements SecretKeeper using gocloud.dev/secrets.
type kmsKeeper struct {
	keeper *secrets.Keeper
}

// OpenSecretKeeper opens a SecretKeeper for the configured KMS key URI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func OpenSecretKeeper(ctx context.Context, keyURI string) (SecretKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return &kmsKeeper{keeper: keeper}, nil
}

func (k *kmsKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	return k.keeper.Encrypt(ctx, plaintext)
}

func (k *kmsKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	return k.keeper.Decrypt(ctx, ciphertext)
}
