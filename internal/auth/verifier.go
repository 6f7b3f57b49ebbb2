package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrBadSignature is returned when a sign-in signature fails verification.
var ErrBadSignature = errors.New("signature verification failed")

// SignatureVerifier checks that the signature over message was produced by
// the wallet's key. Production deployments plug in a real verifier; the
// service itself never inspects key material.
type SignatureVerifier interface {
	Verify(ctx context.Context, wallet, message, signature string) error
}

// DevSignatureVerifier accepts any non-empty signature for a well-formed
// wallet address. Development and test use only.
type DevSignatureVerifier struct{}

func NewDevSignatureVerifier() SignatureVerifier {
	return DevSignatureVerifier{}
}

func (DevSignatureVerifier) Verify(_ context.Context, wallet, _, signature string) error {
	if !strings.HasPrefix(wallet, "0x") || len(wallet) < 4 {
		return ErrBadSignature
	}
	if signature == "" {
		return ErrBadSignature
	}
	return nil
}
