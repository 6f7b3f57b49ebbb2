package quiz

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// AttestationSchema names the credential layout the proof commits to.
const AttestationSchema = "NKWATSAICheckpoint_v1"

// attestationPayload is the canonical proof payload. Field order matches the
// lexicographic key order of the JSON encoding; do not reorder, the digest is
// a cross-implementation wire contract.
type attestationPayload struct {
	Course          string `json:"course"`
	Learner         string `json:"learner"`
	Module          string `json:"module"`
	PassedAt        string `json:"passed_at"`
	Schema          string `json:"schema"`
	ScorePercentage int    `json:"score_percentage"`
}

// AttestationProof computes the SHA-256 digest (lowercase hex) over the
// canonical JSON encoding of the checkpoint result. Bit-reproducible for
// identical inputs; stands in for a real verifiable-credential issuance.
func AttestationProof(learner, courseID, moduleID string, scorePct int, passedAt string) (string, error) {
	payload, err := CanonicalAttestation(learner, courseID, moduleID, scorePct, passedAt)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// CanonicalAttestation returns the canonical JSON the proof is computed over,
// keys sorted lexicographically, no insignificant whitespace. HTML escaping
// is off: `&`, `<` and `>` stay literal so verifiers encoding the payload
// with a plain JSON stringifier arrive at the same bytes.
func CanonicalAttestation(learner, courseID, moduleID string, scorePct int, passedAt string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(attestationPayload{
		Course:          courseID,
		Learner:         learner,
		Module:          moduleID,
		PassedAt:        passedAt,
		Schema:          AttestationSchema,
		ScorePercentage: scorePct,
	}); err != nil {
		return nil, fmt.Errorf("failed to encode attestation payload: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
