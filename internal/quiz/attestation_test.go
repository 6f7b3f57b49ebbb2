package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalAttestation_KeyOrder(t *testing.T) {
	payload, err := CanonicalAttestation("0xabc", "MATH101", "readiness", 90, "2024-01-01T00:00:00.000Z")
	assert.NoError(t, err)
	assert.Equal(t,
		`{"course":"MATH101","learner":"0xabc","module":"readiness","passed_at":"2024-01-01T00:00:00.000Z","schema":"NKWATSAICheckpoint_v1","score_percentage":90}`,
		string(payload))
}

func TestCanonicalAttestation_NoHTMLEscaping(t *testing.T) {
	payload, err := CanonicalAttestation("0xabc", "MATH101&CS<2>", "readiness", 90, "2024-01-01T00:00:00.000Z")
	assert.NoError(t, err)
	assert.Contains(t, string(payload), `"course":"MATH101&CS<2>"`)
	assert.NotContains(t, string(payload), "\\u0026")
	assert.NotContains(t, string(payload), "\n")
}

func TestAttestationProof_FixedVector(t *testing.T) {
	proof, err := AttestationProof("0xabc", "MATH101", "readiness", 90, "2024-01-01T00:00:00.000Z")
	assert.NoError(t, err)
	assert.Equal(t, "34d3120d5027bbc1684da34675d0d1a95657f91bd4ac1bf0b7189d5a23e72171", proof)
}

func TestAttestationProof_Deterministic(t *testing.T) {
	first, err := AttestationProof("0xdef", "MATH101", "readiness", 80, "2024-02-02T00:00:00.000Z")
	assert.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := AttestationProof("0xdef", "MATH101", "readiness", 80, "2024-02-02T00:00:00.000Z")
		assert.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAttestationProof_SensitiveToInputs(t *testing.T) {
	base, _ := AttestationProof("0xabc", "MATH101", "readiness", 90, "2024-01-01T00:00:00.000Z")
	changed, _ := AttestationProof("0xabc", "MATH101", "readiness", 91, "2024-01-01T00:00:00.000Z")
	assert.NotEqual(t, base, changed)
}
