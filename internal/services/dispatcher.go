package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nkwats-ai/checkpoint-service/internal/auth"
	"github.com/nkwats-ai/checkpoint-service/internal/models"
)

// Operation names accepted by the dispatcher.
const (
	OpRegisterCourse   = "register_course"
	OpGenerateQuiz     = "generate_quiz"
	OpScoreAttempt     = "score_attempt"
	OpUpdateProgress   = "update_progress"
	OpIssueAttestation = "issue_attestation"
	OpGrantBenefit     = "grant_benefit"
)

// operationRoles maps each operation to the roles allowed to invoke it.
var operationRoles = map[string][]models.Role{
	OpRegisterCourse:   {models.RoleTutor, models.RolePlatformAdmin},
	OpGenerateQuiz:     {models.RoleLearner, models.RoleSystem, models.RoleTutor, models.RolePlatformAdmin},
	OpScoreAttempt:     {models.RoleLearner, models.RoleSystem, models.RoleTutor, models.RolePlatformAdmin},
	OpUpdateProgress:   {models.RoleLearner, models.RoleSystem, models.RolePlatformAdmin},
	OpIssueAttestation: {models.RoleLearner, models.RoleSystem, models.RoleTutor, models.RolePlatformAdmin},
	OpGrantBenefit:     {models.RoleLearner, models.RoleBenefitsAdmin, models.RoleSystem, models.RolePlatformAdmin},
}

// Dispatcher routes RPC-style operation calls: authenticates, authorizes,
// resolves idempotency, dispatches, and memoizes successful results.
type Dispatcher struct {
	courses      CourseService
	quizzes      QuizService
	attempts     AttemptService
	progress     ProgressService
	attestations AttestationService
	benefits     BenefitService
	gate         *IdempotencyGate
	logger       *slog.Logger
}

func NewDispatcher(
	courses CourseService,
	quizzes QuizService,
	attempts AttemptService,
	progress ProgressService,
	attestations AttestationService,
	benefits BenefitService,
	gate *IdempotencyGate,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		courses:      courses,
		quizzes:      quizzes,
		attempts:     attempts,
		progress:     progress,
		attestations: attestations,
		benefits:     benefits,
		gate:         gate,
		logger:       logger,
	}
}

// requestIDEnvelope pulls the optional caller-supplied idempotency key out
// of any operation payload.
type requestIDEnvelope struct {
	RequestID string `json:"request_id"`
}

// Call executes one named operation. Every operation in the mutating set is
// deduplicated by request id: a caller-supplied id is honored, a missing one
// is synthesized, and replays return the stored response verbatim without
// re-executing. Failures are never memoized.
func (d *Dispatcher) Call(ctx context.Context, session *auth.Session, operation string, payload json.RawMessage) (json.RawMessage, error) {
	if session == nil || session.Wallet == "" {
		return nil, ErrAuthenticationRequired
	}

	required, ok := operationRoles[operation]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, operation)
	}
	if !session.HasAnyRole(required...) {
		return nil, NewAuthorizationError(operation, required)
	}

	var envelope requestIDEnvelope
	if len(payload) > 0 {
		// A malformed body surfaces when the operation payload is decoded;
		// here we only care about the optional request_id.
		_ = json.Unmarshal(payload, &envelope)
	}
	requestID := envelope.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	if cached, found, err := d.gate.Lookup(ctx, requestID); err != nil {
		return nil, err
	} else if found {
		d.logger.Info("idempotent replay served",
			"operation", operation,
			"request_id", requestID,
			"wallet", session.Wallet)
		return json.RawMessage(cached), nil
	}

	result, err := d.dispatch(ctx, session, operation, payload, requestID)
	if err != nil {
		return nil, err
	}

	response, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s response: %w", operation, err)
	}

	stored, err := d.gate.Store(ctx, requestID, string(response))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(stored), nil
}

func (d *Dispatcher) dispatch(ctx context.Context, session *auth.Session, operation string, payload json.RawMessage, requestID string) (interface{}, error) {
	switch operation {
	case OpRegisterCourse:
		var req RegisterCourseRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		return d.courses.Register(ctx, &req, session.Wallet)

	case OpGenerateQuiz:
		var req GenerateQuizRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		return d.quizzes.Generate(ctx, &req)

	case OpScoreAttempt:
		var req ScoreAttemptRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		return d.attempts.Score(ctx, &req, session.Wallet, requestID)

	case OpUpdateProgress:
		var req UpdateProgressRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		return d.progress.Update(ctx, &req)

	case OpIssueAttestation:
		var req IssueAttestationRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		return d.attestations.Issue(ctx, &req, requestID)

	case OpGrantBenefit:
		var req GrantBenefitRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		return d.benefits.Grant(ctx, &req)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, operation)
	}
}

func decodePayload(payload json.RawMessage, dest interface{}) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty payload", ErrBadRequest)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}
