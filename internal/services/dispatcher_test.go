package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/auth"
	"github.com/nkwats-ai/checkpoint-service/internal/cache"
	"github.com/nkwats-ai/checkpoint-service/internal/config"
	"github.com/nkwats-ai/checkpoint-service/internal/events"
	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/quiz"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories/memory"
	"github.com/nkwats-ai/checkpoint-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	repo       repositories.Repository
	publisher  *events.MockEventPublisher
	dispatcher *Dispatcher
	courses    CourseService
	progress   ProgressService
	benefits   BenefitService
}

func newTestEnv(t *testing.T, policy config.CheckpointPolicy) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewRepository()
	noop := cache.NewNoopCache()
	v := validator.New()
	publisher := events.NewMockEventPublisher(logger)

	courses := NewCourseService(repo, noop, logger, v)
	quizzes := NewQuizService(repo, courses, logger, v)
	attempts := NewAttemptService(repo, quizzes, publisher, quiz.Rule{PassScore: policy.PassScore, MaxDurationS: policy.MaxDurationS}, logger, v)
	progress := NewProgressService(repo, publisher, policy, logger, v)
	attestations := NewAttestationService(repo, publisher, logger, v)
	benefits := NewBenefitService(repo, publisher, policy, logger, v)
	gate := NewIdempotencyGate(repo.Idempotency(), noop, time.Hour, logger)

	return &testEnv{
		repo:       repo,
		publisher:  publisher,
		dispatcher: NewDispatcher(courses, quizzes, attempts, progress, attestations, benefits, gate, logger),
		courses:    courses,
		progress:   progress,
		benefits:   benefits,
	}
}

func defaultPolicy() config.CheckpointPolicy {
	return config.CheckpointPolicy{
		PassScore:       8,
		MaxDurationS:    180,
		AllowRegression: true,
	}
}

func learnerSession(wallet string) *auth.Session {
	return &auth.Session{Wallet: wallet, Roles: []models.Role{models.RoleLearner}}
}

func tutorSession(wallet string) *auth.Session {
	return &auth.Session{Wallet: wallet, Roles: []models.Role{models.RoleTutor}}
}

func mustCall(t *testing.T, env *testEnv, session *auth.Session, operation string, payload interface{}) json.RawMessage {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	result, err := env.dispatcher.Call(context.Background(), session, operation, body)
	require.NoError(t, err)
	return result
}

func registerCheckpointCourse(t *testing.T, env *testEnv) {
	t.Helper()
	mustCall(t, env, tutorSession("0xtutor"), OpRegisterCourse, map[string]interface{}{
		"course_id": CheckpointCourseID,
		"title":     "Intro Mathematics",
		"checkpoints": []map[string]interface{}{
			{"module_id": CheckpointModuleID, "is_checkpoint": true},
		},
	})
}

func TestCallRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())

	_, err := env.dispatcher.Call(context.Background(), nil, OpGenerateQuiz, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	_, err = env.dispatcher.Call(context.Background(), &auth.Session{}, OpGenerateQuiz, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestCallUnknownOperation(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())

	_, err := env.dispatcher.Call(context.Background(), learnerSession("0xabc"), "drop_tables", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestRegisterCourseRoleGating(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())

	payload, _ := json.Marshal(map[string]interface{}{
		"course_id": "MATH101",
		"title":     "Intro Mathematics",
	})
	_, err := env.dispatcher.Call(context.Background(), learnerSession("0xabc"), OpRegisterCourse, payload)
	require.Error(t, err)

	var authErr *AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, OpRegisterCourse, authErr.Operation)
	assert.ElementsMatch(t, []models.Role{models.RoleTutor, models.RolePlatformAdmin}, authErr.Required)
	assert.Contains(t, err.Error(), "TUTOR")
	assert.Contains(t, err.Error(), "PLATFORM_ADMIN")
}

func TestRegisterCourseBumpsVersion(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())

	payload := map[string]interface{}{
		"course_id":  "MATH101",
		"title":      "Intro Mathematics",
		"request_id": "req-register-1",
	}
	var first RegisterCourseResponse
	require.NoError(t, json.Unmarshal(mustCall(t, env, tutorSession("0xtutor"), OpRegisterCourse, payload), &first))
	assert.True(t, first.OK)
	assert.Equal(t, 1, first.Version)

	payload["request_id"] = "req-register-2"
	var second RegisterCourseResponse
	require.NoError(t, json.Unmarshal(mustCall(t, env, tutorSession("0xtutor"), OpRegisterCourse, payload), &second))
	assert.Equal(t, 2, second.Version)
}

func TestGrantBenefitIdempotentReplay(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	ctx := context.Background()
	wallet := "0xlearner"

	require.NoError(t, env.repo.Progress().Upsert(ctx, &models.Progress{
		Wallet:   wallet,
		CourseID: CheckpointCourseID,
		ModuleID: CheckpointModuleID,
		Status:   models.ProgressReady,
	}))

	payload := map[string]interface{}{
		"learner_addr": wallet,
		"benefit_id":   "B-2026",
		"request_id":   "req-grant-1",
	}
	first := mustCall(t, env, learnerSession(wallet), OpGrantBenefit, payload)
	second := mustCall(t, env, learnerSession(wallet), OpGrantBenefit, payload)

	assert.Equal(t, string(first), string(second), "replay must return byte-identical response")

	claims, err := env.repo.Benefit().ListByWallet(ctx, wallet)
	require.NoError(t, err)
	assert.Len(t, claims, 1, "replay must not mint a second claim")
}

func TestGrantBenefitDistinctRequestsMintDistinctCodes(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	ctx := context.Background()
	wallet := "0xlearner"

	require.NoError(t, env.repo.Progress().Upsert(ctx, &models.Progress{
		Wallet:   wallet,
		CourseID: CheckpointCourseID,
		ModuleID: CheckpointModuleID,
		Status:   models.ProgressReady,
	}))

	grant := func(requestID string) GrantBenefitResponse {
		raw := mustCall(t, env, learnerSession(wallet), OpGrantBenefit, map[string]interface{}{
			"learner_addr": wallet,
			"benefit_id":   "B-2026",
			"request_id":   requestID,
		})
		var resp GrantBenefitResponse
		require.NoError(t, json.Unmarshal(raw, &resp))
		return resp
	}

	first := grant("req-a")
	second := grant("req-b")
	assert.NotEqual(t, first.ClaimCode, second.ClaimCode)

	claims, err := env.repo.Benefit().ListByWallet(ctx, wallet)
	require.NoError(t, err)
	assert.Len(t, claims, 2)
}

func TestFullCheckpointScenario(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	ctx := context.Background()
	wallet := "0xlearner"
	session := learnerSession(wallet)

	registerCheckpointCourse(t, env)

	// Issue a quiz.
	var quizResp GenerateQuizResponse
	require.NoError(t, json.Unmarshal(mustCall(t, env, session, OpGenerateQuiz, map[string]interface{}{
		"course_id": CheckpointCourseID,
		"module_id": CheckpointModuleID,
	}), &quizResp))
	require.Len(t, quizResp.Items, 10)

	// Build answers matching 9 of 10 stored keys.
	stored, err := env.repo.Quiz().GetByIDWithItems(ctx, quizResp.QuizID)
	require.NoError(t, err)
	answers := make([]map[string]interface{}, 0, len(stored.Items))
	for i, item := range stored.Items {
		correct := item.CorrectAnswer == "true"
		value := correct
		if i == 0 {
			value = !correct
		}
		answers = append(answers, map[string]interface{}{"id": item.QuizItemID, "value": value})
	}

	started := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	var scoreResp ScoreAttemptResponse
	require.NoError(t, json.Unmarshal(mustCall(t, env, session, OpScoreAttempt, map[string]interface{}{
		"quiz_id":      quizResp.QuizID,
		"answers":      answers,
		"started_at":   started,
		"submitted_at": started.Add(120 * time.Second),
	}), &scoreResp))

	assert.Equal(t, 9, scoreResp.ScoreRaw)
	assert.Equal(t, 10, scoreResp.ScoreMax)
	assert.Equal(t, 120, scoreResp.DurationS)
	assert.True(t, scoreResp.Passed)

	// Apply the outcome to progress.
	var progressResp UpdateProgressResponse
	require.NoError(t, json.Unmarshal(mustCall(t, env, session, OpUpdateProgress, map[string]interface{}{
		"learner_addr": wallet,
		"course_id":    CheckpointCourseID,
		"module_id":    CheckpointModuleID,
		"attempt_id":   scoreResp.AttemptID,
		"passed":       true,
	}), &progressResp))
	assert.Equal(t, models.ProgressReady, progressResp.Status)

	// Claim the benefit.
	var grantResp GrantBenefitResponse
	require.NoError(t, json.Unmarshal(mustCall(t, env, session, OpGrantBenefit, map[string]interface{}{
		"learner_addr": wallet,
		"benefit_id":   "B-2026",
	}), &grantResp))

	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{12}$`), grantResp.ClaimCode)

	row, err := env.repo.Progress().Get(ctx, wallet, CheckpointCourseID, CheckpointModuleID)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressBenefitClaimed, row.Status)

	// One event per mutating step beyond registration.
	types := make([]events.EventType, 0, len(env.publisher.Events))
	for _, evt := range env.publisher.Events {
		types = append(types, evt.Type)
	}
	assert.Contains(t, types, events.EventAttemptScored)
	assert.Contains(t, types, events.EventProgressUpdated)
	assert.Contains(t, types, events.EventBenefitGranted)
}

func TestIssueAttestationStableProof(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	session := learnerSession("0xabc")

	payload := map[string]interface{}{
		"learner_addr": "0xabc",
		"course_id":    "MATH101",
		"module_id":    "readiness",
		"score_pct":    90,
		"passed_at":    "2024-01-01T00:00:00.000Z",
		"request_id":   "req-attest-1",
	}
	var resp IssueAttestationResponse
	require.NoError(t, json.Unmarshal(mustCall(t, env, session, OpIssueAttestation, payload), &resp))

	assert.Equal(t, "34d3120d5027bbc1684da34675d0d1a95657f91bd4ac1bf0b7189d5a23e72171", resp.ProofHash)
	assert.Nil(t, resp.EasUID)

	rows, err := env.repo.Attestation().ListByWallet(context.Background(), "0xabc")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, resp.ProofHash, rows[0].ProofHash)
}

func TestScoreAttemptUnknownQuiz(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())

	payload, _ := json.Marshal(map[string]interface{}{
		"quiz_id":      "3f8e9a4c-0000-4000-8000-000000000000",
		"answers":      []interface{}{},
		"started_at":   time.Now(),
		"submitted_at": time.Now(),
	})
	_, err := env.dispatcher.Call(context.Background(), learnerSession("0xabc"), OpScoreAttempt, payload)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestFailedOperationIsNotMemoized(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	ctx := context.Background()
	wallet := "0xlearner"
	session := learnerSession(wallet)

	payload := map[string]interface{}{
		"learner_addr": wallet,
		"benefit_id":   "B-2026",
		"request_id":   "req-grant-retry",
	}
	body, _ := json.Marshal(payload)

	// Not eligible yet: the call fails and must not be cached.
	_, err := env.dispatcher.Call(ctx, session, OpGrantBenefit, body)
	require.ErrorIs(t, err, ErrNotEligible)

	require.NoError(t, env.repo.Progress().Upsert(ctx, &models.Progress{
		Wallet:   wallet,
		CourseID: CheckpointCourseID,
		ModuleID: CheckpointModuleID,
		Status:   models.ProgressReady,
	}))

	// The same request id now succeeds because the failure was not memoized.
	result, err := env.dispatcher.Call(ctx, session, OpGrantBenefit, body)
	require.NoError(t, err)

	var resp GrantBenefitResponse
	require.NoError(t, json.Unmarshal(result, &resp))
	assert.Len(t, resp.ClaimCode, 12)
}
