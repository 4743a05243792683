package service

import (
	"context"
	"testing"

	"github.com/lshigami/Margays/internal/apperr"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() dto.SessionCreateDTO {
	return dto.SessionCreateDTO{
		JobTitle:           "Backend Engineer",
		Company:            "Acme",
		InterviewType:      model.InterviewTypeTechnical,
		ExperienceLevel:    "mid",
		QuestionCount:      5,
		TimePerQuestionMin: 3,
	}
}

func TestCreateSessionValidation(t *testing.T) {
	svc := NewSessionConfiguratorService(newMemSessionRepo(), &stubBackend{})

	cases := []struct {
		name   string
		mutate func(*dto.SessionCreateDTO)
		field  string
	}{
		{"empty job title", func(r *dto.SessionCreateDTO) { r.JobTitle = "  " }, "job_title"},
		{"unknown interview type", func(r *dto.SessionCreateDTO) { r.InterviewType = "casual" }, "interview_type"},
		{"missing experience level", func(r *dto.SessionCreateDTO) { r.ExperienceLevel = "" }, "experience_level"},
		{"question count too low", func(r *dto.SessionCreateDTO) { r.QuestionCount = 4 }, "question_count"},
		{"question count too high", func(r *dto.SessionCreateDTO) { r.QuestionCount = 21 }, "question_count"},
		{"time per question too low", func(r *dto.SessionCreateDTO) { r.TimePerQuestionMin = 0 }, "time_per_question_min"},
		{"time per question too high", func(r *dto.SessionCreateDTO) { r.TimePerQuestionMin = 6 }, "time_per_question_min"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)

			_, err := svc.CreateSession(context.Background(), "token", req)
			require.Error(t, err)
			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			assert.Equal(t, tc.field, ae.Field, "validation error must cite the offending field")
		})
	}
}

func TestCreateSessionHappyPath(t *testing.T) {
	repo := newMemSessionRepo()
	svc := NewSessionConfiguratorService(repo, &stubBackend{})

	detail, err := svc.CreateSession(context.Background(), "token", validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, string(model.StatusPreflight), detail.Status)
	assert.Len(t, detail.Questions, 5)
	assert.NotEmpty(t, detail.BackendID)
	for i, q := range detail.Questions {
		assert.Equal(t, i, q.OrderInSession)
		assert.Equal(t, 180, q.TimeLimitSec)
	}

	stored, err := repo.FindByID(detail.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPreflight, stored.Status)
}

func TestCreateSessionAppliesFallbackTimeLimit(t *testing.T) {
	backend := &stubBackend{
		createFn: func(req BackendCreateSessionRequest) (*BackendSessionCreated, error) {
			created := generatedSession(req)
			created.Questions[0].TimeLimitSec = 0
			return created, nil
		},
	}
	svc := NewSessionConfiguratorService(newMemSessionRepo(), backend)

	detail, err := svc.CreateSession(context.Background(), "token", validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, 180, detail.Questions[0].TimeLimitSec, "missing limit falls back to time_per_question")
}

func TestCreateSessionAbortsOnBackendFailure(t *testing.T) {
	repo := newMemSessionRepo()
	backend := &stubBackend{
		createFn: func(req BackendCreateSessionRequest) (*BackendSessionCreated, error) {
			return nil, apperr.FatalSession("backend rejected request", nil)
		},
	}
	svc := NewSessionConfiguratorService(repo, backend)

	_, err := svc.CreateSession(context.Background(), "token", validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeFatalSession, apperr.CodeOf(err))

	stored, err := repo.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAborted, stored.Status, "a failed configuration must not leave the session half-configured")
}

func TestCreateSessionRetriesTransientNetworkErrors(t *testing.T) {
	attempts := 0
	backend := &stubBackend{
		createFn: func(req BackendCreateSessionRequest) (*BackendSessionCreated, error) {
			attempts++
			if attempts < 3 {
				return nil, apperr.Network("connection reset", nil)
			}
			return generatedSession(req), nil
		},
	}
	svc := NewSessionConfiguratorService(newMemSessionRepo(), backend)

	detail, err := svc.CreateSession(context.Background(), "token", validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, string(model.StatusPreflight), detail.Status)
}

func TestCreateSessionPassesThroughUnauthorized(t *testing.T) {
	backend := &stubBackend{
		createFn: func(req BackendCreateSessionRequest) (*BackendSessionCreated, error) {
			return nil, apperr.Unauthorized("bearer expired")
		},
	}
	svc := NewSessionConfiguratorService(newMemSessionRepo(), backend)

	_, err := svc.CreateSession(context.Background(), "expired", validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestCreateSessionAbortsOnWrongQuestionCount(t *testing.T) {
	repo := newMemSessionRepo()
	backend := &stubBackend{
		createFn: func(req BackendCreateSessionRequest) (*BackendSessionCreated, error) {
			created := generatedSession(req)
			created.Questions = created.Questions[:len(created.Questions)-1]
			return created, nil
		},
	}
	svc := NewSessionConfiguratorService(repo, backend)

	_, err := svc.CreateSession(context.Background(), "token", validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeFatalSession, apperr.CodeOf(err))

	stored, err := repo.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAborted, stored.Status)
}
