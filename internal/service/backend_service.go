package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lshigami/Margays/config"
	"github.com/lshigami/Margays/internal/apperr"
	"github.com/rs/zerolog/log"
)

// Wire types for the interview backend collaborator. The backend generates
// the question set at session creation and produces scoring asynchronously
// after the final answers are submitted.

type BackendQuestion struct {
	Text         string   `json:"text"`
	Type         string   `json:"type"`
	Category     string   `json:"category,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	TimeLimitSec int      `json:"time_limit_sec"`
}

type BackendCreateSessionRequest struct {
	JobTitle           string  `json:"job_title"`
	Company            string  `json:"company,omitempty"`
	JobDescription     string  `json:"job_description,omitempty"`
	ResumeRef          *string `json:"resume_ref,omitempty"`
	InterviewType      string  `json:"interview_type"`
	ExperienceLevel    string  `json:"experience_level"`
	QuestionCount      int     `json:"question_count"`
	TimePerQuestionMin int     `json:"time_per_question_min"`
}

type BackendSessionCreated struct {
	SessionID string            `json:"session_id"`
	Questions []BackendQuestion `json:"questions"`
}

type BackendFeedback struct {
	OverallScore       float64  `json:"overall_score"`
	Communication      float64  `json:"communication"`
	TechnicalKnowledge float64  `json:"technical_knowledge"`
	ProblemSolving     float64  `json:"problem_solving"`
	Confidence         float64  `json:"confidence"`
	Strengths          []string `json:"strengths,omitempty"`
	Weaknesses         []string `json:"weaknesses,omitempty"`
	Recommendations    []string `json:"recommendations,omitempty"`
}

type BackendSessionState struct {
	SessionID string            `json:"session_id"`
	Status    string            `json:"status"`
	Questions []BackendQuestion `json:"questions,omitempty"`
	Feedback  *BackendFeedback  `json:"feedback,omitempty"`
}

type BackendAnswer struct {
	QuestionIndex int    `json:"question_index"`
	Text          string `json:"text"`
	TimeSpentSec  int    `json:"time_spent_sec"`
}

type BackendCompletionRequest struct {
	Answers          []BackendAnswer `json:"answers"`
	FlaggedForReview bool            `json:"flagged_for_review"`
	DegradedAudio    bool            `json:"degraded_audio"`
}

// BackendService is the REST client for the interview backend. The bearer
// credential is passed explicitly per call; there is no ambient auth state.
type BackendService interface {
	CreateSession(ctx context.Context, token string, req BackendCreateSessionRequest) (*BackendSessionCreated, error)
	GetSession(ctx context.Context, token, backendID string) (*BackendSessionState, error)
	SubmitCompletion(ctx context.Context, token, backendID, idempotencyKey string, req BackendCompletionRequest) error
	Ping(ctx context.Context) error
}

type backendService struct {
	baseURL    string
	httpClient *http.Client
}

func NewBackendService(cfg *config.Config) BackendService {
	return &backendService{
		baseURL: strings.TrimRight(cfg.Backend.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Backend.RequestTimeout,
		},
	}
}

func (s *backendService) CreateSession(ctx context.Context, token string, req BackendCreateSessionRequest) (*BackendSessionCreated, error) {
	var created BackendSessionCreated
	if err := s.doJSON(ctx, http.MethodPost, "/sessions", token, "", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *backendService) GetSession(ctx context.Context, token, backendID string) (*BackendSessionState, error) {
	var state BackendSessionState
	if err := s.doJSON(ctx, http.MethodGet, "/sessions/"+backendID, token, "", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SubmitCompletion associates the final answer set with the backend session.
// The Idempotency-Key header makes the call safe to retry until acknowledged.
func (s *backendService) SubmitCompletion(ctx context.Context, token, backendID, idempotencyKey string, req BackendCompletionRequest) error {
	return s.doJSON(ctx, http.MethodPut, "/sessions/"+backendID+"/answers", token, idempotencyKey, req, nil)
}

// Ping probes backend reachability; used by the network preflight check.
func (s *backendService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return apperr.Network("backend unreachable", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apperr.Network(fmt.Sprintf("backend health returned status %d", resp.StatusCode), nil)
	}
	return nil
}

func (s *backendService) doJSON(ctx context.Context, method, path, token, idempotencyKey string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return apperr.Network(fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return apperr.Unauthorized("backend rejected bearer credential")
	case resp.StatusCode == http.StatusNotFound:
		return apperr.NotFound(fmt.Sprintf("backend has no resource at %s", path))
	case resp.StatusCode >= 500:
		return apperr.Network(fmt.Sprintf("backend returned status %d for %s %s", resp.StatusCode, method, path), nil)
	case resp.StatusCode >= 400:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error().Int("status", resp.StatusCode).Str("path", path).Str("body", string(raw)).Msg("Backend rejected request")
		return apperr.FatalSession(fmt.Sprintf("backend rejected %s %s with status %d", method, path, resp.StatusCode), nil)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperr.Network("decoding backend response", err)
		}
	}
	return nil
}
