package service

import (
	"context"
	"sync"
	"time"

	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"gorm.io/gorm"
)

// In-memory session repository shared by the service tests.
type memSessionRepo struct {
	mu       sync.Mutex
	nextID   uint
	sessions map[uint]*model.Session
	fields   []map[string]interface{}
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{nextID: 1, sessions: make(map[uint]*model.Session)}
}

func (r *memSessionRepo) Create(session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = r.nextID
	r.nextID++
	r.sessions[session.ID] = session
	return nil
}

func (r *memSessionRepo) Update(session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *memSessionRepo) UpdateStatus(id uint, status model.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[id]; ok {
		session.Status = status
	}
	return nil
}

func (r *memSessionRepo) UpdateFields(id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields = append(r.fields, fields)
	if session, ok := r.sessions[id]; ok {
		if degraded, ok := fields["degraded_audio"].(bool); ok {
			session.DegradedAudio = degraded
		}
	}
	return nil
}

func (r *memSessionRepo) FindByID(id uint) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (r *memSessionRepo) FindByIDWithDetails(id uint) (*model.Session, error) {
	return r.FindByID(id)
}

func (r *memSessionRepo) FindAllByUser(userID *uint) ([]model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Session
	for _, session := range r.sessions {
		if userID == nil || (session.UserID != nil && *session.UserID == *userID) {
			out = append(out, *session)
		}
	}
	return out, nil
}

var _ repository.SessionRepository = (*memSessionRepo)(nil)

// Scriptable backend double. Each field, when set, overrides the default
// happy-path behavior.
type stubBackend struct {
	mu sync.Mutex

	createFn func(req BackendCreateSessionRequest) (*BackendSessionCreated, error)
	getFn    func(backendID string) (*BackendSessionState, error)
	pingErr  error

	createCalls int
	getCalls    int
}

func (b *stubBackend) CreateSession(ctx context.Context, token string, req BackendCreateSessionRequest) (*BackendSessionCreated, error) {
	b.mu.Lock()
	b.createCalls++
	fn := b.createFn
	b.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return generatedSession(req), nil
}

func (b *stubBackend) GetSession(ctx context.Context, token, backendID string) (*BackendSessionState, error) {
	b.mu.Lock()
	b.getCalls++
	fn := b.getFn
	b.mu.Unlock()
	if fn != nil {
		return fn(backendID)
	}
	return &BackendSessionState{SessionID: backendID, Status: "completed"}, nil
}

func (b *stubBackend) SubmitCompletion(ctx context.Context, token, backendID, idempotencyKey string, req BackendCompletionRequest) error {
	return nil
}

func (b *stubBackend) Ping(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pingErr
}

func (b *stubBackend) calls() (create, get int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createCalls, b.getCalls
}

var _ BackendService = (*stubBackend)(nil)

func generatedSession(req BackendCreateSessionRequest) *BackendSessionCreated {
	created := &BackendSessionCreated{SessionID: "be-" + time.Now().Format("150405.000000")}
	for i := 0; i < req.QuestionCount; i++ {
		created.Questions = append(created.Questions, BackendQuestion{
			Text:         "Tell me about a challenge you faced",
			Type:         req.InterviewType,
			TimeLimitSec: req.TimePerQuestionMin * 60,
		})
	}
	return created
}
