package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lshigami/Margays/internal/apperr"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CheckKind identifies one environment capability probe.
type CheckKind string

const (
	CheckCamera      CheckKind = "camera"
	CheckMicrophone  CheckKind = "microphone"
	CheckNetwork     CheckKind = "network"
	CheckEnvironment CheckKind = "environment"
)

// CheckStatus is the per-check lifecycle: each probe transitions
// Checking → Success | Failed independently of the others.
type CheckStatus string

const (
	CheckChecking CheckStatus = "checking"
	CheckSuccess  CheckStatus = "success"
	CheckFailed   CheckStatus = "failed"
)

// Progression to InProgress requires camera, network and environment to
// succeed. Microphone failure only degrades the session (audio flag).
var mandatoryChecks = map[CheckKind]bool{
	CheckCamera:      true,
	CheckMicrophone:  false,
	CheckNetwork:     true,
	CheckEnvironment: true,
}

var allChecks = []CheckKind{CheckCamera, CheckMicrophone, CheckNetwork, CheckEnvironment}

const networkProbeTimeout = 5 * time.Second

type checkResult struct {
	status    CheckStatus
	detail    string
	updatedAt time.Time
}

type preflightBoard struct {
	mu     sync.Mutex
	checks map[CheckKind]*checkResult
}

func newPreflightBoard() *preflightBoard {
	board := &preflightBoard{checks: make(map[CheckKind]*checkResult)}
	for _, kind := range allChecks {
		board.checks[kind] = &checkResult{status: CheckChecking, updatedAt: time.Now()}
	}
	return board
}

// PreflightService runs the environment capability checks gating session
// start. Camera, microphone and environment results are client-observed
// signals; the network check probes the backend from the server side. Each
// failed check is retryable on its own without resetting the others.
type PreflightService interface {
	RunAll(ctx context.Context, sessionID uint, signals map[CheckKind]dto.PreflightSignalDTO) (*dto.PreflightBoardDTO, error)
	RunCheck(ctx context.Context, sessionID uint, kind CheckKind, signal dto.PreflightSignalDTO) (*dto.PreflightBoardDTO, error)
	Board(sessionID uint) (*dto.PreflightBoardDTO, error)
	AllMandatoryChecksPassed(sessionID uint) bool
	Release(sessionID uint)
}

type preflightService struct {
	mu       sync.Mutex
	boards   map[uint]*preflightBoard
	sessions repository.SessionRepository
	backend  BackendService
}

func NewPreflightService(sessions repository.SessionRepository, backend BackendService) PreflightService {
	return &preflightService{
		boards:   make(map[uint]*preflightBoard),
		sessions: sessions,
		backend:  backend,
	}
}

func (s *preflightService) boardFor(sessionID uint) *preflightBoard {
	s.mu.Lock()
	defer s.mu.Unlock()
	board, ok := s.boards[sessionID]
	if !ok {
		board = newPreflightBoard()
		s.boards[sessionID] = board
	}
	return board
}

func (s *preflightService) validateSession(sessionID uint) (*model.Session, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound(fmt.Sprintf("session %d not found", sessionID))
		}
		return nil, fmt.Errorf("error fetching session %d: %w", sessionID, err)
	}
	if session.Status != model.StatusPreflight {
		return nil, apperr.InvalidTransition(string(session.Status), string(model.StatusPreflight))
	}
	return session, nil
}

// RunAll launches every check concurrently and waits for all of them.
// No check depends on another's outcome.
func (s *preflightService) RunAll(ctx context.Context, sessionID uint, signals map[CheckKind]dto.PreflightSignalDTO) (*dto.PreflightBoardDTO, error) {
	if _, err := s.validateSession(sessionID); err != nil {
		return nil, err
	}
	board := s.boardFor(sessionID)

	var wg sync.WaitGroup
	for _, kind := range allChecks {
		wg.Add(1)
		go func(kind CheckKind) {
			defer wg.Done()
			s.probe(ctx, board, kind, signals[kind])
		}(kind)
	}
	wg.Wait()

	s.applyMicrophoneFlag(sessionID, board)
	return s.boardDTO(sessionID, board), nil
}

// RunCheck re-runs a single check, leaving the others untouched.
func (s *preflightService) RunCheck(ctx context.Context, sessionID uint, kind CheckKind, signal dto.PreflightSignalDTO) (*dto.PreflightBoardDTO, error) {
	if _, ok := mandatoryChecks[kind]; !ok {
		return nil, apperr.Validation("check", fmt.Sprintf("unknown preflight check %q", kind))
	}
	if _, err := s.validateSession(sessionID); err != nil {
		return nil, err
	}
	board := s.boardFor(sessionID)
	s.probe(ctx, board, kind, signal)
	s.applyMicrophoneFlag(sessionID, board)
	return s.boardDTO(sessionID, board), nil
}

func (s *preflightService) probe(ctx context.Context, board *preflightBoard, kind CheckKind, signal dto.PreflightSignalDTO) {
	board.set(kind, CheckChecking, "")

	if kind == CheckNetwork {
		probeCtx, cancel := context.WithTimeout(ctx, networkProbeTimeout)
		defer cancel()
		if err := s.backend.Ping(probeCtx); err != nil {
			log.Warn().Err(err).Msg("Preflight: network probe failed")
			board.set(kind, CheckFailed, err.Error())
			return
		}
		board.set(kind, CheckSuccess, "")
		return
	}

	if signal.Passed == nil {
		board.set(kind, CheckFailed, "no capability signal reported")
		return
	}
	if *signal.Passed {
		board.set(kind, CheckSuccess, signal.Detail)
	} else {
		board.set(kind, CheckFailed, signal.Detail)
	}
}

// applyMicrophoneFlag mirrors the mic check result onto the session's
// degraded-audio flag, so a successful retry clears an earlier failure.
// Non-blocking: it never prevents progression.
func (s *preflightService) applyMicrophoneFlag(sessionID uint, board *preflightBoard) {
	board.mu.Lock()
	status := board.checks[CheckMicrophone].status
	board.mu.Unlock()
	if status == CheckChecking {
		return
	}
	degraded := status == CheckFailed
	if err := s.sessions.UpdateFields(sessionID, map[string]interface{}{"degraded_audio": degraded}); err != nil {
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("Preflight: failed to persist degraded audio flag")
	}
}

// Release drops the board for a session that has left Preflight. Boards are
// in-memory only, so sessions that start or abort must evict theirs.
func (s *preflightService) Release(sessionID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.boards, sessionID)
}

func (s *preflightService) Board(sessionID uint) (*dto.PreflightBoardDTO, error) {
	s.mu.Lock()
	board, ok := s.boards[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("no preflight run for session %d", sessionID))
	}
	return s.boardDTO(sessionID, board), nil
}

func (s *preflightService) AllMandatoryChecksPassed(sessionID uint) bool {
	s.mu.Lock()
	board, ok := s.boards[sessionID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	board.mu.Lock()
	defer board.mu.Unlock()
	for kind, mandatory := range mandatoryChecks {
		if mandatory && board.checks[kind].status != CheckSuccess {
			return false
		}
	}
	return true
}

func (b *preflightBoard) set(kind CheckKind, status CheckStatus, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checks[kind] = &checkResult{status: status, detail: detail, updatedAt: time.Now()}
}

func (s *preflightService) boardDTO(sessionID uint, board *preflightBoard) *dto.PreflightBoardDTO {
	board.mu.Lock()
	defer board.mu.Unlock()

	resp := &dto.PreflightBoardDTO{SessionID: sessionID}
	allPassed := true
	for _, kind := range allChecks {
		result := board.checks[kind]
		resp.Checks = append(resp.Checks, dto.PreflightCheckDTO{
			Kind:      string(kind),
			Status:    string(result.status),
			Detail:    result.detail,
			Mandatory: mandatoryChecks[kind],
			UpdatedAt: result.updatedAt,
		})
		if mandatoryChecks[kind] && result.status != CheckSuccess {
			allPassed = false
		}
	}
	resp.AllMandatoryChecksPassed = allPassed
	return resp
}
