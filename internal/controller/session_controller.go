package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/service"
	sess "github.com/lshigami/Margays/internal/session"
	"github.com/rs/zerolog/log"
)

// SessionController serves session configuration, preflight and the
// read-only session views (detail, history, summary).
type SessionController struct {
	configurator service.SessionConfiguratorService
	queries      service.SessionQueryService
	preflight    service.PreflightService
	manager      *sess.Manager
}

func NewSessionController(
	configurator service.SessionConfiguratorService,
	queries service.SessionQueryService,
	preflight service.PreflightService,
	manager *sess.Manager,
) *SessionController {
	return &SessionController{
		configurator: configurator,
		queries:      queries,
		preflight:    preflight,
		manager:      manager,
	}
}

// CreateSession godoc
// @Summary Create and configure a new interview session
// @Description Validates the job context and interview parameters, generates the question set and leaves the session awaiting preflight.
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body dto.SessionCreateDTO true "Job context and interview parameters"
// @Success 201 {object} dto.SessionDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid configuration value"
// @Failure 401 {object} dto.ErrorResponse "Missing or expired credential"
// @Failure 500 {object} dto.ErrorResponse "Session could not be configured"
// @Router /sessions [post]
func (ctrl *SessionController) CreateSession(c *gin.Context) {
	var req dto.SessionCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SessionCreateDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	detail, err := ctrl.configurator.CreateSession(c.Request.Context(), bearerToken(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// ListSessions godoc
// @Summary List interview sessions
// @Description Session history for a candidate, newest first. Scored sessions include the 0-100 overall score.
// @Tags sessions
// @Produce json
// @Param user_id query int false "Filter sessions by user ID"
// @Success 200 {array} dto.SessionListItemDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user_id format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions [get]
func (ctrl *SessionController) ListSessions(c *gin.Context) {
	var userID *uint
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		val, err := strconv.ParseUint(userIDStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user_id format"})
			return
		}
		parsed := uint(val)
		userID = &parsed
	}

	items, err := ctrl.queries.ListSessions(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetSession godoc
// @Summary Get full session details
// @Description Full session record including questions, stored answers, violations and feedback. Used for the live view and for resuming after a reload; while a timer is running the remaining seconds are included.
// @Tags sessions
// @Produce json
// @Param session_id path int true "Session ID"
// @Success 200 {object} dto.SessionDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/{session_id} [get]
func (ctrl *SessionController) GetSession(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	detail, err := ctrl.queries.GetSessionDetails(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if engine, live := ctrl.manager.Get(sessionID); live {
		if remaining, running := engine.RemainingSec(); running {
			detail.RemainingSec = &remaining
		}
	}
	// A session stuck Completed after an exhausted submission or polling
	// budget gets its scoring flow re-armed by being read.
	if detail.Status == string(model.StatusCompleted) {
		ctrl.manager.RecoverScoring(bearerToken(c), sessionID)
	}
	c.JSON(http.StatusOK, detail)
}

// GetSummary godoc
// @Summary Get the score summary for a session
// @Description Summary view model with 0-100 dimension scores. Available as soon as the session completes; before scoring arrives the response reports scoring_pending.
// @Tags sessions
// @Produce json
// @Param session_id path int true "Session ID"
// @Success 200 {object} dto.SessionSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/{session_id}/summary [get]
func (ctrl *SessionController) GetSummary(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	summary, err := ctrl.queries.GetSessionSummary(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if summary.Status == string(model.StatusCompleted) {
		ctrl.manager.RecoverScoring(bearerToken(c), sessionID)
	}
	c.JSON(http.StatusOK, summary)
}

// RunPreflight godoc
// @Summary Run all preflight checks
// @Description Runs the camera, microphone, network and environment checks concurrently. Camera, microphone and environment use the client-reported capability signals; network is probed server-side.
// @Tags preflight
// @Accept json
// @Produce json
// @Param session_id path int true "Session ID"
// @Param signals body map[string]dto.PreflightSignalDTO false "Client-observed capability signals keyed by check kind"
// @Success 200 {object} dto.PreflightBoardDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID or request body"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session is not awaiting preflight"
// @Router /sessions/{session_id}/preflight [post]
func (ctrl *SessionController) RunPreflight(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	signals := make(map[service.CheckKind]dto.PreflightSignalDTO)
	raw := make(map[string]dto.PreflightSignalDTO)
	if err := c.ShouldBindJSON(&raw); err == nil {
		for kind, signal := range raw {
			signals[service.CheckKind(kind)] = signal
		}
	}

	board, err := ctrl.preflight.RunAll(c.Request.Context(), sessionID, signals)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// RunPreflightCheck godoc
// @Summary Re-run a single preflight check
// @Description Retries one failed check without resetting the others.
// @Tags preflight
// @Accept json
// @Produce json
// @Param session_id path int true "Session ID"
// @Param check path string true "Check kind" Enums(camera, microphone, network, environment)
// @Param signal body dto.PreflightSignalDTO false "Client-observed capability signal"
// @Success 200 {object} dto.PreflightBoardDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown check kind"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session is not awaiting preflight"
// @Router /sessions/{session_id}/preflight/{check} [post]
func (ctrl *SessionController) RunPreflightCheck(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var signal dto.PreflightSignalDTO
	_ = c.ShouldBindJSON(&signal)

	board, err := ctrl.preflight.RunCheck(c.Request.Context(), sessionID, service.CheckKind(c.Param("check")), signal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GetPreflight godoc
// @Summary Get the current preflight board
// @Description Current state of every check for the session's latest preflight run.
// @Tags preflight
// @Produce json
// @Param session_id path int true "Session ID"
// @Success 200 {object} dto.PreflightBoardDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 404 {object} dto.ErrorResponse "No preflight run for this session"
// @Router /sessions/{session_id}/preflight [get]
func (ctrl *SessionController) GetPreflight(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	board, err := ctrl.preflight.Board(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}
