package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Margays/internal/dto"
	sess "github.com/lshigami/Margays/internal/session"
	"github.com/rs/zerolog/log"
)

// InterviewController serves the live in-progress flow: start, navigation,
// answer edits, violation reports and the completed/aborted endings. Every
// handler resolves the live engine through the manager so a session left
// in progress by a restart is transparently resumed.
type InterviewController struct {
	manager *sess.Manager
}

func NewInterviewController(manager *sess.Manager) *InterviewController {
	return &InterviewController{manager: manager}
}

// StartSession godoc
// @Summary Start the interview
// @Description Transitions the session from preflight to in-progress. Requires every mandatory preflight check to have passed; starts the question timer and the integrity monitor.
// @Tags interview
// @Produce json
// @Param session_id path int true "Session ID"
// @Success 200 {object} session.LiveState
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Mandatory preflight checks not passed or invalid status"
// @Router /sessions/{session_id}/start [post]
func (ctrl *InterviewController) StartSession(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	state, err := ctrl.manager.Start(c.Request.Context(), bearerToken(c), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Navigate godoc
// @Summary Move between questions
// @Description Next, previous, skip or jump. Partial answers are preserved; next or skip past the last question completes the session.
// @Tags interview
// @Accept json
// @Produce json
// @Param session_id path int true "Session ID"
// @Param navigation body dto.NavigateDTO true "Navigation action"
// @Success 200 {object} session.LiveState
// @Failure 400 {object} dto.ErrorResponse "Invalid action or target index"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session is not in progress"
// @Router /sessions/{session_id}/navigate [post]
func (ctrl *InterviewController) Navigate(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req dto.NavigateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind NavigateDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	engine, err := ctrl.manager.Engine(bearerToken(c), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := engine.Navigate(req.Action, req.TargetIndex)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// UpsertAnswer godoc
// @Summary Store or overwrite an answer
// @Description Overwrites the stored text for a question index. Typed and voice-transcribed input share one slot per question; the most recent write wins. Rewriting identical text is a no-op.
// @Tags interview
// @Accept json
// @Produce json
// @Param session_id path int true "Session ID"
// @Param index path int true "Question index (0-based)"
// @Param answer body dto.AnswerUpsertDTO true "Answer text and input channel"
// @Success 200 {object} dto.AnswerResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Index out of range or invalid body"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session is not in progress"
// @Router /sessions/{session_id}/answers/{index} [put]
func (ctrl *InterviewController) UpsertAnswer(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question index format"})
		return
	}

	var req dto.AnswerUpsertDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind AnswerUpsertDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	engine, err := ctrl.manager.Engine(bearerToken(c), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	stored, err := engine.UpsertAnswer(index, req.Text, req.Source)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AnswerResponseDTO{
		QuestionIndex: stored.QuestionIndex,
		Text:          stored.Text,
		Source:        stored.Source,
		TimeSpentSec:  stored.TimeSpentSec,
		LastModified:  stored.LastModified,
	})
}

// ReportViolation godoc
// @Summary Report an integrity violation
// @Description Feeds a client-observed integrity signal (multiple faces, tab switch, background voice, ...) to the session's monitor. Never blocks the interview.
// @Tags interview
// @Accept json
// @Produce json
// @Param session_id path int true "Session ID"
// @Param violation body dto.ViolationReportDTO true "Observed violation"
// @Success 202 "Accepted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session is not in progress"
// @Router /sessions/{session_id}/violations [post]
func (ctrl *InterviewController) ReportViolation(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req dto.ViolationReportDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind ViolationReportDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	engine, err := ctrl.manager.Engine(bearerToken(c), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	engine.ReportViolation(req.Kind, req.Severity)
	c.Status(http.StatusAccepted)
}

// FinishSession godoc
// @Summary Finish the interview
// @Description Completes the session: stops the timer and monitor, submits the final answer set and starts polling for scoring in the background.
// @Tags interview
// @Produce json
// @Param session_id path int true "Session ID"
// @Success 200 {object} session.LiveState
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session is not in progress"
// @Router /sessions/{session_id}/finish [post]
func (ctrl *InterviewController) FinishSession(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	engine, err := ctrl.manager.Engine(bearerToken(c), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := engine.Finish()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// AbortSession godoc
// @Summary Abort the session
// @Description Terminates the session from any non-terminal state. Aborted sessions produce no score.
// @Tags interview
// @Accept json
// @Produce json
// @Param session_id path int true "Session ID"
// @Param abort body dto.AbortDTO false "Optional abort reason"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already terminal"
// @Router /sessions/{session_id}/abort [post]
func (ctrl *InterviewController) AbortSession(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req dto.AbortDTO
	_ = c.ShouldBindJSON(&req)

	if err := ctrl.manager.Abort(sessionID, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
