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

func passed() dto.PreflightSignalDTO {
	ok := true
	return dto.PreflightSignalDTO{Passed: &ok}
}

func failed(detail string) dto.PreflightSignalDTO {
	notOK := false
	return dto.PreflightSignalDTO{Passed: &notOK, Detail: detail}
}

func preflightSession(t *testing.T, repo *memSessionRepo) *model.Session {
	t.Helper()
	session := &model.Session{
		BackendID:     "be-1",
		Status:        model.StatusPreflight,
		JobTitle:      "Engineer",
		QuestionCount: 5,
	}
	require.NoError(t, repo.Create(session))
	return session
}

func allPassedSignals() map[CheckKind]dto.PreflightSignalDTO {
	return map[CheckKind]dto.PreflightSignalDTO{
		CheckCamera:      passed(),
		CheckMicrophone:  passed(),
		CheckEnvironment: passed(),
	}
}

func checkByKind(t *testing.T, board *dto.PreflightBoardDTO, kind CheckKind) dto.PreflightCheckDTO {
	t.Helper()
	for _, check := range board.Checks {
		if check.Kind == string(kind) {
			return check
		}
	}
	t.Fatalf("check %q missing from board", kind)
	return dto.PreflightCheckDTO{}
}

func TestRunAllChecksPass(t *testing.T) {
	repo := newMemSessionRepo()
	session := preflightSession(t, repo)
	svc := NewPreflightService(repo, &stubBackend{})

	board, err := svc.RunAll(context.Background(), session.ID, allPassedSignals())
	require.NoError(t, err)

	assert.True(t, board.AllMandatoryChecksPassed)
	assert.Len(t, board.Checks, 4)
	for _, check := range board.Checks {
		assert.Equal(t, string(CheckSuccess), check.Status, check.Kind)
	}
	assert.True(t, svc.AllMandatoryChecksPassed(session.ID))
}

func TestRunAllMicrophoneFailureOnlyDegrades(t *testing.T) {
	repo := newMemSessionRepo()
	session := preflightSession(t, repo)
	svc := NewPreflightService(repo, &stubBackend{})

	signals := allPassedSignals()
	signals[CheckMicrophone] = failed("permission denied")

	board, err := svc.RunAll(context.Background(), session.ID, signals)
	require.NoError(t, err)

	mic := checkByKind(t, board, CheckMicrophone)
	assert.Equal(t, string(CheckFailed), mic.Status)
	assert.False(t, mic.Mandatory)
	assert.True(t, board.AllMandatoryChecksPassed, "microphone is not a gating check")

	stored, err := repo.FindByID(session.ID)
	require.NoError(t, err)
	assert.True(t, stored.DegradedAudio, "mic failure must mark the session degraded")
}

func TestRunAllNetworkProbeFailureBlocks(t *testing.T) {
	repo := newMemSessionRepo()
	session := preflightSession(t, repo)
	svc := NewPreflightService(repo, &stubBackend{pingErr: apperr.Network("backend down", nil)})

	board, err := svc.RunAll(context.Background(), session.ID, allPassedSignals())
	require.NoError(t, err)

	network := checkByKind(t, board, CheckNetwork)
	assert.Equal(t, string(CheckFailed), network.Status)
	assert.True(t, network.Mandatory)
	assert.False(t, board.AllMandatoryChecksPassed)
	assert.False(t, svc.AllMandatoryChecksPassed(session.ID))
}

func TestRunCheckRetriesSingleCheckIndependently(t *testing.T) {
	repo := newMemSessionRepo()
	session := preflightSession(t, repo)
	svc := NewPreflightService(repo, &stubBackend{})

	signals := allPassedSignals()
	signals[CheckCamera] = failed("no device")
	board, err := svc.RunAll(context.Background(), session.ID, signals)
	require.NoError(t, err)
	require.False(t, board.AllMandatoryChecksPassed)

	board, err = svc.RunCheck(context.Background(), session.ID, CheckCamera, passed())
	require.NoError(t, err)

	camera := checkByKind(t, board, CheckCamera)
	assert.Equal(t, string(CheckSuccess), camera.Status)
	assert.True(t, board.AllMandatoryChecksPassed, "other checks keep their earlier results")
}

func TestRunCheckMicrophoneRetryClearsDegradedAudio(t *testing.T) {
	repo := newMemSessionRepo()
	session := preflightSession(t, repo)
	svc := NewPreflightService(repo, &stubBackend{})

	signals := allPassedSignals()
	signals[CheckMicrophone] = failed("permission denied")
	_, err := svc.RunAll(context.Background(), session.ID, signals)
	require.NoError(t, err)

	stored, err := repo.FindByID(session.ID)
	require.NoError(t, err)
	require.True(t, stored.DegradedAudio)

	_, err = svc.RunCheck(context.Background(), session.ID, CheckMicrophone, passed())
	require.NoError(t, err)

	stored, err = repo.FindByID(session.ID)
	require.NoError(t, err)
	assert.False(t, stored.DegradedAudio, "a successful mic retry must clear the degraded flag")
}

func TestReleaseEvictsBoard(t *testing.T) {
	repo := newMemSessionRepo()
	session := preflightSession(t, repo)
	svc := NewPreflightService(repo, &stubBackend{})

	_, err := svc.RunAll(context.Background(), session.ID, allPassedSignals())
	require.NoError(t, err)
	require.True(t, svc.AllMandatoryChecksPassed(session.ID))

	svc.Release(session.ID)

	assert.False(t, svc.AllMandatoryChecksPassed(session.ID))
	_, err = svc.Board(session.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestRunCheckRejectsUnknownKind(t *testing.T) {
	repo := newMemSessionRepo()
	session := preflightSession(t, repo)
	svc := NewPreflightService(repo, &stubBackend{})

	_, err := svc.RunCheck(context.Background(), session.ID, CheckKind("gps"), passed())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestRunAllRejectsWrongStatus(t *testing.T) {
	repo := newMemSessionRepo()
	session := &model.Session{BackendID: "be-2", Status: model.StatusInProgress, JobTitle: "Engineer"}
	require.NoError(t, repo.Create(session))
	svc := NewPreflightService(repo, &stubBackend{})

	_, err := svc.RunAll(context.Background(), session.ID, allPassedSignals())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidTransition, apperr.CodeOf(err))
}

func TestRunAllUnknownSession(t *testing.T) {
	svc := NewPreflightService(newMemSessionRepo(), &stubBackend{})

	_, err := svc.RunAll(context.Background(), 42, allPassedSignals())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestMissingSignalFailsClientObservedCheck(t *testing.T) {
	repo := newMemSessionRepo()
	session := preflightSession(t, repo)
	svc := NewPreflightService(repo, &stubBackend{})

	signals := allPassedSignals()
	delete(signals, CheckEnvironment)

	board, err := svc.RunAll(context.Background(), session.ID, signals)
	require.NoError(t, err)

	environment := checkByKind(t, board, CheckEnvironment)
	assert.Equal(t, string(CheckFailed), environment.Status)
	assert.False(t, board.AllMandatoryChecksPassed)
}

func TestBoardWithoutRunIsNotFound(t *testing.T) {
	svc := NewPreflightService(newMemSessionRepo(), &stubBackend{})

	_, err := svc.Board(7)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
