package service

import (
	"github.com/jinzhu/copier"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/rs/zerolog/log"
)

// sessionDetailDTO maps a fully-loaded session record to its response DTO.
func sessionDetailDTO(session *model.Session) (*dto.SessionDetailDTO, error) {
	var resp dto.SessionDetailDTO
	if err := copier.Copy(&resp, session); err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("Failed to copy session model to DTO")
		return nil, err
	}
	resp.Status = string(session.Status)
	resp.CompletionFraction = completionFraction(session)
	return &resp, nil
}

// completionFraction is answeredCount / questionCount, counting an index as
// answered only when its stored text is non-empty.
func completionFraction(session *model.Session) float64 {
	if session.QuestionCount == 0 {
		return 0
	}
	answered := 0
	for _, a := range session.Answers {
		if a.Text != "" {
			answered++
		}
	}
	return float64(answered) / float64(session.QuestionCount)
}
