package shared

import (
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/session"
)

// View renders a stored session for clients.
func View(s *session.Session) *dto.SessionView {
	if s == nil {
		return nil
	}
	e := s.Editor()
	return &dto.SessionView{
		SessionID:  s.ID,
		QuizID:     s.QuizID,
		Kind:       s.Kind,
		Version:    s.Version,
		UpdatedAt:  s.UpdatedAt,
		Items:      e.Items(),
		Errors:     e.Errors(),
		HasChanges: e.HasChanges(),
	}
}

// Changes lists what saving the session would write.
func Changes(s *session.Session) *dto.ChangesView {
	e := s.Editor()
	return &dto.ChangesView{
		New:     e.New(),
		Edited:  e.Edited(),
		Deleted: e.Deleted(),
	}
}
