package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/privscore/privscore/pkg/models"
	"github.com/privscore/privscore/pkg/questions"
	"github.com/privscore/privscore/pkg/redis"
	"github.com/privscore/privscore/pkg/scoring"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrAssessmentComplete   = errors.New("assessment already complete")
	ErrAssessmentIncomplete = errors.New("assessment not complete")
	ErrNothingToUndo        = errors.New("no answer to undo")
	ErrInvalidChoice        = errors.New("invalid choice")
)

// SessionService keeps each user's answer record in Redis
type SessionService struct {
	store *redis.RedisClient
	bank  *questions.Bank
	ttl   time.Duration
}

// NewSessionService creates the service; ttl slides on every write
func NewSessionService(store *redis.RedisClient, bank *questions.Bank, ttl time.Duration) *SessionService {
	return &SessionService{store: store, bank: bank, ttl: ttl}
}

// Create starts an empty assessment
func (s *SessionService) Create(ctx context.Context) (*models.AssessmentSession, error) {
	now := time.Now().UTC()
	session := &models.AssessmentSession{
		ID:         uuid.New().String(),
		Scores:     []int{},
		Generation: uuid.New().String(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.SetJSON(ctx, redis.SessionKey(session.ID), session, s.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	log.Printf("✅ New assessment session %s", session.ID)
	return session, nil
}

// Get loads a session
func (s *SessionService) Get(ctx context.Context, id string) (*models.AssessmentSession, error) {
	var session models.AssessmentSession
	if err := s.store.GetJSON(ctx, redis.SessionKey(id), &session); err != nil {
		return nil, s.mapErr(id, err)
	}
	return &session, nil
}

// Answer records the score of the chosen choice for the current question
func (s *SessionService) Answer(ctx context.Context, id string, choice int) (*models.AssessmentSession, models.Choice, error) {
	var picked models.Choice
	session, err := s.update(ctx, id, func(sess *models.AssessmentSession) error {
		q, ok := s.bank.At(len(sess.Scores))
		if !ok {
			return ErrAssessmentComplete
		}
		if choice < 0 || choice >= len(q.Choices) {
			return fmt.Errorf("%w: %d of %d", ErrInvalidChoice, choice, len(q.Choices))
		}
		picked = q.Choices[choice]
		sess.Scores = append(sess.Scores, picked.Score)
		return nil
	})
	if err != nil {
		return nil, models.Choice{}, err
	}
	return session, picked, nil
}

// Skip records zero for the current question
func (s *SessionService) Skip(ctx context.Context, id string) (*models.AssessmentSession, error) {
	return s.update(ctx, id, func(sess *models.AssessmentSession) error {
		if len(sess.Scores) >= s.bank.Len() {
			return ErrAssessmentComplete
		}
		sess.Scores = append(sess.Scores, 0)
		return nil
	})
}

// Back removes the last recorded answer and invalidates in-flight advice
func (s *SessionService) Back(ctx context.Context, id string) (*models.AssessmentSession, error) {
	return s.update(ctx, id, func(sess *models.AssessmentSession) error {
		if len(sess.Scores) == 0 {
			return ErrNothingToUndo
		}
		sess.Scores = sess.Scores[:len(sess.Scores)-1]
		sess.Generation = uuid.New().String()
		return nil
	})
}

// Reset clears the record, remembering the previous total, and discards stored advice
func (s *SessionService) Reset(ctx context.Context, id string) (*models.AssessmentSession, error) {
	session, err := s.update(ctx, id, func(sess *models.AssessmentSession) error {
		if len(sess.Scores) > 0 {
			prev := scoring.TotalScore(sess.Scores)
			sess.PreviousScore = &prev
		}
		sess.Scores = []int{}
		sess.Generation = uuid.New().String()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, redis.AdviceKey(id)); err != nil {
		log.Printf("⚠️ Error discarding advice for session %s: %v", id, err)
	}
	return session, nil
}

// Complete reports whether every question has been answered
func (s *SessionService) Complete(session *models.AssessmentSession) bool {
	return len(session.Scores) == s.bank.Len()
}

// View shapes a session for the API
func (s *SessionService) View(session *models.AssessmentSession, lastTip string) models.SessionResponse {
	resp := models.SessionResponse{
		Session:        session,
		TotalQuestions: s.bank.Len(),
		Complete:       s.Complete(session),
		LastTip:        lastTip,
	}
	if !resp.Complete {
		next := len(session.Scores)
		resp.CurrentQuestion = &next
	}
	return resp
}

func (s *SessionService) update(ctx context.Context, id string, fn func(*models.AssessmentSession) error) (*models.AssessmentSession, error) {
	var session models.AssessmentSession
	err := s.store.UpdateJSON(ctx, redis.SessionKey(id), s.ttl, &session, func() error {
		if err := fn(&session); err != nil {
			return err
		}
		session.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, s.mapErr(id, err)
	}
	return &session, nil
}

func (s *SessionService) mapErr(id string, err error) error {
	if errors.Is(err, redis.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return err
}
