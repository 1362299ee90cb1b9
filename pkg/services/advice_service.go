package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/privscore/privscore/pkg/advice"
	"github.com/privscore/privscore/pkg/models"
	"github.com/privscore/privscore/pkg/redis"
)

// ErrAdvicePending is returned while no advice exists for the current generation
var ErrAdvicePending = errors.New("advice not ready")

var errStaleAdvice = errors.New("session moved to a new generation")

// AdviceReadyEvent is the push message type for finished advice
const AdviceReadyEvent = "adviceReady"

// Publisher pushes a message to the listeners of a session
type Publisher interface {
	Publish(sessionID, msgType string, data interface{})
}

// AdviceRequest identifies one asynchronous advice run
type AdviceRequest struct {
	RequestID  string   `json:"requestId"`
	Generation string   `json:"generation"`
	WeakAreas  []string `json:"weakAreas"`
}

// AdviceService runs advice generation in the background and only keeps results that
// still match the session's generation when they arrive
type AdviceService struct {
	advisor   *advice.Service
	sessions  *SessionService
	results   *ResultsService
	store     *redis.RedisClient
	publisher Publisher
	ttl       time.Duration
	budget    time.Duration
	wg        sync.WaitGroup

	// stored runs after a result is written and before it is pushed
	stored func(sessionID string)
}

// NewAdviceService wires the advice pipeline. budget bounds one background run.
func NewAdviceService(advisor *advice.Service, sessions *SessionService, results *ResultsService,
	store *redis.RedisClient, publisher Publisher, ttl, budget time.Duration) *AdviceService {
	return &AdviceService{
		advisor:   advisor,
		sessions:  sessions,
		results:   results,
		store:     store,
		publisher: publisher,
		ttl:       ttl,
		budget:    budget,
	}
}

// Advisor exposes the underlying advice service
func (s *AdviceService) Advisor() *advice.Service {
	return s.advisor
}

// Request starts advice generation for a complete session and returns immediately
func (s *AdviceService) Request(ctx context.Context, sessionID string) (*AdviceRequest, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	res, err := s.results.Build(session)
	if err != nil {
		return nil, err
	}

	req := &AdviceRequest{
		RequestID:  uuid.New().String(),
		Generation: session.Generation,
		WeakAreas:  WeakAreas(res),
	}

	s.wg.Add(1)
	go s.run(sessionID, req)

	log.Printf("🤖 Advice requested for session %s (request %s, areas %v)", sessionID, req.RequestID, req.WeakAreas)
	return req, nil
}

func (s *AdviceService) run(sessionID string, req *AdviceRequest) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.budget)
	defer cancel()

	items := s.advisor.PersonalizedAdvice(ctx, req.WeakAreas)

	result := &models.AdviceResult{
		RequestID:  req.RequestID,
		SessionID:  sessionID,
		Generation: req.Generation,
		WeakAreas:  req.WeakAreas,
		Advice:     items,
		CreatedAt:  time.Now().UTC(),
	}

	// the store context is separate so a slow model call cannot prevent saving
	storeCtx, storeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer storeCancel()

	var current models.AssessmentSession
	err := s.store.SetJSONIf(storeCtx, redis.SessionKey(sessionID), &current, func() error {
		if current.Generation != req.Generation {
			return errStaleAdvice
		}
		return nil
	}, redis.AdviceKey(sessionID), result, s.ttl)
	switch {
	case errors.Is(err, errStaleAdvice):
		log.Printf("🗑️ Dropping stale advice %s for session %s", req.RequestID, sessionID)
		return
	case err != nil:
		log.Printf("🗑️ Dropping advice %s: %v", req.RequestID, err)
		return
	}

	if s.stored != nil {
		s.stored(sessionID)
	}

	// Back or Reset may land after the write; only the current generation is pushed
	latest, err := s.sessions.Get(storeCtx, sessionID)
	if err != nil || latest.Generation != req.Generation {
		log.Printf("🗑️ Not pushing stale advice %s for session %s", req.RequestID, sessionID)
		return
	}

	if s.publisher != nil {
		s.publisher.Publish(sessionID, AdviceReadyEvent, result)
	}
	log.Printf("✅ Advice %s ready for session %s (%d items)", req.RequestID, sessionID, len(items))
}

// Latest returns the stored advice when it belongs to the session's current generation
func (s *AdviceService) Latest(ctx context.Context, sessionID string) (*models.AdviceResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var result models.AdviceResult
	if err := s.store.GetJSON(ctx, redis.AdviceKey(sessionID), &result); err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, ErrAdvicePending
		}
		return nil, fmt.Errorf("load advice: %w", err)
	}
	if result.Generation != session.Generation {
		return nil, ErrAdvicePending
	}
	return &result, nil
}

// Explain returns the explanation for one question of the bank
func (s *AdviceService) Explain(ctx context.Context, q models.Question) models.Advice {
	return s.advisor.QuestionExplanation(ctx, q)
}

// Wait blocks until every background run has finished
func (s *AdviceService) Wait() {
	s.wg.Wait()
}
