package services

import (
	"fmt"
	"time"

	"github.com/privscore/privscore/pkg/models"
	"github.com/privscore/privscore/pkg/questions"
	"github.com/privscore/privscore/pkg/recommend"
	"github.com/privscore/privscore/pkg/risk"
	"github.com/privscore/privscore/pkg/scoring"
)

// ResultsService turns a complete answer record into the results dashboard
type ResultsService struct {
	bank *questions.Bank
	now  func() time.Time
}

// NewResultsService creates the service
func NewResultsService(bank *questions.Bank) *ResultsService {
	return &ResultsService{bank: bank, now: time.Now}
}

// Build computes everything shown once the assessment is complete
func (s *ResultsService) Build(session *models.AssessmentSession) (*models.Results, error) {
	qs := s.bank.Questions()
	if len(session.Scores) != len(qs) {
		return nil, fmt.Errorf("%w: %d of %d answered", ErrAssessmentIncomplete, len(session.Scores), len(qs))
	}

	agg, err := scoring.CategoryAggregates(session.Scores, qs)
	if err != nil {
		return nil, err
	}

	recs, err := recommend.Derive(session.Scores, qs, agg)
	if err != nil {
		return nil, err
	}

	analysis, err := risk.Analyze(session.Scores, qs)
	if err != nil {
		return nil, err
	}

	total := scoring.TotalScore(session.Scores)
	max := s.bank.MaxScore()

	return &models.Results{
		SessionID:       session.ID,
		TotalScore:      total,
		MaxScore:        max,
		Percentage:      scoring.Percentage(total, max),
		Level:           scoring.SecurityLevelFor(total, max),
		Categories:      agg,
		Weakest:         scoring.Weakest(agg, 3),
		Strongest:       scoring.Strongest(agg, 3),
		Recommendations: recs,
		Risk:            analysis,
		Tally:           scoring.Tally(session.Scores),
		Insights:        scoring.Insights(agg, total, max),
		Comparison:      scoring.Compare(total, max),
		PreviousScore:   session.PreviousScore,
		GeneratedAt:     s.now().UTC(),
	}, nil
}

// WeakAreas lists the weakest categories below the champion bound, weakest first
func WeakAreas(r *models.Results) []string {
	var out []string
	for _, c := range r.Weakest {
		if c.Percentage < scoring.ChampionMin {
			out = append(out, c.Category)
		}
	}
	return out
}
