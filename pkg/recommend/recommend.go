package recommend

import (
	"github.com/privscore/privscore/pkg/models"
	"github.com/privscore/privscore/pkg/scoring"
)

// Tunables
const (
	// WeakAnswer is the score below which a bespoke override is consulted
	WeakAnswer = 7
	// MaxItems bounds the derived list
	MaxItems = 3
)

// PriorityFor maps a category percentage onto a priority using the security level bounds
func PriorityFor(percentage int) models.Priority {
	switch {
	case percentage >= scoring.ChampionMin:
		return models.PriorityExcellent
	case percentage >= scoring.AwareMin:
		return models.PriorityMaintenance
	case percentage >= scoring.DevelopingMin:
		return models.PriorityMedium
	case percentage >= 30:
		return models.PriorityHigh
	default:
		return models.PriorityCritical
	}
}

// Derive builds the ordered, deterministic recommendation list for an answer record.
// agg may be nil, in which case it is computed from the record.
func Derive(answers []int, qs []models.Question, agg *models.CategoryScores) ([]models.Recommendation, error) {
	if agg == nil {
		var err error
		if agg, err = scoring.CategoryAggregates(answers, qs); err != nil {
			return nil, err
		}
	} else if len(answers) > len(qs) {
		return nil, scoring.ErrRecordTooLong
	}

	var recs []models.Recommendation
	covered := make(map[string]bool)

	for i, score := range answers {
		if score >= WeakAnswer {
			continue
		}
		rule, ok := overrides[i]
		if !ok {
			continue
		}
		if rec, ok := rule(score); ok {
			recs = append(recs, rec)
			covered[rec.Category] = true
		}
	}

	if len(recs) < MaxItems {
		for _, c := range scoring.Weakest(agg, -1) {
			if len(recs) >= MaxItems {
				break
			}
			if c.Percentage >= scoring.ChampionMin || covered[c.Category] {
				continue
			}
			recs = append(recs, fromTemplate(c))
			covered[c.Category] = true
		}
	}

	total := scoring.TotalScore(answers)
	max := models.MaxChoiceScore * len(qs)
	if len(recs) == 0 && max > 0 && 100*total >= scoring.ChampionMin*max {
		recs = append(recs, maintainExcellent())
	}

	if len(recs) > MaxItems {
		recs = recs[:MaxItems]
	}
	return recs, nil
}

func fromTemplate(c models.RankedCategory) models.Recommendation {
	category := c.Category
	tpl, ok := categoryTemplates[category]
	if !ok {
		tpl = generalTemplate
		category = GeneralCategory
	}

	steps := make([]string, len(tpl.steps))
	copy(steps, tpl.steps)

	return models.Recommendation{
		Priority:        PriorityFor(c.Percentage),
		Category:        category,
		Action:          tpl.action,
		Description:     tpl.description,
		Impact:          tpl.impact,
		TimeToImplement: tpl.time,
		Steps:           steps,
	}
}
