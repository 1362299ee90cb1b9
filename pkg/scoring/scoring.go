package scoring

import (
	"errors"
	"fmt"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/privscore/privscore/pkg/models"
)

// ErrRecordTooLong is returned for an answer record with more entries than the bank has questions
var ErrRecordTooLong = errors.New("answer record longer than question bank")

// TotalScore sums every recorded score
func TotalScore(answers []int) int {
	total := 0
	for _, s := range answers {
		total += s
	}
	return total
}

// Percentage rounds 100*part/whole half up and is 0 when whole is 0
func Percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}

// CategoryAggregates folds the record into per-category totals. Every category of the bank is
// present, in declaration order, whether or not any of its questions were answered yet.
func CategoryAggregates(answers []int, qs []models.Question) (*models.CategoryScores, error) {
	if len(answers) > len(qs) {
		return nil, fmt.Errorf("%w: %d answers for %d questions", ErrRecordTooLong, len(answers), len(qs))
	}

	agg := orderedmap.New[string, models.CategoryScore]()
	for _, q := range qs {
		cs, _ := agg.Get(q.Category)
		cs.Possible += models.MaxChoiceScore
		agg.Set(q.Category, cs)
	}

	for i, score := range answers {
		cat := qs[i].Category
		cs, _ := agg.Get(cat)
		cs.Total += score
		cs.Answered++
		agg.Set(cat, cs)
	}

	for p := agg.Oldest(); p != nil; p = p.Next() {
		p.Value.Percentage = Percentage(p.Value.Total, p.Value.Possible)
	}

	return agg, nil
}

// Ranked flattens the aggregates in declaration order
func Ranked(agg *models.CategoryScores) []models.RankedCategory {
	out := make([]models.RankedCategory, 0, agg.Len())
	for p := agg.Oldest(); p != nil; p = p.Next() {
		out = append(out, models.RankedCategory{Category: p.Key, CategoryScore: p.Value})
	}
	return out
}

// Weakest returns up to n categories by ascending percentage, ties in declaration order
func Weakest(agg *models.CategoryScores, n int) []models.RankedCategory {
	ranked := Ranked(agg)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage < ranked[j].Percentage
	})
	return head(ranked, n)
}

// Strongest returns up to n categories by descending percentage, ties in declaration order
func Strongest(agg *models.CategoryScores, n int) []models.RankedCategory {
	ranked := Ranked(agg)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})
	return head(ranked, n)
}

func head(r []models.RankedCategory, n int) []models.RankedCategory {
	if n >= 0 && len(r) > n {
		return r[:n]
	}
	return r
}

// Severity tally thresholds
const (
	ModerateMax = 3
	LowMax      = 6
)

// Tally counts zero answers as critical, up to ModerateMax as moderate and up to LowMax as low
func Tally(answers []int) models.RiskTally {
	var t models.RiskTally
	for _, s := range answers {
		switch {
		case s == 0:
			t.Critical++
		case s <= ModerateMax:
			t.Moderate++
		case s <= LowMax:
			t.Low++
		}
	}
	t.Total = t.Critical + t.Moderate + t.Low
	return t
}
