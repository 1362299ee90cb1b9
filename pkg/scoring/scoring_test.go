package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privscore/privscore/pkg/models"
	"github.com/privscore/privscore/pkg/questions"
)

func defaultQuestions(t *testing.T) []models.Question {
	t.Helper()
	bank, err := questions.Default()
	require.NoError(t, err)
	return bank.Questions()
}

func filled(n, score int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = score
	}
	return out
}

func TestTotalScore(t *testing.T) {
	assert.Equal(t, 0, TotalScore(nil))
	assert.Equal(t, 180, TotalScore(filled(18, 10)))
	assert.Equal(t, 22, TotalScore([]int{10, 5, 7, 0}))
}

func TestPercentage(t *testing.T) {
	testCases := []struct {
		name        string
		part, whole int
		want        int
	}{
		{"zero whole", 5, 0, 0},
		{"exact", 27, 30, 90},
		{"rounds down", 161, 180, 89},
		{"rounds half up", 1, 8, 13},
		{"full", 20, 20, 100},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Percentage(tc.part, tc.whole))
		})
	}
}

func TestCategoryAggregatesPossibleIndependentOfAnswers(t *testing.T) {
	qs := defaultQuestions(t)

	counts := make(map[string]int)
	for _, q := range qs {
		counts[q.Category]++
	}

	for _, answers := range [][]int{nil, {10, 5}, filled(18, 0), filled(18, 10)} {
		agg, err := CategoryAggregates(answers, qs)
		require.NoError(t, err)
		assert.Equal(t, len(counts), agg.Len())
		for p := agg.Oldest(); p != nil; p = p.Next() {
			assert.Equal(t, 10*counts[p.Key], p.Value.Possible, p.Key)
		}
	}
}

func TestCategoryAggregatesTotals(t *testing.T) {
	qs := defaultQuestions(t)

	agg, err := CategoryAggregates([]int{10, 5, 0, 10}, qs)
	require.NoError(t, err)

	account, ok := agg.Get("Account Security")
	require.True(t, ok)
	assert.Equal(t, models.CategoryScore{Total: 15, Possible: 30, Percentage: 50, Answered: 3}, account)

	data, ok := agg.Get("Data Protection")
	require.True(t, ok)
	assert.Equal(t, 10, data.Total)
	assert.Equal(t, 1, data.Answered)
	assert.Equal(t, 33, data.Percentage)

	first := agg.Oldest()
	require.NotNil(t, first)
	assert.Equal(t, "Account Security", first.Key)
	assert.Equal(t, "Personal Data Management", agg.Newest().Key)
}

func TestCategoryAggregatesRejectsLongRecord(t *testing.T) {
	qs := defaultQuestions(t)
	_, err := CategoryAggregates(filled(19, 10), qs)
	assert.ErrorIs(t, err, ErrRecordTooLong)
}

func TestSecurityLevelFor(t *testing.T) {
	testCases := []struct {
		name       string
		total, max int
		want       string
	}{
		{"perfect", 180, 180, "Champion"},
		{"ninety percent is champion", 162, 180, "Champion"},
		{"one point below ninety is aware", 161, 180, "Aware"},
		{"large max below ninety is aware", 899, 1000, "Aware"},
		{"seventy percent", 126, 180, "Aware"},
		{"just under seventy", 125, 180, "Developing"},
		{"fifty percent", 90, 180, "Developing"},
		{"just under fifty", 89, 180, "At Risk"},
		{"empty record", 0, 180, "At Risk"},
		{"empty bank", 0, 0, "At Risk"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SecurityLevelFor(tc.total, tc.max)
			assert.Equal(t, tc.want, got.Label)
			assert.Equal(t, got, SecurityLevelFor(tc.total, tc.max))
		})
	}

	assert.Equal(t, "green", SecurityLevelFor(180, 180).ColorTag)
	assert.Equal(t, "red", SecurityLevelFor(0, 180).ColorTag)
}

func TestWeakestAndStrongest(t *testing.T) {
	qs := defaultQuestions(t)

	// Account 100%, Data 0%, everything else 50%
	answers := []int{10, 10, 10, 0, 0, 0, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	agg, err := CategoryAggregates(answers, qs)
	require.NoError(t, err)

	weakest := Weakest(agg, 3)
	require.Len(t, weakest, 3)
	assert.Equal(t, "Data Protection", weakest[0].Category)
	assert.Equal(t, "Device Security", weakest[1].Category)
	assert.Equal(t, "Digital Awareness", weakest[2].Category)

	strongest := Strongest(agg, 3)
	require.Len(t, strongest, 3)
	assert.Equal(t, "Account Security", strongest[0].Category)
	assert.Equal(t, "Device Security", strongest[1].Category)

	assert.Len(t, Weakest(agg, 100), 7)
}

func TestTally(t *testing.T) {
	got := Tally([]int{0, 0, 3, 5, 7, 10, 6, 1})
	assert.Equal(t, models.RiskTally{Critical: 2, Moderate: 2, Low: 2, Total: 6}, got)
}

func TestCompare(t *testing.T) {
	testCases := []struct {
		total int
		rank  string
	}{
		{180, "Expert"},
		{166, "Expert"},
		{141, "Advanced"},
		{116, "Average"},
		{0, "Beginner"},
	}
	for _, tc := range testCases {
		cmp := Compare(tc.total, 180)
		assert.Equal(t, tc.rank, cmp.Rank, "total %d", tc.total)
		require.Len(t, cmp.Comparisons, 3)
	}

	cmp := Compare(144, 180)
	assert.Equal(t, 80, cmp.UserScore)
	assert.Equal(t, models.GroupComparison{Group: "General Public", Baseline: 64, Difference: 16, BetterThan: true}, cmp.Comparisons[0])
	assert.False(t, cmp.Comparisons[2].BetterThan)
}

func TestInsights(t *testing.T) {
	qs := defaultQuestions(t)

	agg, err := CategoryAggregates(filled(18, 0), qs)
	require.NoError(t, err)
	lines := Insights(agg, 0, 180)
	assert.Equal(t, []string{
		"🚨 Multiple security vulnerabilities need immediate attention.",
		"🔴 Account Security is critically weak and needs immediate focus.",
		"⚠️ Low account security + poor awareness = high risk of credential theft.",
	}, lines)

	agg, err = CategoryAggregates(filled(18, 10), qs)
	require.NoError(t, err)
	lines = Insights(agg, 180, 180)
	assert.Equal(t, []string{
		"🌟 Exceptional security posture - you're in the top 10% of users!",
		"🟢 Excellent Account Security practices - keep it up!",
	}, lines)
}
