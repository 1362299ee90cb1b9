package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privscore/privscore/pkg/redis"
)

func TestCreateAndGetSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.Generation)
	assert.Empty(t, sess.Scores)

	got, err := f.sessions.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.True(t, f.mr.TTL(redis.SessionKey(sess.ID)) > 0)

	_, err = f.sessions.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)

	f.mr.FastForward(2 * time.Hour)
	_, err = f.sessions.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAnswerRecordsChoiceScore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)

	q, ok := f.bank.At(0)
	require.True(t, ok)
	last := len(q.Choices) - 1

	updated, picked, err := f.sessions.Answer(ctx, sess.ID, last)
	require.NoError(t, err)
	assert.Equal(t, q.Choices[last], picked)
	assert.Equal(t, []int{q.Choices[last].Score}, updated.Scores)

	_, _, err = f.sessions.Answer(ctx, sess.ID, 99)
	assert.ErrorIs(t, err, ErrInvalidChoice)
	_, _, err = f.sessions.Answer(ctx, sess.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidChoice)

	stored, err := f.sessions.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Scores, 1)
}

func TestSkipRecordsZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)

	updated, err := f.sessions.Skip(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, updated.Scores)
}

func TestAnswerAfterCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)
	done := f.answerAll(t, sess.ID, 0)
	assert.Len(t, done.Scores, f.bank.Len())

	_, _, err = f.sessions.Answer(ctx, sess.ID, 0)
	assert.ErrorIs(t, err, ErrAssessmentComplete)
	_, err = f.sessions.Skip(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrAssessmentComplete)

	view := f.sessions.View(done, "")
	assert.True(t, view.Complete)
	assert.Nil(t, view.CurrentQuestion)
}

func TestBackRemovesLastAnswerAndRotatesGeneration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)

	_, err = f.sessions.Back(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNothingToUndo)

	_, err = f.sessions.Skip(ctx, sess.ID)
	require.NoError(t, err)
	_, _, err = f.sessions.Answer(ctx, sess.ID, 0)
	require.NoError(t, err)

	back, err := f.sessions.Back(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, back.Scores)
	assert.NotEqual(t, sess.Generation, back.Generation)

	view := f.sessions.View(back, "")
	require.NotNil(t, view.CurrentQuestion)
	assert.Equal(t, 1, *view.CurrentQuestion)
	assert.False(t, view.Complete)
}

func TestResetRemembersPreviousScore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)

	fresh, err := f.sessions.Reset(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, fresh.PreviousScore)

	done := f.answerAll(t, sess.ID, 0)
	total := 0
	for _, s := range done.Scores {
		total += s
	}

	reset, err := f.sessions.Reset(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, reset.Scores)
	require.NotNil(t, reset.PreviousScore)
	assert.Equal(t, total, *reset.PreviousScore)
	assert.NotEqual(t, done.Generation, reset.Generation)
}

func TestUpdateMissingSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.sessions.Skip(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
