package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privscore/privscore/pkg/advice"
	"github.com/privscore/privscore/pkg/models"
	"github.com/privscore/privscore/pkg/redis"
)

const modelReply = "1. Turn on two-factor authentication for your email and bank accounts.\n2. Use a password manager so every site gets a unique password.\n3. Enable automatic updates on your phone and laptop."

func newAdviceService(f *fixture, advisor *advice.Service, pub Publisher) *AdviceService {
	return NewAdviceService(advisor, f.sessions, f.results, f.store, pub, time.Hour, 5*time.Second)
}

func TestRequestAdviceRequiresCompleteSession(t *testing.T) {
	f := newFixture(t)
	svc := newAdviceService(f, newAdvisor(t, &stubTransport{reply: modelReply}), nil)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)

	_, err = svc.Request(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrAssessmentIncomplete)

	_, err = svc.Request(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRequestAdviceStoresAndPublishes(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	svc := newAdviceService(f, newAdvisor(t, &stubTransport{reply: modelReply}), pub)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)
	done := f.answerAll(t, sess.ID, 0)

	_, err = svc.Latest(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrAdvicePending)

	req, err := svc.Request(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, done.Generation, req.Generation)
	assert.NotEmpty(t, req.RequestID)
	svc.Wait()

	got, err := svc.Latest(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, req.RequestID, got.RequestID)
	require.Len(t, got.Advice, 3)
	for _, a := range got.Advice {
		assert.Equal(t, models.SourceAI, a.Source)
	}
	assert.Equal(t, []string{sess.ID + ":" + AdviceReadyEvent}, pub.Events())
	assert.True(t, f.mr.TTL(redis.AdviceKey(sess.ID)) > 0)
}

func TestStaleAdviceIsDropped(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	tr := &stubTransport{reply: modelReply, release: make(chan struct{}), started: make(chan struct{})}
	svc := newAdviceService(f, newAdvisor(t, tr), pub)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)
	f.answerAll(t, sess.ID, 0)

	_, err = svc.Request(ctx, sess.ID)
	require.NoError(t, err)
	<-tr.started

	// going back and finishing again gives the session a new generation
	_, err = f.sessions.Back(ctx, sess.ID)
	require.NoError(t, err)
	f.answerAll(t, sess.ID, 0)

	close(tr.release)
	svc.Wait()

	_, err = svc.Latest(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrAdvicePending)
	assert.Empty(t, pub.Events())
	assert.False(t, f.mr.Exists(redis.AdviceKey(sess.ID)))
}

func TestLatestIgnoresOldGeneration(t *testing.T) {
	f := newFixture(t)
	svc := newAdviceService(f, newAdvisor(t, &stubTransport{reply: modelReply}), nil)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)
	f.answerAll(t, sess.ID, 0)

	_, err = svc.Request(ctx, sess.ID)
	require.NoError(t, err)
	svc.Wait()
	_, err = svc.Latest(ctx, sess.ID)
	require.NoError(t, err)

	_, err = f.sessions.Reset(ctx, sess.ID)
	require.NoError(t, err)
	_, err = svc.Latest(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrAdvicePending)
}

func TestDisabledAdvisorFallsBackToExpertAdvice(t *testing.T) {
	f := newFixture(t)
	cfg := advice.DefaultConfig()
	cfg.Enabled = false
	svc := newAdviceService(f, advice.NewService(cfg), nil)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)
	f.answerAll(t, sess.ID, 0)

	_, err = svc.Request(ctx, sess.ID)
	require.NoError(t, err)
	svc.Wait()

	got, err := svc.Latest(ctx, sess.ID)
	require.NoError(t, err)
	require.NotEmpty(t, got.Advice)
	for _, a := range got.Advice {
		assert.Equal(t, models.SourceExpert, a.Source)
	}
}

func TestExplainUsesAdvisor(t *testing.T) {
	f := newFixture(t)
	cfg := advice.DefaultConfig()
	cfg.Enabled = false
	svc := newAdviceService(f, advice.NewService(cfg), nil)

	q := mustQuestion(t, f, 0)
	got := svc.Explain(context.Background(), q)
	assert.Equal(t, models.SourceExpert, got.Source)
	assert.Equal(t, advice.FallbackExplanation(q.Category), got.Text)
}

func mustQuestion(t *testing.T, f *fixture, i int) models.Question {
	t.Helper()
	q, ok := f.bank.At(i)
	require.True(t, ok)
	return q
}

func TestAdviceNotPushedWhenSessionMovesAfterStore(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	svc := newAdviceService(f, newAdvisor(t, &stubTransport{reply: modelReply}), pub)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)
	f.answerAll(t, sess.ID, 0)

	svc.stored = func(id string) {
		_, err := f.sessions.Back(context.Background(), id)
		assert.NoError(t, err)
	}

	_, err = svc.Request(ctx, sess.ID)
	require.NoError(t, err)
	svc.Wait()

	assert.Empty(t, pub.Events())
	_, err = svc.Latest(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrAdvicePending)
}

func TestResetDiscardsStoredAdvice(t *testing.T) {
	f := newFixture(t)
	svc := newAdviceService(f, newAdvisor(t, &stubTransport{reply: modelReply}), nil)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx)
	require.NoError(t, err)
	f.answerAll(t, sess.ID, 0)

	_, err = svc.Request(ctx, sess.ID)
	require.NoError(t, err)
	svc.Wait()
	require.True(t, f.mr.Exists(redis.AdviceKey(sess.ID)))

	_, err = f.sessions.Reset(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, f.mr.Exists(redis.AdviceKey(sess.ID)))
}
