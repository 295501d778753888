package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebatescout/internal/estimate"
	"rebatescout/internal/model"
	"rebatescout/internal/storage"
	"rebatescout/internal/wizard"
)

// fakeLeadRepo records created leads in memory.
type fakeLeadRepo struct {
	created []*model.Lead
}

func (f *fakeLeadRepo) Create(ctx context.Context, lead *model.Lead) error {
	f.created = append(f.created, lead)
	return nil
}

var contactFixture = model.Contact{
	Name:    "Sam Roy",
	Email:   "sam@example.ca",
	Phone:   "6135550134",
	Consent: true,
}

func answerAndAdvance(t *testing.T, svc *AssessmentService, sessionID string) {
	t.Helper()
	ctx := context.Background()
	values := map[model.FieldKey]string{
		model.FieldPostalCode:      "K1A 0A6",
		model.FieldPropertyType:    "detached",
		model.FieldHeatingSystem:   "oil",
		model.FieldHomeAge:         "heritage",
		model.FieldInsulationLevel: "poor",
	}
	for {
		view, err := svc.View(ctx, sessionID)
		require.NoError(t, err)
		if view.State != wizard.StateAsking {
			return
		}
		_, err = svc.Answer(ctx, sessionID, view.Question.ID, values[view.Question.ID])
		require.NoError(t, err)
		_, advanced, err := svc.Advance(ctx, sessionID)
		require.NoError(t, err)
		require.True(t, advanced)
	}
}

func TestStartNewSession(t *testing.T) {
	svc := NewAssessmentService(storage.NewMemory(), &fakeLeadRepo{}, false)

	view, err := svc.Start(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, wizard.StateAsking, view.State)
	assert.Equal(t, 0, view.Step)
	require.NotNil(t, view.Question)
	assert.Equal(t, model.FieldPostalCode, view.Question.ID)
}

func TestLookupUnknownSession(t *testing.T) {
	svc := NewAssessmentService(storage.NewMemory(), &fakeLeadRepo{}, false)

	_, err := svc.View(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitCapturesLead(t *testing.T) {
	ctx := context.Background()
	repo := &fakeLeadRepo{}
	svc := NewAssessmentService(storage.NewMemory(), repo, false)

	view, err := svc.Start(ctx, "")
	require.NoError(t, err)
	sessionID := view.SessionID

	answerAndAdvance(t, svc, sessionID)

	result, err := svc.Submit(ctx, sessionID, contactFixture, "agent/1.0")
	require.NoError(t, err)

	assert.Equal(t, "Sam Roy", result.Data[model.FieldName])
	assert.Equal(t, "oil", result.Data[model.FieldHeatingSystem])
	assert.Equal(t, estimate.Estimate(result.Data), result.Estimate)
	assert.NotEmpty(t, result.Recommendations)

	require.Len(t, repo.created, 1)
	assert.Equal(t, sessionID, repo.created[0].SessionID)
	assert.Equal(t, result.Estimate, repo.created[0].Estimate)

	// the session is finished: nothing left to look up
	_, err = svc.View(ctx, sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSaveThenResumeAcrossRestart(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	svc := NewAssessmentService(kv, &fakeLeadRepo{}, false)
	view, err := svc.Start(ctx, "")
	require.NoError(t, err)
	sessionID := view.SessionID

	_, err = svc.Answer(ctx, sessionID, model.FieldPostalCode, "K1A 0A6")
	require.NoError(t, err)
	_, advanced, err := svc.Advance(ctx, sessionID)
	require.NoError(t, err)
	require.True(t, advanced)

	fallback, err := svc.Save(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, fallback)

	// a new service over the same KV stands in for a restarted process
	restarted := NewAssessmentService(kv, &fakeLeadRepo{}, false)
	resumed, err := restarted.Start(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, resumed.Step)
	assert.Equal(t, "K1A 0A6", resumed.Answers[model.FieldPostalCode])
}

func TestRetreatReportsExit(t *testing.T) {
	ctx := context.Background()
	svc := NewAssessmentService(storage.NewMemory(), &fakeLeadRepo{}, false)
	view, err := svc.Start(ctx, "")
	require.NoError(t, err)

	_, exited, err := svc.Retreat(ctx, view.SessionID)
	require.NoError(t, err)
	assert.True(t, exited, "retreat at the first question exits to the caller")
}

func TestResetCleansUp(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	svc := NewAssessmentService(kv, &fakeLeadRepo{}, false)

	view, err := svc.Start(ctx, "")
	require.NoError(t, err)
	sessionID := view.SessionID

	_, err = svc.Answer(ctx, sessionID, model.FieldPostalCode, "K1A 0A6")
	require.NoError(t, err)
	_, err = svc.Save(ctx, sessionID)
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx, sessionID))

	keys, err := kv.Keys(ctx, "assessment:"+sessionID)
	require.NoError(t, err)
	assert.Empty(t, keys, "reset leaves no envelope or key behind")

	_, err = svc.View(ctx, sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConcurrentSessionAccess(t *testing.T) {
	ctx := context.Background()
	svc := NewAssessmentService(storage.NewMemory(), &fakeLeadRepo{}, false)

	view, err := svc.Start(ctx, "")
	require.NoError(t, err)
	sessionID := view.SessionID

	// double-clicks and duplicate tabs hit the same session from separate
	// handler goroutines; writes and reads must interleave safely
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Answer(ctx, sessionID, model.FieldPostalCode, "K1A 0A6")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.View(ctx, sessionID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	after, err := svc.View(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "K1A 0A6", after.Answers[model.FieldPostalCode])
}

func TestConcurrentStartSharesOneSession(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	svc := NewAssessmentService(kv, &fakeLeadRepo{}, false)
	view, err := svc.Start(ctx, "")
	require.NoError(t, err)
	sessionID := view.SessionID

	_, err = svc.Answer(ctx, sessionID, model.FieldPostalCode, "K1A 0A6")
	require.NoError(t, err)
	_, advanced, err := svc.Advance(ctx, sessionID)
	require.NoError(t, err)
	require.True(t, advanced)
	_, err = svc.Save(ctx, sessionID)
	require.NoError(t, err)

	// many clients re-present the ID to a restarted process at once; they
	// must all land on one resumed machine
	restarted := NewAssessmentService(kv, &fakeLeadRepo{}, false)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resumed, err := restarted.Start(ctx, sessionID)
			assert.NoError(t, err)
			assert.Equal(t, 1, resumed.Step)
		}()
	}
	wg.Wait()

	_, err = restarted.Answer(ctx, sessionID, model.FieldPropertyType, "detached")
	require.NoError(t, err)
	after, err := restarted.View(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "detached", after.Answers[model.FieldPropertyType])
}

func TestSubmitWithoutConsentRejected(t *testing.T) {
	ctx := context.Background()
	repo := &fakeLeadRepo{}
	svc := NewAssessmentService(storage.NewMemory(), repo, false)

	view, err := svc.Start(ctx, "")
	require.NoError(t, err)
	answerAndAdvance(t, svc, view.SessionID)

	c := contactFixture
	c.Consent = false
	_, err = svc.Submit(ctx, view.SessionID, c, "agent/1.0")
	assert.ErrorIs(t, err, wizard.ErrInvalidContact)
	assert.Empty(t, repo.created)
}
