package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"rebatescout/internal/consent"
	"rebatescout/internal/estimate"
	"rebatescout/internal/model"
	"rebatescout/internal/ratelimit"
	"rebatescout/internal/repository"
	"rebatescout/internal/securestore"
	"rebatescout/internal/storage"
	"rebatescout/internal/wizard"
)

// ErrSessionNotFound means no live machine and no persisted envelope could
// be found for the session ID.
var ErrSessionNotFound = errors.New("assessment session not found")

// namespacePrefix scopes one session's keys in the shared KV.
const namespacePrefix = "assessment:"

// consentType recorded when a lead opts in to communications.
const consentType = "marketing_communications"

// StateView is the machine snapshot handed to the transport layer.
type StateView struct {
	SessionID  string
	State      wizard.State
	Step       int
	TotalSteps int
	Progress   float64
	Question   *model.Question
	Answers    model.AnswerSet
}

// SubmissionResult is the payload of a completed assessment.
type SubmissionResult struct {
	Data            model.AnswerSet
	Estimate        model.RebateEstimate
	Recommendations []model.Recommendation
}

// AssessmentService owns the wizard sessions. Machines live in memory and
// are rebuilt from their persisted envelopes on demand, so a session ID
// survives a process restart as long as its envelope does. mu guards the
// registry; each session carries its own lock for the machine inside.
type AssessmentService struct {
	kv       storage.KV
	leadRepo repository.LeadRepo
	debug    bool

	mu       sync.Mutex
	sessions map[string]*session
}

// session serializes all access to its machine: handler goroutines share
// sessions, and the machine's answer map is not safe for concurrent use.
type session struct {
	mu       sync.Mutex
	machine  *wizard.Machine
	store    *securestore.Store
	consents *consent.Log
}

// NewAssessmentService creates the service. debug enables storage
// diagnostics in the secure stores it builds.
func NewAssessmentService(kv storage.KV, leadRepo repository.LeadRepo, debug bool) *AssessmentService {
	return &AssessmentService{
		kv:       kv,
		leadRepo: leadRepo,
		debug:    debug,
		sessions: make(map[string]*session),
	}
}

// Start begins a session. With an empty ID a new session is created; with
// a known ID the saved envelope (if any) is resumed.
func (s *AssessmentService) Start(ctx context.Context, sessionID string) (*StateView, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		var err error
		sess, _, err = s.materialize(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sessionID, sess), nil
}

// View returns the current machine state.
func (s *AssessmentService) View(ctx context.Context, sessionID string) (*StateView, error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sessionID, sess), nil
}

// Answer sanitizes and stores one value without moving the cursor.
func (s *AssessmentService) Answer(ctx context.Context, sessionID string, key model.FieldKey, raw string) (*StateView, error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.machine.Answer(key, raw); err != nil {
		return nil, err
	}
	return s.view(sessionID, sess), nil
}

// Advance attempts the gated forward transition. advanced=false means the
// current answer failed its rule and nothing moved.
func (s *AssessmentService) Advance(ctx context.Context, sessionID string) (view *StateView, advanced bool, err error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	advanced = sess.machine.Advance()
	return s.view(sessionID, sess), advanced, nil
}

// Retreat steps back; exited=true signals the caller should leave the
// wizard (cursor already at the first question).
func (s *AssessmentService) Retreat(ctx context.Context, sessionID string) (view *StateView, exited bool, err error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	exited = sess.machine.Retreat()
	return s.view(sessionID, sess), exited, nil
}

// Save persists the session draft. fallback reports the unencrypted-write
// path was taken.
func (s *AssessmentService) Save(ctx context.Context, sessionID string) (fallback bool, err error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.machine.Save(ctx)
}

// Submit finishes the assessment: validates contact data, consumes a rate
// slot, merges the answers, records consent, captures the lead and
// computes the estimate. Rate-limit rejections surface as
// wizard.ErrRateLimited and leave the session blocked.
func (s *AssessmentService) Submit(ctx context.Context, sessionID string, contact model.Contact, userAgent string) (*SubmissionResult, error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	data, err := sess.machine.SubmitContact(ctx, contact)
	if err != nil {
		return nil, err
	}

	if contact.Consent {
		sess.consents.Track(ctx, consentType, userAgent)
	}

	est := estimate.Estimate(data)
	lead := &model.Lead{
		SessionID:   sessionID,
		Data:        data,
		Estimate:    est,
		SubmittedAt: time.Now(),
	}
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		// The visitor still gets their results; losing the lead record is
		// an operational problem, not a user-facing one.
		log.Printf("assessment: failed to store lead for session %s: %v", sessionID, err)
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	return &SubmissionResult{
		Data:            data,
		Estimate:        est,
		Recommendations: estimate.Recommendations(data),
	}, nil
}

// Reset discards the session: envelope, encryption key and expired
// records are cleaned up and the live machine is dropped.
func (s *AssessmentService) Reset(ctx context.Context, sessionID string) error {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.store.Cleanup(ctx)
}

// lookup returns the live session. A session that is no longer in memory
// is rebuilt from its persisted envelope; without one there is nothing to
// act on and the ID is reported unknown.
func (s *AssessmentService) lookup(ctx context.Context, sessionID string) (*session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	sess, resumed, err := s.materialize(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !resumed {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *AssessmentService) materialize(ctx context.Context, sessionID string) (*session, bool, error) {
	nkv := storage.Namespaced(s.kv, namespacePrefix+sessionID)
	store := securestore.New(nkv, s.debug)
	machine, resumed, err := wizard.Resume(ctx, store, ratelimit.New(nkv))
	if err != nil {
		return nil, false, fmt.Errorf("resume session: %w", err)
	}
	sess := &session{
		machine:  machine,
		store:    store,
		consents: consent.NewLog(nkv),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent call may have registered this session while we were
	// resuming; the registered machine wins so both callers share it.
	if existing, ok := s.sessions[sessionID]; ok {
		return existing, true, nil
	}
	s.sessions[sessionID] = sess
	return sess, resumed, nil
}

func (s *AssessmentService) view(sessionID string, sess *session) *StateView {
	m := sess.machine
	return &StateView{
		SessionID:  sessionID,
		State:      m.State(),
		Step:       m.Step(),
		TotalSteps: m.TotalSteps(),
		Progress:   m.Progress(),
		Question:   m.CurrentQuestion(),
		Answers:    m.Answers(),
	}
}
