package wizard

import (
	"context"
	"errors"
	"fmt"

	"rebatescout/internal/model"
	"rebatescout/internal/ratelimit"
	"rebatescout/internal/securestore"
	"rebatescout/internal/validate"
)

// State labels the machine's current phase.
type State string

const (
	StateAsking    State = "asking"
	StateContact   State = "contact"
	StateBlocked   State = "blocked"   // terminal: rate limit hit
	StateCompleted State = "completed" // terminal: lead captured
)

var (
	// ErrNotContactStep rejects submission before the contact step.
	ErrNotContactStep = errors.New("not at contact step")

	// ErrInvalidContact rejects incomplete or malformed contact details.
	ErrInvalidContact = errors.New("invalid contact details")

	// ErrRateLimited marks the session blocked for further submissions.
	ErrRateLimited = errors.New("submission rate limit exceeded")
)

// Machine sequences the assessment: questions 0..n-1, then the contact
// step at index n. Advancement is gated on the current question's rule;
// save/resume goes through the secure store; the contact submission is
// gated by the rate limiter. One machine serves one session; it is not
// safe for concurrent use, the owner must serialize access.
type Machine struct {
	questions []model.Question
	answers   model.AnswerSet
	step      int
	blocked   bool
	completed bool
	store     *securestore.Store
	limiter   *ratelimit.Limiter
}

// New creates a fresh machine at the first question.
func New(store *securestore.Store, limiter *ratelimit.Limiter) *Machine {
	return &Machine{
		questions: Catalog(),
		answers:   model.NewAnswerSet(),
		store:     store,
		limiter:   limiter,
	}
}

// Resume creates a machine, restoring step and answers from a valid
// persisted envelope when one exists; resumed reports whether it did.
// The restored step is clamped into range and unknown answer keys are
// dropped.
func Resume(ctx context.Context, store *securestore.Store, limiter *ratelimit.Limiter) (m *Machine, resumed bool, err error) {
	m = New(store, limiter)
	env, err := store.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	if env == nil {
		return m, false, nil
	}
	for key, value := range env.Data {
		m.answers.Set(key, value)
	}
	step := env.Step
	if step < 0 {
		step = 0
	}
	if step > len(m.questions) {
		step = len(m.questions)
	}
	m.step = step
	return m, true, nil
}

// Questions returns the catalog the machine runs.
func (m *Machine) Questions() []model.Question {
	return m.questions
}

// Step returns the cursor: question index, or len(questions) at contact.
func (m *Machine) Step() int {
	return m.step
}

// TotalSteps counts the questions plus the contact step.
func (m *Machine) TotalSteps() int {
	return len(m.questions) + 1
}

// Progress is percent complete for display.
func (m *Machine) Progress() float64 {
	return float64(m.step+1) / float64(m.TotalSteps()) * 100
}

// State reports the machine's phase.
func (m *Machine) State() State {
	switch {
	case m.blocked:
		return StateBlocked
	case m.completed:
		return StateCompleted
	case m.step >= len(m.questions):
		return StateContact
	default:
		return StateAsking
	}
}

// CurrentQuestion returns the question under the cursor, nil at the
// contact step.
func (m *Machine) CurrentQuestion() *model.Question {
	if m.step >= len(m.questions) {
		return nil
	}
	q := m.questions[m.step]
	return &q
}

// Answers returns a copy of the collected answers.
func (m *Machine) Answers() model.AnswerSet {
	return m.answers.Clone()
}

// Answer sanitizes and stores a value. It never changes the cursor.
func (m *Machine) Answer(key model.FieldKey, raw string) error {
	return m.answers.Set(key, validate.Sanitize(raw))
}

// CanAdvance reports whether the current question's answer passes its
// rule. Always false at the contact step and in terminal states.
func (m *Machine) CanAdvance() bool {
	if m.blocked || m.completed {
		return false
	}
	q := m.CurrentQuestion()
	if q == nil {
		return false
	}
	return validate.Check(q.Rule, m.answers[q.ID])
}

// Advance moves to the next question, or from the last question to the
// contact step. Calling it while the current answer is invalid is a
// no-op, reported as false.
func (m *Machine) Advance() bool {
	if !m.CanAdvance() {
		return false
	}
	m.step++
	return true
}

// Retreat moves one step back. At the first question it reports
// exited=true and leaves the cursor alone; leaving the wizard entirely is
// the caller's decision.
func (m *Machine) Retreat() (exited bool) {
	if m.step == 0 {
		return true
	}
	m.step--
	return false
}

// Save persists the current answers and cursor through the secure store.
// fallback reports that the envelope was written unencrypted because
// encryption failed; the session continues either way.
func (m *Machine) Save(ctx context.Context) (fallback bool, err error) {
	return m.store.Save(ctx, m.answers.Clone(), m.step)
}

// SubmitContact finishes the assessment. Only valid from the contact
// step, with validated contact fields, under the rate limit. On success
// the contact data is merged in, the persisted envelope is cleared and
// the completed set is returned. A rate-limit rejection blocks the
// session permanently.
func (m *Machine) SubmitContact(ctx context.Context, c model.Contact) (model.AnswerSet, error) {
	if m.blocked {
		return nil, ErrRateLimited
	}
	if m.completed || m.step < len(m.questions) {
		return nil, ErrNotContactStep
	}

	c.Name = validate.Sanitize(c.Name)
	c.Email = validate.Sanitize(c.Email)
	c.Phone = validate.Sanitize(c.Phone)
	if err := validateContact(c); err != nil {
		return nil, err
	}

	if !m.limiter.Check(ctx) {
		m.blocked = true
		return nil, ErrRateLimited
	}

	m.answers.MergeContact(c)
	m.completed = true
	// Terminal success: the saved draft must not outlive the submission.
	// A failed delete is not worth failing the conversion over.
	m.store.Clear(ctx)
	return m.answers.Clone(), nil
}

func validateContact(c model.Contact) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidContact)
	}
	if !validate.Email(c.Email) {
		return fmt.Errorf("%w: bad email", ErrInvalidContact)
	}
	if !validate.CanadianPhone(c.Phone) {
		return fmt.Errorf("%w: bad phone", ErrInvalidContact)
	}
	if !c.Consent {
		return fmt.Errorf("%w: consent required", ErrInvalidContact)
	}
	return nil
}
