package model

import "rebatescout/internal/validate"

// QuestionKind defines the input type of a question
type QuestionKind string

const (
	KindFreeText     QuestionKind = "free_text"     // Typed answer, gated by a validation rule
	KindSingleSelect QuestionKind = "single_select" // One option from a fixed list
)

// Option is a selectable answer for single_select questions
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is an immutable descriptor in the assessment catalog.
// Title and help text are i18n keys resolved at render time.
type Question struct {
	ID          FieldKey      `json:"id"`
	Kind        QuestionKind  `json:"kind"`
	TitleKey    string        `json:"titleKey"`
	HelpKey     string        `json:"helpKey,omitempty"`
	Placeholder string        `json:"placeholder,omitempty"`
	Options     []Option      `json:"options,omitempty"`
	Rule        validate.Rule `json:"-"`
}
