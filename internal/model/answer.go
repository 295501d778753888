package model

import "fmt"

// FieldKey is a known key in an AnswerSet. Answers and contact fields share
// one namespace so the completed submission is a single flat record.
type FieldKey string

const (
	FieldPostalCode      FieldKey = "postalCode"
	FieldPropertyType    FieldKey = "propertyType"
	FieldHeatingSystem   FieldKey = "heatingSystem"
	FieldHomeAge         FieldKey = "homeAge"
	FieldInsulationLevel FieldKey = "insulationLevel"
	FieldName            FieldKey = "name"
	FieldEmail           FieldKey = "email"
	FieldPhone           FieldKey = "phone"
	FieldConsent         FieldKey = "consent"
)

// AllFields lists every key an AnswerSet carries, assessment answers first.
var AllFields = []FieldKey{
	FieldPostalCode,
	FieldPropertyType,
	FieldHeatingSystem,
	FieldHomeAge,
	FieldInsulationLevel,
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldConsent,
}

// AnswerSet maps field keys to raw string values. Every key is present from
// construction so lookups never miss; consent is stored as "true"/"false".
type AnswerSet map[FieldKey]string

// NewAnswerSet returns an AnswerSet with every known key initialized.
func NewAnswerSet() AnswerSet {
	set := make(AnswerSet, len(AllFields))
	for _, f := range AllFields {
		set[f] = ""
	}
	set[FieldConsent] = "false"
	return set
}

// Set stores value under key, rejecting keys outside the fixed schema.
func (a AnswerSet) Set(key FieldKey, value string) error {
	if _, ok := a[key]; !ok {
		return fmt.Errorf("unknown field %q", key)
	}
	a[key] = value
	return nil
}

// Clone returns an independent copy.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Contact holds the lead-capture fields gathered at the final step.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Consent bool   `json:"consent"`
}

// MergeContact writes the contact fields into the set.
func (a AnswerSet) MergeContact(c Contact) {
	a[FieldName] = c.Name
	a[FieldEmail] = c.Email
	a[FieldPhone] = c.Phone
	if c.Consent {
		a[FieldConsent] = "true"
	} else {
		a[FieldConsent] = "false"
	}
}
