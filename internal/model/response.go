package model

import (
	"encoding/json"
	"errors"
	"time"
)

// AnswerValue is the variant payload of one answer. Exactly one field is set,
// selected by the owning answer's QuestionKind:
//
//	categorize    -> Pairs  (item label -> chosen category label)
//	cloze         -> Blanks (0-based blank index, as a string key -> filled text)
//	comprehension -> Text   (free text for one sub-question)
//
// On the wire the value is the bare payload (a JSON object or string), so a
// respondent gets back exactly what they submitted, keyed identically.
type AnswerValue struct {
	Pairs  map[string]string `bson:"pairs,omitempty"`
	Blanks map[string]string `bson:"blanks,omitempty"`
	Text   string            `bson:"text,omitempty"`

	hasText bool
}

// Answer is the portion of a response covering one question, or one
// comprehension sub-question (each stored as its own answer keyed by the
// sub-question id).
type Answer struct {
	QuestionID   string       `json:"questionId" bson:"questionId"`
	QuestionKind QuestionKind `json:"questionKind" bson:"questionKind"`
	Value        AnswerValue  `json:"value" bson:"value"`
}

// Response is one respondent's submission against a form. Immutable once
// stored; partial submissions are accepted.
type Response struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	FormID          string    `json:"formId" bson:"formId"`
	RespondentEmail string    `json:"respondentEmail,omitempty" bson:"respondentEmail,omitempty"`
	Answers         []Answer  `json:"answers" bson:"answers"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}

// ResponseWithForm joins a response with its parent form's display fields
type ResponseWithForm struct {
	Response
	Form *FormSummary `json:"form,omitempty"`
}

// CategorizeValue builds a categorize payload
func CategorizeValue(pairs map[string]string) AnswerValue {
	return AnswerValue{Pairs: pairs}
}

// ClozeValue builds a cloze payload
func ClozeValue(blanks map[string]string) AnswerValue {
	return AnswerValue{Blanks: blanks}
}

// TextValue builds a comprehension payload
func TextValue(text string) AnswerValue {
	return AnswerValue{Text: text, hasText: true}
}

// Normalize checks the payload against the declared kind and keeps only the
// matching variant field. The mapping variants (categorize, cloze) arrive as
// the same JSON shape, so the declared kind decides which one the decoded map
// belongs to.
func (v *AnswerValue) Normalize(kind QuestionKind) error {
	switch kind {
	case KindCategorize:
		if len(v.Pairs) == 0 {
			return errors.New("categorize answer must be a non-empty object of item to category")
		}
		v.Blanks, v.Text, v.hasText = nil, "", false
	case KindCloze:
		if len(v.Pairs) == 0 {
			return errors.New("cloze answer must be a non-empty object of blank index to text")
		}
		v.Blanks = v.Pairs
		v.Pairs, v.Text, v.hasText = nil, "", false
	case KindComprehension:
		if !v.hasText {
			return errors.New("comprehension answer must be a string")
		}
		v.Pairs, v.Blanks = nil, nil
	default:
		return errors.New("unknown question kind " + string(kind))
	}
	return nil
}

// MarshalJSON emits the bare variant payload
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.Pairs != nil:
		return json.Marshal(v.Pairs)
	case v.Blanks != nil:
		return json.Marshal(v.Blanks)
	default:
		return json.Marshal(v.Text)
	}
}

// UnmarshalJSON accepts either a string->string object or a plain string.
// Objects land in Pairs until Normalize moves them by kind.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	*v = AnswerValue{}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err == nil {
		v.Pairs = m
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Text = s
		v.hasText = true
		return nil
	}
	return errors.New("answer value must be an object of strings or a string")
}
