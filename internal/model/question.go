package model

import (
	"fmt"
	"strings"
)

// QuestionKind discriminates the three question variants
type QuestionKind string

const (
	KindCategorize    QuestionKind = "categorize"    // Sort items into categories
	KindCloze         QuestionKind = "cloze"         // Fill-in-the-blank text
	KindComprehension QuestionKind = "comprehension" // Passage with sub-questions
)

// BlankToken marks a blank inside a cloze question's text
const BlankToken = "[BLANK]"

// SubQuestion is one prompt under a comprehension question
type SubQuestion struct {
	ID              string `json:"id" bson:"id"`
	Prompt          string `json:"prompt" bson:"prompt"`
	ReferenceAnswer string `json:"referenceAnswer,omitempty" bson:"referenceAnswer,omitempty"`
}

// Question is one entry in a form's ordered question list. The Kind field
// selects which of the per-kind fields are meaningful; ids are supplied by
// the form author and double as the join key respondents answer against.
type Question struct {
	ID          string       `json:"id" bson:"id"`
	Kind        QuestionKind `json:"kind" bson:"kind"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Image       string       `json:"image,omitempty" bson:"image,omitempty"`

	// categorize
	Categories []string `json:"categories,omitempty" bson:"categories,omitempty"`
	Items      []string `json:"items,omitempty" bson:"items,omitempty"`

	// cloze
	Text string `json:"text,omitempty" bson:"text,omitempty"`

	// comprehension
	Passage      string        `json:"passage,omitempty" bson:"passage,omitempty"`
	SubQuestions []SubQuestion `json:"subQuestions,omitempty" bson:"subQuestions,omitempty"`
}

// Validate checks the per-kind shape of the question. Unknown kinds are
// rejected rather than stored as an open-ended field bag.
func (q *Question) Validate() error {
	switch q.Kind {
	case KindCategorize:
		if len(q.Categories) == 0 {
			return fmt.Errorf("categorize question %q has no categories", q.ID)
		}
		if len(q.Items) == 0 {
			return fmt.Errorf("categorize question %q has no items", q.ID)
		}
	case KindCloze:
		if q.Text == "" {
			return fmt.Errorf("cloze question %q has no text", q.ID)
		}
	case KindComprehension:
		if q.Passage == "" {
			return fmt.Errorf("comprehension question %q has no passage", q.ID)
		}
		if len(q.SubQuestions) == 0 {
			return fmt.Errorf("comprehension question %q has no sub-questions", q.ID)
		}
	default:
		return fmt.Errorf("question %q has unknown kind %q", q.ID, q.Kind)
	}
	return nil
}

// BlankCount derives the number of blanks in a cloze question by scanning
// the text for the placeholder token. The count is never stored.
func (q *Question) BlankCount() int {
	return strings.Count(q.Text, BlankToken)
}
