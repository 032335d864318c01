package model

import "time"

// Form is a questionnaire owned by one user. It is created atomically with
// its full question list and fully replaced on edit; CreatedBy never changes
// after creation.
type Form struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	HeaderImage string     `json:"headerImage,omitempty" bson:"headerImage,omitempty"`
	Questions   []Question `json:"questions" bson:"questions"`
	CreatedBy   string     `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// FormSummary carries the display fields a response is rendered against
type FormSummary struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	HeaderImage string     `json:"headerImage,omitempty" bson:"headerImage,omitempty"`
	Questions   []Question `json:"questions" bson:"questions"`
}

// FormWithCount annotates a form with its submission count for listings
type FormWithCount struct {
	Form
	ResponseCount int64 `json:"responseCount"`
}

// Summary projects the form's display fields
func (f *Form) Summary() *FormSummary {
	return &FormSummary{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		HeaderImage: f.HeaderImage,
		Questions:   f.Questions,
	}
}

// Question returns the question with the given id, or nil
func (f *Form) Question(id string) *Question {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i]
		}
	}
	return nil
}

// ResolveAnswerTarget locates what an answer's questionId points at: either a
// top-level question or a comprehension sub-question. The second return is
// the sub-question when the id matched one.
func (f *Form) ResolveAnswerTarget(id string) (*Question, *SubQuestion) {
	for i := range f.Questions {
		q := &f.Questions[i]
		if q.ID == id {
			return q, nil
		}
		if q.Kind == KindComprehension {
			for j := range q.SubQuestions {
				if q.SubQuestions[j].ID == id {
					return q, &q.SubQuestions[j]
				}
			}
		}
	}
	return nil, nil
}
