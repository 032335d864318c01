package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"formforge/internal/cache"
	"formforge/internal/model"
	"formforge/internal/repository"
)

// Broadcaster pushes events to connected owner dashboards
type Broadcaster interface {
	BroadcastToOwner(formID string, msgType string, payload interface{})
}

// ResponseEvent is the payload broadcast when a response arrives
type ResponseEvent struct {
	ResponseID      string `json:"responseId"`
	FormID          string `json:"formId"`
	RespondentEmail string `json:"respondentEmail,omitempty"`
	SubmittedAt     string `json:"submittedAt"`
}

// ResponseService handles response intake and owner-scoped reads
type ResponseService struct {
	responseRepo repository.ResponseRepo
	formRepo     repository.FormRepo
	counts       cache.ResponseCountCache
	broadcaster  Broadcaster
}

// NewResponseService creates a new response service
func NewResponseService(responseRepo repository.ResponseRepo, formRepo repository.FormRepo, counts cache.ResponseCountCache) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
		formRepo:     formRepo,
		counts:       counts,
	}
}

// SetBroadcaster injects the live feed hub
func (s *ResponseService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Submit stores a new immutable response. Public, no ownership check. Every
// answer must resolve against the target form and match its question's kind;
// partial submissions (not every question answered) are accepted.
func (s *ResponseService) Submit(ctx context.Context, formID, respondentEmail string, answers []model.Answer) (*model.Response, error) {
	if !validObjectID(formID) {
		return nil, invalid("invalid form id")
	}
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}

	for i := range answers {
		if err := validateAnswer(form, &answers[i]); err != nil {
			return nil, err
		}
	}

	response := &model.Response{
		FormID:          formID,
		RespondentEmail: respondentEmail,
		Answers:         answers,
	}
	if _, err := s.responseRepo.Create(ctx, response); err != nil {
		return nil, err
	}

	if err := s.counts.Invalidate(ctx, formID); err != nil {
		log.WithError(err).Warnf("failed to invalidate count cache for form %s", formID)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOwner(formID, "response_received", &ResponseEvent{
			ResponseID:      response.ID,
			FormID:          formID,
			RespondentEmail: respondentEmail,
			SubmittedAt:     response.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return response, nil
}

// GetByID returns the response joined with its parent form's display fields.
// The requester must own the parent form. A response whose form was deleted
// is still returned, with no form attached.
func (s *ResponseService) GetByID(ctx context.Context, responseID, requesterID string) (*model.ResponseWithForm, error) {
	response, form, err := s.getOwned(ctx, responseID, requesterID)
	if err != nil {
		return nil, err
	}

	joined := &model.ResponseWithForm{Response: *response}
	if form != nil {
		joined.Form = form.Summary()
	}
	return joined, nil
}

// ListByFormID returns all responses for a form the requester owns, each
// joined with the form's display fields. Zero responses is an empty list.
func (s *ResponseService) ListByFormID(ctx context.Context, formID, requesterID string) ([]*model.ResponseWithForm, error) {
	if !validObjectID(formID) {
		return nil, invalid("invalid form id")
	}
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}
	if form.CreatedBy != requesterID {
		return nil, ErrForbidden
	}

	responses, err := s.responseRepo.GetByFormID(ctx, formID)
	if err != nil {
		return nil, err
	}

	summary := form.Summary()
	out := make([]*model.ResponseWithForm, 0, len(responses))
	for _, r := range responses {
		out = append(out, &model.ResponseWithForm{Response: *r, Form: summary})
	}
	return out, nil
}

// Delete removes a whole response; there is no partial-answer removal
func (s *ResponseService) Delete(ctx context.Context, responseID, requesterID string) error {
	response, _, err := s.getOwned(ctx, responseID, requesterID)
	if err != nil {
		return err
	}

	if err := s.responseRepo.Delete(ctx, responseID); err != nil {
		return err
	}
	if err := s.counts.Invalidate(ctx, response.FormID); err != nil {
		log.WithError(err).Warnf("failed to invalidate count cache for form %s", response.FormID)
	}
	return nil
}

// getOwned loads a response and enforces that the requester owns its parent
// form. When the form no longer exists (orphaned response), the record's
// owner is unknowable, so the read is allowed for any authenticated user.
func (s *ResponseService) getOwned(ctx context.Context, responseID, requesterID string) (*model.Response, *model.Form, error) {
	if !validObjectID(responseID) {
		return nil, nil, invalid("invalid response id")
	}
	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, nil, err
	}
	if response == nil {
		return nil, nil, ErrNotFound
	}

	form, err := s.formRepo.GetByID(ctx, response.FormID)
	if err != nil {
		return nil, nil, err
	}
	if form != nil && form.CreatedBy != requesterID {
		return nil, nil, ErrForbidden
	}
	return response, form, nil
}

// validateAnswer checks that the answer references a question (or
// comprehension sub-question) in the form and that its payload shape matches
// the question's kind.
func validateAnswer(form *model.Form, answer *model.Answer) error {
	question, sub := form.ResolveAnswerTarget(answer.QuestionID)
	if question == nil {
		return invalid(fmt.Sprintf("answer references unknown question %q", answer.QuestionID))
	}

	kind := question.Kind
	if question.Kind == model.KindComprehension && sub == nil {
		// Comprehension answers are stored per sub-question; an answer keyed
		// by the parent question id has nothing to join against.
		return invalid(fmt.Sprintf("comprehension question %q must be answered by sub-question id", answer.QuestionID))
	}
	if answer.QuestionKind != "" && answer.QuestionKind != kind {
		return invalid(fmt.Sprintf("answer for question %q declares kind %q, form says %q", answer.QuestionID, answer.QuestionKind, kind))
	}
	answer.QuestionKind = kind

	if err := answer.Value.Normalize(kind); err != nil {
		return invalid(fmt.Sprintf("answer for question %q: %s", answer.QuestionID, err))
	}

	if kind == model.KindCloze {
		blanks := question.BlankCount()
		for key := range answer.Value.Blanks {
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= blanks {
				return invalid(fmt.Sprintf("answer for question %q fills blank %q, text has %d blanks", answer.QuestionID, key, blanks))
			}
		}
	}
	return nil
}
