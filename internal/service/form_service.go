package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"formforge/internal/cache"
	"formforge/internal/model"
	"formforge/internal/repository"
)

// FormService handles form CRUD and the per-form response count aggregation
type FormService struct {
	formRepo     repository.FormRepo
	responseRepo repository.ResponseRepo
	counts       cache.ResponseCountCache
}

// NewFormService creates a new form service
func NewFormService(formRepo repository.FormRepo, responseRepo repository.ResponseRepo, counts cache.ResponseCountCache) *FormService {
	return &FormService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
		counts:       counts,
	}
}

// Create validates the question list and persists a new form for ownerID
func (s *FormService) Create(ctx context.Context, ownerID string, form *model.Form) (*model.Form, error) {
	if err := prepareQuestions(form.Questions); err != nil {
		return nil, err
	}

	form.CreatedBy = ownerID
	if _, err := s.formRepo.Create(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

// GetByID returns the full form, questions in stored order. Public: no
// ownership check, respondents render from this.
func (s *FormService) GetByID(ctx context.Context, id string) (*model.Form, error) {
	return s.getForm(ctx, id)
}

func (s *FormService) getForm(ctx context.Context, id string) (*model.Form, error) {
	if !validObjectID(id) {
		return nil, invalid("invalid form id")
	}
	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}
	return form, nil
}

// ListWithCounts returns the owner's forms, each annotated with its response
// count. Counts are fetched concurrently across forms; a form whose count
// cannot be computed is reported with zero rather than failing the listing.
func (s *FormService) ListWithCounts(ctx context.Context, ownerID string) ([]*model.FormWithCount, error) {
	forms, err := s.formRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]*model.FormWithCount, len(forms))
	var wg sync.WaitGroup
	for i, form := range forms {
		out[i] = &model.FormWithCount{Form: *form}

		wg.Add(1)
		go func(fc *model.FormWithCount) {
			defer wg.Done()
			count, err := s.responseCount(ctx, fc.ID)
			if err != nil {
				log.WithError(err).Warnf("skipping response count for form %s", fc.ID)
				return
			}
			fc.ResponseCount = count
		}(out[i])
	}
	wg.Wait()

	return out, nil
}

// Update fully overwrites title, description, questions and header image.
// Only the owner may update; CreatedBy and CreatedAt are immutable.
func (s *FormService) Update(ctx context.Context, formID, requesterID string, fields *model.Form) (*model.Form, error) {
	existing, err := s.getForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if existing.CreatedBy != requesterID {
		return nil, ErrForbidden
	}

	if err := prepareQuestions(fields.Questions); err != nil {
		return nil, err
	}

	existing.Title = fields.Title
	existing.Description = fields.Description
	existing.Questions = fields.Questions
	existing.HeaderImage = fields.HeaderImage

	if err := s.formRepo.Replace(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes the form. Existing responses are left in place: a deleted
// form orphans its responses instead of cascading.
func (s *FormService) Delete(ctx context.Context, formID, requesterID string) error {
	existing, err := s.getForm(ctx, formID)
	if err != nil {
		return err
	}
	if existing.CreatedBy != requesterID {
		return ErrForbidden
	}

	if err := s.formRepo.Delete(ctx, formID); err != nil {
		return err
	}
	if err := s.counts.Invalidate(ctx, formID); err != nil {
		log.WithError(err).Warnf("failed to invalidate count cache for form %s", formID)
	}
	return nil
}

func (s *FormService) responseCount(ctx context.Context, formID string) (int64, error) {
	if count, ok, err := s.counts.Get(ctx, formID); err == nil && ok {
		return count, nil
	}

	count, err := s.responseRepo.CountByFormID(ctx, formID)
	if err != nil {
		return 0, err
	}
	if err := s.counts.Set(ctx, formID, count); err != nil {
		log.WithError(err).Warnf("failed to cache response count for form %s", formID)
	}
	return count, nil
}

// prepareQuestions validates every question variant and backfills missing
// question and sub-question ids. Author-supplied ids are kept untouched,
// they are the join keys answers reference, so they must be unique across
// the whole form: question ids and sub-question ids share one namespace
// because answers resolve against both.
func prepareQuestions(questions []model.Question) error {
	if len(questions) == 0 {
		return invalid("form has no questions")
	}
	seen := make(map[string]struct{})
	claim := func(id string) error {
		if _, ok := seen[id]; ok {
			return invalid("duplicate question id " + id)
		}
		seen[id] = struct{}{}
		return nil
	}
	for i := range questions {
		q := &questions[i]
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if err := claim(q.ID); err != nil {
			return err
		}
		for j := range q.SubQuestions {
			if q.SubQuestions[j].ID == "" {
				q.SubQuestions[j].ID = uuid.NewString()
			}
			if err := claim(q.SubQuestions[j].ID); err != nil {
				return err
			}
		}
		if err := q.Validate(); err != nil {
			return invalid(err.Error())
		}
	}
	return nil
}
