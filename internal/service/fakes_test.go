package service

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"formforge/internal/model"
)

// In-memory repository and cache fakes. Ids are ObjectID hex strings so the
// services' id checks behave like they do against Mongo.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = primitive.NewObjectID().Hex()
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeFormRepo struct {
	mu    sync.Mutex
	forms map[string]*model.Form
}

func newFakeFormRepo() *fakeFormRepo {
	return &fakeFormRepo{forms: make(map[string]*model.Form)}
}

func (r *fakeFormRepo) Create(ctx context.Context, form *model.Form) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	form.ID = primitive.NewObjectID().Hex()
	cp := *form
	r.forms[form.ID] = &cp
	return form.ID, nil
}

func (r *fakeFormRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.forms[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeFormRepo) GetByOwner(ctx context.Context, ownerID string) ([]*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Form
	for _, f := range r.forms {
		if f.CreatedBy == ownerID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeFormRepo) Replace(ctx context.Context, form *model.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[form.ID]; !ok {
		return errors.New("replace: form missing")
	}
	cp := *form
	r.forms[form.ID] = &cp
	return nil
}

func (r *fakeFormRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.forms, id)
	return nil
}

// put stores a form as-is, bypassing id assignment, for malformed-id cases
func (r *fakeFormRepo) put(form *model.Form) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *form
	r.forms[form.ID] = &cp
}

type fakeResponseRepo struct {
	mu        sync.Mutex
	responses map[string]*model.Response
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{responses: make(map[string]*model.Response)}
}

func (r *fakeResponseRepo) Create(ctx context.Context, response *model.Response) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	response.ID = primitive.NewObjectID().Hex()
	cp := *response
	r.responses[response.ID] = &cp
	return response.ID, nil
}

func (r *fakeResponseRepo) GetByID(ctx context.Context, id string) (*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if resp, ok := r.responses[id]; ok {
		cp := *resp
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeResponseRepo) GetByFormID(ctx context.Context, formID string) ([]*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Response
	for _, resp := range r.responses {
		if resp.FormID == formID {
			cp := *resp
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeResponseRepo) CountByFormID(ctx context.Context, formID string) (int64, error) {
	if _, err := primitive.ObjectIDFromHex(formID); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, resp := range r.responses {
		if resp.FormID == formID {
			n++
		}
	}
	return n, nil
}

func (r *fakeResponseRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.responses, id)
	return nil
}

type fakeCountCache struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeCountCache() *fakeCountCache {
	return &fakeCountCache{counts: make(map[string]int64)}
}

func (c *fakeCountCache) Get(ctx context.Context, formID string) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	count, ok := c.counts[formID]
	return count, ok, nil
}

func (c *fakeCountCache) Set(ctx context.Context, formID string, count int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[formID] = count
	return nil
}

func (c *fakeCountCache) Invalidate(ctx context.Context, formID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, formID)
	return nil
}

func (c *fakeCountCache) cached(formID string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	count, ok := c.counts[formID]
	return count, ok
}
