package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"formforge/internal/model"
)

func newAuthService() *AuthService {
	return NewAuthService(newFakeUserRepo(), []byte("test-secret"))
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Ada Lovelace", "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Token == "" || reg.ID == "" {
		t.Fatalf("register returned incomplete response: %+v", reg)
	}
	if reg.FullName != "Ada Lovelace" || reg.Email != "ada@example.com" {
		t.Errorf("register lost profile fields: %+v", reg)
	}

	login, err := svc.Login(ctx, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login after register: %v", err)
	}
	if login.ID != reg.ID {
		t.Errorf("login resolved id %s, registered as %s", login.ID, reg.ID)
	}

	claims, err := svc.ValidateToken(login.Token)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if claims.UserID != reg.ID {
		t.Errorf("token carries user %s, want %s", claims.UserID, reg.ID)
	}
}

func TestRegisterEmailCaseInsensitive(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ada", "Ada@Example.COM", "hunter22"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	if _, err := svc.Register(ctx, "Imposter", "ada@example.com", "different"); err != ErrEmailTaken {
		t.Errorf("second register with case-folded duplicate: got %v, want ErrEmailTaken", err)
	}

	// Login works with any casing of the same address
	if _, err := svc.Login(ctx, "ADA@example.com", "hunter22"); err != nil {
		t.Errorf("login with differently-cased email: %v", err)
	}
}

// raceUserRepo simulates losing a concurrent-registration race: the email
// lookup misses, then the insert hits the unique index.
type raceUserRepo struct {
	*fakeUserRepo
}

func (r *raceUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (r *raceUserRepo) Create(ctx context.Context, user *model.User) (string, error) {
	return "", mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
}

func TestRegisterLostRaceStillConflicts(t *testing.T) {
	svc := NewAuthService(&raceUserRepo{newFakeUserRepo()}, []byte("test-secret"))

	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22"); err != ErrEmailTaken {
		t.Errorf("duplicate-key insert: got %v, want ErrEmailTaken", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); err != ErrInvalidCredentials {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "ada@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService()

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.ValidateToken(token); err != ErrInvalidToken {
			t.Errorf("ValidateToken(%q): got %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	issuer := newAuthService()
	other := NewAuthService(newFakeUserRepo(), []byte("different-secret"))

	reg, err := issuer.Register(context.Background(), "Ada", "ada@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := other.ValidateToken(reg.Token); err != ErrInvalidToken {
		t.Errorf("token signed with another secret: got %v, want ErrInvalidToken", err)
	}
}

func TestMe(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	profile, err := svc.Me(ctx, reg.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if profile.FullName != "Ada" || profile.Email != "ada@example.com" {
		t.Errorf("profile = %+v", profile)
	}

	if _, err := svc.Me(ctx, "000000000000000000000000"); err != ErrNotFound {
		t.Errorf("me for unknown id: got %v, want ErrNotFound", err)
	}
}
