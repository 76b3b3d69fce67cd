package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arjun2k01/esports-cart/internal/domain"
	tokenrepo "github.com/arjun2k01/esports-cart/internal/repository/token"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	created   *domain.User
	createErr error
	byEmail   *domain.User
	byEmailErr error
	byID      *domain.User
	lastUser  domain.User
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	s.lastUser = u
	return s.created, s.createErr
}

func (s *stubUserRepo) GetByID(_ context.Context, _ string) (*domain.User, error) {
	return s.byID, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return s.byEmail, s.byEmailErr
}

func (s *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	return nil, nil
}

type memTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]tokenrepo.Token)}
}

func (m *memTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := m.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	m.tokens[t.Token] = t
	return nil
}

func (m *memTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := m.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (m *memTokenRepo) Delete(_ context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func TestSignup_Validation(t *testing.T) {
	svc := New(&stubUserRepo{}, newMemTokenRepo())
	cases := []SignupInput{
		{Email: "a@b.com", Password: "longenough"},
		{Name: "A", Password: "longenough"},
		{Name: "A", Email: "not-an-email", Password: "longenough"},
		{Name: "A", Email: "a@b.com", Password: "short"},
	}
	for i, in := range cases {
		if _, err := svc.Signup(context.Background(), in); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestSignup_HashesAndNormalizes(t *testing.T) {
	repo := &stubUserRepo{created: &domain.User{ID: "u1"}}
	svc := New(repo, newMemTokenRepo())
	_, err := svc.Signup(context.Background(), SignupInput{
		Name: " Player One ", Email: " Player@Example.COM ", Password: "sup3rsecret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastUser.Email != "player@example.com" {
		t.Fatalf("email not normalized: %q", repo.lastUser.Email)
	}
	if repo.lastUser.PasswordHash == "sup3rsecret" || repo.lastUser.PasswordHash == "" {
		t.Fatalf("password not hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.lastUser.PasswordHash), []byte("sup3rsecret")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &stubUserRepo{byEmailErr: domain.ErrNotFound}
	svc := New(repo, newMemTokenRepo())
	_, _, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("rightpass"), bcrypt.MinCost)
	repo := &stubUserRepo{byEmail: &domain.User{ID: "u1", PasswordHash: string(hash)}}
	svc := New(repo, newMemTokenRepo())
	_, _, _, err := svc.Login(context.Background(), "a@b.com", "wrongpass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_IssuesTokensAndLookupResolves(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("rightpass"), bcrypt.MinCost)
	u := &domain.User{ID: "u1", Email: "a@b.com", PasswordHash: string(hash)}
	repo := &stubUserRepo{byEmail: u, byID: u}
	tokens := newMemTokenRepo()
	svc := New(repo, tokens)

	got, access, refresh, err := svc.Login(context.Background(), "a@b.com", "rightpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != u || access == "" || refresh == "" || access == refresh {
		t.Fatalf("unexpected login result")
	}

	resolved, err := svc.LookupByToken(context.Background(), access)
	if err != nil || resolved != u {
		t.Fatalf("lookup failed: %v", err)
	}
	// A refresh token must not authenticate requests.
	if _, err := svc.LookupByToken(context.Background(), refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token must not resolve, got %v", err)
	}
}

func TestLookupByToken_Expired(t *testing.T) {
	tokens := newMemTokenRepo()
	tokens.tokens["stale"] = tokenrepo.Token{
		Token:     "stale",
		UserID:    "u1",
		Kind:      "access",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	svc := New(&stubUserRepo{}, tokens)
	if _, err := svc.LookupByToken(context.Background(), "stale"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, ok := tokens.tokens["stale"]; ok {
		t.Fatalf("expired token should be deleted")
	}
}
