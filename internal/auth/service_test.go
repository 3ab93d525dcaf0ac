package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"papertrade/internal/models"
	"papertrade/internal/repository"
	"papertrade/internal/session"
)

// userRepo is the slice of the repository auth needs; everything else panics.
type userRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newUserRepo() *userRepo {
	return &userRepo{users: make(map[string]*models.User)}
}

func (r *userRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return errors.New("duplicate key")
	}
	cp := *user
	r.users[user.Username] = &cp
	return nil
}

func (r *userRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) InTx(context.Context, func(tx *gorm.DB) error) error { panic("unused") }
func (r *userRepo) GetPosition(context.Context, string, string) (*models.Position, error) {
	panic("unused")
}
func (r *userRepo) ListPositionsByUser(context.Context, string) ([]models.Position, error) {
	panic("unused")
}
func (r *userRepo) ListUserIDsWithPositions(context.Context) ([]string, error)        { panic("unused") }
func (r *userRepo) SavePositionTx(context.Context, *gorm.DB, *models.Position) error  { panic("unused") }
func (r *userRepo) DeletePositionTx(context.Context, *gorm.DB, string, string) error  { panic("unused") }
func (r *userRepo) InsertTradeTx(context.Context, *gorm.DB, *models.Trade) error      { panic("unused") }
func (r *userRepo) ListTradesByUser(context.Context, string, int) ([]models.Trade, error) {
	panic("unused")
}
func (r *userRepo) InsertPortfolioSnapshot(context.Context, *models.PortfolioSnapshot) error {
	panic("unused")
}
func (r *userRepo) ListPortfolioSnapshots(context.Context, string, repository.ListSnapshotsParams) ([]models.PortfolioSnapshot, error) {
	panic("unused")
}

func newTestService() (*Service, *userRepo) {
	repo := newUserRepo()
	return &Service{
		Repo:       repo,
		Sessions:   session.NewMemoryStore(),
		SessionTTL: time.Hour,
	}, repo
}

func TestSignupAndLogin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	sess, err := svc.Signup(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if sess.Token == "" || sess.UserID == "" {
		t.Fatalf("expected populated session, got %+v", sess)
	}

	stored, _ := repo.GetUserByUsername(ctx, "alice")
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.PasswordHash == "s3cret" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	again, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if again.UserID != sess.UserID {
		t.Fatalf("login resolved a different user: %s vs %s", again.UserID, sess.UserID)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "bob", "pw"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, "bob", "other"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "carol", "right"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Login(ctx, "carol", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	sess, err := svc.Signup(ctx, "dave", "pw")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	resolved, err := svc.Identify(ctx, sess.Token)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if resolved != nil {
		t.Fatal("session survived logout")
	}
}

func TestSignupRejectsEmptyFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "", "pw"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Signup(ctx, "eve", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}
