package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vmarinov/fitness-diary/internal/domain"
	"vmarinov/fitness-diary/internal/repository"
)

type fakeUserRepo struct {
	users map[string]domain.User // keyed by email
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if _, exists := f.users[user.Email]; exists {
		return primitive.NilObjectID, repository.ErrDuplicateEmail
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	f.users[user.Email] = *user
	return user.ID, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

const testSecret = "test-secret"

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	user, err := svc.Register(context.Background(), "ana@example.com", "s3cretpass", "Ana")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.ID.IsZero())
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash, "the hash must never leave the service")

	stored := repo.users["ana@example.com"]
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "s3cretpass", stored.PasswordHash, "the password must be stored hashed")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	_, err := svc.Register(context.Background(), "ana@example.com", "s3cretpass", "Ana")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "ana@example.com", "otherpass", "Imposter")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterRejectsEmptyFields(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testSecret, time.Hour)

	for _, args := range [][3]string{
		{"", "password", "Ana"},
		{"ana@example.com", "", "Ana"},
		{"ana@example.com", "password", ""},
	} {
		_, err := svc.Register(context.Background(), args[0], args[1], args[2])
		assert.Error(t, err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	registered, err := svc.Register(context.Background(), "ana@example.com", "s3cretpass", "Ana")
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "ana@example.com", "s3cretpass")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
	require.NotEmpty(t, token)

	// The issued token must round-trip with the same secret and carry the
	// user's ID the way the auth middleware expects it.
	claims := struct {
		UserID string      `json:"uid"`
		Role   domain.Role `json:"role"`
		jwt.RegisteredClaims
	}{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, registered.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, "fitness-diary", claims.Issuer)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	_, err := svc.Register(context.Background(), "ana@example.com", "s3cretpass", "Ana")
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testSecret, time.Hour)

	// Unknown accounts and wrong passwords are indistinguishable to callers.
	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	assert.Panics(t, func() {
		NewAuthService(newFakeUserRepo(), "", time.Hour)
	})
}
