package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"rubberops-backend/internal/config"
	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/repository"
)

func testAuthConfig() config.Config {
	return config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func TestLoginIssuesRoleClaim(t *testing.T) {
	users := new(MockUserStore)
	svc := AuthService{Config: testAuthConfig(), Users: users}

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashStr := string(hash)
	users.On("GetByEmail", mock.Anything, "acc@rubberops.example").Return(&domain.User{
		ID:           11,
		Name:         "A. Accountant",
		Email:        "acc@rubberops.example",
		Role:         domain.RoleAccountant,
		PasswordHash: &hashStr,
	}, nil)

	res, err := svc.Login(context.Background(), LoginInput{Email: "acc@rubberops.example", Password: "s3cret"})
	require.NoError(t, err)

	token, err := jwt.Parse(res.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "11", claims["sub"])
	assert.Equal(t, "accountant", claims["role"])
	assert.Equal(t, "access", claims["token_type"])
	assert.NotEmpty(t, claims["jti"])
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(MockUserStore)
	svc := AuthService{Config: testAuthConfig(), Users: users}

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	hashStr := string(hash)
	users.On("GetByEmail", mock.Anything, "u@x.example").Return(&domain.User{ID: 1, PasswordHash: &hashStr}, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: "u@x.example", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	users := new(MockUserStore)
	svc := AuthService{Config: testAuthConfig(), Users: users}

	users.On("GetByEmail", mock.Anything, "nobody@x.example").Return(nil, repository.ErrNotFound)

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@x.example", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDefaultsToCustomer(t *testing.T) {
	users := new(MockUserStore)
	svc := AuthService{Config: testAuthConfig(), Users: users}

	users.On("Create", mock.Anything, mock.MatchedBy(func(p repository.CreateUserParams) bool {
		return p.Role == domain.RoleCustomer && p.PasswordHash != nil
	})).Return(&domain.User{ID: 21, Email: "c@x.example", Role: domain.RoleCustomer}, nil)

	res, err := svc.Register(context.Background(), RegisterInput{
		Name:     "C",
		Email:    "c@x.example",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, res.User.Role)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := AuthService{Config: testAuthConfig()}

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "x@x.example",
		Password: "pw",
		Role:     domain.UserRole("superuser"),
	})
	assert.Error(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	users := new(MockUserStore)
	svc := AuthService{Config: testAuthConfig(), Users: users}

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	hashStr := string(hash)
	users.On("GetByEmail", mock.Anything, "u@x.example").Return(&domain.User{ID: 1, PasswordHash: &hashStr}, nil)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1}, nil)

	res, err := svc.Login(context.Background(), LoginInput{Email: "u@x.example", Password: "pw"})
	require.NoError(t, err)

	// Access tokens must not be usable as refresh tokens.
	_, err = svc.Refresh(context.Background(), RefreshInput{RefreshToken: res.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Refresh(context.Background(), RefreshInput{RefreshToken: res.RefreshToken})
	assert.NoError(t, err)
}
