package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-todo-service/internal/model"
)

type fakeUserFinder struct {
	users map[string]model.User
}

func (f *fakeUserFinder) FindByUsername(_ context.Context, username string) (model.User, error) {
	user, ok := f.users[username]
	if !ok {
		return model.User{}, model.ErrInvalidCredentials
	}
	return user, nil
}

func newTestAuthService(t *testing.T, ttl time.Duration) *AuthService {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	finder := &fakeUserFinder{users: map[string]model.User{
		"admin":  {ID: 1, Username: "admin", PasswordHash: string(hash), Role: "admin"},
		"viewer": {ID: 3, Username: "viewer", PasswordHash: string(hash), Role: "viewer"},
	}}

	svc, err := NewAuthService(finder, "test-secret", "HS256", ttl, "testhost 127.0.0.1")
	require.NoError(t, err)
	return svc
}

func TestNewAuthServiceRejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := NewAuthService(&fakeUserFinder{}, "", "HS256", time.Minute, "iss")
	require.Error(t, err)

	_, err = NewAuthService(&fakeUserFinder{}, "secret", "RS256", time.Minute, "iss")
	require.Error(t, err)

	_, err = NewAuthService(&fakeUserFinder{}, "secret", "nonsense", time.Minute, "iss")
	require.Error(t, err)
}

func TestLoginMintsTokenWithRoleClaim(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t, 30*time.Minute)

	token, err := svc.Login(context.Background(), "admin", "password")
	require.NoError(t, err)
	require.Equal(t, "bearer", token.TokenType)

	parsed, err := jwt.Parse(token.AccessToken, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, "admin", claims["sub"])
	require.Equal(t, "admin", claims["role"])
	require.Equal(t, "testhost 127.0.0.1", claims["iss"])
	require.Equal(t, float64(1), claims["id"])
	require.NotEmpty(t, claims["jti"])
}

func TestLoginDoesNotLeakUserExistence(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t, 30*time.Minute)

	_, wrongPassword := svc.Login(context.Background(), "admin", "nope")
	_, unknownUser := svc.Login(context.Background(), "ghost", "password")

	require.ErrorIs(t, wrongPassword, model.ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, model.ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t, 30*time.Minute)

	token, err := svc.Login(context.Background(), "viewer", "password")
	require.NoError(t, err)

	identity, err := svc.Verify(token.AccessToken)
	require.NoError(t, err)
	require.Equal(t, model.Identity{UserID: 3, Username: "viewer", Role: "viewer"}, identity)
}

func TestVerifyExpiredIsDistinctFromInvalid(t *testing.T) {
	t.Parallel()

	expiredSvc := newTestAuthService(t, -time.Minute)
	token, err := expiredSvc.Login(context.Background(), "viewer", "password")
	require.NoError(t, err)

	_, err = expiredSvc.Verify(token.AccessToken)
	require.ErrorIs(t, err, model.ErrTokenExpired)
	require.NotErrorIs(t, err, model.ErrTokenInvalid)
}

func TestVerifyRejectsGarbageAndForgedTokens(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t, 30*time.Minute)

	_, err := svc.Verify("not-a-token")
	require.ErrorIs(t, err, model.ErrTokenInvalid)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestVerifyRejectsMissingClaims(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t, 30*time.Minute)

	bare := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := bare.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}
