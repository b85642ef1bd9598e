package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-todo-service/internal/model"
)

type userFinder interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

// AuthService issues and verifies bearer tokens. Tokens are stateless: there
// is no refresh mechanism and no revocation list, so verification is a pure
// function of the token bytes and the clock.
type AuthService struct {
	users  userFinder
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	issuer string
}

func NewAuthService(users userFinder, secret string, algorithm string, ttl time.Duration, issuer string) (*AuthService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", algorithm)
	}

	return &AuthService{
		users:  users,
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		issuer: issuer,
	}, nil
}

// Login verifies a username/password pair and mints a token. Unknown users
// and wrong passwords return the same generic error so login does not leak
// which usernames exist.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.Token, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrInvalidCredentials) {
		return model.Token{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Token{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.Token{}, model.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"id":   user.ID,
		"sub":  user.Username,
		"role": user.Role,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return model.Token{}, fmt.Errorf("sign token: %w", err)
	}

	return model.Token{AccessToken: signed, TokenType: "bearer"}, nil
}

// Verify decodes the token and checks signature and expiry. Expiry with a
// valid signature is reported distinctly from a structurally or
// cryptographically invalid token; any other decode failure keeps its cause
// attached for diagnostics.
func (s *AuthService) Verify(tokenString string) (model.Identity, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return model.Identity{}, model.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return model.Identity{}, model.ErrTokenInvalid
		default:
			return model.Identity{}, fmt.Errorf("%w: %v", model.ErrTokenUnverifiable, err)
		}
	}
	if !parsed.Valid {
		return model.Identity{}, model.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, model.ErrTokenInvalid
	}

	id, _ := claims["id"].(float64)
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return model.Identity{}, model.ErrTokenInvalid
	}

	return model.Identity{UserID: int64(id), Username: sub, Role: role}, nil
}
