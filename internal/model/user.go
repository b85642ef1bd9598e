package model

// User is a stored credential record. Seeded at bootstrap, read-only at
// runtime.
type User struct {
	ID           int64  `json:"userid"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// Identity is the authenticated caller reconstructed from a verified token.
// It lives for exactly one request.
type Identity struct {
	UserID   int64  `json:"userid"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Token is the bearer token handed out by POST /token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
