package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "secondbrain"
	tokenAudience = "secondbrain-api"
)

// ErrSigningKeyMissing is returned by Issue when no signing secret is configured.
var ErrSigningKeyMissing = errors.New("token signing key is not configured")

// VerificationErrorKind classifies why a token was rejected.
type VerificationErrorKind int

const (
	// Malformed means the input is not a token this service issued.
	Malformed VerificationErrorKind = iota + 1
	// SignatureInvalid means the signature does not match the signing key.
	SignatureInvalid
	// Expired means the token was valid but its lifetime has elapsed.
	Expired
)

func (k VerificationErrorKind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case SignatureInvalid:
		return "signature invalid"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// VerificationError is the only error type returned by TokenService.Verify.
type VerificationError struct {
	Kind VerificationErrorKind
	err  error
}

func (e *VerificationError) Error() string {
	return "token " + e.Kind.String()
}

func (e *VerificationError) Unwrap() error {
	return e.err
}

// Claims represents the JWT claims binding a token to a user.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// TokenService issues and verifies HS256 bearer tokens. The secret is copied
// at construction and never changes afterwards, so a TokenService is safe for
// concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. An empty secret yields a service
// that refuses to issue tokens and rejects every token it is asked to verify.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Configured reports whether a signing secret is present.
func (s *TokenService) Configured() bool {
	return len(s.secret) > 0
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for userID expiring after the configured TTL.
func (s *TokenService) Issue(userID int64) (string, error) {
	if !s.Configured() {
		return "", ErrSigningKeyMissing
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature and lifetime of tokenString and returns the
// user it was issued for. Any failure is a *VerificationError.
func (s *TokenService) Verify(tokenString string) (int64, error) {
	if !s.Configured() {
		return 0, &VerificationError{Kind: SignatureInvalid, err: ErrSigningKeyMissing}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, classify(err)
	}
	if !token.Valid || claims.UserID <= 0 {
		return 0, &VerificationError{Kind: Malformed}
	}

	return claims.UserID, nil
}

func classify(err error) *VerificationError {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return &VerificationError{Kind: Malformed, err: err}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return &VerificationError{Kind: SignatureInvalid, err: err}
	case errors.Is(err, jwt.ErrTokenExpired):
		return &VerificationError{Kind: Expired, err: err}
	default:
		// Wrong issuer or audience, missing exp, not-yet-valid.
		return &VerificationError{Kind: Malformed, err: err}
	}
}
