package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds embedded in the token_kind claim and persisted per issued token.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, carries
	// a bad signature, or is of the wrong kind.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWeakSecret is returned when the signing secret is shorter than 32 bytes.
	ErrWeakSecret = errors.New("signing secret must be at least 32 bytes")
	// ErrTTLOrder is returned when the access TTL is not strictly shorter than
	// the refresh TTL.
	ErrTTLOrder = errors.New("access TTL must be strictly shorter than refresh TTL")
)

// Claims holds the JWT claims for both access and refresh tokens.
// Subject is the user id; ID is the jti used for server-side revocation.
type Claims struct {
	jwt.RegisteredClaims
	TokenKind string `json:"token_kind"`
}

// TokenProvider issues and validates HS256-signed access and refresh tokens
// against a shared server secret.
type TokenProvider struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenProvider returns a TokenProvider signing with secret. The secret
// must be at least 32 bytes and accessTTL must be strictly shorter than
// refreshTTL.
func NewTokenProvider(secret []byte, issuer string, accessTTL, refreshTTL time.Duration) (*TokenProvider, error) {
	if len(secret) < 32 {
		return nil, ErrWeakSecret
	}
	if accessTTL <= 0 || refreshTTL <= 0 || accessTTL >= refreshTTL {
		return nil, ErrTTLOrder
	}
	return &TokenProvider{
		secret:     secret,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// AccessTTL returns the access token lifetime.
func (p *TokenProvider) AccessTTL() time.Duration { return p.accessTTL }

// RefreshTTL returns the refresh token lifetime.
func (p *TokenProvider) RefreshTTL() time.Duration { return p.refreshTTL }

// IssueAccess issues a short-lived access token for the user.
// Returns the signed token, its jti, and its expiry.
func (p *TokenProvider) IssueAccess(userID string) (token, jti string, expiresAt time.Time, err error) {
	return p.issue(userID, TokenKindAccess, p.accessTTL)
}

// IssueRefresh issues a long-lived refresh token for the user.
// Returns the signed token, its jti, and its expiry.
func (p *TokenProvider) IssueRefresh(userID string) (token, jti string, expiresAt time.Time, err error) {
	return p.issue(userID, TokenKindRefresh, p.refreshTTL)
}

func (p *TokenProvider) issue(userID, kind string, ttl time.Duration) (string, string, time.Time, error) {
	jti := uuid.NewString()
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenKind: kind,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(p.secret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return signed, jti, expiresAt, nil
}

// Validate parses tokenString, checks signature, expiry, issuer, and that the
// token_kind claim matches kind. Returns the user id and jti.
// All failures collapse into ErrInvalidToken.
func (p *TokenProvider) Validate(tokenString, kind string) (userID, jti string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil {
		return "", "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidToken
	}
	if p.issuer != "" && claims.Issuer != p.issuer {
		return "", "", ErrInvalidToken
	}
	if claims.TokenKind != kind {
		return "", "", ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.ID, nil
}
