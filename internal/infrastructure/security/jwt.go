package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mealmate/mealmate-api/internal/application/auth"
	"github.com/mealmate/mealmate-api/internal/domain"
)

// mfaStage marks a staged token; its only power is completing the MFA
// challenge, never general API access.
const mfaStage = "mfa"

type JWTSigner struct {
	secret []byte
	issuer string
}

func NewJWTSigner(secret string, issuer string) *JWTSigner {
	return &JWTSigner{
		secret: []byte(secret),
		issuer: issuer,
	}
}

type tokenClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
	Stage  string `json:"stage,omitempty"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) sign(claims tokenClaims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *JWTSigner) SignSessionToken(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	return s.sign(tokenClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
}

func (s *JWTSigner) SignStagedToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	return s.sign(tokenClaims{
		UserID: userID,
		Stage:  mfaStage,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
}

// parse validates signature and expiry. Expired, forged and malformed
// tokens all collapse into token_invalid so callers cannot tell them
// apart (anti-enumeration).
func (s *JWTSigner) parse(token string) (*tokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrTokenInvalid()
	}
	if claims.UserID == "" {
		return nil, domain.ErrTokenInvalid()
	}
	return claims, nil
}

func (s *JWTSigner) VerifySessionToken(token string) (auth.SessionClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return auth.SessionClaims{}, err
	}
	// A staged token must never pass as a session token.
	if claims.Stage != "" {
		return auth.SessionClaims{}, domain.ErrTokenInvalid()
	}

	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return auth.SessionClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Exp:    exp,
	}, nil
}

func (s *JWTSigner) VerifyStagedToken(token string) (auth.StagedClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return auth.StagedClaims{}, err
	}
	if claims.Stage != mfaStage {
		return auth.StagedClaims{}, domain.ErrTokenInvalid()
	}

	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return auth.StagedClaims{
		UserID: claims.UserID,
		Exp:    exp,
	}, nil
}
