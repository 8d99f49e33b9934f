// auth выпускает и проверяет подписанные access-токены (JWT, HS256).
//
// Токен удостоверяет пользователя по Username (он же subject), живёт
// cfg.TokenTTL и проверяется с жёстко заданным алгоритмом, issuer и audience.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/myflixjw/movie-api/internal/config"
)

var (
	// ErrInvalidToken - токен некорректен по формату/подписи/claims.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired - срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
)

// leeway - допустимый рассинхрон часов при проверке exp/iat.
const leeway = 5 * time.Second

// Claims - полезная нагрузка access-токена.
type Claims struct {
	Username string `json:"Username"`
	jwt.RegisteredClaims
}

// Tokens выпускает и проверяет токены. Безопасен для конкурентного использования.
type Tokens struct {
	cfg config.AuthConfig
	now func() time.Time
}

// New создаёт Tokens.
func New(cfg config.AuthConfig) *Tokens {
	return &Tokens{cfg: cfg, now: time.Now}
}

// TTL - срок жизни выпускаемых токенов.
func (t *Tokens) TTL() time.Duration { return t.cfg.TokenTTL }

// Issue подписывает токен для username.
func (t *Tokens) Issue(username string) (string, error) {
	const op = "auth.Issue"

	now := t.now().UTC()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			Issuer:    t.cfg.Issuer,
			Audience:  jwt.ClaimStrings(t.cfg.Audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// Verify проверяет подпись и claims и возвращает их.
// Истёкший токен - ErrTokenExpired, любой другой дефект - ErrInvalidToken.
func (t *Tokens) Verify(raw string) (*Claims, error) {
	const op = "auth.Verify"

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(leeway),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if len(t.cfg.Audience) > 0 {
		opts = append(opts, jwt.WithAudience(t.cfg.Audience...))
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte(t.cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	// Subject и Username выпускаются одинаковыми; расхождение - подделка.
	if claims.Username == "" || claims.Subject != claims.Username {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}
