// Package jwt реализует генерацию и разбор JWT-токенов с пользовательскими
// claim-полями: имя пользователя, роль учётной записи и её UID.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Maker описывает интерфейс для генерации и разбора JWT-токенов.
type Maker interface {
	// GenerateToken создаёт токен с username, ролью и uid учётной записи.
	GenerateToken(username, role, userUID string) (string, error)
	// ParseToken проверяет подпись токена и возвращает его claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	Username             string `json:"username"` // Имя пользователя
	Role                 string `json:"role"`     // Роль учётной записи: client или worker
	UserUID              string `json:"useruid"`  // UID учётной записи
	jwt.RegisteredClaims        // Стандартные claims (ExpiresAt, IssuedAt и пр.)
}

// MakerImpl реализует Maker на секретном ключе и времени жизни токена.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт новый MakerImpl с заданным ключом и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// GenerateToken создаёт подписанный HS256 токен с заданными claims.
func (j *MakerImpl) GenerateToken(username, role, userUID string) (string, error) {
	claims := CustomClaims{
		Username: username,
		Role:     role,
		UserUID:  userUID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken разбирает токен, проверяет подпись и срок действия
// и возвращает CustomClaims.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
