package jwt

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"tastebook/domain"
	"tastebook/internal/utils"
)

type (
	JWTService interface {
		GenerateToken(userID uint, name string) string
		ValidateToken(token string) (*jwt.Token, error)
		GetUserByToken(token string) (uint, string, error)
	}

	// jwtUserClaim carries the signed identity: id and display name only.
	jwtUserClaim struct {
		UserID uint   `json:"id"`
		Name   string `json:"name"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

func getSecretKey() string {
	return utils.GetConfig("JWT_SECRET")
}

func NewJWTService() JWTService {
	return &jwtService{
		secretKey: getSecretKey(),
		issuer:    "TASTEBOOK",
	}
}

func (j *jwtService) GenerateToken(userID uint, name string) string {
	claims := jwtUserClaim{
		userID,
		name,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute * 120)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		log.Println(err)
	}
	return signed
}

func (j *jwtService) parseToken(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateToken(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) GetUserByToken(token string) (uint, string, error) {
	parsed, err := j.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", domain.ErrTokenExpired
		}
		return 0, "", domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return 0, "", domain.ErrTokenInvalid
	}

	claims := parsed.Claims.(*jwtUserClaim)
	return claims.UserID, claims.Name, nil
}
