package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// SessionResolver 从请求中解析已验证的会话邮箱，无会话时返回 false
type SessionResolver func(r *http.Request) (string, bool)

// SessionClaims 会话 JWT 声明
type SessionClaims struct {
	AccountID uint   `json:"account_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService 会话令牌签发与解析
type TokenService struct {
	secret      []byte
	issuer      string
	expireHours int
	now         func() time.Time
}

// NewTokenService 创建会话令牌服务
func NewTokenService(cfg config.JWTConfig) *TokenService {
	hours := cfg.ExpireHours
	if hours <= 0 {
		hours = 72
	}
	return &TokenService{
		secret:      []byte(cfg.SecretKey),
		issuer:      strings.TrimSpace(cfg.Issuer),
		expireHours: hours,
		now:         time.Now,
	}
}

// Issue 为账号签发会话令牌
func (s *TokenService) Issue(account *models.Account) (string, time.Time, error) {
	if account == nil {
		return "", time.Time{}, ErrAccountNotFound
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(s.expireHours) * time.Hour)
	claims := SessionClaims{
		AccountID: account.ID,
		Email:     account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse 解析并校验会话令牌
func (s *TokenService) Parse(tokenString string) (*SessionClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}
	claims := &SessionClaims{}
	token, err := jwt.NewParser(options...).ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid || strings.TrimSpace(claims.Email) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NewBearerSessionResolver 基于 Authorization: Bearer 头解析会话邮箱
func NewBearerSessionResolver(tokens *TokenService) SessionResolver {
	return func(r *http.Request) (string, bool) {
		if r == nil || tokens == nil {
			return "", false
		}
		raw, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			return "", false
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			return "", false
		}
		return normalizeEmail(claims.Email), true
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
