package services

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"org-directory-service/internal/error/errs"
	"org-directory-service/internal/infrastructure/config"
)

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(subject string) (string, time.Time, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	CheckAPIKey(key string) bool
	ExchangeAPIKey(key string) (*TokenResult, error)
}

// TokenResult 表示令牌交换结果
type TokenResult struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

const (
	tokenIssuer = "org-directory-service"
	readScope   = "directory:read"
)

// JWTService 提供API key校验与JWT签发
type JWTService struct {
	secretKey string
	apiKey    string
	ttl       time.Duration
	now       func() time.Time
}

// NewJWTService 创建一个新的JWT服务。
// API_KEY 可以是明文，也可以是 bcrypt 哈希（以 "$2" 开头）。
func NewJWTService(cfg *config.Config) InterfaceJWTService {
	ttl := cfg.JWTTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		apiKey:    cfg.APIKey,
		ttl:       ttl,
		now:       time.Now,
	}
}

// GenerateToken 生成只读范围的JWT令牌
func (s *JWTService) GenerateToken(subject string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := &JWTClaims{
		Scope: readScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken 验证JWT令牌并返回声明
func (s *JWTService) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}
	if !token.Valid || claims.Issuer != tokenIssuer || claims.Scope != readScope {
		return nil, fmt.Errorf("%w: invalid token claims", errs.ErrUnauthorized)
	}
	return claims, nil
}

// CheckAPIKey 未配置 API_KEY 时任何请求都放行
func (s *JWTService) CheckAPIKey(key string) bool {
	if s.apiKey == "" {
		return true
	}
	if key == "" {
		return false
	}
	if strings.HasPrefix(s.apiKey, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(s.apiKey), []byte(key)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.apiKey), []byte(key)) == 1
}

// ExchangeAPIKey 用有效的 API key 换取 Bearer 令牌
func (s *JWTService) ExchangeAPIKey(key string) (*TokenResult, error) {
	if !s.CheckAPIKey(key) {
		return nil, fmt.Errorf("%w: invalid api key", errs.ErrUnauthorized)
	}
	token, expiresAt, err := s.GenerateToken("api-client")
	if err != nil {
		return nil, err
	}
	return &TokenResult{Token: token, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}
