// Package services provides external service integrations and technical concerns like notifications, tokens and file storage
package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/amirphl/open-so-review/utils"
	"github.com/golang-jwt/jwt/v5"
)

// Page token error constants
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

const pageTokenType = "review_page"

// PageTokenService signs the set of sales orders served on a review page so a
// later submission can be checked against it
type PageTokenService interface {
	IssuePageToken(salesRepID uint, pageIndex int, orderIDs []uint) (string, error)
	ValidatePageToken(token string) (*PageTokenClaims, error)
}

// PageTokenClaims represents the claims carried by a review page token
type PageTokenClaims struct {
	SalesRepID uint      `json:"sales_rep_id"`
	PageIndex  int       `json:"page_index"`
	OrderIDs   []uint    `json:"order_ids"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	TokenID    string    `json:"jti"`
}

// Served reports whether the order was listed on the page the token was issued for
func (c *PageTokenClaims) Served(orderID uint) bool {
	return slices.Contains(c.OrderIDs, orderID)
}

// PageTokenServiceImpl implements PageTokenService with HS256
type PageTokenServiceImpl struct {
	ttl       time.Duration
	secretKey []byte
	issuer    string
	audience  string
}

// NewPageTokenService creates a new page token service
func NewPageTokenService(ttl time.Duration, issuer, audience, secretKey string) (PageTokenService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}
	return &PageTokenServiceImpl{
		ttl:       ttl,
		secretKey: []byte(secretKey),
		issuer:    issuer,
		audience:  audience,
	}, nil
}

func (s *PageTokenServiceImpl) IssuePageToken(salesRepID uint, pageIndex int, orderIDs []uint) (string, error) {
	now := utils.UTCNow()

	tokenID, err := generateTokenID()
	if err != nil {
		return "", err
	}

	if orderIDs == nil {
		orderIDs = []uint{}
	}

	claims := jwt.MapClaims{
		"sales_rep_id": salesRepID,
		"page_index":   pageIndex,
		"order_ids":    orderIDs,
		"token_type":   pageTokenType,
		"jti":          tokenID,
		"iat":          now.Unix(),
		"exp":          now.Add(s.ttl).Unix(),
		"iss":          s.issuer,
		"aud":          s.audience,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign page token: %w", err)
	}
	return signed, nil
}

func (s *PageTokenServiceImpl) ValidatePageToken(token string) (*PageTokenClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !parsedToken.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	if tokenType, _ := claims["token_type"].(string); tokenType != pageTokenType {
		return nil, ErrTokenInvalid
	}

	salesRepID, ok := claims["sales_rep_id"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}
	pageIndex, ok := claims["page_index"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}
	rawIDs, ok := claims["order_ids"].([]any)
	if !ok {
		return nil, ErrTokenInvalid
	}
	orderIDs := make([]uint, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, ok := raw.(float64)
		if !ok {
			return nil, ErrTokenInvalid
		}
		orderIDs = append(orderIDs, uint(id))
	}

	tokenID, _ := claims["jti"].(string)
	issuedAt, _ := claims["iat"].(float64)
	expiresAt, _ := claims["exp"].(float64)

	return &PageTokenClaims{
		SalesRepID: uint(salesRepID),
		PageIndex:  int(pageIndex),
		OrderIDs:   orderIDs,
		TokenID:    tokenID,
		IssuedAt:   time.Unix(int64(issuedAt), 0),
		ExpiresAt:  time.Unix(int64(expiresAt), 0),
	}, nil
}

// generateTokenID generates a unique token ID
func generateTokenID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token ID: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
