package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrClientExists       = errors.New("client already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrClientNotFound     = errors.New("client not found")
)

// Client is an application allowed to submit report text for checking
type Client struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SecretHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// Claims represents the JWT claims
type Claims struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
}

// Service defines the authentication service interface
type Service interface {
	RegisterClient(ctx context.Context, id, name, secret string) (*Client, error)
	IssueToken(ctx context.Context, clientID, secret string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Config holds authentication configuration
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
	Issuer        string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		TokenDuration: time.Hour,
		Issuer:        "report-checker",
	}
}

// JWTService implements the Service interface
type JWTService struct {
	config Config
	repo   ClientRepository
	now    func() time.Time
}

// NewJWTService creates a new JWT-based authentication service
func NewJWTService(config Config, repo ClientRepository) *JWTService {
	if config.TokenDuration == 0 {
		config.TokenDuration = DefaultConfig().TokenDuration
	}
	if config.Issuer == "" {
		config.Issuer = DefaultConfig().Issuer
	}
	return &JWTService{
		config: config,
		repo:   repo,
		now:    time.Now,
	}
}

// RegisterClient stores a new client with a hashed secret
func (s *JWTService) RegisterClient(ctx context.Context, id, name, secret string) (*Client, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil && !errors.Is(err, ErrClientNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrClientExists
	}

	hashed, err := HashSecret(secret)
	if err != nil {
		return nil, err
	}

	client := &Client{
		ID:         id,
		Name:       name,
		SecretHash: hashed,
		CreatedAt:  s.now(),
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// IssueToken authenticates a client and returns a signed JWT
func (s *JWTService) IssueToken(ctx context.Context, clientID, secret string) (string, error) {
	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if !CheckSecret(secret, client.SecretHash) {
		return "", ErrInvalidCredentials
	}

	return s.generateToken(client)
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.ClientID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *JWTService) generateToken(client *Client) (string, error) {
	now := s.now()
	claims := &Claims{
		ClientID: client.ID,
		Name:     client.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   client.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// HashSecret hashes a client secret using bcrypt
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckSecret compares a secret with a hash
func CheckSecret(secret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	return err == nil
}
