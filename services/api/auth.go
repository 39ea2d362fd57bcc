package apisvc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/user"
	"github.com/trezcool/projectgl/storage"
)

var (
	ErrEmptyToken   = errors.New("backend returned an empty token")
	ErrNoCredential = errors.New("no credential stored")
)

type AuthService struct {
	client *Client
	creds  storage.Storage
	key    string
	strict bool
}

// NewAuthService returns the authentication service. strict rejects profiles carrying
// unknown authorities.
func NewAuthService(c *Client, creds storage.Storage, credKey string, strict bool) *AuthService {
	return &AuthService{client: c, creds: creds, key: credKey, strict: strict}
}

type signInResponse struct {
	Token string `json:"token"`
}

// SignIn exchanges credentials for a bearer token and persists it.
func (s *AuthService) SignIn(ctx context.Context, req user.LoginRequest) (string, error) {
	if err := req.Validate(s.client.validate); err != nil {
		return "", core.TranslateValidation(err, s.client.translator)
	}

	var resp signInResponse
	if err := s.client.post(ctx, "/auth/signin", nil, req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", ErrEmptyToken
	}
	if err := s.creds.Set(s.key, resp.Token); err != nil {
		return "", errors.Wrap(err, "storing credential")
	}
	return resp.Token, nil
}

// GetMe fetches the profile the persisted credential belongs to.
func (s *AuthService) GetMe(ctx context.Context) (user.User, error) {
	if token, ok := s.creds.Get(s.key); !ok || token == "" {
		return user.User{}, ErrNoCredential
	}

	var resp user.Response
	if err := s.client.get(ctx, "/auth/getme", nil, &resp); err != nil {
		return user.User{}, err
	}
	return resp.User(s.strict)
}
