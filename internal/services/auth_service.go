package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"planboard/internal/models"
	"planboard/internal/store"
)

type authServiceImpl struct {
	logger         zerolog.Logger
	store          *store.Testbench
	jwtIssuer      string
	jwtSigningKey  []byte
	accessTokenTTL time.Duration
}

func NewAuthService(
	logger zerolog.Logger,
	benchStore *store.Testbench,
	jwtIssuer string,
	jwtSigningKey []byte,
	accessTokenTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		logger:         logger,
		store:          benchStore,
		jwtIssuer:      jwtIssuer,
		jwtSigningKey:  jwtSigningKey,
		accessTokenTTL: accessTokenTTL,
	}
}

func (s *authServiceImpl) Register(_ context.Context, params RegisterParams) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || params.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	role := params.Role
	if role == "" {
		role = models.RoleTester
	}
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleTester, models.RoleViewer:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, u := range doc.Users {
		if u.Email == email {
			s.logger.Warn().
				Str("email", email).
				Msg("user already exists")
			return nil, ErrUserAlreadyExists
		}
	}

	hash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           id,
		Email:        email,
		Name:         strings.TrimSpace(params.Name),
		Role:         role,
		PasswordHash: hash,
	}
	doc.Users = append(doc.Users, user)

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("registered user")

	user.PasswordHash = ""
	return &user, nil
}

func (s *authServiceImpl) Login(_ context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	var user *models.User
	for i := range doc.Users {
		if doc.Users[i].Email == email {
			user = &doc.Users[i]
			break
		}
	}
	if user == nil {
		s.logger.Warn().
			Str("email", email).
			Msg("user not found")
		return nil, ErrUserNotFound
	}

	match, err := argon2id.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to compare password and hash")
		return nil, err
	}
	if !match {
		s.logger.Warn().
			Str("user_id", user.ID).
			Msg("user password mismatch")
		return nil, ErrUserPasswordMismatch
	}

	token, expiresAt, err := s.generateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("logged user in")
	return &LoginResult{
		UserID:               user.ID,
		AccessToken:          token,
		AccessTokenExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) generateAccessToken(userID string) (string, time.Time, error) {
	id, err := newID()
	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now()
	expiresAt := now.Add(s.accessTokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		Issuer:    s.jwtIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to sign access token")
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *authServiceImpl) ParseAccessToken(token string) (*jwt.RegisteredClaims, error) {
	claims := new(jwt.RegisteredClaims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSigningKey, nil
	},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("failed to parse access token")
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

func (s *authServiceImpl) CreateToken(_ context.Context, userID, name string) (*TokenResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: token name is required", ErrValidation)
	}

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if findUser(doc, userID) == nil {
		return nil, ErrUserNotFound
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	secret, err := newSecret()
	if err != nil {
		return nil, err
	}

	hash, err := argon2id.CreateHash(secret, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash token secret")
		return nil, err
	}

	token := models.APIToken{
		ID:        id,
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		TokenHash: hash,
	}
	doc.APITokens = append(doc.APITokens, token)

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("token_id", token.ID).
		Msg("created api token")
	return &TokenResult{
		Token:  token,
		Secret: token.ID + "." + secret,
	}, nil
}

func (s *authServiceImpl) ListTokens(_ context.Context, userID string) ([]models.APIToken, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	tokens := make([]models.APIToken, 0, len(doc.APITokens))
	for _, t := range doc.APITokens {
		if t.UserID == userID {
			t.TokenHash = ""
			tokens = append(tokens, t)
		}
	}
	return tokens, nil
}

func (s *authServiceImpl) DeleteToken(_ context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	tokens := doc.APITokens[:0:0]
	found := false
	for _, t := range doc.APITokens {
		if t.ID != id {
			tokens = append(tokens, t)
		} else {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	doc.APITokens = tokens

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("token_id", id).
		Msg("deleted api token")
	return nil
}

func (s *authServiceImpl) VerifyAPIToken(_ context.Context, token string) (*models.User, error) {
	id, secret, ok := strings.Cut(token, ".")
	if !ok || id == "" || secret == "" {
		return nil, ErrTokenInvalid
	}

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	var stored *models.APIToken
	for i := range doc.APITokens {
		if doc.APITokens[i].ID == id {
			stored = &doc.APITokens[i]
			break
		}
	}
	if stored == nil {
		return nil, ErrTokenInvalid
	}

	match, err := argon2id.ComparePasswordAndHash(secret, stored.TokenHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("token_id", id).
			Msg("failed to compare token secret and hash")
		return nil, err
	}
	if !match {
		return nil, ErrTokenInvalid
	}

	user := findUser(doc, stored.UserID)
	if user == nil {
		return nil, ErrTokenInvalid
	}

	now := time.Now()
	stored.LastUsedAt = &now
	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	owner := *user
	owner.PasswordHash = ""
	return &owner, nil
}

func (s *authServiceImpl) load() (*store.TestbenchDocument, error) {
	doc, err := s.store.Load()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to load testbench document")
		return nil, err
	}
	return doc, nil
}

func (s *authServiceImpl) save(doc *store.TestbenchDocument) error {
	err := s.store.Save(doc)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to save testbench document")
		return err
	}
	return nil
}

func findUser(doc *store.TestbenchDocument, id string) *models.User {
	for i := range doc.Users {
		if doc.Users[i].ID == id {
			return &doc.Users[i]
		}
	}
	return nil
}
