package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"navhub/internal/common"
	"navhub/internal/models"
	"navhub/internal/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthService owns the stored credentials and exchanges passwords for tokens.
type AuthService interface {
	CheckInit(ctx context.Context) (bool, error)
	Init(ctx context.Context, username, password string) error

	Login(ctx context.Context, username, password, clientIP string) (*models.TokenResponse, error)
	VerifyHidden(ctx context.Context, password, clientIP string) (*models.TokenResponse, error)
	AuthorizeBookmarks(ctx context.Context, password, clientIP string) (*models.TokenResponse, error)
	VerifyToken(scope models.TokenScope, token, clientIP string) (*models.TokenClaims, error)

	GetAdminAccount(ctx context.Context) (*models.AdminAccount, error)
	UpdateAdminAccount(ctx context.Context, update models.AdminAccountUpdate) error
	UpdateHiddenPassword(ctx context.Context, password string) error
	UpdateBookmarkPassword(ctx context.Context, password string) error
}

type authService struct {
	configRepo repositories.ConfigRepository
	tokens     TokenIssuer
	guard      LoginGuard
	hashCost   int
}

func NewAuthService(configRepo repositories.ConfigRepository, tokens TokenIssuer, guard LoginGuard) AuthService {
	return &authService{
		configRepo: configRepo,
		tokens:     tokens,
		guard:      guard,
		hashCost:   bcrypt.DefaultCost,
	}
}

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *authService) CheckInit(ctx context.Context) (bool, error) {
	_, ok, err := s.configRepo.Get(ctx, models.ConfigAdminPassword)
	return ok, err
}

func (s *authService) Init(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		username = models.DefaultAdminUsername
	}
	err := validation.Errors{
		"username": validation.Validate(username, validation.RuneLength(3, 32)),
		"password": validation.Validate(password, validation.Required, strongPassword),
	}.Filter()
	if err != nil {
		return common.ValidationError(err)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}

	inserted, err := s.configRepo.InitAdmin(ctx, username, hash)
	if err != nil {
		return err
	}
	if !inserted {
		return common.NewError(common.ErrConflict, "already initialized")
	}
	return nil
}

func (s *authService) Login(ctx context.Context, username, password, clientIP string) (*models.TokenResponse, error) {
	if err := s.guard.Check(ctx, clientIP); err != nil {
		return nil, err
	}

	values, err := s.configRepo.GetMany(ctx,
		models.ConfigAdminUsername, models.ConfigAdminPassword, models.ConfigIPBindingEnabled)
	if err != nil {
		return nil, err
	}
	hash, ok := values[models.ConfigAdminPassword]
	if !ok {
		return nil, common.NewError(common.ErrValidation, "admin password not initialized")
	}
	storedUsername := values[models.ConfigAdminUsername]
	if storedUsername == "" {
		storedUsername = models.DefaultAdminUsername
	}

	// The hash is always compared so a wrong username costs the same time.
	passwordOK := checkPassword(hash, password)
	if username != storedUsername || !passwordOK {
		s.guard.Fail(ctx, clientIP)
		return nil, common.ErrInvalidCredentials
	}
	s.guard.Reset(ctx, clientIP)

	boundIP := ""
	if enabled, _ := strconv.ParseBool(values[models.ConfigIPBindingEnabled]); enabled {
		boundIP = clientIP
	}
	return s.tokens.Issue(models.ScopeAdmin, storedUsername, boundIP)
}

func (s *authService) VerifyHidden(ctx context.Context, password, clientIP string) (*models.TokenResponse, error) {
	if err := s.guard.Check(ctx, clientIP); err != nil {
		return nil, err
	}

	values, err := s.configRepo.GetMany(ctx, models.ConfigHiddenPassword, models.ConfigAdminPassword)
	if err != nil {
		return nil, err
	}
	hash, ok := values[models.ConfigHiddenPassword]
	if !ok {
		hash, ok = values[models.ConfigAdminPassword]
	}
	if !ok || !checkPassword(hash, password) {
		s.guard.Fail(ctx, clientIP)
		return nil, common.ErrInvalidPassword
	}
	s.guard.Reset(ctx, clientIP)

	return s.tokens.Issue(models.ScopeHidden, string(models.ScopeHidden), "")
}

func (s *authService) AuthorizeBookmarks(ctx context.Context, password, clientIP string) (*models.TokenResponse, error) {
	if err := s.guard.Check(ctx, clientIP); err != nil {
		return nil, err
	}

	hash, ok, err := s.configRepo.Get(ctx, models.ConfigBookmarkPassword)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.NewError(common.ErrValidation, "bookmark password not configured")
	}
	if !checkPassword(hash, password) {
		s.guard.Fail(ctx, clientIP)
		return nil, common.ErrInvalidPassword
	}
	s.guard.Reset(ctx, clientIP)

	return s.tokens.Issue(models.ScopeBookmark, string(models.ScopeBookmark), "")
}

func (s *authService) VerifyToken(scope models.TokenScope, token, clientIP string) (*models.TokenClaims, error) {
	return s.tokens.Verify(scope, token, clientIP)
}

func (s *authService) GetAdminAccount(ctx context.Context) (*models.AdminAccount, error) {
	username, ok, err := s.configRepo.Get(ctx, models.ConfigAdminUsername)
	if err != nil {
		return nil, err
	}
	if !ok || username == "" {
		username = models.DefaultAdminUsername
	}
	return &models.AdminAccount{Username: username}, nil
}

func (s *authService) UpdateAdminAccount(ctx context.Context, update models.AdminAccountUpdate) error {
	values := make(map[string]string)

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if err := validation.Validate(username, validation.Required, validation.RuneLength(3, 32)); err != nil {
			return common.ValidationError(fmt.Errorf("username: %w", err))
		}
		values[models.ConfigAdminUsername] = username
	}
	if update.Password != nil && *update.Password != "" {
		if err := validation.Validate(*update.Password, strongPassword); err != nil {
			return common.ValidationError(fmt.Errorf("password: %w", err))
		}
		hash, err := s.hashPassword(*update.Password)
		if err != nil {
			return err
		}
		values[models.ConfigAdminPassword] = hash
	}

	if len(values) == 0 {
		return nil
	}
	return s.configRepo.SetMany(ctx, values)
}

func (s *authService) UpdateHiddenPassword(ctx context.Context, password string) error {
	if err := validation.Validate(password, validation.Required, validation.RuneLength(minHiddenPassword, 0)); err != nil {
		return common.ValidationError(fmt.Errorf("password: %w", err))
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	return s.configRepo.Set(ctx, models.ConfigHiddenPassword, hash)
}

func (s *authService) UpdateBookmarkPassword(ctx context.Context, password string) error {
	if err := validation.Validate(password, strongPassword); err != nil {
		return common.ValidationError(fmt.Errorf("password: %w", err))
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	return s.configRepo.Set(ctx, models.ConfigBookmarkPassword, hash)
}
