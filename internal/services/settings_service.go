package services

import (
	"context"
	"strconv"
	"strings"

	"navhub/internal/caching"
	"navhub/internal/common"
	"navhub/internal/models"
	"navhub/internal/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var reservedPathPrefixes = []string{"/api", "/static"}

type SettingsService interface {
	GetSiteSettings(ctx context.Context) (*models.SiteSettings, error)
	UpdateSiteSettings(ctx context.Context, update models.SiteSettingsUpdate) (*models.SiteSettings, error)
	GetAdminPath(ctx context.Context) (string, error)
	UpdateAdminPath(ctx context.Context, path string) (string, error)
	GetSecuritySettings(ctx context.Context) (*models.SecuritySettings, error)
	UpdateSecuritySettings(ctx context.Context, settings models.SecuritySettings) error
}

type settingsService struct {
	configRepo repositories.ConfigRepository
	cache      publicCache
}

func NewSettingsService(configRepo repositories.ConfigRepository, cache caching.CacheService) SettingsService {
	return &settingsService{
		configRepo: configRepo,
		cache:      publicCache{cache: cache, ttl: DefaultPublicCacheTTL},
	}
}

func (s *settingsService) GetSiteSettings(ctx context.Context) (*models.SiteSettings, error) {
	var cached models.SiteSettings
	if s.cache.get(ctx, caching.SiteSettingsKey, &cached) {
		return &cached, nil
	}

	values, err := s.configRepo.GetMany(ctx,
		models.ConfigSiteTitle, models.ConfigSiteIcon, models.ConfigFavicon, models.ConfigFooterText)
	if err != nil {
		return nil, err
	}

	settings := &models.SiteSettings{
		SiteTitle:  valueOr(values, models.ConfigSiteTitle, models.DefaultSiteTitle),
		SiteIcon:   valueOr(values, models.ConfigSiteIcon, models.DefaultSiteIcon),
		Favicon:    values[models.ConfigFavicon],
		FooterText: values[models.ConfigFooterText],
	}
	s.cache.set(ctx, caching.SiteSettingsKey, settings)
	return settings, nil
}

// valueOr returns the stored value of key, or fallback when it is unset or empty.
func valueOr(values map[string]string, key, fallback string) string {
	if v := values[key]; v != "" {
		return v
	}
	return fallback
}

func (s *settingsService) UpdateSiteSettings(ctx context.Context, update models.SiteSettingsUpdate) (*models.SiteSettings, error) {
	err := validation.ValidateStruct(&update,
		validation.Field(&update.SiteTitle, validation.RuneLength(0, 100)),
		validation.Field(&update.SiteIcon, validation.RuneLength(0, maxURLLength)),
		validation.Field(&update.Favicon, validation.RuneLength(0, maxURLLength)),
		validation.Field(&update.FooterText, validation.RuneLength(0, 1000)),
	)
	if err != nil {
		return nil, common.ValidationError(err)
	}

	values := make(map[string]string)
	for key, value := range map[string]*string{
		models.ConfigSiteTitle:  update.SiteTitle,
		models.ConfigSiteIcon:   update.SiteIcon,
		models.ConfigFavicon:    update.Favicon,
		models.ConfigFooterText: update.FooterText,
	} {
		if value != nil {
			values[key] = strings.TrimSpace(*value)
		}
	}

	if len(values) > 0 {
		if err := s.configRepo.SetMany(ctx, values); err != nil {
			return nil, err
		}
		s.cache.invalidate(ctx, caching.SiteSettingsKey)
	}
	return s.GetSiteSettings(ctx)
}

func (s *settingsService) GetAdminPath(ctx context.Context) (string, error) {
	path, ok, err := s.configRepo.Get(ctx, models.ConfigAdminPath)
	if err != nil {
		return "", err
	}
	if !ok || path == "" {
		return models.DefaultAdminPath, nil
	}
	return path, nil
}

// NormalizeAdminPath trims path, adds a leading slash and rejects the root
// and reserved prefixes.
func NormalizeAdminPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", common.NewError(common.ErrValidation, "admin path must not be empty")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == "/" {
		return "", common.NewError(common.ErrValidation, "admin path cannot be the root path")
	}
	for _, prefix := range reservedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return "", common.NewError(common.ErrValidation, "admin path cannot use reserved prefix %s", prefix)
		}
	}
	return path, nil
}

func (s *settingsService) UpdateAdminPath(ctx context.Context, path string) (string, error) {
	normalized, err := NormalizeAdminPath(path)
	if err != nil {
		return "", err
	}
	if err := s.configRepo.Set(ctx, models.ConfigAdminPath, normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

func (s *settingsService) GetSecuritySettings(ctx context.Context) (*models.SecuritySettings, error) {
	value, _, err := s.configRepo.Get(ctx, models.ConfigIPBindingEnabled)
	if err != nil {
		return nil, err
	}
	enabled, _ := strconv.ParseBool(value)
	return &models.SecuritySettings{IPBindingEnabled: enabled}, nil
}

func (s *settingsService) UpdateSecuritySettings(ctx context.Context, settings models.SecuritySettings) error {
	return s.configRepo.Set(ctx, models.ConfigIPBindingEnabled, strconv.FormatBool(settings.IPBindingEnabled))
}
