package services

import (
	"context"
	"errors"
	"testing"

	"navhub/internal/caching"
	"navhub/internal/common"
	"navhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SettingsServiceTestSuite struct {
	suite.Suite
	configRepo *MockConfigRepository
	cache      *MockCacheService
	service    SettingsService
	ctx        context.Context
}

func (suite *SettingsServiceTestSuite) SetupTest() {
	suite.configRepo = &MockConfigRepository{}
	suite.cache = &MockCacheService{}
	suite.service = NewSettingsService(suite.configRepo, suite.cache)
	suite.ctx = context.Background()
}

func (suite *SettingsServiceTestSuite) TearDownTest() {
	suite.configRepo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestSettingsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceTestSuite))
}

func (suite *SettingsServiceTestSuite) TestGetSiteSettings_Defaults() {
	suite.cache.On("GetJSON", suite.ctx, caching.SiteSettingsKey, mock.Anything).Return(false, nil).Once()
	suite.configRepo.On("GetMany", suite.ctx, mock.Anything).Return(map[string]string{}, nil).Once()
	suite.cache.On("SetJSON", suite.ctx, caching.SiteSettingsKey, mock.Anything, DefaultPublicCacheTTL).Return(nil).Once()

	settings, err := suite.service.GetSiteSettings(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Nav", settings.SiteTitle)
	assert.Equal(suite.T(), "🥭", settings.SiteIcon)
	assert.Empty(suite.T(), settings.Favicon)
	assert.Empty(suite.T(), settings.FooterText)
}

func (suite *SettingsServiceTestSuite) TestGetSiteSettings_CacheHit() {
	suite.cache.On("GetJSON", suite.ctx, caching.SiteSettingsKey, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(2).(*models.SiteSettings).SiteTitle = "Cached"
		}).Return(true, nil).Once()

	settings, err := suite.service.GetSiteSettings(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Cached", settings.SiteTitle)
}

func (suite *SettingsServiceTestSuite) TestUpdateSiteSettings_PartialAndInvalidates() {
	suite.configRepo.On("SetMany", suite.ctx, map[string]string{models.ConfigSiteTitle: "Home"}).Return(nil).Once()
	suite.cache.On("Delete", suite.ctx, []string{caching.SiteSettingsKey}).Return(nil).Once()
	suite.cache.On("GetJSON", suite.ctx, caching.SiteSettingsKey, mock.Anything).Return(false, nil).Once()
	suite.configRepo.On("GetMany", suite.ctx, mock.Anything).Return(map[string]string{models.ConfigSiteTitle: "Home"}, nil).Once()
	suite.cache.On("SetJSON", suite.ctx, caching.SiteSettingsKey, mock.Anything, DefaultPublicCacheTTL).Return(nil).Once()

	settings, err := suite.service.UpdateSiteSettings(suite.ctx, models.SiteSettingsUpdate{SiteTitle: stringPtr(" Home ")})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Home", settings.SiteTitle)
}

func (suite *SettingsServiceTestSuite) TestNormalizeAdminPath() {
	valid := map[string]string{
		"manage":    "/manage",
		" /secret ": "/secret",
		"/a/b":      "/a/b",
	}
	for input, want := range valid {
		got, err := NormalizeAdminPath(input)
		require.NoError(suite.T(), err, input)
		assert.Equal(suite.T(), want, got)
	}

	for _, input := range []string{"", "  ", "/", "api", "/api/x", "/apis", "static", "/static/js"} {
		_, err := NormalizeAdminPath(input)
		assert.True(suite.T(), errors.Is(err, common.ErrValidation), input)
	}
}

func (suite *SettingsServiceTestSuite) TestAdminPath_DefaultAndUpdate() {
	suite.configRepo.On("Get", suite.ctx, models.ConfigAdminPath).Return("", false, nil).Once()
	path, err := suite.service.GetAdminPath(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/admin", path)

	suite.configRepo.On("Set", suite.ctx, models.ConfigAdminPath, "/panel").Return(nil).Once()
	path, err = suite.service.UpdateAdminPath(suite.ctx, "panel")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/panel", path)
}

func (suite *SettingsServiceTestSuite) TestSecuritySettings() {
	suite.configRepo.On("Get", suite.ctx, models.ConfigIPBindingEnabled).Return("", false, nil).Once()
	settings, err := suite.service.GetSecuritySettings(suite.ctx)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), settings.IPBindingEnabled)

	suite.configRepo.On("Set", suite.ctx, models.ConfigIPBindingEnabled, "true").Return(nil).Once()
	assert.NoError(suite.T(), suite.service.UpdateSecuritySettings(suite.ctx, models.SecuritySettings{IPBindingEnabled: true}))
}
