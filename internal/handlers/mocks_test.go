package handlers

import (
	"context"
	"io"

	"navhub/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) CheckInit(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthService) Init(ctx context.Context, username, password string) error {
	return m.Called(ctx, username, password).Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, username, password, clientIP string) (*models.TokenResponse, error) {
	args := m.Called(ctx, username, password, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) VerifyHidden(ctx context.Context, password, clientIP string) (*models.TokenResponse, error) {
	args := m.Called(ctx, password, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) AuthorizeBookmarks(ctx context.Context, password, clientIP string) (*models.TokenResponse, error) {
	args := m.Called(ctx, password, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) VerifyToken(scope models.TokenScope, token, clientIP string) (*models.TokenClaims, error) {
	args := m.Called(scope, token, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenClaims), args.Error(1)
}

func (m *MockAuthService) GetAdminAccount(ctx context.Context) (*models.AdminAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminAccount), args.Error(1)
}

func (m *MockAuthService) UpdateAdminAccount(ctx context.Context, update models.AdminAccountUpdate) error {
	return m.Called(ctx, update).Error(0)
}

func (m *MockAuthService) UpdateHiddenPassword(ctx context.Context, password string) error {
	return m.Called(ctx, password).Error(0)
}

func (m *MockAuthService) UpdateBookmarkPassword(ctx context.Context, password string) error {
	return m.Called(ctx, password).Error(0)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, id int64, update models.CategoryUpdate) (*models.Category, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCategoryService) Reorder(ctx context.Context, items []models.OrderItem) error {
	return m.Called(ctx, items).Error(0)
}

func (m *MockCategoryService) GetDefault(ctx context.Context) (*int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

func (m *MockCategoryService) SetDefault(ctx context.Context, id *int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) List(ctx context.Context, filter models.LinkFilter) ([]*models.Link, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Link), args.Error(1)
}

func (m *MockLinkService) Get(ctx context.Context, id int64, includeHidden bool) (*models.Link, error) {
	args := m.Called(ctx, id, includeHidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkService) Create(ctx context.Context, input models.LinkInput) (*models.Link, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkService) Update(ctx context.Context, id int64, update models.LinkUpdate) (*models.Link, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLinkService) Reorder(ctx context.Context, items []models.OrderItem) error {
	return m.Called(ctx, items).Error(0)
}

type MockBookmarkService struct {
	mock.Mock
}

func (m *MockBookmarkService) List(ctx context.Context) ([]*models.Bookmark, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bookmark), args.Error(1)
}

func (m *MockBookmarkService) Add(ctx context.Context, title, rawURL string) (*models.Bookmark, error) {
	args := m.Called(ctx, title, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bookmark), args.Error(1)
}

func (m *MockBookmarkService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetSiteSettings(ctx context.Context) (*models.SiteSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SiteSettings), args.Error(1)
}

func (m *MockSettingsService) UpdateSiteSettings(ctx context.Context, update models.SiteSettingsUpdate) (*models.SiteSettings, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SiteSettings), args.Error(1)
}

func (m *MockSettingsService) GetAdminPath(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsService) UpdateAdminPath(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsService) GetSecuritySettings(ctx context.Context) (*models.SecuritySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SecuritySettings), args.Error(1)
}

func (m *MockSettingsService) UpdateSecuritySettings(ctx context.Context, settings models.SecuritySettings) error {
	return m.Called(ctx, settings).Error(0)
}

type MockIconService struct {
	mock.Mock
}

func (m *MockIconService) Upload(ctx context.Context, size int64, reader io.Reader) (*models.IconUpload, error) {
	args := m.Called(ctx, size, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IconUpload), args.Error(1)
}

func (m *MockIconService) URL(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockIconService) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

func stringPtr(v string) *string { return &v }
