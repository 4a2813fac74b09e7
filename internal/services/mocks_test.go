package services

import (
	"context"
	"io"
	"time"

	"navhub/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockConfigRepository) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockConfigRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockConfigRepository) InitAdmin(ctx context.Context, username, passwordHash string) (bool, error) {
	args := m.Called(ctx, username, passwordHash)
	return args.Bool(0), args.Error(1)
}

func (m *MockConfigRepository) SetMany(ctx context.Context, values map[string]string) error {
	args := m.Called(ctx, values)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category, position *int) error {
	args := m.Called(ctx, category, position)
	return args.Error(0)
}

// Update applies mutate to the stored row the expectation returns.
func (m *MockCategoryRepository) Update(ctx context.Context, id int64, position *int, mutate func(*models.Category) error) (*models.Category, error) {
	args := m.Called(ctx, id, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	category := args.Get(0).(*models.Category)
	if err := mutate(category); err != nil {
		return nil, err
	}
	return category, args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) Reorder(ctx context.Context, items []models.OrderItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetDefault(ctx context.Context) (*int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

func (m *MockCategoryRepository) SetDefault(ctx context.Context, id *int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) List(ctx context.Context, filter models.LinkFilter) ([]*models.Link, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Link), args.Error(1)
}

func (m *MockLinkRepository) GetByID(ctx context.Context, id int64) (*models.Link, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkRepository) Create(ctx context.Context, link *models.Link, position *int) error {
	args := m.Called(ctx, link, position)
	return args.Error(0)
}

// Update applies mutate to the stored row the expectation returns.
func (m *MockLinkRepository) Update(ctx context.Context, id int64, position *int, mutate func(*models.Link) error) (*models.Link, error) {
	args := m.Called(ctx, id, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	link := args.Get(0).(*models.Link)
	if err := mutate(link); err != nil {
		return nil, err
	}
	return link, args.Error(1)
}

func (m *MockLinkRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLinkRepository) Reorder(ctx context.Context, items []models.OrderItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

type MockBookmarkRepository struct {
	mock.Mock
}

func (m *MockBookmarkRepository) List(ctx context.Context) ([]*models.Bookmark, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bookmark), args.Error(1)
}

func (m *MockBookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	args := m.Called(ctx, bookmark)
	return args.Error(0)
}

func (m *MockBookmarkRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCacheService) RecordLoginFailure(ctx context.Context, ip string, lockout time.Duration) (int64, error) {
	args := m.Called(ctx, ip, lockout)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheService) LoginFailures(ctx context.Context, ip string) (int64, time.Duration, error) {
	args := m.Called(ctx, ip)
	return args.Get(0).(int64), args.Get(1).(time.Duration), args.Error(2)
}

func (m *MockCacheService) ClearLoginFailures(ctx context.Context, ip string) error {
	args := m.Called(ctx, ip)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockLoginGuard struct {
	mock.Mock
}

func (m *MockLoginGuard) Check(ctx context.Context, ip string) error {
	args := m.Called(ctx, ip)
	return args.Error(0)
}

func (m *MockLoginGuard) Fail(ctx context.Context, ip string) {
	m.Called(ctx, ip)
}

func (m *MockLoginGuard) Reset(ctx context.Context, ip string) {
	m.Called(ctx, ip)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) ObjectExists(ctx context.Context, bucketName, objectName string) (bool, error) {
	args := m.Called(ctx, bucketName, objectName)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectStore) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) DeleteObject(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockObjectStore) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func (m *MockObjectStore) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

func stringPtr(s string) *string { return &s }
