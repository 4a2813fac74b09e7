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

type CategoryServiceTestSuite struct {
	suite.Suite
	repo    *MockCategoryRepository
	cache   *MockCacheService
	service CategoryService
	ctx     context.Context
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.repo = &MockCategoryRepository{}
	suite.cache = &MockCacheService{}
	suite.service = NewCategoryService(suite.repo, suite.cache)
	suite.ctx = context.Background()

	suite.repo.Test(suite.T())
	suite.cache.Test(suite.T())
}

func (suite *CategoryServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}

func (suite *CategoryServiceTestSuite) expectInvalidate() {
	suite.cache.On("Delete", suite.ctx, []string{caching.CategoriesKey}).Return(nil).Once()
}

func (suite *CategoryServiceTestSuite) TestList_PreOrderWithDefault() {
	rows := []*models.Category{
		{ID: 1, Name: "Dev", SortOrder: 0},
		{ID: 3, Name: "Go", ParentID: int64Ptr(2), SortOrder: 0},
		{ID: 2, Name: "Lang", SortOrder: 1},
		{ID: 4, Name: "Tools", ParentID: int64Ptr(1), SortOrder: 0},
		{ID: 5, Name: "Rust", ParentID: int64Ptr(2), SortOrder: 1},
	}
	suite.cache.On("GetJSON", suite.ctx, caching.CategoriesKey, mock.Anything).Return(false, nil).Once()
	suite.repo.On("List", suite.ctx).Return(rows, nil).Once()
	suite.repo.On("GetDefault", suite.ctx).Return(int64Ptr(2), nil).Once()
	suite.cache.On("SetJSON", suite.ctx, caching.CategoriesKey, mock.Anything, DefaultPublicCacheTTL).Return(nil).Once()

	tree, err := suite.service.List(suite.ctx)
	require.NoError(suite.T(), err)

	var ids []int64
	for _, c := range tree {
		ids = append(ids, c.ID)
	}
	assert.Equal(suite.T(), []int64{1, 4, 2, 3, 5}, ids)
	assert.True(suite.T(), tree[2].IsDefault)
	assert.False(suite.T(), tree[0].IsDefault)
}

func (suite *CategoryServiceTestSuite) TestList_CacheErrorFallsBackToDatabase() {
	suite.cache.On("GetJSON", suite.ctx, caching.CategoriesKey, mock.Anything).Return(false, errors.New("redis down")).Once()
	suite.repo.On("List", suite.ctx).Return([]*models.Category{{ID: 1, Name: "Dev"}}, nil).Once()
	suite.repo.On("GetDefault", suite.ctx).Return(nil, nil).Once()
	suite.cache.On("SetJSON", suite.ctx, caching.CategoriesKey, mock.Anything, DefaultPublicCacheTTL).Return(errors.New("redis down")).Once()

	tree, err := suite.service.List(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), tree, 1)
}

func (suite *CategoryServiceTestSuite) TestPreOrder_OrphansAppended() {
	rows := []*models.Category{
		{ID: 9, Name: "Orphan", ParentID: int64Ptr(100)},
		{ID: 1, Name: "Root"},
	}
	tree := preOrder(rows)
	require.Len(suite.T(), tree, 2)
	assert.Equal(suite.T(), int64(1), tree[0].ID)
	assert.Equal(suite.T(), int64(9), tree[1].ID)
}

func (suite *CategoryServiceTestSuite) TestCreate_Success() {
	suite.repo.On("Create", suite.ctx, mock.MatchedBy(func(c *models.Category) bool {
		return c.Name == "Go" && *c.ParentID == 1
	}), (*int)(nil)).Return(nil).Once()
	suite.expectInvalidate()

	category, err := suite.service.Create(suite.ctx, models.CategoryInput{Name: "  Go ", ParentID: int64Ptr(1)})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Go", category.Name)
}

func (suite *CategoryServiceTestSuite) TestCreate_InvalidName() {
	long := make([]rune, 51)
	for i := range long {
		long[i] = 'é'
	}
	for _, name := range []string{"", "   ", string(long)} {
		_, err := suite.service.Create(suite.ctx, models.CategoryInput{Name: name})
		assert.True(suite.T(), errors.Is(err, common.ErrValidation), name)
	}
}

func (suite *CategoryServiceTestSuite) TestCreate_FiftyRuneNameAccepted() {
	name := ""
	for i := 0; i < 50; i++ {
		name += "界"
	}
	suite.repo.On("Create", suite.ctx, mock.Anything, (*int)(nil)).Return(nil).Once()
	suite.expectInvalidate()

	_, err := suite.service.Create(suite.ctx, models.CategoryInput{Name: name})
	assert.NoError(suite.T(), err)
}

func (suite *CategoryServiceTestSuite) TestCreate_ParentRuleRejectedWithoutInvalidation() {
	suite.repo.On("Create", suite.ctx, mock.Anything, (*int)(nil)).
		Return(common.NewError(common.ErrValidation, "categories can only be nested 2 levels deep")).Once()

	_, err := suite.service.Create(suite.ctx, models.CategoryInput{Name: "Deep", ParentID: int64Ptr(2)})
	assert.True(suite.T(), errors.Is(err, common.ErrValidation))
	suite.cache.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestCreate_NegativeSortOrder() {
	_, err := suite.service.Create(suite.ctx, models.CategoryInput{Name: "X", SortOrder: intPtr(-1)})
	assert.True(suite.T(), errors.Is(err, common.ErrValidation))
}

func (suite *CategoryServiceTestSuite) TestUpdate_NotFound() {
	suite.repo.On("Update", suite.ctx, int64(5), (*int)(nil)).Return(nil, common.NotFoundError("category")).Once()

	_, err := suite.service.Update(suite.ctx, 5, models.CategoryUpdate{Name: stringPtr("x")})
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *CategoryServiceTestSuite) TestUpdate_SelfParentRejected() {
	_, err := suite.service.Update(suite.ctx, 5, models.CategoryUpdate{ParentID: models.Set(int64Ptr(5))})
	assert.True(suite.T(), errors.Is(err, common.ErrValidation))
	suite.repo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestUpdate_InvalidNameNeverReachesRepository() {
	_, err := suite.service.Update(suite.ctx, 5, models.CategoryUpdate{Name: stringPtr("  ")})
	assert.True(suite.T(), errors.Is(err, common.ErrValidation))
	suite.repo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestUpdate_TreeRuleRejectedWithoutInvalidation() {
	suite.repo.On("Update", suite.ctx, int64(5), (*int)(nil)).
		Return(nil, common.NewError(common.ErrValidation, "a category with subcategories cannot become a subcategory")).Once()

	_, err := suite.service.Update(suite.ctx, 5, models.CategoryUpdate{ParentID: models.Set(int64Ptr(6))})
	assert.True(suite.T(), errors.Is(err, common.ErrValidation))
	suite.cache.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestUpdate_MoveToRootKeepsName() {
	stored := &models.Category{ID: 5, Name: "A", ParentID: int64Ptr(1)}
	suite.repo.On("Update", suite.ctx, int64(5), intPtr(0)).Return(stored, nil).Once()
	suite.repo.On("GetDefault", suite.ctx).Return(int64Ptr(5), nil).Once()
	suite.expectInvalidate()

	category, err := suite.service.Update(suite.ctx, 5, models.CategoryUpdate{ParentID: models.Set(nil), SortOrder: intPtr(0)})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "A", category.Name)
	assert.Nil(suite.T(), category.ParentID)
	assert.True(suite.T(), category.IsDefault)
}

func (suite *CategoryServiceTestSuite) TestUpdate_RenameLeavesParent() {
	stored := &models.Category{ID: 5, Name: "A", ParentID: int64Ptr(1)}
	suite.repo.On("Update", suite.ctx, int64(5), (*int)(nil)).Return(stored, nil).Once()
	suite.repo.On("GetDefault", suite.ctx).Return(nil, nil).Once()
	suite.expectInvalidate()

	category, err := suite.service.Update(suite.ctx, 5, models.CategoryUpdate{Name: stringPtr(" B ")})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "B", category.Name)
	assert.Equal(suite.T(), int64(1), *category.ParentID)
}

func (suite *CategoryServiceTestSuite) TestDelete_InvalidatesCache() {
	suite.repo.On("Delete", suite.ctx, int64(3)).Return(nil).Once()
	suite.expectInvalidate()

	assert.NoError(suite.T(), suite.service.Delete(suite.ctx, 3))
}

func (suite *CategoryServiceTestSuite) TestReorder_EmptyRejected() {
	err := suite.service.Reorder(suite.ctx, nil)
	assert.True(suite.T(), errors.Is(err, common.ErrValidation))
}

func (suite *CategoryServiceTestSuite) TestReorder_Delegates() {
	items := []models.OrderItem{{ID: 3, SortOrder: 0}, {ID: 1, SortOrder: 1}}
	suite.repo.On("Reorder", suite.ctx, items).Return(nil).Once()
	suite.expectInvalidate()

	assert.NoError(suite.T(), suite.service.Reorder(suite.ctx, items))
}

func (suite *CategoryServiceTestSuite) TestSetDefault_UnknownCategory() {
	suite.repo.On("SetDefault", suite.ctx, int64Ptr(9)).Return(common.NotFoundError("category")).Once()

	err := suite.service.SetDefault(suite.ctx, int64Ptr(9))
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}
