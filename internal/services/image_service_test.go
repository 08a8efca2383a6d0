package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/softline/vitrine/internal/models"
	"github.com/softline/vitrine/internal/repositories"
	"github.com/softline/vitrine/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// fakeProductRepo keeps produto rows in memory.
type fakeProductRepo struct {
	mu       sync.Mutex
	rows     map[string]map[string]*string
	products map[string]*models.Product
	setErr   error
	getErr   error
	setCalls int
}

func newFakeProductRepo(codes ...string) *fakeProductRepo {
	r := &fakeProductRepo{rows: make(map[string]map[string]*string)}
	for _, c := range codes {
		r.rows[c] = make(map[string]*string)
	}
	return r
}

func (r *fakeProductRepo) slot(codpro, slot string) *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[codpro][slot]
}

func (r *fakeProductRepo) GetByCode(_ context.Context, codpro string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[codpro]; ok {
		return p, nil
	}
	if _, ok := r.rows[codpro]; !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.Product{CodPro: codpro}, nil
}

func (r *fakeProductRepo) GetImageSlot(_ context.Context, codpro, slot string) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	row, ok := r.rows[codpro]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return row[slot], nil
}

func (r *fakeProductRepo) SetImageSlot(_ context.Context, codpro, slot string, fileName *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setCalls++
	if r.setErr != nil {
		return r.setErr
	}
	row, ok := r.rows[codpro]
	if !ok {
		return repositories.ErrNotFound
	}
	if fileName == nil {
		row[slot] = nil
		return nil
	}
	v := *fileName
	row[slot] = &v
	return nil
}

func (r *fakeProductRepo) GetImages(_ context.Context, codpro string) (map[string]*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	row, ok := r.rows[codpro]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := make(map[string]*string, len(models.ImageSlots))
	for _, s := range models.ImageSlots {
		out[s] = row[s]
	}
	return out, nil
}

func (r *fakeProductRepo) ListImageReferences(context.Context) ([]models.ImageReference, error) {
	return nil, nil
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProductImages(ctx context.Context, codpro string) (*models.ProductImages, error) {
	args := m.Called(ctx, codpro)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductImages), args.Error(1)
}

func (m *MockCacheService) SetProductImages(ctx context.Context, images *models.ProductImages, ttl time.Duration) error {
	args := m.Called(ctx, images, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProductImages(ctx context.Context, codpro string) error {
	args := m.Called(ctx, codpro)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type ImageServiceTestSuite struct {
	suite.Suite
	repo    *fakeProductRepo
	store   *storagetest.Store
	cache   *MockCacheService
	service ImageService
	ctx     context.Context
}

func (suite *ImageServiceTestSuite) SetupTest() {
	suite.repo = newFakeProductRepo("1001", "1002")
	suite.store = storagetest.New()
	suite.cache = &MockCacheService{}
	suite.cache.On("DeleteProductImages", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.service = NewImageService(suite.repo, suite.store, suite.cache, nil, "fotosProdutos")
	suite.ctx = context.Background()
}

func (suite *ImageServiceTestSuite) TearDownTest() {
	suite.cache.AssertExpectations(suite.T())
}

func TestImageServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImageServiceTestSuite))
}

func pngUpload(name string) *ImageUpload {
	return &ImageUpload{FileName: name, ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\nfake")}
}

func (suite *ImageServiceTestSuite) TestAttachImage_EmptySlot() {
	path, err := suite.service.AttachImage(suite.ctx, "1001", "photo1", pngUpload("cat.png"))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "cat.png", path)

	slot := suite.repo.slot("1001", "photo1")
	require.NotNil(suite.T(), slot)
	assert.Equal(suite.T(), "cat.png", *slot)

	obj, ok := suite.store.Get("fotosProdutos/cat.png")
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "image/png", obj.ContentType)
	suite.cache.AssertCalled(suite.T(), "DeleteProductImages", mock.Anything, "1001")
}

func (suite *ImageServiceTestSuite) TestRemoveImage_AfterAttach() {
	_, err := suite.service.AttachImage(suite.ctx, "1001", "photo1", pngUpload("cat.png"))
	require.NoError(suite.T(), err)

	err = suite.service.RemoveImage(suite.ctx, "1001", "photo1")
	require.NoError(suite.T(), err)

	assert.Nil(suite.T(), suite.repo.slot("1001", "photo1"))
	_, ok := suite.store.Get("fotosProdutos/cat.png")
	assert.False(suite.T(), ok)
}

func (suite *ImageServiceTestSuite) TestRemoveImage_EmptySlot() {
	err := suite.service.RemoveImage(suite.ctx, "1001", "photo2")
	assert.ErrorIs(suite.T(), err, ErrImageNotFound)
	assert.Equal(suite.T(), 0, suite.repo.setCalls)
	assert.Equal(suite.T(), 0, suite.store.Deletes)
}

func (suite *ImageServiceTestSuite) TestRemoveImage_Twice() {
	_, err := suite.service.AttachImage(suite.ctx, "1001", "photo1", pngUpload("cat.png"))
	require.NoError(suite.T(), err)

	assert.NoError(suite.T(), suite.service.RemoveImage(suite.ctx, "1001", "photo1"))
	assert.ErrorIs(suite.T(), suite.service.RemoveImage(suite.ctx, "1001", "photo1"), ErrImageNotFound)
}

// The slot keeps the file name although the upload failed.
func (suite *ImageServiceTestSuite) TestAttachImage_UploadFailsAfterSlotWritten() {
	suite.store.UploadErr = errors.New("bucket unavailable")

	_, err := suite.service.AttachImage(suite.ctx, "1001", "photo1", pngUpload("cat.png"))
	assert.ErrorIs(suite.T(), err, ErrObjectStore)

	slot := suite.repo.slot("1001", "photo1")
	require.NotNil(suite.T(), slot)
	assert.Equal(suite.T(), "cat.png", *slot)
	_, ok := suite.store.Get("fotosProdutos/cat.png")
	assert.False(suite.T(), ok)
}

func (suite *ImageServiceTestSuite) TestAttachImage_MissingFileTouchesNothing() {
	_, err := suite.service.AttachImage(suite.ctx, "1001", "photo1", nil)
	assert.ErrorIs(suite.T(), err, ErrMissingFile)
	assert.ErrorIs(suite.T(), err, ErrInvalidRequest)
	assert.Equal(suite.T(), 0, suite.repo.setCalls)
	assert.Equal(suite.T(), 0, suite.store.Uploads)
}

func (suite *ImageServiceTestSuite) TestAttachImage_InvalidTarget() {
	cases := []struct{ codpro, slot string }{
		{"", "photo1"},
		{"1001", ""},
		{"  ", "photo1"},
		{"1001", "preco1"},
	}
	for _, tc := range cases {
		_, err := suite.service.AttachImage(suite.ctx, tc.codpro, tc.slot, pngUpload("cat.png"))
		assert.ErrorIs(suite.T(), err, ErrInvalidTarget, "codpro=%q slot=%q", tc.codpro, tc.slot)
	}
	assert.Equal(suite.T(), 0, suite.repo.setCalls)
	assert.Equal(suite.T(), 0, suite.store.Uploads)
}

func (suite *ImageServiceTestSuite) TestAttachImage_PersistenceFailureSkipsUpload() {
	suite.repo.setErr = errors.New("connection refused")

	_, err := suite.service.AttachImage(suite.ctx, "1001", "photo1", pngUpload("cat.png"))
	assert.ErrorIs(suite.T(), err, ErrPersistence)
	assert.Equal(suite.T(), 0, suite.store.Uploads)
}

func (suite *ImageServiceTestSuite) TestAttachImage_UnknownProductStillUploads() {
	path, err := suite.service.AttachImage(suite.ctx, "9999", "photo1", pngUpload("cat.png"))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "cat.png", path)
	assert.Equal(suite.T(), 1, suite.repo.setCalls)
	_, ok := suite.store.Get("fotosProdutos/cat.png")
	assert.True(suite.T(), ok)
}

func (suite *ImageServiceTestSuite) TestAttachImage_InvalidatesCacheAfterUpload() {
	cache := &MockCacheService{}
	cache.On("DeleteProductImages", mock.Anything, "1001").Return(nil).Twice()
	service := NewImageService(suite.repo, suite.store, cache, nil, "fotosProdutos")

	_, err := service.AttachImage(suite.ctx, "1001", "photo1", pngUpload("cat.png"))
	require.NoError(suite.T(), err)
	cache.AssertExpectations(suite.T())
}

func (suite *ImageServiceTestSuite) TestRemoveImage_InvalidatesCacheAfterDelete() {
	_, err := suite.service.AttachImage(suite.ctx, "1001", "photo1", pngUpload("cat.png"))
	require.NoError(suite.T(), err)
	suite.store.DeleteErr = errors.New("access denied")

	cache := &MockCacheService{}
	cache.On("DeleteProductImages", mock.Anything, "1001").Return(nil).Twice()
	service := NewImageService(suite.repo, suite.store, cache, nil, "fotosProdutos")

	err = service.RemoveImage(suite.ctx, "1001", "photo1")
	assert.ErrorIs(suite.T(), err, ErrObjectStore)
	cache.AssertExpectations(suite.T())
}

func (suite *ImageServiceTestSuite) TestAttachImage_OverwriteKeepsPreviousObject() {
	_, err := suite.service.AttachImage(suite.ctx, "1001", "photo1", pngUpload("cat.png"))
	require.NoError(suite.T(), err)
	_, err = suite.service.AttachImage(suite.ctx, "1001", "photo1", pngUpload("dog.png"))
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "dog.png", *suite.repo.slot("1001", "photo1"))
	_, oldKept := suite.store.Get("fotosProdutos/cat.png")
	_, newStored := suite.store.Get("fotosProdutos/dog.png")
	assert.True(suite.T(), oldKept)
	assert.True(suite.T(), newStored)
	assert.Equal(suite.T(), 0, suite.store.Deletes)
}

func (suite *ImageServiceTestSuite) TestAttachImage_StripsDirectories() {
	path, err := suite.service.AttachImage(suite.ctx, "1001", "photo1", pngUpload(`C:\fotos\cat.png`))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "cat.png", path)

	_, err = suite.service.AttachImage(suite.ctx, "1001", "photo2", pngUpload("../../etc/passwd"))
	require.NoError(suite.T(), err)
	_, ok := suite.store.Get("fotosProdutos/passwd")
	assert.True(suite.T(), ok)
}

func (suite *ImageServiceTestSuite) TestAttachImage_DetectsMissingContentType() {
	upload := pngUpload("cat.png")
	upload.ContentType = ""

	_, err := suite.service.AttachImage(suite.ctx, "1001", "photo1", upload)
	require.NoError(suite.T(), err)
	obj, _ := suite.store.Get("fotosProdutos/cat.png")
	assert.Equal(suite.T(), "image/png", obj.ContentType)
}

func (suite *ImageServiceTestSuite) TestRemoveImage_PersistenceFailureKeepsObject() {
	_, err := suite.service.AttachImage(suite.ctx, "1001", "photo1", pngUpload("cat.png"))
	require.NoError(suite.T(), err)
	suite.repo.setErr = errors.New("deadlock detected")

	err = suite.service.RemoveImage(suite.ctx, "1001", "photo1")
	assert.ErrorIs(suite.T(), err, ErrPersistence)
	assert.Equal(suite.T(), "cat.png", *suite.repo.slot("1001", "photo1"))
	_, ok := suite.store.Get("fotosProdutos/cat.png")
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), 0, suite.store.Deletes)
}

func (suite *ImageServiceTestSuite) TestRemoveImage_DeleteFailsAfterSlotCleared() {
	_, err := suite.service.AttachImage(suite.ctx, "1001", "photo1", pngUpload("cat.png"))
	require.NoError(suite.T(), err)
	suite.store.DeleteErr = errors.New("access denied")

	err = suite.service.RemoveImage(suite.ctx, "1001", "photo1")
	assert.ErrorIs(suite.T(), err, ErrObjectStore)
	assert.Nil(suite.T(), suite.repo.slot("1001", "photo1"))
	_, ok := suite.store.Get("fotosProdutos/cat.png")
	assert.True(suite.T(), ok)
}

func (suite *ImageServiceTestSuite) TestRemoveImage_ReadFailure() {
	suite.repo.getErr = errors.New("timeout")
	err := suite.service.RemoveImage(suite.ctx, "1001", "photo1")
	assert.ErrorIs(suite.T(), err, ErrPersistence)
}

func (suite *ImageServiceTestSuite) TestRemoveImage_UnknownProduct() {
	err := suite.service.RemoveImage(suite.ctx, "9999", "photo1")
	assert.ErrorIs(suite.T(), err, ErrImageNotFound)
}

func (suite *ImageServiceTestSuite) TestGetImages_CacheMissThenStore() {
	_, err := suite.service.AttachImage(suite.ctx, "1002", "photo3", pngUpload("bag.jpg"))
	require.NoError(suite.T(), err)

	suite.cache.On("GetProductImages", mock.Anything, "1002").Return(nil, nil).Once()
	suite.cache.On("SetProductImages", mock.Anything, mock.AnythingOfType("*models.ProductImages"), productImagesTTL).Return(nil).Once()

	images, err := suite.service.GetImages(suite.ctx, "1002")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), images.Images, len(models.ImageSlots))
	assert.Nil(suite.T(), images.Images[0].FileName)
	assert.Equal(suite.T(), "bag.jpg", *images.Images[2].FileName)
	assert.Equal(suite.T(), "https://cdn.test/fotosProdutos/bag.jpg", *images.Images[2].URL)
}

func (suite *ImageServiceTestSuite) TestGetImages_CacheHit() {
	cached := &models.ProductImages{CodPro: "1001"}
	suite.cache.On("GetProductImages", mock.Anything, "1001").Return(cached, nil).Once()

	images, err := suite.service.GetImages(suite.ctx, "1001")
	require.NoError(suite.T(), err)
	assert.Same(suite.T(), cached, images)
}

func (suite *ImageServiceTestSuite) TestGetImages_CacheErrorFallsBack() {
	suite.cache.On("GetProductImages", mock.Anything, "1001").Return(nil, errors.New("redis down")).Once()
	suite.cache.On("SetProductImages", mock.Anything, mock.Anything, productImagesTTL).Return(errors.New("redis down")).Once()

	images, err := suite.service.GetImages(suite.ctx, "1001")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "1001", images.CodPro)
}

func (suite *ImageServiceTestSuite) TestGetImages_UnknownProduct() {
	suite.cache.On("GetProductImages", mock.Anything, "9999").Return(nil, nil).Once()
	_, err := suite.service.GetImages(suite.ctx, "9999")
	assert.ErrorIs(suite.T(), err, ErrProductNotFound)
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "ok", resultLabel(nil))
	assert.Equal(t, "invalid", resultLabel(ErrMissingFile))
	assert.Equal(t, "not_found", resultLabel(ErrImageNotFound))
	assert.Equal(t, "persistence_error", resultLabel(ErrPersistence))
	assert.Equal(t, "object_store_error", resultLabel(ErrObjectStore))
	assert.Equal(t, "error", resultLabel(errors.New("boom")))
}
