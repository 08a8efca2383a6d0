package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/softline/vitrine/internal/caching"
	"github.com/softline/vitrine/internal/metrics"
	"github.com/softline/vitrine/internal/models"
	"github.com/softline/vitrine/internal/repositories"
	"github.com/softline/vitrine/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidTarget   = fmt.Errorf("%w: product code or image slot not informed", ErrInvalidRequest)
	ErrMissingFile     = fmt.Errorf("%w: file not sent", ErrInvalidRequest)
	ErrImageNotFound   = errors.New("image not found")
	ErrProductNotFound = errors.New("product not found")
	ErrPersistence     = errors.New("persistence error")
	ErrObjectStore     = errors.New("object store error")
)

// Reads racing a slot write can still cache the old slots, so entries are short lived.
const productImagesTTL = time.Minute

// ImageUpload is an uploaded file fully buffered in memory.
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

type ImageService interface {
	// AttachImage records the file name in the slot and then uploads the
	// bytes. It returns the stored file name.
	AttachImage(ctx context.Context, codpro, slot string, file *ImageUpload) (string, error)
	// RemoveImage clears the slot and then deletes the referenced object.
	RemoveImage(ctx context.Context, codpro, slot string) error
	GetImages(ctx context.Context, codpro string) (*models.ProductImages, error)
}

type imageService struct {
	productRepo  repositories.ProductRepository
	store        storage.ObjectStore
	cacheService caching.CacheService
	metrics      *metrics.Metrics
	prefix       string
}

func NewImageService(productRepo repositories.ProductRepository, store storage.ObjectStore, cacheService caching.CacheService, m *metrics.Metrics, prefix string) ImageService {
	return &imageService{
		productRepo:  productRepo,
		store:        store,
		cacheService: cacheService,
		metrics:      m,
		prefix:       prefix,
	}
}

// ValidateImageTarget checks the product code and slot taken from the URL.
func ValidateImageTarget(codpro, slot string) error {
	if strings.TrimSpace(codpro) == "" || strings.TrimSpace(slot) == "" {
		return ErrInvalidTarget
	}
	if !models.IsImageSlot(slot) {
		return ErrInvalidTarget
	}
	return nil
}

// cleanFileName drops any directory part a client may have sent.
func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func (s *imageService) AttachImage(ctx context.Context, codpro, slot string, file *ImageUpload) (string, error) {
	const op = "attach"

	if err := ValidateImageTarget(codpro, slot); err != nil {
		s.metrics.ImageOperation(op, resultLabel(err))
		return "", err
	}
	if file == nil {
		s.metrics.ImageOperation(op, resultLabel(ErrMissingFile))
		return "", ErrMissingFile
	}
	fileName := cleanFileName(file.FileName)
	if fileName == "" {
		s.metrics.ImageOperation(op, resultLabel(ErrMissingFile))
		return "", ErrMissingFile
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(file.Data)
	}

	err := s.attach(ctx, codpro, slot, fileName, contentType, file.Data)
	s.metrics.ImageOperation(op, resultLabel(err))
	if err != nil {
		return "", err
	}
	return fileName, nil
}

func (s *imageService) attach(ctx context.Context, codpro, slot, fileName, contentType string, data []byte) error {
	log := zap.L().With(zap.String("codpro", codpro), zap.String("slot", slot), zap.String("file", fileName))

	// A code with no produto row updates nothing and the upload still runs.
	if err := s.productRepo.SetImageSlot(ctx, codpro, slot, &fileName); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.Error("failed to record product image", zap.Error(err))
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		log.Warn("no produto row matched the image slot update")
	}
	s.invalidate(ctx, codpro)
	defer s.invalidate(ctx, codpro)

	// The slot is already written at this point; an upload failure leaves it
	// pointing at a missing object until the reconciler reports it.
	key := storage.Key(s.prefix, fileName)
	if err := s.store.Upload(ctx, key, data, contentType); err != nil {
		s.metrics.PartialFailure("attach")
		log.Error("failed to upload product image", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrObjectStore, err)
	}

	log.Info("product image attached", zap.Int("bytes", len(data)), zap.String("content_type", contentType))
	return nil
}

func (s *imageService) RemoveImage(ctx context.Context, codpro, slot string) error {
	err := s.remove(ctx, codpro, slot)
	s.metrics.ImageOperation("remove", resultLabel(err))
	return err
}

func (s *imageService) remove(ctx context.Context, codpro, slot string) error {
	if err := ValidateImageTarget(codpro, slot); err != nil {
		return err
	}
	log := zap.L().With(zap.String("codpro", codpro), zap.String("slot", slot))

	current, err := s.productRepo.GetImageSlot(ctx, codpro, slot)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrImageNotFound
		}
		log.Error("failed to read product image slot", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if current == nil || *current == "" {
		return ErrImageNotFound
	}
	fileName := *current

	if err := s.productRepo.SetImageSlot(ctx, codpro, slot, nil); err != nil {
		log.Error("failed to clear product image slot", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.invalidate(ctx, codpro)
	defer s.invalidate(ctx, codpro)

	key := storage.Key(s.prefix, fileName)
	if err := s.store.Delete(ctx, key); err != nil {
		s.metrics.PartialFailure("remove")
		log.Error("failed to delete product image object", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrObjectStore, err)
	}

	log.Info("product image removed", zap.String("file", fileName))
	return nil
}

// GetImages returns every slot of the product with the public URL of the
// attached images.
func (s *imageService) GetImages(ctx context.Context, codpro string) (*models.ProductImages, error) {
	if strings.TrimSpace(codpro) == "" {
		return nil, ErrInvalidTarget
	}

	if cached, err := s.cacheService.GetProductImages(ctx, codpro); cached != nil {
		return cached, nil
	} else if err != nil {
		// cache errors fall through to the database
		zap.L().Warn("product images cache read failed", zap.String("codpro", codpro), zap.Error(err))
	}

	slots, err := s.productRepo.GetImages(ctx, codpro)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	images := &models.ProductImages{CodPro: codpro, Images: make([]models.ProductImage, 0, len(models.ImageSlots))}
	for _, slot := range models.ImageSlots {
		img := models.ProductImage{Slot: slot}
		if name := slots[slot]; name != nil && *name != "" {
			fileName := *name
			url := s.store.URL(storage.Key(s.prefix, fileName))
			img.FileName = &fileName
			img.URL = &url
		}
		images.Images = append(images.Images, img)
	}

	if err := s.cacheService.SetProductImages(ctx, images, productImagesTTL); err != nil {
		zap.L().Warn("failed to cache product images", zap.String("codpro", codpro), zap.Error(err))
	}
	return images, nil
}

func (s *imageService) invalidate(ctx context.Context, codpro string) {
	if err := s.cacheService.DeleteProductImages(ctx, codpro); err != nil {
		zap.L().Warn("failed to invalidate product images cache", zap.String("codpro", codpro), zap.Error(err))
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, ErrImageNotFound), errors.Is(err, ErrProductNotFound):
		return "not_found"
	case errors.Is(err, ErrPersistence):
		return "persistence_error"
	case errors.Is(err, ErrObjectStore):
		return "object_store_error"
	default:
		return "error"
	}
}
