package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/softline/vitrine/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	msgInvalidTarget   = "Código do produto ou caminho da imagem não informado"
	msgImageNotFound   = "Imagem não encontrada"
	msgProductNotFound = "Produto não encontrado"
	msgMissingFile     = "Arquivo não enviado"
	msgUploadFailed    = "Erro no upload do arquivo"
	msgDeleteFailed    = "Erro ao deletar imagem"
	msgSaveFailed      = "Erro ao salvar imagem"
	msgListFailed      = "Erro ao buscar imagens"
)

// MessageResponse is the body of every image endpoint reply.
type MessageResponse struct {
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// ImageHandlers handles HTTP requests for product image slots
type ImageHandlers struct {
	imageService services.ImageService
}

// NewImageHandlers creates a new image handlers instance
func NewImageHandlers(imageService services.ImageService) *ImageHandlers {
	return &ImageHandlers{imageService: imageService}
}

// DeleteImage godoc
// @Summary      Remove a product image
// @Description  Clears the slot and deletes the stored object.
// @Tags         imagens
// @Produce      json
// @Param        codpro   path  string  true  "Product code"
// @Param        caminho  path  string  true  "Image slot (photo1..photo4)"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Security     BearerAuth
// @Router       /admin/produtos/imagem/{codpro}/{caminho} [delete]
func (h *ImageHandlers) DeleteImage(c echo.Context) error {
	codpro, slot := c.Param("codpro"), c.Param("caminho")

	if err := h.imageService.RemoveImage(c.Request().Context(), codpro, slot); err != nil {
		return imageError(err, msgDeleteFailed)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Imagem deletada com sucesso"})
}

// UploadImage godoc
// @Summary      Attach a product image
// @Description  Records the file name in the slot and uploads the file. The previous object of the slot is kept.
// @Tags         imagens
// @Accept       multipart/form-data
// @Produce      json
// @Param        codpro   path      string  true  "Product code"
// @Param        caminho  path      string  true  "Image slot (photo1..photo4)"
// @Param        file     formData  file    true  "Image file"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  MessageResponse
// @Failure      500  {object}  MessageResponse
// @Security     BearerAuth
// @Router       /admin/produtos/imagem/{codpro}/{caminho} [post]
func (h *ImageHandlers) UploadImage(c echo.Context) error {
	codpro, slot := c.Param("codpro"), c.Param("caminho")
	if err := services.ValidateImageTarget(codpro, slot); err != nil {
		return imageError(err, msgSaveFailed)
	}

	upload, err := readUpload(c)
	if err != nil {
		zap.L().Warn("failed to parse multipart upload", zap.String("codpro", codpro), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, msgUploadFailed)
	}

	fileName, err := h.imageService.AttachImage(c.Request().Context(), codpro, slot, upload)
	if err != nil {
		return imageError(err, msgSaveFailed)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Arquivo enviado com sucesso", Path: fileName})
}

// GetImages godoc
// @Summary      List product images
// @Tags         imagens
// @Produce      json
// @Param        codpro  path  string  true  "Product code"
// @Success      200  {object}  models.ProductImages
// @Failure      404  {object}  MessageResponse
// @Router       /produtos/imagem/{codpro} [get]
func (h *ImageHandlers) GetImages(c echo.Context) error {
	images, err := h.imageService.GetImages(c.Request().Context(), c.Param("codpro"))
	if err != nil {
		if errors.Is(err, services.ErrPersistence) {
			return echo.NewHTTPError(http.StatusInternalServerError, msgListFailed)
		}
		return imageError(err, msgListFailed)
	}
	return c.JSON(http.StatusOK, images)
}

// readUpload buffers the "file" form field. A request without the field,
// or that is not multipart at all, yields a nil upload.
func readUpload(c echo.Context) (*services.ImageUpload, error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &services.ImageUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}

func imageError(err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrInvalidTarget):
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidTarget)
	case errors.Is(err, services.ErrMissingFile):
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingFile)
	case errors.Is(err, services.ErrImageNotFound):
		return echo.NewHTTPError(http.StatusNotFound, msgImageNotFound)
	case errors.Is(err, services.ErrProductNotFound):
		return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fallback)
	}
}
