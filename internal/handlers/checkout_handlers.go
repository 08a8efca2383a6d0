package handlers

import (
	"errors"
	"net/http"

	"github.com/softline/vitrine/internal/models"
	"github.com/softline/vitrine/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CheckoutErrorResponse carries the provider messages shown next to the
// checkout form.
type CheckoutErrorResponse struct {
	Message       string   `json:"message"`
	Field         string   `json:"field,omitempty"`
	ErrorMessages []string `json:"error_messages,omitempty"`
}

type CheckoutHandlers struct {
	checkoutService services.CheckoutService
}

func NewCheckoutHandlers(checkoutService services.CheckoutService) *CheckoutHandlers {
	return &CheckoutHandlers{checkoutService: checkoutService}
}

// CreatePixCharge godoc
// @Summary      Checkout with PIX
// @Description  Prices the cart, creates a PIX QR code with the provider and records the sale.
// @Tags         vendas
// @Accept       json
// @Produce      json
// @Param        body  body      models.CheckoutRequest  true  "Checkout data"
// @Success      200   {object}  models.CheckoutResult
// @Failure      400   {object}  CheckoutErrorResponse
// @Failure      422   {object}  CheckoutErrorResponse
// @Failure      502   {object}  CheckoutErrorResponse
// @Router       /vendas/pix [post]
func (h *CheckoutHandlers) CreatePixCharge(c echo.Context) error {
	var req models.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Dados da compra inválidos")
	}

	result, err := h.checkoutService.CheckoutPix(c.Request().Context(), &req)
	if err != nil {
		var verr *services.ValidationError
		var perr *services.ProviderError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, CheckoutErrorResponse{Message: verr.Message, Field: verr.Field})
		case errors.As(err, &perr):
			msgs := make([]string, 0, len(perr.Messages))
			for _, m := range perr.Messages {
				msgs = append(msgs, services.TranslateProviderMessage(m.Description))
			}
			resp := CheckoutErrorResponse{Message: "Erro ao gerar PIX", ErrorMessages: msgs}
			if len(msgs) > 0 {
				resp.Message = msgs[0]
			}
			return c.JSON(http.StatusUnprocessableEntity, resp)
		case errors.Is(err, services.ErrProviderUnavailable):
			zap.L().Error("pix provider unavailable", zap.Error(err))
			return echo.NewHTTPError(http.StatusBadGateway, "Erro ao gerar PIX")
		default:
			zap.L().Error("checkout failed", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao registrar venda")
		}
	}

	return c.JSON(http.StatusOK, result)
}
