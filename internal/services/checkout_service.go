package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/softline/vitrine/internal/metrics"
	"github.com/softline/vitrine/internal/models"
	"github.com/softline/vitrine/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ValidationError reports a checkout field the buyer has to fix.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CheckoutConfig holds the pricing rules of the storefront. Amounts are in reais.
type CheckoutConfig struct {
	FreeShippingMin float64
	ShippingFee     float64
	PixExpiration   time.Duration
}

type CheckoutService interface {
	CheckoutPix(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResult, error)
}

type checkoutService struct {
	productRepo repositories.ProductRepository
	saleRepo    repositories.SaleRepository
	pixService  PixService
	metrics     *metrics.Metrics
	cfg         CheckoutConfig
	now         func() time.Time
}

func NewCheckoutService(productRepo repositories.ProductRepository, saleRepo repositories.SaleRepository, pixService PixService, m *metrics.Metrics, cfg CheckoutConfig) CheckoutService {
	return &checkoutService{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		pixService:  pixService,
		metrics:     m,
		cfg:         cfg,
		now:         time.Now,
	}
}

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func validateCheckout(req *models.CheckoutRequest) error {
	required := []struct{ field, value string }{
		{"name", req.Buyer.Name},
		{"email", req.Buyer.Email},
		{"cpfCnpj", req.Buyer.CpfCnpj},
		{"area", req.Phone.Area},
		{"number", req.Phone.Number},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "campo obrigatório"}
		}
	}
	if !strings.Contains(req.Buyer.Email, "@") {
		return &ValidationError{Field: "email", Message: "email inválido"}
	}
	if n := len(digitsOnly(req.Buyer.CpfCnpj)); n < 11 || n > 14 {
		return &ValidationError{Field: "cpfCnpj", Message: "Digite um CPF ou CNPJ Válido"}
	}
	if len(req.Items) == 0 {
		return &ValidationError{Field: "produtos", Message: "carrinho vazio"}
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.CodPro) == "" {
			return &ValidationError{Field: "produtos", Message: "produto sem código"}
		}
		if item.Quantity <= 0 {
			return &ValidationError{Field: "produtos", Message: fmt.Sprintf("quantidade inválida para o produto %s", item.CodPro)}
		}
	}
	return nil
}

// CheckoutPix prices the cart from the catalog, asks the provider for a PIX
// QR code and records the sale.
func (s *checkoutService) CheckoutPix(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResult, error) {
	if err := validateCheckout(req); err != nil {
		s.metrics.PixCharge("invalid")
		return nil, err
	}

	items := make([]PixItem, 0, len(req.Items))
	var subtotal int64
	for _, item := range req.Items {
		product, err := s.productRepo.GetByCode(ctx, item.CodPro)
		if errors.Is(err, repositories.ErrNotFound) {
			s.metrics.PixCharge("invalid")
			return nil, &ValidationError{Field: "produtos", Message: fmt.Sprintf("produto %s não encontrado", item.CodPro)}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		unit := toCents(product.Price)
		subtotal += unit * int64(item.Quantity)
		items = append(items, PixItem{
			ReferenceID: product.CodPro,
			Name:        product.Name,
			Quantity:    item.Quantity,
			UnitAmount:  unit,
		})
	}

	var shipping int64
	if subtotal < toCents(s.cfg.FreeShippingMin) {
		shipping = toCents(s.cfg.ShippingFee)
	}
	total := subtotal + shipping

	saleID := uuid.New()
	expiresAt := s.now().Add(s.cfg.PixExpiration)
	chargeReq := &PixChargeRequest{
		ReferenceID: saleID.String(),
		Customer: PixCustomer{
			Name:  strings.TrimSpace(req.Buyer.Name),
			Email: strings.TrimSpace(req.Buyer.Email),
			TaxID: digitsOnly(req.Buyer.CpfCnpj),
			Phones: []PixPhone{{
				Country: "55",
				Area:    digitsOnly(req.Phone.Area),
				Number:  digitsOnly(req.Phone.Number),
				Type:    "MOBILE",
			}},
		},
		Items: items,
		QRCodes: []PixQRCode{{
			Amount:         models.PixAmount{Value: total},
			ExpirationDate: expiresAt.Format(time.RFC3339),
		}},
	}
	if req.Address.Street != "" {
		chargeReq.Shipping = &PixShipping{Address: PixAddress{
			Street:     req.Address.Street,
			Number:     req.Address.Number,
			Complement: req.Address.Complement,
			Locality:   req.Address.District,
			City:       req.Address.City,
			RegionCode: req.Address.State,
			Country:    "BRA",
			PostalCode: digitsOnly(req.Address.PostalCode),
		}}
	}

	charge, err := s.pixService.CreateCharge(ctx, chargeReq)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			s.metrics.PixCharge("rejected")
		} else {
			s.metrics.PixCharge("error")
		}
		return nil, err
	}
	s.metrics.PixCharge("ok")

	sale := &models.Sale{
		ID:             saleID,
		CodCli:         req.CodCli,
		Subtotal:       float64(subtotal) / 100,
		Shipping:       float64(shipping) / 100,
		Total:          float64(total) / 100,
		PixText:        charge.Text,
		ExpirationDate: &expiresAt,
	}
	if err := s.saleRepo.Create(ctx, sale); err != nil {
		zap.L().Error("pix charge created but sale not recorded",
			zap.String("sale_id", saleID.String()), zap.String("charge_id", charge.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	zap.L().Info("pix charge created",
		zap.String("sale_id", saleID.String()), zap.String("codcli", req.CodCli), zap.Int64("total_cents", total))
	return &models.CheckoutResult{SaleID: saleID, PixCharge: *charge}, nil
}
