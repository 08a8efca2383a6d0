package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/softline/vitrine/internal/models"
)

// ErrProviderUnavailable is returned when the PIX provider could not be
// reached or answered with a server error.
var ErrProviderUnavailable = errors.New("pix provider unavailable")

// PixService creates PIX charges with the payment provider.
type PixService interface {
	CreateCharge(ctx context.Context, req *PixChargeRequest) (*models.PixCharge, error)
}

type PixChargeRequest struct {
	ReferenceID string       `json:"reference_id"`
	Customer    PixCustomer  `json:"customer"`
	Items       []PixItem    `json:"items"`
	QRCodes     []PixQRCode  `json:"qr_codes"`
	Shipping    *PixShipping `json:"shipping,omitempty"`
}

type PixCustomer struct {
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	TaxID  string     `json:"tax_id"`
	Phones []PixPhone `json:"phones"`
}

type PixPhone struct {
	Country string `json:"country"`
	Area    string `json:"area"`
	Number  string `json:"number"`
	Type    string `json:"type"`
}

type PixItem struct {
	ReferenceID string `json:"reference_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	UnitAmount  int64  `json:"unit_amount"`
}

type PixQRCode struct {
	Amount         models.PixAmount `json:"amount"`
	ExpirationDate string           `json:"expiration_date"`
}

type PixShipping struct {
	Address PixAddress `json:"address"`
}

type PixAddress struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	Locality   string `json:"locality"`
	City       string `json:"city"`
	RegionCode string `json:"region_code"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// ProviderErrorMessage is one entry of the provider's error_messages array.
type ProviderErrorMessage struct {
	Code          string `json:"code,omitempty"`
	Description   string `json:"description"`
	ParameterName string `json:"parameter_name,omitempty"`
}

// ProviderError carries the validation messages returned by the provider.
type ProviderError struct {
	StatusCode int
	Messages   []ProviderErrorMessage
}

func (e *ProviderError) Error() string {
	descs := make([]string, len(e.Messages))
	for i, m := range e.Messages {
		descs[i] = m.Description
	}
	return fmt.Sprintf("pix provider rejected charge (%d): %s", e.StatusCode, strings.Join(descs, "; "))
}

type pixResponse struct {
	ID            string                 `json:"id"`
	ErrorMessages []ProviderErrorMessage `json:"error_messages"`
	QRCodes       []models.PixCharge     `json:"qr_codes"`
}

type pixService struct {
	apiToken string
	baseURL  string
	http     *http.Client
}

// NewPixService returns a client for the provider's orders endpoint at baseURL.
func NewPixService(baseURL, apiToken string, timeout time.Duration) PixService {
	return &pixService{
		apiToken: apiToken,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
	}
}

func (s *pixService) CreateCharge(ctx context.Context, req *PixChargeRequest) (*models.PixCharge, error) {
	status, body, err := s.makeRequest(ctx, http.MethodPost, "/orders", req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if status >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, status)
	}

	var resp pixResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrProviderUnavailable, err)
	}
	if len(resp.ErrorMessages) > 0 {
		return nil, &ProviderError{StatusCode: status, Messages: resp.ErrorMessages}
	}
	if status >= http.StatusBadRequest {
		return nil, &ProviderError{StatusCode: status, Messages: []ProviderErrorMessage{{Description: http.StatusText(status)}}}
	}
	if len(resp.QRCodes) == 0 {
		return nil, fmt.Errorf("%w: response without qr code", ErrProviderUnavailable)
	}

	charge := resp.QRCodes[0]
	if charge.ID == "" {
		charge.ID = resp.ID
	}
	return &charge, nil
}

func (s *pixService) makeRequest(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

// TranslateProviderMessage turns provider validation messages the buyer can
// act on into Portuguese.
func TranslateProviderMessage(description string) string {
	switch description {
	case "must be a valid CPF or CNPJ":
		return "Digite um CPF ou CNPJ Válido"
	default:
		return description
	}
}
