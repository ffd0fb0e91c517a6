package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
)

// gatewayRequest representa el request al gateway de pagos
type gatewayRequest struct {
	OrderID  string `json:"order_id"`
	TenantID string `json:"tenant_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// gatewayResponse representa la respuesta del gateway de pagos
type gatewayResponse struct {
	Approved    bool     `json:"approved"`
	Errors      []string `json:"errors,omitempty"`
	RedirectURL string   `json:"redirect_url,omitempty"`
}

// GatewayPayment método de pago con tarjeta vía gateway externo
// El protocolo del gateway es opaco para el checkout: solo importa el
// resultado (aprobado/rechazado) y la eventual redirección (ej: 3DS)
// Un rechazo del gateway es falla de negocio; un error HTTP es técnico
type GatewayPayment struct {
	httpClient *http.Client
	baseURL    string
	currency   string
}

// NewGatewayPayment crea una nueva instancia del método
func NewGatewayPayment() *GatewayPayment {
	baseURL := os.Getenv("PAYMENT_GATEWAY_URL")
	if baseURL == "" {
		baseURL = "http://payment-gateway:8080" // Default para entorno Docker
	}

	currency := os.Getenv("PAYMENT_CURRENCY")
	if currency == "" {
		currency = "ARS"
	}

	return &GatewayPayment{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:  baseURL,
		currency: currency,
	}
}

// Code implementa PaymentMethod
func (p *GatewayPayment) Code() string {
	return "credit_card"
}

// Verify implementa PaymentMethod (paso confirm)
func (p *GatewayPayment) Verify(ctx context.Context, order *entity.Order) (*port.PaymentResult, error) {
	return p.call(ctx, "/api/v1/payments/verify", order)
}

// Apply implementa PaymentMethod (autorización previa al cobro)
func (p *GatewayPayment) Apply(ctx context.Context, order *entity.Order) (*port.PaymentResult, error) {
	return p.call(ctx, "/api/v1/payments/authorize", order)
}

// Checkout implementa PaymentMethod (cobro definitivo)
func (p *GatewayPayment) Checkout(ctx context.Context, order *entity.Order) (*port.PaymentResult, error) {
	return p.call(ctx, "/api/v1/payments/capture", order)
}

// call ejecuta una operación contra el gateway
func (p *GatewayPayment) call(ctx context.Context, path string, order *entity.Order) (*port.PaymentResult, error) {
	reqBody := gatewayRequest{
		OrderID:  order.OrderID,
		TenantID: order.TenantID,
		Amount:   order.Total.String(),
		Currency: p.currency,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request: %w", err)
	}

	url := p.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", order.TenantID)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	// 402 es rechazo de negocio, no error técnico
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPaymentRequired {
		return nil, fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var gwResp gatewayResponse
	if err := json.Unmarshal(body, &gwResp); err != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", err)
	}

	result := &port.PaymentResult{
		Success:     gwResp.Approved,
		Errors:      gwResp.Errors,
		RedirectURL: gwResp.RedirectURL,
	}
	if !result.Success && len(result.Errors) == 0 {
		result.Errors = []string{"payment was declined"}
	}
	return result, nil
}
