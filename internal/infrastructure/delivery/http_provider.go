package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domain "github.com/hadesigndz/Ha-Design/internal/domain/delivery"
	"go.uber.org/zap"
)

// maxResponseSize bounds how much of a carrier response is read
const maxResponseSize = 1 << 20

// HTTPProvider registers shipments with a carrier gateway described by a Contract
type HTTPProvider struct {
	contract       Contract
	baseURL        string
	token          string
	secondaryPhone string
	httpClient     *http.Client
	logger         *zap.Logger
}

// HTTPProviderOption configures an HTTPProvider
type HTTPProviderOption func(*HTTPProvider)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) HTTPProviderOption {
	return func(p *HTTPProvider) {
		p.httpClient = c
	}
}

// WithSecondaryPhone adds telephone_2 to every payload
func WithSecondaryPhone(phone string) HTTPProviderOption {
	return func(p *HTTPProvider) {
		p.secondaryPhone = strings.TrimSpace(phone)
	}
}

// WithProviderLogger sets the logger
func WithProviderLogger(l *zap.Logger) HTTPProviderOption {
	return func(p *HTTPProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewHTTPProvider creates a provider for contract at baseURL
func NewHTTPProvider(contract Contract, baseURL, token string, timeout time.Duration, opts ...HTTPProviderOption) *HTTPProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	p := &HTTPProvider{
		contract:   contract,
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Code returns the provider id
func (p *HTTPProvider) Code() string {
	return p.contract.ID
}

// CreateShipment sends the shipment and classifies the response
func (p *HTTPProvider) CreateShipment(ctx context.Context, s *domain.Shipment) *domain.SyncResult {
	req, err := p.newRequest(ctx, s)
	if err != nil {
		return domain.Failure(p.Code(), err.Error())
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.Failure(p.Code(), err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		r := domain.Failure(p.Code(), fmt.Sprintf("failed to read response: %v", err))
		r.StatusCode = resp.StatusCode
		return r
	}

	r := p.classify(resp.StatusCode, raw)
	p.logger.Debug("carrier response",
		zap.String("provider", p.Code()),
		zap.Int("status_code", resp.StatusCode),
		zap.Bool("degraded", r.Degraded),
	)
	return r
}

func (p *HTTPProvider) classify(statusCode int, raw []byte) *domain.SyncResult {
	r := &domain.SyncResult{Provider: p.Code(), StatusCode: statusCode}
	httpOK := statusCode >= 200 && statusCode < 300
	text := strings.TrimSpace(string(raw))

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		if !httpOK {
			r.Error = fallbackMessage(text, statusCode)
			return r
		}
		r.Degraded = true
		r.Success = domain.HasSuccessMarker(text)
		if !r.Success {
			r.Error = fallbackMessage(text, statusCode)
		}
		return r
	}

	if !httpOK {
		msg := domain.ErrorMessage(body)
		if msg == "" {
			msg = fallbackMessage(text, statusCode)
		}
		r.Error = msg
		return r
	}

	r.TrackingCode = domain.ExtractTrackingCode(body)
	r.Success = domain.ClassifySuccess(true, domain.SuccessFlag(body), r.TrackingCode)
	if !r.Success {
		r.Error = domain.ErrorMessage(body)
		if r.Error == "" {
			r.Error = "carrier rejected the shipment"
		}
	}
	return r
}

func fallbackMessage(text string, statusCode int) string {
	if text != "" {
		return text
	}
	return "HTTP " + strconv.Itoa(statusCode)
}

func (p *HTTPProvider) newRequest(ctx context.Context, s *domain.Shipment) (*http.Request, error) {
	endpoint, err := p.contract.endpoint(p.baseURL, p.token)
	if err != nil {
		return nil, err
	}

	fields := p.payload(s)

	var (
		body        io.Reader
		contentType string
	)
	switch p.contract.Encoding {
	case EncodingForm:
		form := url.Values{}
		for k, v := range fields {
			form.Set(k, fmt.Sprint(v))
		}
		body = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		data, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("failed to encode shipment: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	method := p.contract.Method
	if method == "" {
		method = http.MethodPost
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	p.contract.applyHeaders(req.Header, p.token)
	return req, nil
}

func (p *HTTPProvider) payload(s *domain.Shipment) map[string]any {
	stopDesk := 0
	if s.StopDesk {
		stopDesk = 1
	}
	fields := map[string]any{
		"reference":   s.Reference,
		"nom_client":  s.RecipientName,
		"telephone":   s.Phone,
		"adresse":     s.Address,
		"code_wilaya": s.WilayaCode,
		"wilaya":      s.WilayaName,
		"commune":     s.Commune,
		"montant":     s.Amount,
		"produit":     s.ProductSummary,
		"type":        s.Type,
		"stop_desk":   stopDesk,
	}
	if p.secondaryPhone != "" {
		fields["telephone_2"] = domain.NormalizePhone(p.secondaryPhone)
	}
	for k, v := range p.contract.StaticFields {
		fields[k] = v
	}
	if p.token != "" {
		for _, f := range p.contract.TokenBodyFields {
			fields[f] = p.token
		}
	}
	return fields
}

var _ domain.Provider = (*HTTPProvider)(nil)
