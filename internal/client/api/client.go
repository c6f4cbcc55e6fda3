package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/shiftkeeper/pkg/api"
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetClientID sets the id sent in the X-Client-ID header with every request.
// Сервер использует его как origin для событий удаления.
func (c *Client) SetClientID(clientID string) {
	c.clientID = clientID
}

// BaseURL returns the server address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", "", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", "", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// ListShifts получает все смены текущего пользователя
func (c *Client) ListShifts(ctx context.Context, accessToken string) ([]api.Shift, error) {
	var resp api.ListShiftsResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/shifts", accessToken, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("list shifts request failed: %w", err)
	}
	return resp.Shifts, nil
}

// UpsertShift создает или обновляет смену по её ID
func (c *Client) UpsertShift(ctx context.Context, accessToken string, shift api.Shift) (*api.Shift, error) {
	var resp api.Shift
	path := "/api/v1/shifts/" + url.PathEscape(shift.ID)
	err := c.doRequest(ctx, http.MethodPut, path, accessToken, shift, &resp)
	if err != nil {
		return nil, fmt.Errorf("upsert shift request failed: %w", err)
	}
	return &resp, nil
}

// DeleteShift удаляет смену на сервере
func (c *Client) DeleteShift(ctx context.Context, accessToken, id string) error {
	path := "/api/v1/shifts/" + url.PathEscape(id)
	if err := c.doRequest(ctx, http.MethodDelete, path, accessToken, nil, nil); err != nil {
		return fmt.Errorf("delete shift request failed: %w", err)
	}
	return nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", "", nil, nil); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body, result interface{}) error {
	fullURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal request body: %w", ErrPermanent, err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrPermanent, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if c.clientID != "" {
		req.Header.Set(api.ClientIDHeader, c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Сетевые ошибки и таймауты - временные
		return fmt.Errorf("%w: request failed: %w", ErrTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrTransient, err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(respBody))}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			statusErr.Message = errResp.Message
			if statusErr.Message == "" {
				statusErr.Message = errResp.Error
			}
		}
		return statusErr
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %w", ErrPermanent, err)
		}
	}

	return nil
}
