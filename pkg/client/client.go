// Package client предоставляет Go HTTP клиент для JSON Haven API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jsonhaven/jsonhaven/pkg/api"
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Сохраняем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetToken устанавливает bearer токен для последующих запросов
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login выполняет аутентификацию и сохраняет полученный токен в клиенте
func (c *Client) Login(ctx context.Context, email, password string) (*api.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp api.TokenResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	c.token = resp.AccessToken
	return &resp, nil
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.CreateUserRequest) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Me возвращает учетную запись владельца токена
func (c *Client) Me(ctx context.Context) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp, nil
}

// UpdateMe частично обновляет учетную запись владельца токена
func (c *Client) UpdateMe(ctx context.Context, req api.UpdateUserRequest) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doJSON(ctx, http.MethodPut, "/users/me", req, &resp); err != nil {
		return nil, fmt.Errorf("update me request failed: %w", err)
	}
	return &resp, nil
}

// DeleteMe удаляет учетную запись владельца токена
func (c *Client) DeleteMe(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/users/me", nil, nil); err != nil {
		return fmt.Errorf("delete me request failed: %w", err)
	}
	return nil
}

// ListUsers возвращает пользователей с пагинацией
func (c *Client) ListUsers(ctx context.Context, skip, limit int) ([]api.UserResponse, error) {
	var resp []api.UserResponse
	path := fmt.Sprintf("/users?skip=%d&limit=%d", skip, limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list users request failed: %w", err)
	}
	return resp, nil
}

// GetUser возвращает пользователя по ID
func (c *Client) GetUser(ctx context.Context, userID string) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+userID, nil, &resp); err != nil {
		return nil, fmt.Errorf("get user request failed: %w", err)
	}
	return &resp, nil
}

// UpdateUser частично обновляет пользователя по ID
func (c *Client) UpdateUser(ctx context.Context, userID string, req api.UpdateUserRequest) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doJSON(ctx, http.MethodPut, "/users/"+userID, req, &resp); err != nil {
		return nil, fmt.Errorf("update user request failed: %w", err)
	}
	return &resp, nil
}

// DeleteUser удаляет пользователя по ID
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/users/"+userID, nil, nil); err != nil {
		return fmt.Errorf("delete user request failed: %w", err)
	}
	return nil
}

// CreateDocument создает новый документ
func (c *Client) CreateDocument(ctx context.Context, req api.CreateDocumentRequest) (*api.DocumentResponse, error) {
	var resp api.DocumentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/documents", req, &resp); err != nil {
		return nil, fmt.Errorf("create document request failed: %w", err)
	}
	return &resp, nil
}

// ListDocuments возвращает документы с пагинацией
func (c *Client) ListDocuments(ctx context.Context, skip, limit int) ([]api.DocumentResponse, error) {
	var resp []api.DocumentResponse
	path := fmt.Sprintf("/documents?skip=%d&limit=%d", skip, limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list documents request failed: %w", err)
	}
	return resp, nil
}

// GetDocument возвращает документ по ID
func (c *Client) GetDocument(ctx context.Context, docID string) (*api.DocumentResponse, error) {
	var resp api.DocumentResponse
	if err := c.doJSON(ctx, http.MethodGet, "/documents/"+docID, nil, &resp); err != nil {
		return nil, fmt.Errorf("get document request failed: %w", err)
	}
	return &resp, nil
}

// UpdateDocument частично обновляет документ по ID
func (c *Client) UpdateDocument(ctx context.Context, docID string, req api.UpdateDocumentRequest) (*api.DocumentResponse, error) {
	var resp api.DocumentResponse
	if err := c.doJSON(ctx, http.MethodPut, "/documents/"+docID, req, &resp); err != nil {
		return nil, fmt.Errorf("update document request failed: %w", err)
	}
	return &resp, nil
}

// DeleteDocument удаляет документ по ID
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/documents/"+docID, nil, nil); err != nil {
		return fmt.Errorf("delete document request failed: %w", err)
	}
	return nil
}

// doJSON выполняет HTTP запрос с JSON телом и декодирует JSON ответ
func (c *Client) doJSON(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, result)
}

// do выполняет подготовленный запрос, добавляя bearer токен при наличии
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
