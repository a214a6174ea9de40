package api

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
	"sync"
	"time"

	"github.com/iudanet/missionflow/internal/models"
	"github.com/iudanet/missionflow/pkg/api"
)

const restPrefix = "/api/v1/rest/"

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	mu         sync.RWMutex
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
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

// SetToken задает bearer токен для последующих запросов
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token возвращает текущий bearer токен
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL возвращает адрес сервера
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// Insert создает строку в коллекции и возвращает ее в виде, сохраненном сервером
func (c *Client) Insert(ctx context.Context, collection string, record map[string]any) (api.Record, error) {
	var resp api.Record
	if err := c.doRequest(ctx, http.MethodPost, restPrefix+url.PathEscape(collection), record, &resp); err != nil {
		return nil, fmt.Errorf("insert into %s failed: %w", collection, err)
	}
	return resp, nil
}

// Update частично обновляет строку по id
func (c *Client) Update(ctx context.Context, collection, id string, patch map[string]any) (api.Record, error) {
	var resp api.Record
	if err := c.doRequest(ctx, http.MethodPatch, rowPath(collection, id), withoutIdentity(patch), &resp); err != nil {
		return nil, fmt.Errorf("update %s/%s failed: %w", collection, id, err)
	}
	return resp, nil
}

// Upsert вставляет строку или сливает поля с существующей.
// Без id сервер сгенерирует его сам, что эквивалентно Insert.
func (c *Client) Upsert(ctx context.Context, collection string, record map[string]any) (api.Record, error) {
	id, _ := record[models.IdentityField].(string)
	if id == "" {
		return c.Insert(ctx, collection, record)
	}

	var resp api.Record
	if err := c.doRequest(ctx, http.MethodPut, rowPath(collection, id), record, &resp); err != nil {
		return nil, fmt.Errorf("upsert %s/%s failed: %w", collection, id, err)
	}
	return resp, nil
}

// Delete удаляет строку по id
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, rowPath(collection, id), nil, nil); err != nil {
		return fmt.Errorf("delete %s/%s failed: %w", collection, id, err)
	}
	return nil
}

// Select возвращает строки коллекции по фильтрам
func (c *Client) Select(ctx context.Context, collection string, q api.Query) ([]api.Record, error) {
	path := restPrefix + url.PathEscape(collection)
	if qs := EncodeQuery(q); qs != "" {
		path += "?" + qs
	}

	var resp []api.Record
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("select from %s failed: %w", collection, err)
	}
	return resp, nil
}

// EncodeQuery кодирует выборку в query string вида field=op.value
func EncodeQuery(q api.Query) string {
	values := url.Values{}
	for _, f := range q.Filters {
		values.Add(f.Field, string(f.Op)+"."+f.Value)
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.OrderDesc {
			dir = "desc"
		}
		values.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values.Encode()
}

func rowPath(collection, id string) string {
	return restPrefix + url.PathEscape(collection) + "/" + url.PathEscape(id)
}

// withoutIdentity убирает id из тела PATCH: id передается в пути
func withoutIdentity(patch map[string]any) map[string]any {
	if _, ok := patch[models.IdentityField]; !ok {
		return patch
	}
	out := make(map[string]any, len(patch))
	for k, v := range patch {
		if k != models.IdentityField {
			out[k] = v
		}
	}
	return out
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
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
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
			if errResp.Message != "" {
				apiErr.Message += ": " + errResp.Message
			}
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
