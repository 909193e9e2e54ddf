// Package client реализует клиентскую часть витрины маркетплейса:
// HTTP-клиент API, локальное состояние покупателя и процесс оформления покупки.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// Client HTTP-клиент API маркетплейса.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient создает новый клиент API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken устанавливает JWT для последующих запросов.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// envelope формат ответа сервера.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 || env.Status == "Error" {
		if env.Error != "" {
			return errors.New(env.Error)
		}
		return errors.New("unexpected status: " + resp.Status)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// AuthResult результат регистрации или входа.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register создает учетную запись и запоминает выданный токен.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if err != nil {
		return nil, err
	}
	var res AuthResult
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res, nil
}

// Login выполняет вход и запоминает выданный токен.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/login", map[string]string{
		"email": email, "password": password,
	})
	if err != nil {
		return nil, err
	}
	var res AuthResult
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res, nil
}

// Me возвращает профиль текущего пользователя.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/auth/me", nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		User *models.User `json:"user"`
	}
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}

// ListCourses возвращает каталог курсов с необязательными фильтрами.
func (c *Client) ListCourses(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	path := "/api/v1/courses"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Courses []*models.Course `json:"courses"`
	}
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return res.Courses, nil
}

// GetCourse возвращает курс по ID.
func (c *Client) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v1/courses/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Course *models.Course `json:"course"`
	}
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return res.Course, nil
}

// Purchase покупает один курс.
func (c *Client) Purchase(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/api/v1/orders", req)
	if err != nil {
		return nil, err
	}
	var res struct {
		Order *models.Order `json:"order"`
	}
	if err := c.do(httpReq, &res); err != nil {
		return nil, err
	}
	return res.Order, nil
}

// MyOrders возвращает заказы текущего пользователя.
func (c *Client) MyOrders(ctx context.Context) ([]*models.Order, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/orders/my/purchases", nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Orders []*models.Order `json:"orders"`
	}
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return res.Orders, nil
}
