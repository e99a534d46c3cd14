package archiveapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/context/ctxhttp"

	"github.com/rVladislavrr/codes/internal/model"
)

// 응답 시 받는 데이터 구조체
type RespObject interface {
	model.Archive | []model.Archive
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("archive api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) url(path string) string { return c.BaseURL + "/api/v1" + path }

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, http.Header, error) {
	req, err := http.NewRequest(method, c.url(path), body)
	if err != nil {
		return nil, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := ctxhttp.Do(ctx, c.HTTP, req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return data, resp.Header, nil
}

func doJSON[T RespObject](ctx context.Context, c *Client, method, path, contentType string, body io.Reader) (T, error) {
	var out T
	data, _, err := c.do(ctx, method, path, contentType, body)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal: [%s %s] %w", method, path, err)
	}
	return out, nil
}

// Upload는 multipart로 파일을 올려 서버에서 압축/저장한다.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (*model.Archive, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	a, err := doJSON[model.Archive](ctx, c, http.MethodPost, "/archives", mw.FormDataContentType(), &body)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) Get(ctx context.Context, id string) (*model.Archive, error) {
	a, err := doJSON[model.Archive](ctx, c, http.MethodGet, "/archives/"+url.PathEscape(id), "", nil)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) List(ctx context.Context) ([]model.Archive, error) {
	return doJSON[[]model.Archive](ctx, c, http.MethodGet, "/archives", "", nil)
}

// Container는 압축된 컨테이너 바이트를 그대로 받는다.
func (c *Client) Container(ctx context.Context, id string) ([]byte, error) {
	data, _, err := c.do(ctx, http.MethodGet, "/archives/"+url.PathEscape(id)+"/container", "", nil)
	return data, err
}

// Content는 서버에서 복원된 원본과 tag를 받는다.
func (c *Client) Content(ctx context.Context, id string) ([]byte, string, error) {
	data, h, err := c.do(ctx, http.MethodGet, "/archives/"+url.PathEscape(id)+"/content", "", nil)
	if err != nil {
		return nil, "", err
	}
	return data, h.Get("X-Archive-Tag"), nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, _, err := c.do(ctx, http.MethodDelete, "/archives/"+url.PathEscape(id), "", nil)
	return err
}
