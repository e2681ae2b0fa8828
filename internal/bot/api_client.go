package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/tasklink-api/internal/domain"
)

// Errors returned by APIClient.
var (
	// ErrNotLinked means no account is bound to the Telegram ID.
	ErrNotLinked = errors.New("telegram account not linked")
	// ErrTaskNotFound means the task does not exist or belongs to someone else.
	ErrTaskNotFound = errors.New("task not found")
)

const maxAPIResponseBytes = 1 << 20

// APIError is a non-2xx reply the client does not map to a sentinel.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

type apiErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// APIClient calls the backend's external identity endpoints.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the backend API rooted at baseURL,
// for example "http://127.0.0.1:8080/api/".
// A nil httpClient gets a 10 second timeout.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListTasks returns the tasks of the account bound to externalID.
func (c *APIClient) ListTasks(ctx context.Context, externalID int64) ([]domain.Task, error) {
	q := url.Values{"telegram_id": {strconv.FormatInt(externalID, 10)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/telegram/tasks?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var tasks []domain.Task
	if err := c.do(req, &tasks); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrNotLinked
		}
		return nil, err
	}
	return tasks, nil
}

// CompleteTask completes taskID on behalf of the account bound to externalID.
func (c *APIClient) CompleteTask(ctx context.Context, externalID, taskID int64) error {
	body, err := json.Marshal(map[string]int64{"telegram_id": externalID, "task_id": taskID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/telegram/complete-task", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			if apiErr.Code == "not_linked" {
				return ErrNotLinked
			}
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (c *APIClient) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body apiErrorBody
		if json.Unmarshal(raw, &body) == nil {
			apiErr.Code = body.Code
			apiErr.Message = body.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
