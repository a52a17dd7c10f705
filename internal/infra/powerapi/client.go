// Package powerapi fetches outage schedules from the regional power company.
package powerapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"shutdown_notification_bot/internal/domain/outage"
)

// ErrFetch marks any transport, status, decoding or validation failure.
// Callers treat it like an empty response.
var ErrFetch = errors.New("schedule fetch failed")

const maxBodyBytes = 1 << 20

var defaultHeaders = map[string]string{
	"Accept":       "application/json, text/plain, */*",
	"Origin":       "https://svitlo.oe.if.ua",
	"Content-Type": "application/x-www-form-urlencoded;charset=UTF-8",
	"User-Agent":   "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36",
	"Referer":      "https://svitlo.oe.if.ua/",
}

type Client struct {
	httpClient    *http.Client
	baseURL       string
	accountNumber string
	validate      *validator.Validate
	logger        *logrus.Entry
}

func NewClient(baseURL, accountNumber string, timeout time.Duration, logger *logrus.Entry) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       baseURL,
		accountNumber: accountNumber,
		validate:      validator.New(),
		logger:        logger,
	}
}

// FetchSchedule posts the account search form and decodes the schedule payload.
// Every failure is wrapped in ErrFetch.
func (c *Client) FetchSchedule(ctx context.Context) (*outage.ScheduleRoot, error) {
	form := url.Values{}
	form.Set("accountNumber", c.accountNumber)
	form.Set("userSearchChoice", "pob")
	form.Set("address", "")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d, body: %s", ErrFetch, resp.StatusCode, truncate(body, 256))
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return nil, fmt.Errorf("%w: unexpected content type %q", ErrFetch, resp.Header.Get("Content-Type"))
	}

	var root outage.ScheduleRoot
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrFetch, err)
	}
	if err := c.validate.Struct(&root); err != nil {
		return nil, fmt.Errorf("%w: invalid schedule payload: %v", ErrFetch, err)
	}

	c.logger.WithFields(logrus.Fields{
		"days":     len(root.Schedule),
		"queue_id": root.Current.QueueID(),
	}).Debug("Schedule fetched")

	return &root, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
