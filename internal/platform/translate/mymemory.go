// Package translate talks to the external translation endpoint.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
)

const DefaultBaseURL = "https://api.mymemory.translated.net"

// Client calls a MyMemory-compatible GET endpoint.
type Client struct {
	BaseURL string
	Email   string
	http    *resty.Client
}

func NewClient(baseURL, email string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Email:   email,
		http:    resty.New().SetTimeout(timeout),
	}
}

// status is sent as a number on success and sometimes as a quoted string on
// errors.
type status int

func (s *status) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*s = 0
		return nil
	}
	*s = status(n)
	return nil
}

type response struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  status          `json:"responseStatus"`
	ResponseDetails json.RawMessage `json:"responseDetails"`
}

// Translate returns text translated from source to target. Every failure is
// reported as common.ErrTranslationUnavailable.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty input", common.ErrTranslationUnavailable)
	}

	var resp response
	req := c.http.R().SetContext(ctx).
		SetQueryParam("q", text).
		SetQueryParam("langpair", source+"|"+target).
		SetResult(&resp)
	if c.Email != "" {
		req.SetQueryParam("de", c.Email)
	}

	r, err := req.Get(c.BaseURL + "/get")
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrTranslationUnavailable, err)
	}
	if r.IsError() {
		return "", fmt.Errorf("%w: %s", common.ErrTranslationUnavailable, r.Status())
	}
	if resp.ResponseStatus != 200 {
		return "", fmt.Errorf("%w: endpoint status %d: %s", common.ErrTranslationUnavailable, resp.ResponseStatus, details(resp.ResponseDetails))
	}

	out := strings.TrimSpace(html.UnescapeString(resp.ResponseData.TranslatedText))
	if out == "" {
		return "", fmt.Errorf("%w: empty translation", common.ErrTranslationUnavailable)
	}
	if strings.HasPrefix(out, "MYMEMORY WARNING") {
		return "", fmt.Errorf("%w: %s", common.ErrTranslationUnavailable, out)
	}
	return out, nil
}

func details(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
