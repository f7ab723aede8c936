// Package remote talks to the authenticated vocabulary service over JSON HTTP.
package remote

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

	"github.com/sirupsen/logrus"

	"github.com/japaniel/vocabdrill/pkg/source"
)

const (
	defaultTimeout = 30 * time.Second
	// responses larger than this are treated as broken
	maxBodySize = 10 * 1024 * 1024
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: %s: unexpected status %d", e.Op, e.Status)
}

// Endpoints groups the service base URLs.
type Endpoints struct {
	Auth       string
	API        string
	Dictionary string
}

// Client implements source.VocabularyProvider.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient creates a client with the given per-request timeout.
func NewClient(endpoints Endpoints, timeout time.Duration, logger logrus.FieldLogger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.WithField("adapter", "remote"),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds source.Credentials) (string, error) {
	body, err := json.Marshal(loginRequest{Username: creds.Login, Password: creds.Password})
	if err != nil {
		return "", fmt.Errorf("remote: encode login: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, join(c.endpoints.Auth, "login"), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("remote: create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp loginResponse
	if err := c.do(req, "login", &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

type setsResponse struct {
	Data []struct {
		ID int64 `json:"id"`
	} `json:"data"`
}

// ListSets returns the vocabulary set ids of an account.
func (c *Client) ListSets(ctx context.Context, token, account string) ([]int64, error) {
	u := join(c.endpoints.API, "students", url.PathEscape(account), "wordsets")
	req, err := c.authorized(ctx, token, u)
	if err != nil {
		return nil, err
	}
	var resp setsResponse
	if err := c.do(req, "list sets", &resp); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(resp.Data))
	for _, s := range resp.Data {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

type membersResponse struct {
	Data []struct {
		MeaningID int64 `json:"meaningId"`
	} `json:"data"`
	Meta struct {
		LastPage int `json:"lastPage"`
	} `json:"meta"`
}

// ListSetMembers returns one page of meaning ids of a set.
func (c *Client) ListSetMembers(ctx context.Context, token string, setID int64, page int) (source.MemberPage, error) {
	u := join(c.endpoints.API, "wordsets", strconv.FormatInt(setID, 10), "words") + "?page=" + strconv.Itoa(page)
	req, err := c.authorized(ctx, token, u)
	if err != nil {
		return source.MemberPage{}, err
	}
	var resp membersResponse
	if err := c.do(req, "list set members", &resp); err != nil {
		return source.MemberPage{}, err
	}
	mp := source.MemberPage{LastPage: resp.Meta.LastPage}
	for _, m := range resp.Data {
		mp.MeaningIDs = append(mp.MeaningIDs, m.MeaningID)
	}
	return mp, nil
}

type meaningRecord struct {
	ID            int64  `json:"id"`
	Text          string `json:"text"`
	Transcription string `json:"transcription"`
	Translation   struct {
		Text string `json:"text"`
	} `json:"translation"`
}

// ResolveMeanings fetches meaning records for the given ids in a single request.
func (c *Client) ResolveMeanings(ctx context.Context, token string, ids []int64) ([]source.Meaning, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	u := join(c.endpoints.Dictionary, "meanings") + "?ids=" + url.QueryEscape(strings.Join(parts, ","))
	req, err := c.authorized(ctx, token, u)
	if err != nil {
		return nil, err
	}
	var records []meaningRecord
	if err := c.do(req, "resolve meanings", &records); err != nil {
		return nil, err
	}
	out := make([]source.Meaning, 0, len(records))
	for _, r := range records {
		out = append(out, source.Meaning{
			ID:            r.ID,
			Text:          r.Text,
			Translation:   r.Translation.Text,
			Transcription: r.Transcription,
		})
	}
	return out, nil
}

func (c *Client) authorized(ctx context.Context, token, u string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, op string, out any) error {
	c.log.WithFields(logrus.Fields{"op": op, "url": req.URL.Redacted()}).Debug("remote request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("remote: %s: read body: %w", op, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("remote: %s: decode json: %w", op, err)
	}
	return nil
}

func join(base string, elems ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(elems, "/")
}
