/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package jservice talks to a jService-compatible trivia API, such as
// https://rithm-jeopardy.herokuapp.com/api.
//
//	GET {base}/categories?count=N   -> [{"id":2,"title":"baseball","clues_count":5}, ...]
//	GET {base}/category?id=2        -> {"id":2,"title":"baseball","clues":[{"question":"...","answer":"..."}, ...]}
package jservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/jeopardy/internal/trivia"
)

const (
	DefaultBaseURL = "https://rithm-jeopardy.herokuapp.com/api"

	maxBodySize int64 = 4 << 20
)

var markup = regexp.MustCompile(`<[^>]*>`)

type category struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	CluesCount int    `json:"clues_count"`
	Clues      []clue `json:"clues"`
}

type clue struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Client implements trivia.Provider over HTTP.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
}

// New returns a client for baseURL with a per-request timeout.
func New(baseURL string, timeout time.Duration, userAgent string) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported api url scheme %q", base.Scheme)
	}

	return &Client{
		base:      base,
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}, nil
}

// ListCategoryIDs returns up to count category IDs.
func (c *Client) ListCategoryIDs(ctx context.Context, count int) ([]trivia.CategoryID, error) {
	var cats []category
	if err := c.get(ctx, "categories", url.Values{"count": {strconv.Itoa(count)}}, &cats); err != nil {
		return nil, err
	}

	ids := make([]trivia.CategoryID, 0, len(cats))
	for _, cat := range cats {
		ids = append(ids, trivia.CategoryID(strconv.FormatInt(cat.ID, 10)))
	}

	return ids, nil
}

// FetchCategory returns the title and clues of one category, with HTML
// markup and entities stripped from the text.
func (c *Client) FetchCategory(ctx context.Context, id trivia.CategoryID) (trivia.RawCategory, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err != nil {
		return trivia.RawCategory{}, fmt.Errorf("invalid category id %q", id)
	}

	var cat category
	if err := c.get(ctx, "category", url.Values{"id": {string(id)}}, &cat); err != nil {
		return trivia.RawCategory{}, err
	}

	raw := trivia.RawCategory{
		Title: clean(cat.Title),
		Clues: make([]trivia.RawClue, 0, len(cat.Clues)),
	}
	for _, cl := range cat.Clues {
		raw.Clues = append(raw.Clues, trivia.RawClue{
			Question: clean(cl.Question),
			Answer:   clean(cl.Answer),
		})
	}

	return raw, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, into any) error {
	u := c.base.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return fmt.Errorf("get %s: unexpected status %s", path, resp.Status)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize))
	if err := dec.Decode(into); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("get %s: empty response", path)
		}
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(markup.ReplaceAllString(s, "")))
}
