package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"makani-studio/internal/domain/i18n"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.mymemory.translated.net"

type Client struct {
	baseURL  string
	email    string
	parallel bool
	http     *http.Client
	log      *zap.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") } }

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithEmail raises the MyMemory daily quota for the given contact address.
func WithEmail(email string) Option { return func(c *Client) { c.email = email } }

// WithParallel translates both targets of a field concurrently.
func WithParallel(on bool) Option { return func(c *Client) { c.parallel = on } }

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type response struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// TranslateText translates one text. Blank input gives "" and identical
// languages give the input back, both without a request.
func (c *Client) TranslateText(ctx context.Context, text string, from, to i18n.Language) (string, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return "", nil
	}
	if from == to {
		return input, nil
	}

	q := url.Values{}
	q.Set("q", input)
	q.Set("langpair", string(from)+"|"+string(to))
	if c.email != "" {
		q.Set("de", c.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("translation failed (%d)", resp.StatusCode)
	}

	var data response
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode translation: %w", err)
	}
	translated := strings.TrimSpace(data.ResponseData.TranslatedText)
	if translated == "" {
		return input, nil
	}
	return DecodeEntities(translated), nil
}

// TranslateToAll seeds the source slot with the trimmed input and fills the
// other two from the API. A failed target keeps the original text.
func (c *Client) TranslateToAll(ctx context.Context, text string, source i18n.Language) i18n.LocalizedText {
	value := strings.TrimSpace(text)
	if value == "" {
		return i18n.LocalizedText{}
	}
	if _, ok := i18n.ParseLanguage(string(source)); !ok {
		source = i18n.EN
	}

	var out i18n.LocalizedText
	out.Set(source, value)

	targets := make([]i18n.Language, 0, 2)
	for _, lang := range i18n.Languages {
		if lang != source {
			targets = append(targets, lang)
		}
	}

	if !c.parallel {
		for _, target := range targets {
			out.Set(target, c.translateOrKeep(ctx, value, source, target))
		}
		return out
	}

	results := make([]string, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target i18n.Language) {
			defer wg.Done()
			results[i] = c.translateOrKeep(ctx, value, source, target)
		}(i, target)
	}
	wg.Wait()
	for i, target := range targets {
		out.Set(target, results[i])
	}
	return out
}

func (c *Client) translateOrKeep(ctx context.Context, value string, from, to i18n.Language) string {
	translated, err := c.TranslateText(ctx, value, from, to)
	if err != nil {
		c.log.Warn("translation fallback",
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(err),
		)
		return value
	}
	return translated
}

// DecodeEntities undoes the HTML escaping MyMemory applies to its output.
// Replacements run in sequence, so "&amp;lt;" ends up as "<".
func DecodeEntities(s string) string {
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	return s
}
