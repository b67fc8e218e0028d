// Package gazette implements notice discovery and page-text retrieval
// for Brazilian official gazettes. The DOU scanner drives the imprensa
// nacional search portal, whose results are embedded as JSON in a
// script tag rather than rendered as HTML links.
package gazette

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/scanner"
)

const (
	douBaseURL      = "https://www.in.gov.br"
	defaultSection  = "do3"
	resultsScriptID = "_br_com_seatecnologia_in_buscadou_BuscaDouPortlet_params"
)

// The portal serves an empty shell to clients it does not recognize as
// browsers, so requests carry desktop headers.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7",
}

// DOUScanner queries the DOU search portal for one publication window
// and returns the notices whose titles look like competition openings.
type DOUScanner struct {
	client  *http.Client
	baseURL string
	retries int
	logger  *slog.Logger
}

// NewDOUScanner wires an HTTP client; nil gets a 30s-timeout default.
func NewDOUScanner(client *http.Client, log *slog.Logger) *DOUScanner {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &DOUScanner{client: client, baseURL: douBaseURL, retries: 3, logger: log}
}

// Name identifies the strategy inside the registry.
func (d *DOUScanner) Name() string {
	return "dou"
}

// Scan queries each requested DOU section and returns deduplicated
// notices matching the request keywords.
func (d *DOUScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Notice, error) {
	if req.From.IsZero() || req.To.IsZero() {
		return nil, fmt.Errorf("gazette %s: scan window is not set", req.Gazette)
	}

	sections := req.Sections
	if len(sections) == 0 {
		sections = []string{defaultSection}
	}

	results := make([]domain.Notice, 0)
	seen := map[string]struct{}{}

	for _, section := range sections {
		pageURL, err := d.searchURL(section, req.Query, req.From, req.To)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}

		doc, err := d.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}

		notices, err := parseResults(doc)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}
		d.debug("section scanned", "section", section, "results", len(notices))

		for _, notice := range notices {
			if !titleMatches(notice.Title, req.Keywords) {
				continue
			}
			if _, ok := seen[notice.ID]; ok {
				continue
			}
			seen[notice.ID] = struct{}{}
			results = append(results, notice)
		}
	}

	return results, nil
}

// searchURL builds the portal query. The search engine scopes terms
// with field prefixes; queries here always search the pt-BR title.
func (d *DOUScanner) searchURL(section, query string, from, to domain.Date) (string, error) {
	parsed, err := url.Parse(d.baseURL + "/consulta/-/buscar/dou")
	if err != nil {
		return "", fmt.Errorf("invalid search url: %w", err)
	}
	if query == "" {
		query = "concurso"
	}

	q := parsed.Query()
	q.Set("q", "title_pt_BR-"+query)
	q.Set("s", section)
	q.Set("exactDate", "personalizado")
	q.Set("sortType", "0")
	q.Set("publishFrom", from.Time().Format("02-01-2006"))
	q.Set("publishTo", to.Time().Format("02-01-2006"))
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

// fetchDocument retries transient failures with progressive backoff
// (2s, 4s); the portal drops connections under load.
func (d *DOUScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var lastErr error
	for attempt := 1; attempt <= d.retries; attempt++ {
		doc, err := d.fetchOnce(ctx, pageURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if attempt == d.retries {
			break
		}

		wait := time.Duration(attempt) * 2 * time.Second
		d.debug("search request failed, retrying", "attempt", attempt, "wait", wait, "error", err)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (d *DOUScanner) fetchOnce(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request search page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dou returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	return doc, nil
}

type douResult struct {
	URLTitle      string     `json:"urlTitle"`
	Title         string     `json:"title"`
	PubDate       string     `json:"pubDate"`
	EditionNumber flexString `json:"editionNumber"`
	PubName       string     `json:"pubName"`
}

// flexString tolerates the portal serializing edition numbers as either
// JSON strings or bare numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func parseResults(doc *goquery.Document) ([]domain.Notice, error) {
	raw := doc.Find(`script[id="` + resultsScriptID + `"]`).First().Text()
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("results payload script not found")
	}

	var payload struct {
		JSONArray []douResult `json:"jsonArray"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode results payload: %w", err)
	}

	notices := make([]domain.Notice, 0, len(payload.JSONArray))
	for _, result := range payload.JSONArray {
		if result.URLTitle == "" {
			continue
		}
		notices = append(notices, domain.Notice{
			ID:      result.URLTitle,
			Title:   result.Title,
			URL:     douBaseURL + "/web/dou/-/" + result.URLTitle,
			PubDate: parsePubDate(result.PubDate),
			Edition: string(result.EditionNumber),
			Section: result.PubName,
		})
	}
	return notices, nil
}

func parsePubDate(s string) domain.Date {
	for _, layout := range []string{"02/01/2006", "02-01-2006", "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return domain.DateOf(t)
		}
	}
	return domain.Date{}
}

func titleMatches(title string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func (d *DOUScanner) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
