package gazette

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/ports"
)

// Navigation and chrome lines the portal wraps around every notice.
// The fallback text path drops any line containing one of these.
var boilerplate = []string{
	"Você precisa habilitar o JavaScript",
	"Ir para o conteúdo",
	"Ir para o rodapé",
	"Acesso rápido",
	"Órgãos do Governo",
	"Acesso à Informação",
	"Legislação",
	"Acessibilidade",
	"Voltar",
	"Compartilhe:",
	"Publicador de Conteúdos e Mídias",
	"Versão certificada",
	"Diário Completo",
	"Impressão",
	"Imagem não disponível",
	"Brasão do Brasil",
	"Destaques do Diário Oficial da União",
	"Base de Dados de Publicações do DOU",
	"Verificação de autenticidade",
	"Acesso GOV.BR",
	"Mudar para o modo de alto contraste",
}

// PageExtractor fetches a notice page and reduces it to plain text.
// Readability gets the first shot; when it yields nothing the raw
// paragraph text is used with boilerplate lines filtered out.
type PageExtractor struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.TextExtractor = (*PageExtractor)(nil)

// NewPageExtractor wires an HTTP client; nil gets a 30s-timeout default.
func NewPageExtractor(client *http.Client, log *slog.Logger) *PageExtractor {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &PageExtractor{client: client, logger: log}
}

// Text downloads the notice page and returns its readable content.
func (p *PageExtractor) Text(ctx context.Context, notice domain.Notice) (string, error) {
	body, pageURL, err := p.fetch(ctx, notice.URL)
	if err != nil {
		return "", err
	}

	if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text, nil
		}
	}

	p.debug("readability yielded nothing, using paragraph fallback", "url", notice.URL)
	return fallbackText(body)
}

func (p *PageExtractor) fetch(ctx context.Context, rawURL string) ([]byte, *url.URL, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid notice url %s: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request notice page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("notice page returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read notice page: %w", err)
	}
	return body, pageURL, nil
}

func fallbackText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse notice page: %w", err)
	}

	var lines []string
	doc.Find("p, h1, h2, h3, h4, h5, h6, li, dt, dd").Each(func(_ int, sel *goquery.Selection) {
		lines = append(lines, sel.Text())
	})
	if len(lines) == 0 {
		lines = strings.Split(doc.Text(), "\n")
	}

	return strings.Join(filterLines(lines), "\n"), nil
}

// filterLines trims, drops boilerplate and near-empty navigation labels,
// and removes exact duplicates while preserving order.
func filterLines(lines []string) []string {
	seen := map[string]struct{}{}
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len([]rune(line)) <= 2 || isBoilerplate(line) {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		kept = append(kept, line)
	}
	return kept
}

func isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range boilerplate {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

func (p *PageExtractor) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
