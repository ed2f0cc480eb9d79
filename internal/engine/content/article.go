package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"watchlater/internal/engine"
)

const (
	maxArticleBytes = 4 * 1024 * 1024
	minArticleChars = 50
)

// ErrNoContent is returned when a page yields less than minArticleChars of
// body text — typically a paywall or a JavaScript-only page.
var ErrNoContent = errors.New("could not extract meaningful content from this article; the page may be behind a paywall or require JavaScript")

// Article is extracted page content normalized to markdown.
type Article struct {
	Title    string
	Markdown string
}

// ExtractArticle fetches a web page and pulls out its main text content:
// a goquery paragraph walk first, a bare tokenizer pass when the document
// is too broken for that, then markdown normalization.
func ExtractArticle(ctx context.Context, rawURL string) (Article, error) {
	engine.IncrArticle()

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return Article{}, fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleBytes))
	if err != nil {
		return Article{}, fmt.Errorf("read article: %w", err)
	}

	title, fragment := extractMain(string(body))
	if plain := engine.CleanHTML(fragment); len(plain) < minArticleChars {
		return Article{}, ErrNoContent
	}

	markdown, err := htmltomarkdown.ConvertString(fragment)
	if err != nil || strings.TrimSpace(markdown) == "" {
		markdown = engine.CleanHTML(fragment)
	}
	if title == "" {
		title = "Untitled Article"
	}
	return Article{Title: title, Markdown: strings.TrimSpace(markdown)}, nil
}

// extractMain returns the page title and an HTML fragment of the content
// paragraphs, with boilerplate containers dropped.
func extractMain(page string) (title, fragment string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", tokenizerFallback(page)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && og != "" {
		title = strings.TrimSpace(og)
	}

	doc.Find("script, style, nav, header, footer, aside, noscript").Remove()

	var sb strings.Builder
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) <= 20 {
			return
		}
		inner, err := goquery.OuterHtml(sel)
		if err != nil {
			return
		}
		sb.WriteString(inner)
		sb.WriteByte('\n')
	})

	if sb.Len() == 0 {
		return title, tokenizerFallback(page)
	}
	return title, sb.String()
}

// tokenizerFallback walks the raw token stream for text nodes when the
// document cannot be parsed into a usable tree.
func tokenizerFallback(page string) string {
	tok := html.NewTokenizer(strings.NewReader(page))
	var sb strings.Builder
	skipDepth := 0
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.StartTagToken:
			name, _ := tok.TagName()
			if isBoilerplateTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tok.TagName()
			if isBoilerplateTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(tok.Text()))
			if len(text) > 20 {
				sb.WriteString("<p>")
				sb.WriteString(html.EscapeString(text))
				sb.WriteString("</p>\n")
			}
		}
	}
}

func isBoilerplateTag(name string) bool {
	switch name {
	case "script", "style", "nav", "header", "footer", "aside", "noscript":
		return true
	}
	return false
}
