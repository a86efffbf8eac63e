package searchclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

const maxReadBytes = 20 * 1024 * 1024 // 20MB

// ReadURL fetches rawURL and returns its extracted text content: PDF
// documents go through unipdf's text extractor, everything else through
// go-readability's article extraction.
func (c *Client) ReadURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("searchclient: build read request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("searchclient: read request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("searchclient: %s returned status %d", rawURL, resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxReadBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("searchclient: read response body: %w", err)
	}
	if len(body) > maxReadBytes {
		return "", fmt.Errorf("searchclient: %s exceeds the %d byte read limit", rawURL, maxReadBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/pdf") {
		return extractPDFText(body)
	}
	return extractHTMLText(rawURL, body)
}

// extractHTMLText strips obviously non-content markup with goquery first
// (the teacher's parseHTML does the same before extracting text), then
// hands the cleaned document to go-readability for the actual article
// extraction, which handles stripping boilerplate the simple tag removal
// pass misses.
func extractHTMLText(rawURL string, body []byte) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("searchclient: invalid URL %q: %w", rawURL, err)
	}

	cleaned, err := stripBoilerplate(body)
	if err != nil {
		return "", fmt.Errorf("searchclient: clean html from %s: %w", rawURL, err)
	}

	article, err := readability.FromReader(bytes.NewReader(cleaned), parsedURL)
	if err != nil {
		return "", fmt.Errorf("searchclient: extract article from %s: %w", rawURL, err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("searchclient: %s produced no readable content", rawURL)
	}
	return text, nil
}

func stripBoilerplate(html []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	doc.Find("script, style, nav, aside, footer, header, iframe, noscript").Remove()
	out, err := doc.Html()
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func extractPDFText(body []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("searchclient: open pdf: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("searchclient: read pdf page count: %w", err)
	}

	var out strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("searchclient: read pdf page %d: %w", i, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("searchclient: new extractor for pdf page %d: %w", i, err)
		}
		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("searchclient: extract pdf page %d text: %w", i, err)
		}
		out.WriteString(text)
		out.WriteString("\n")
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("searchclient: pdf produced no extractable text")
	}
	return text, nil
}
