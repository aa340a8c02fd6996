// Package content resolves quiz source material (prompt text, a webpage,
// an uploaded PDF, raw text, or just the topic) into one text blob for the
// generator. Output is capped so huge pages don't get shipped to the model.
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// MaxContentLength caps the text sent to the generator.
const MaxContentLength = 5000

const fetchTimeout = 10 * time.Second

// skippedTags are removed before extracting visible page text.
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"header":   true,
	"footer":   true,
	"nav":      true,
	"aside":    true,
}

// Acquirer turns content sources into generator input text.
type Acquirer struct {
	httpClient *http.Client
}

func NewAcquirer() *Acquirer {
	return &Acquirer{
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// Source carries the possible content inputs of one generation request.
// Precedence when resolving: Prompt, URL, Text, PDFPath, then Topic.
type Source struct {
	Prompt  string
	URL     string
	Text    string
	PDFPath string
	Topic   string
}

// Resolve picks the first populated source and returns its text. Fetch and
// extraction failures degrade to the topic rather than aborting generation.
func (a *Acquirer) Resolve(ctx context.Context, src Source) string {
	switch {
	case src.Prompt != "":
		return capText(src.Prompt)
	case src.URL != "":
		text, err := a.FetchURLText(ctx, src.URL)
		if err != nil {
			return src.Topic
		}
		return text
	case src.Text != "":
		return capText(src.Text)
	case src.PDFPath != "":
		text, err := a.ExtractPDFText(ctx, src.PDFPath)
		if err != nil {
			return src.Topic
		}
		return text
	default:
		return src.Topic
	}
}

// FetchURLText fetches a webpage and returns its visible text, whitespace
// collapsed and capped at MaxContentLength.
func (a *Acquirer) FetchURLText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", url, err)
	}

	var b strings.Builder
	collectText(doc, &b)
	return capText(b.String()), nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && skippedTags[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// ExtractPDFText extracts text from a PDF on disk via pdftotext.
func (a *Acquirer) ExtractPDFText(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("failed to read pdf %s: %w", path, err)
	}

	out, err := exec.CommandContext(ctx, "pdftotext", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed for %s: %w", path, err)
	}
	return capText(string(out)), nil
}

// SavePDFUpload writes an uploaded PDF stream to a temp file and returns
// its path. The caller removes the file after extraction.
func SavePDFUpload(r io.Reader) (string, error) {
	f, err := os.CreateTemp("", "quiz-upload-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return f.Name(), nil
}

// capText collapses runs of whitespace to single spaces and truncates to
// MaxContentLength.
func capText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > MaxContentLength {
		text = text[:MaxContentLength]
	}
	return text
}
