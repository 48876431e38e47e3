package typeset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ebookworks/go-typeset/internal/opf"
)

// EbookMetadata identifies an ebook to the publishing endpoint.
type EbookMetadata struct {
	Source  string `json:"source"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	ISBN    string `json:"isbn,omitempty"`
	Version string `json:"version,omitempty"`
}

// LoadEbookMetadata reads the package document at opfPath (a content.opf
// file, or a directory containing src/epub/content.opf) and returns its
// metadata. Returns ErrMetadataIncomplete when required fields are missing.
func LoadEbookMetadata(opfPath string) (*EbookMetadata, error) {
	info, err := os.Stat(opfPath)
	if err != nil {
		return nil, fmt.Errorf("locating package document: %w", err)
	}
	if info.IsDir() {
		opfPath = filepath.Join(opfPath, "src", "epub", "content.opf")
	}

	f, err := os.Open(opfPath)
	if err != nil {
		return nil, fmt.Errorf("opening package document: %w", err)
	}
	defer f.Close()

	m, err := opf.Extract(f)
	if err != nil {
		return nil, err
	}

	meta := &EbookMetadata{
		Source:  m.Source,
		Title:   m.Title,
		Author:  m.Author,
		ISBN:    m.ISBN,
		Version: m.Version,
	}
	if meta.Source == "" || meta.Title == "" || meta.Author == "" {
		return nil, fmt.Errorf("%w: source, title, and author are required (got %q, %q, %q)",
			ErrMetadataIncomplete, meta.Source, meta.Title, meta.Author)
	}
	return meta, nil
}

// Publisher uploads ebook metadata to a catalog endpoint.
type Publisher struct {
	Client   *http.Client
	Endpoint string
}

// NewPublisher creates a Publisher for the given endpoint URL.
func NewPublisher(endpoint string) *Publisher {
	return &Publisher{Client: http.DefaultClient, Endpoint: endpoint}
}

// Publish POSTs the metadata as JSON. Any non-2xx response is reported as
// ErrPublishRejected with the status line.
func (p *Publisher) Publish(ctx context.Context, meta *EbookMetadata) error {
	body, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s", ErrPublishRejected, resp.Status)
	}
	return nil
}
