// Package opf extracts ebook metadata from epub package documents
// (content.opf files).
package opf

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Sentinel errors for package document parsing.
var (
	ErrNotPackageDocument = errors.New("root element is not an opf package")
	ErrNoMetadata         = errors.New("package document has no metadata element")
)

// Metadata holds the fields extracted from a package document.
type Metadata struct {
	Source  string // dc:source, "url:" prefix stripped
	Title   string // dc:title
	Author  string // first dc:creator
	ISBN    string // dc:identifier with an isbn scheme, if any
	Version string // se:revision-number meta, if any
}

// Namespace-agnostic selectors. Package documents in the wild bind the opf
// and dc namespaces to varying prefixes, so match on local names.
var (
	metadataQuery = xpath.MustCompile(`//*[local-name()='metadata']`)
	titleQuery    = xpath.MustCompile(`.//*[local-name()='title']`)
	creatorQuery  = xpath.MustCompile(`.//*[local-name()='creator']`)
	sourceQuery   = xpath.MustCompile(`.//*[local-name()='source']`)
	idQuery       = xpath.MustCompile(`.//*[local-name()='identifier']`)
	metaQuery     = xpath.MustCompile(`.//*[local-name()='meta']`)
)

// Extract parses a package document and returns its metadata.
func Extract(r io.Reader) (*Metadata, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing package document: %w", err)
	}

	root := doc.SelectElement("*")
	if root == nil || root.Data != "package" {
		return nil, ErrNotPackageDocument
	}

	metadata := xmlquery.QuerySelector(doc, metadataQuery)
	if metadata == nil {
		return nil, ErrNoMetadata
	}

	m := &Metadata{}

	if n := xmlquery.QuerySelector(metadata, titleQuery); n != nil {
		m.Title = strings.TrimSpace(n.InnerText())
	}
	if n := xmlquery.QuerySelector(metadata, creatorQuery); n != nil {
		m.Author = strings.TrimSpace(n.InnerText())
	}
	if n := xmlquery.QuerySelector(metadata, sourceQuery); n != nil {
		m.Source = strings.TrimPrefix(strings.TrimSpace(n.InnerText()), "url:")
	}

	for _, n := range xmlquery.QuerySelectorAll(metadata, idQuery) {
		text := strings.TrimSpace(n.InnerText())
		if strings.HasPrefix(text, "isbn:") {
			m.ISBN = strings.TrimPrefix(text, "isbn:")
			break
		}
		if n.SelectAttr("scheme") == "ISBN" || strings.HasSuffix(n.SelectAttr("id"), "isbn") {
			m.ISBN = text
			break
		}
	}

	for _, n := range xmlquery.QuerySelectorAll(metadata, metaQuery) {
		if n.SelectAttr("property") == "se:revision-number" {
			m.Version = strings.TrimSpace(n.InnerText())
			break
		}
	}

	return m, nil
}
