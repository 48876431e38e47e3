package typeset

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyDocument = errors.New("document content cannot be empty")

	// Hyphenation errors.
	ErrInvalidLanguage            = errors.New("no language supplied and none declared on the root element")
	ErrMissingHyphenationPatterns = errors.New("no hyphenation patterns for language")
	ErrMalformedInput             = errors.New("document has no locatable <body> region")

	// XHTML formatting errors.
	ErrInvalidXHTML    = errors.New("input is not well-formed XHTML")
	ErrInvalidEncoding = errors.New("invalid encoding; UTF-8 expected")
	ErrXMLLintNotFound = errors.New("xmllint not found on PATH")

	// Image errors.
	ErrExifToolNotFound = errors.New("exiftool not found on PATH")

	// Math rendering errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrMathRender     = errors.New("math fragment rendering failed")
	ErrEmptyFragment  = errors.New("math fragment cannot be empty")

	// Markdown conversion errors.
	ErrMarkdownConversion = errors.New("markdown conversion failed")
	ErrEmptyMarkdown      = errors.New("markdown content cannot be empty")

	// Publishing errors.
	ErrMetadataIncomplete = errors.New("content.opf is missing required metadata")
	ErrPublishRejected    = errors.New("metadata upload rejected by server")
)
