// Package hyphenator loads and caches TeX hyphenation dictionaries keyed by
// BCP 47 language tag.
package hyphenator

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/npillmayer/hyphenate"
	"github.com/npillmayer/hyphenate/tex/texexceptions"
	"github.com/npillmayer/hyphenate/tex/texpatterns"
	"golang.org/x/text/language"
)

// ErrNoDictionary is returned when no pattern file matches the language tag.
var ErrNoDictionary = errors.New("no hyphenation pattern file for language")

// Cache loads hyph-<tag>.tex pattern files from a directory on demand and
// keeps the parsed dictionaries. Safe for concurrent use.
type Cache struct {
	dir string

	mu    sync.RWMutex
	dicts map[string]*hyphenate.Dictionary
}

// NewCache creates a Cache reading pattern files from dir.
func NewCache(dir string) *Cache {
	return &Cache{
		dir:   dir,
		dicts: make(map[string]*hyphenate.Dictionary),
	}
}

// Dictionary returns the dictionary for a language tag, loading it on first
// use. Lookup tries the full canonicalized tag first ("en-GB"), then its base
// language ("en"). Returns ErrNoDictionary when neither pattern file exists.
func (c *Cache) Dictionary(tag string) (*hyphenate.Dictionary, error) {
	parsed, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("parsing language tag %q: %w", tag, err)
	}

	key := strings.ToLower(parsed.String())

	c.mu.RLock()
	dict, ok := c.dicts[key]
	c.mu.RUnlock()
	if ok {
		return dict, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have loaded it while we waited.
	if dict, ok := c.dicts[key]; ok {
		return dict, nil
	}

	dict, err = c.load(key)
	if err != nil {
		return nil, err
	}
	c.dicts[key] = dict
	return dict, nil
}

// load reads and parses the pattern file for the canonicalized tag, falling
// back from "en-gb" to "en".
func (c *Cache) load(key string) (*hyphenate.Dictionary, error) {
	candidates := []string{key}
	if base, _, _ := strings.Cut(key, "-"); base != key {
		candidates = append(candidates, base)
	}

	for _, name := range candidates {
		path := filepath.Join(c.dir, "hyph-"+name+".tex")
		content, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading pattern file %s: %w", path, err)
		}

		dict, err := texpatterns.LoadPatterns(name, bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("parsing pattern file %s: %w", path, err)
		}
		// The same file can carry a \hyphenation{} exception block.
		texexceptions.LoadExceptions(dict, bytes.NewReader(content))
		return dict, nil
	}

	return nil, fmt.Errorf("%w: %s (searched %s)", ErrNoDictionary, key, c.dir)
}
