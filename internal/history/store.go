package history

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
)

const (
	historyTokenizerName = "history_tokenizer"
	historyStopName      = "history_stop"
	historyAnalyzerName  = "history_analyzer"
)

func init() {
	_ = registry.RegisterTokenizer(historyTokenizerName, historyTokenizerConstructor)
	_ = registry.RegisterTokenFilter(historyStopName, historyStopFilterConstructor)
}

// bm25Index wraps a bleve index for BM25-scored search over past
// selections. One document per distinct selection string, content is
// the selection's raw text.
type bm25Index struct {
	mu    sync.RWMutex
	index bleve.Index
	path  string
}

type bleveEntry struct {
	Content string `json:"content"`
}

// bm25Result is one BM25-scored hit.
type bm25Result struct {
	DocID string
	Score float64
}

// openBM25Index creates or opens a bleve index at path. path == ""
// opens an in-memory index. A corrupted on-disk index
// is detected and rebuilt from scratch rather than failing outright —
// history is a convenience ranking boost, not a system of record, so
// losing it to a clean rebuild is preferable to refusing to start.
func openBM25Index(path string) (*bm25Index, error) {
	m, err := newHistoryMapping()
	if err != nil {
		return nil, fmt.Errorf("history: build index mapping: %w", err)
	}

	if path == "" {
		idx, err := bleve.NewMemOnly(m)
		if err != nil {
			return nil, fmt.Errorf("history: create in-memory index: %w", err)
		}
		return &bm25Index{index: idx}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create index directory: %w", err)
	}

	idx, err := bleve.Open(path)
	switch {
	case err == bleve.ErrorIndexPathDoesNotExist:
		idx, err = bleve.New(path, m)
	case err != nil:
		slog.Warn("history index open failed, rebuilding", slog.String("path", path), slog.String("error", err.Error()))
		if rmErr := os.RemoveAll(path); rmErr != nil {
			return nil, fmt.Errorf("history: clear corrupted index: %w", rmErr)
		}
		idx, err = bleve.New(path, m)
	}
	if err != nil {
		return nil, fmt.Errorf("history: open/create index: %w", err)
	}

	return &bm25Index{index: idx, path: path}, nil
}

func newHistoryMapping() (*mapping.IndexMappingImpl, error) {
	m := bleve.NewIndexMapping()
	err := m.AddCustomAnalyzer(historyAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": historyTokenizerName,
		"token_filters": []string{
			lowercase.Name,
			historyStopName,
		},
	})
	if err != nil {
		return nil, err
	}
	m.DefaultAnalyzer = historyAnalyzerName
	return m, nil
}

// upsert indexes or re-indexes one selection under id (idempotent: a
// repeat selection just overwrites the same document).
func (b *bm25Index) upsert(id, content string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index.Index(id, bleveEntry{Content: content})
}

// search returns up to limit hits scored by BM25 relevance to query.
func (b *bm25Index) search(ctx context.Context, query string, limit int) ([]bm25Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	q := bleve.NewMatchQuery(query)
	q.SetField("content")

	req := bleve.NewSearchRequest(q)
	req.Size = limit

	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("history: search: %w", err)
	}

	hits := make([]bm25Result, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, bm25Result{DocID: hit.ID, Score: hit.Score})
	}
	return hits, nil
}

func (b *bm25Index) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index.Close()
}

func historyTokenizerConstructor(_ map[string]interface{}, _ *registry.Cache) (analysis.Tokenizer, error) {
	return bleveHistoryTokenizer{}, nil
}

type bleveHistoryTokenizer struct{}

func (bleveHistoryTokenizer) Tokenize(input []byte) analysis.TokenStream {
	text := string(input)
	tokens := Tokenize(text)

	result := make(analysis.TokenStream, 0, len(tokens))
	pos, offset := 1, 0
	for _, token := range tokens {
		start := strings.Index(strings.ToLower(text[offset:]), token)
		if start == -1 {
			start = offset
		} else {
			start += offset
		}
		end := start + len(token)

		result = append(result, &analysis.Token{
			Term:     []byte(token),
			Start:    start,
			End:      end,
			Position: pos,
			Type:     analysis.AlphaNumeric,
		})
		pos++
		if end <= len(text) {
			offset = end
		}
	}
	return result
}

func historyStopFilterConstructor(_ map[string]interface{}, _ *registry.Cache) (analysis.TokenFilter, error) {
	return bleveHistoryStopFilter{stopWords: buildStopWordSet(defaultStopWords)}, nil
}

type bleveHistoryStopFilter struct {
	stopWords map[string]struct{}
}

func (f bleveHistoryStopFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	result := make(analysis.TokenStream, 0, len(input))
	for _, token := range input {
		if _, isStop := f.stopWords[strings.ToLower(string(token.Term))]; !isStop {
			result = append(result, token)
		}
	}
	return result
}

