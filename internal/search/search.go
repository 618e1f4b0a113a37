// Package search maintains the full-text index over rendered symbols and
// answers keyword queries against it.
package search

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	_ "github.com/blevesearch/bleve/v2/search/highlight/highlighter/ansi"

	"github.com/docweave/docweave/internal/render"
)

// Result is a single keyword search hit.
type Result struct {
	FQN        string
	Kind       string
	Summary    string
	Unit       string
	Score      float64
	Highlights []string
}

// BuildIndex writes a fresh on-disk index over the rendered documents. Any
// existing index at path is replaced.
func BuildIndex(path string, docs []render.Document) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to clear search index: %w", err)
	}

	index, err := bleve.New(path, buildMapping())
	if err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}
	defer index.Close()

	const batchSize = 1000

	batch := index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.FQN, documentFields(doc)); err != nil {
			return fmt.Errorf("failed to add %s to batch: %w", doc.FQN, err)
		}
		if batch.Size() >= batchSize {
			if err := index.Batch(batch); err != nil {
				return fmt.Errorf("failed to execute batch: %w", err)
			}
			batch = index.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("failed to execute final batch: %w", err)
		}
	}
	return nil
}

// buildMapping creates the index mapping for symbol documents. Identifier
// fields use the keyword analyzer for exact matching; prose fields use the
// standard analyzer and keep term vectors for phrase search and highlighting.
func buildMapping() *mapping.IndexMappingImpl {
	keyword := bleve.NewTextFieldMapping()
	keyword.Analyzer = "keyword"
	keyword.Store = true
	keyword.Index = true

	prose := bleve.NewTextFieldMapping()
	prose.Analyzer = "standard"
	prose.Store = true
	prose.Index = true
	prose.IncludeTermVectors = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("fqn", keyword)
	docMapping.AddFieldMappingsAt("kind", keyword)
	docMapping.AddFieldMappingsAt("summary", prose)
	docMapping.AddFieldMappingsAt("description", prose)
	docMapping.AddFieldMappingsAt("unit", prose)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func documentFields(doc render.Document) map[string]interface{} {
	return map[string]interface{}{
		"fqn":         doc.FQN,
		"kind":        doc.Kind,
		"summary":     doc.Summary,
		"description": doc.Description,
		"unit":        doc.Unit,
	}
}

// Searcher answers queries against an existing on-disk index.
type Searcher struct {
	index bleve.Index
}

// Open opens the index at path for querying.
func Open(path string) (*Searcher, error) {
	index, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}
	return &Searcher{index: index}, nil
}

// Close releases the underlying index.
func (s *Searcher) Close() error {
	return s.index.Close()
}

// Search executes a keyword query using bleve query-string syntax and
// returns up to limit hits, best first.
func (s *Searcher) Search(queryStr string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 15
	}

	q := bleve.NewQueryStringQuery(queryStr)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"fqn", "kind", "summary", "unit"}

	highlightStyle := "ansi"
	req.Highlight = bleve.NewHighlight()
	req.Highlight.Style = &highlightStyle
	req.Highlight.Fields = []string{"summary", "description"}

	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		r := Result{Score: hit.Score}
		r.FQN, _ = hit.Fields["fqn"].(string)
		r.Kind, _ = hit.Fields["kind"].(string)
		r.Summary, _ = hit.Fields["summary"].(string)
		r.Unit, _ = hit.Fields["unit"].(string)
		for _, snippets := range hit.Fragments {
			r.Highlights = append(r.Highlights, snippets...)
		}
		if len(r.Highlights) > 3 {
			r.Highlights = r.Highlights[:3]
		}
		results = append(results, r)
	}
	return results, nil
}
