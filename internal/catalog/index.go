package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/pt"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Index is an in-memory full-text index over a catalog.
type Index struct {
	mu      sync.RWMutex
	index   bleve.Index
	catalog *Catalog
}

type songDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Latin       string `json:"latin"`
	Description string `json:"description"`
}

func buildSongMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	doc := bleve.NewDocumentMapping()

	id := bleve.NewTextFieldMapping()
	id.Analyzer = keyword.Name
	doc.AddFieldMappingsAt("id", id)

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	doc.AddFieldMappingsAt("title", title)

	latin := bleve.NewTextFieldMapping()
	latin.Analyzer = standard.Name
	doc.AddFieldMappingsAt("latin", latin)

	// Descriptions are written in Portuguese.
	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = pt.AnalyzerName
	doc.AddFieldMappingsAt("description", desc)

	im.DefaultMapping = doc
	return im
}

// NewIndex indexes every song of c.
func NewIndex(c *Catalog) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildSongMapping())
	if err != nil {
		return nil, fmt.Errorf("create song index: %w", err)
	}

	batch := idx.NewBatch()
	for _, s := range c.songs {
		doc := songDocument{ID: s.ID, Title: s.Title, Latin: s.Latin, Description: s.Description}
		if err := batch.Index(s.ID, doc); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index song %s: %w", s.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("commit song index: %w", err)
	}
	return &Index{index: idx, catalog: c}, nil
}

// Search returns the ids of songs matching q, best match first. An empty
// query returns every song in catalog order. limit <= 0 means no limit.
func (i *Index) Search(q string, limit int) ([]string, error) {
	q = strings.TrimSpace(q)
	if limit <= 0 || limit > i.catalog.Len() {
		limit = i.catalog.Len()
	}
	if q == "" {
		ids := make([]string, 0, limit)
		for _, s := range i.catalog.songs[:limit] {
			ids = append(ids, s.ID)
		}
		return ids, nil
	}

	title := bleve.NewMatchQuery(q)
	title.SetField("title")
	title.SetBoost(3)

	latin := bleve.NewMatchQuery(q)
	latin.SetField("latin")
	latin.SetBoost(2)

	desc := bleve.NewMatchQuery(q)
	desc.SetField("description")

	fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
	fuzzy.SetField("title")
	fuzzy.SetFuzziness(1)

	queries := []query.Query{title, latin, desc, fuzzy}
	if !strings.Contains(q, " ") {
		prefix := bleve.NewPrefixQuery(strings.ToLower(q))
		prefix.SetField("title")
		queries = append(queries, prefix)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), limit, 0, false)

	i.mu.RLock()
	res, err := i.index.Search(req)
	i.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Close releases the index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Close()
}
