package search

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/truthlens/truthlens/internal/history"
)

// Result is one history record that matched a query, with its relevance
// score.
type Result struct {
	Record *history.Record
	Score  float64
}

// Engine maintains a Bleve index over the analysis history.
type Engine struct {
	store *history.Store
	idx   bleve.Index
}

// NewEngine creates or opens an index at indexPath and loads the current
// history into it. An empty indexPath builds an in-memory index, useful for
// tests and for users who disable the on-disk index.
func NewEngine(store *history.Store, indexPath string) (*Engine, error) {
	var idx bleve.Index
	var err error

	if indexPath == "" {
		idx, err = bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, err
		}
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(indexPath), 0o755); mkErr != nil {
			// Open/New below will surface the real failure.
			_ = mkErr
		}
		idx, err = bleve.Open(indexPath)
		if err != nil {
			idx, err = bleve.New(indexPath, buildIndexMapping())
			if err != nil {
				return nil, err
			}
		}
	}

	e := &Engine{store: store, idx: idx}
	if err := e.ReindexAll(); err != nil {
		return nil, err
	}
	return e, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	prediction := bleve.NewTextFieldMapping()
	prediction.Analyzer = standard.Name
	prediction.Store = true

	explanation := bleve.NewTextFieldMapping()
	explanation.Analyzer = standard.Name
	explanation.Store = false

	words := bleve.NewTextFieldMapping()
	words.Analyzer = standard.Name
	words.Store = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("prediction", prediction)
	dm.AddFieldMappingsAt("explanation", explanation)
	dm.AddFieldMappingsAt("words", words)

	im.DefaultMapping = dm
	return im
}

// ReindexAll rebuilds the index from the store in one batch.
func (e *Engine) ReindexAll() error {
	records, err := e.store.Recent(0)
	if err != nil {
		return err
	}

	batch := e.idx.NewBatch()
	for _, rec := range records {
		_ = batch.Index(rec.ID, docFor(rec))
	}
	return e.idx.Batch(batch)
}

// Index adds or updates one record.
func (e *Engine) Index(rec *history.Record) error {
	return e.idx.Index(rec.ID, docFor(rec))
}

// Remove drops one record from the index.
func (e *Engine) Remove(id string) error {
	return e.idx.Delete(id)
}

// DocCount reports how many analyses are indexed.
func (e *Engine) DocCount() (int, error) {
	n, err := e.idx.DocCount()
	return int(n), err
}

// Close releases the underlying index.
func (e *Engine) Close() error {
	return e.idx.Close()
}

func docFor(rec *history.Record) map[string]any {
	highlightWords := make([]string, 0, len(rec.Result.WordHighlights))
	for _, h := range rec.Result.WordHighlights {
		highlightWords = append(highlightWords, h.Word)
	}
	return map[string]any{
		"title":       rec.Title,
		"prediction":  rec.Result.Prediction,
		"explanation": rec.Result.Explanation,
		"words":       strings.Join(highlightWords, " "),
	}
}

// Search runs a boosted match+prefix disjunction across the indexed fields
// and resolves hits back to full records. Queries shorter than two
// characters return nothing rather than everything.
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	tokens := tokenize(query)
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)
		qtp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qp := bleve.NewMatchQuery(tok)
		qp.SetField("prediction")
		qp.SetBoost(3.0)
		qs = append(qs, qp)

		qw := bleve.NewMatchQuery(tok)
		qw.SetField("words")
		qw.SetBoost(2.0)
		qs = append(qs, qw)
		qwp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qwp.SetField("words")
		qwp.SetBoost(1.8)
		qs = append(qs, qwp)

		qe := bleve.NewMatchQuery(tok)
		qe.SetField("explanation")
		qe.SetBoost(1.0)
		qs = append(qs, qe)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	q := bleve.NewDisjunctionQuery(qs...)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := e.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		rec, err := e.store.Get(h.ID)
		if err != nil {
			// Index lagging behind a pruned record; skip.
			continue
		}
		out = append(out, &Result{Record: rec, Score: h.Score})
	}
	return out, nil
}

func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
