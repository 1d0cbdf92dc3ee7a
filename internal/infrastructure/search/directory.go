package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50

	fieldName      = "name"
	fieldSymbol    = "symbol"
	fieldSymbolKey = "symbol_key"
)

// wildcardMeta strips the characters a wildcard query expands. bleve has no
// escape for them.
var wildcardMeta = strings.NewReplacer("*", "", "?", "")

// Suggestion is one directory match.
type Suggestion struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Directory is an in-memory full-text index over known instrument names.
type Directory struct {
	index bleve.Index
}

// NewDirectory indexes entries, a name to symbol map.
func NewDirectory(entries map[string]string) (*Directory, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	batch := index.NewBatch()
	for name, symbol := range entries {
		doc := map[string]interface{}{
			fieldName:      name,
			fieldSymbol:    symbol,
			fieldSymbolKey: strings.ToLower(symbol),
		}
		if err := batch.Index(name, doc); err != nil {
			return nil, fmt.Errorf("failed to add to batch: %w", err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}

	slog.Info("symbol directory indexed", "entries", len(entries))
	return &Directory{index: index}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	entryMapping := bleve.NewDocumentMapping()

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = standard.Name
	nameFieldMapping.Store = true
	entryMapping.AddFieldMappingsAt(fieldName, nameFieldMapping)

	symbolFieldMapping := bleve.NewTextFieldMapping()
	symbolFieldMapping.Index = false
	symbolFieldMapping.Store = true
	entryMapping.AddFieldMappingsAt(fieldSymbol, symbolFieldMapping)

	keyFieldMapping := bleve.NewKeywordFieldMapping()
	keyFieldMapping.Store = false
	entryMapping.AddFieldMappingsAt(fieldSymbolKey, keyFieldMapping)

	indexMapping.DefaultMapping = entryMapping
	return indexMapping
}

// Suggest ranks entries for a partial name or symbol: exact symbol first,
// then name prefix, token, substring and one-edit fuzzy matches. Each
// symbol appears once, under its best-scoring name.
func (d *Directory) Suggest(ctx context.Context, text string, limit int) ([]Suggestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []Suggestion{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	lower := strings.ToLower(text)

	exactSymbol := bleve.NewTermQuery(lower)
	exactSymbol.SetField(fieldSymbolKey)
	exactSymbol.SetBoost(10.0)

	namePrefix := bleve.NewPrefixQuery(lower)
	namePrefix.SetField(fieldName)
	namePrefix.SetBoost(5.0)

	nameMatch := bleve.NewMatchQuery(text)
	nameMatch.SetField(fieldName)
	nameMatch.SetBoost(3.0)

	queries := []query.Query{exactSymbol, namePrefix, nameMatch}
	if literal := wildcardMeta.Replace(lower); literal != "" {
		nameWildcard := bleve.NewWildcardQuery("*" + literal + "*")
		nameWildcard.SetField(fieldName)
		nameWildcard.SetBoost(1.5)
		queries = append(queries, nameWildcard)
	}
	if len([]rune(lower)) > 3 {
		nameFuzzy := bleve.NewFuzzyQuery(lower)
		nameFuzzy.SetField(fieldName)
		nameFuzzy.SetFuzziness(1)
		queries = append(queries, nameFuzzy)
	}

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(queries...))
	req.Fields = []string{fieldName, fieldSymbol}
	req.Size = limit * 4

	res, err := d.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	seen := make(map[string]bool, len(res.Hits))
	out := make([]Suggestion, 0, limit)
	for _, hit := range res.Hits {
		symbol := getString(hit.Fields, fieldSymbol)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		out = append(out, Suggestion{Name: getString(hit.Fields, fieldName), Symbol: symbol})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (d *Directory) Close() error {
	return d.index.Close()
}

func getString(fields map[string]interface{}, key string) string {
	if val, ok := fields[key].(string); ok {
		return val
	}
	return ""
}
