// Package importer turns word-list files (CSV, JSON, XLSX) into stored
// vocabulary words, optionally enriching records that are missing a
// translation or phonetic.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/vocabtrainer/internal/enrich"
	"github.com/example/vocabtrainer/pkg/models"
)

// Format identifies a supported word-list file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// FormatForPath derives the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// VocabularyStore is the vocabulary access the importer needs.
type VocabularyStore interface {
	List(ctx context.Context) ([]models.Vocabulary, error)
	Put(ctx context.Context, vocab *models.Vocabulary) error
}

// Enricher resolves best-effort word details, keyed by lowercased term.
type Enricher interface {
	LookupAll(ctx context.Context, terms []string) map[string]enrich.Result
}

// Result summarizes one import run.
type Result struct {
	TotalParsed       int
	Created           int
	Skipped           int
	VocabularyCreated bool
	Errors            []string
}

// Importer imports word lists into a named vocabulary.
type Importer struct {
	vocabs   VocabularyStore
	enricher Enricher
	now      func() time.Time
}

// New creates an importer. The enricher may be nil to skip enrichment.
func New(vocabs VocabularyStore, enricher Enricher) *Importer {
	return &Importer{vocabs: vocabs, enricher: enricher, now: time.Now}
}

// ImportFile imports the word list at path into the named vocabulary,
// creating the vocabulary when it does not exist yet.
func (imp *Importer) ImportFile(ctx context.Context, path, vocabName string) (*Result, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return imp.ImportReader(ctx, f, format, vocabName)
}

// ImportReader is ImportFile for an already-open stream.
func (imp *Importer) ImportReader(ctx context.Context, r io.Reader, format Format, vocabName string) (*Result, error) {
	if strings.TrimSpace(vocabName) == "" {
		return nil, fmt.Errorf("vocabulary name is required")
	}

	var records []Record
	var rowErrs []string
	var err error
	switch format {
	case FormatCSV:
		records, rowErrs, err = ParseCSV(r)
	case FormatJSON:
		records, rowErrs, err = ParseJSON(r)
	case FormatXLSX:
		records, rowErrs, err = ParseXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		TotalParsed: len(records) + len(rowErrs),
		Errors:      rowErrs,
	}

	vocab, created, err := imp.findOrCreateVocabulary(ctx, vocabName)
	if err != nil {
		return nil, err
	}
	result.VocabularyCreated = created

	existing := make(map[string]bool, len(vocab.Words))
	for _, w := range vocab.Words {
		existing[strings.ToLower(w.Term)] = true
	}

	fresh := records[:0]
	for _, rec := range records {
		key := strings.ToLower(rec.Term)
		if existing[key] {
			result.Skipped++
			continue
		}
		existing[key] = true
		fresh = append(fresh, rec)
	}

	fresh = imp.enrichRecords(ctx, fresh)

	now := imp.now()
	for _, rec := range fresh {
		vocab.Words = append(vocab.Words, models.Word{
			ID:          uuid.NewString(),
			VocabID:     vocab.ID,
			Term:        rec.Term,
			Translation: rec.Translation,
			Phonetic:    rec.Phonetic,
			Example:     rec.Example,
			Tags:        rec.Tags,
			CreatedAt:   now,
		})
		result.Created++
	}
	vocab.UpdatedAt = now

	if err := imp.vocabs.Put(ctx, vocab); err != nil {
		return nil, fmt.Errorf("failed to save vocabulary: %w", err)
	}
	return result, nil
}

func (imp *Importer) findOrCreateVocabulary(ctx context.Context, name string) (*models.Vocabulary, bool, error) {
	vocabs, err := imp.vocabs.List(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list vocabularies: %w", err)
	}
	for i := range vocabs {
		if strings.EqualFold(vocabs[i].Name, name) {
			return &vocabs[i], false, nil
		}
	}
	now := imp.now()
	return &models.Vocabulary{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, true, nil
}

// enrichRecords fills in missing translations, phonetics and examples.
// Enrichment failures leave the fields empty.
func (imp *Importer) enrichRecords(ctx context.Context, records []Record) []Record {
	if imp.enricher == nil {
		return records
	}
	var terms []string
	for _, rec := range records {
		if rec.Translation == "" || rec.Phonetic == "" {
			terms = append(terms, rec.Term)
		}
	}
	if len(terms) == 0 {
		return records
	}

	details := imp.enricher.LookupAll(ctx, terms)
	for i, rec := range records {
		d, ok := details[strings.ToLower(rec.Term)]
		if !ok {
			continue
		}
		if rec.Translation == "" {
			records[i].Translation = d.Translation
		}
		if rec.Phonetic == "" {
			records[i].Phonetic = d.Phonetic
		}
		if rec.Example == "" && len(d.Examples) > 0 {
			records[i].Example = d.Examples[0]
		}
	}
	return records
}
