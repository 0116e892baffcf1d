// Package enrich looks up best-effort word details from free public
// dictionary and translation services. Lookups degrade to empty results on
// any failure; a missing enrichment is never an error.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	defaultTranslateURL  = "https://api.mymemory.translated.net/get"
)

// Result holds whatever details could be resolved for a term. Fields the
// services could not provide are left zero.
type Result struct {
	Translation string
	Phonetic    string
	Examples    []string
}

// Client queries the Free Dictionary API for phonetics and examples and
// the MyMemory API for translations.
type Client struct {
	httpClient    *http.Client
	dictionaryURL string
	translateURL  string
	// Target language pair for translations, e.g. "en|zh-CN".
	langPair string
	// Batch shape for LookupAll, kept small to respect the free-tier
	// rate limits of both services.
	batchSize  int
	batchDelay time.Duration
}

// New creates a client with the default endpoints and batching.
func New(targetLang string) *Client {
	if targetLang == "" {
		targetLang = "zh-CN"
	}
	return &Client{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		dictionaryURL: defaultDictionaryURL,
		translateURL:  defaultTranslateURL,
		langPair:      "en|" + targetLang,
		batchSize:     5,
		batchDelay:    500 * time.Millisecond,
	}
}

// Lookup resolves details for a single term. It never returns an error;
// fields that could not be resolved stay empty.
func (c *Client) Lookup(ctx context.Context, term string) Result {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return Result{}
	}

	var result Result
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		phonetic, examples, err := c.fetchDictionary(ctx, term)
		if err != nil {
			log.Printf("enrich: dictionary lookup for %q failed: %v", term, err)
			return
		}
		result.Phonetic = phonetic
		result.Examples = examples
	}()
	go func() {
		defer wg.Done()
		translation, err := c.fetchTranslation(ctx, term)
		if err != nil {
			log.Printf("enrich: translation lookup for %q failed: %v", term, err)
			return
		}
		result.Translation = translation
	}()
	wg.Wait()
	return result
}

// LookupAll resolves details for many terms, a small batch at a time with
// a delay between batches. The returned map is keyed by lowercased term.
func (c *Client) LookupAll(ctx context.Context, terms []string) map[string]Result {
	results := make(map[string]Result, len(terms))
	for start := 0; start < len(terms); start += c.batchSize {
		if start > 0 {
			select {
			case <-time.After(c.batchDelay):
			case <-ctx.Done():
				return results
			}
		}
		end := start + c.batchSize
		if end > len(terms) {
			end = len(terms)
		}

		var mu sync.Mutex
		var wg sync.WaitGroup
		for _, term := range terms[start:end] {
			key := strings.ToLower(strings.TrimSpace(term))
			if key == "" {
				continue
			}
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				r := c.Lookup(ctx, key)
				mu.Lock()
				results[key] = r
				mu.Unlock()
			}(key)
		}
		wg.Wait()
	}
	return results
}

type dictionaryEntry struct {
	Phonetic  string `json:"phonetic"`
	Phonetics []struct {
		Text string `json:"text"`
	} `json:"phonetics"`
	Meanings []struct {
		Definitions []struct {
			Example string `json:"example"`
		} `json:"definitions"`
	} `json:"meanings"`
}

func (c *Client) fetchDictionary(ctx context.Context, term string) (string, []string, error) {
	endpoint := c.dictionaryURL + "/" + url.PathEscape(term)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("dictionary API returned status %d", resp.StatusCode)
	}

	var entries []dictionaryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", nil, err
	}
	if len(entries) == 0 {
		return "", nil, nil
	}

	entry := entries[0]
	phonetic := entry.Phonetic
	if phonetic == "" && len(entry.Phonetics) > 0 {
		phonetic = entry.Phonetics[0].Text
	}

	var examples []string
	for _, meaning := range entry.Meanings {
		for _, def := range meaning.Definitions {
			if def.Example != "" {
				examples = append(examples, def.Example)
			}
			if len(examples) == 2 {
				return phonetic, examples, nil
			}
		}
	}
	return phonetic, examples, nil
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus json.Number `json:"responseStatus"`
}

func (c *Client) fetchTranslation(ctx context.Context, term string) (string, error) {
	endpoint := fmt.Sprintf("%s?q=%s&langpair=%s",
		c.translateURL, url.QueryEscape(term), url.QueryEscape(c.langPair))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation API returned status %d", resp.StatusCode)
	}

	var data myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", err
	}
	if status, err := data.ResponseStatus.Int64(); err == nil && status != 200 {
		return "", fmt.Errorf("translation API returned status %d", status)
	}
	return data.ResponseData.TranslatedText, nil
}
