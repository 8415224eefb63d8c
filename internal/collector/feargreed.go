package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"CoinVault/internal/model"
)

// fngPayload is the alternative.me Fear & Greed response shape; the first
// data element is the most recent reading. The same shape is used by the
// file-based source for air-gapped or cached runs.
type fngPayload struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
		Timestamp      string `json:"timestamp"`
	} `json:"data"`
}

// FearGreedFetcher implements SentimentSource against the alternative.me
// Fear & Greed index API.
type FearGreedFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFearGreedFetcher creates a fetcher with optional proxy support.
func NewFearGreedFetcher(baseURL, proxyURL string) *FearGreedFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = "https://api.alternative.me/fng/"
	}
	return &FearGreedFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *FearGreedFetcher) Name() string { return "alternative.me" }

// FetchIndex returns the latest index reading, or an error when the API is
// unreachable or the payload is empty. It never substitutes a value.
func (f *FearGreedFetcher) FetchIndex() (*model.SentimentReading, error) {
	resp, err := f.Client.Get(f.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fear greed fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fear greed read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fear greed: status %d, body: %s", resp.StatusCode, string(body))
	}
	return decodeReading(body)
}

// FearGreedFile implements SentimentSource from a local JSON snapshot in
// the alternative.me payload shape.
type FearGreedFile struct {
	Path string
}

func (f *FearGreedFile) Name() string { return "fear-greed-file" }

// FetchIndex reads the latest index value from the snapshot file.
func (f *FearGreedFile) FetchIndex() (*model.SentimentReading, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("fear greed file: %w", err)
	}
	return decodeReading(data)
}

func decodeReading(data []byte) (*model.SentimentReading, error) {
	var payload fngPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("fear greed decode: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("fear greed: empty payload")
	}
	latest := payload.Data[0]
	value, err := strconv.Atoi(latest.Value)
	if err != nil {
		return nil, fmt.Errorf("fear greed parse value %q: %w", latest.Value, err)
	}
	if value < 0 || value > 100 {
		return nil, fmt.Errorf("fear greed: value %d out of range 0-100", value)
	}
	classification := latest.Classification
	if classification == "" {
		classification = model.ClassifyIndex(value)
	}
	return &model.SentimentReading{Value: value, Classification: classification}, nil
}
