package lexicon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// HTTPConfig configures the HTTP lexicon provider.
type HTTPConfig struct {
	// BaseURL of the lexicon service, e.g. "http://lexicon.internal:8080".
	BaseURL string

	// Client is the HTTP client to use. Defaults to a client with a 30s
	// outer timeout; per-attempt deadlines come from the caller's context.
	Client *http.Client
}

// HTTP fetches the lexicon from a remote service via
// GET {base}/lexicon?utterance=... expecting a JSON entry array. Failures
// are classified for the retry layer: transport errors are network,
// context deadlines are timeout, 5xx and 429 are upstream, other non-2xx
// are client.
type HTTP struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTP creates an HTTP provider.
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTP{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		logger:  log.With().Str("component", "lexicon-http").Logger(),
	}, nil
}

// GetLexicon implements Provider.
func (h *HTTP) GetLexicon(ctx context.Context, utterance string) ([]Entry, error) {
	endpoint := h.baseURL + "/lexicon?utterance=" + url.QueryEscape(utterance)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ProviderError{Class: ErrorClassClient, Message: "build lexicon request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		class := ErrorClassNetwork
		if errors.Is(err, context.DeadlineExceeded) {
			class = ErrorClassTimeout
		}
		h.logger.Warn().Err(err).Str("error_class", string(class)).Msg("Lexicon request failed")
		return nil, &ProviderError{Class: class, Message: "lexicon request", Err: err}
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		h.logger.Warn().Int("status", resp.StatusCode).Msg("Lexicon service returned error status")
		return nil, err
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, &ProviderError{Class: ErrorClassClient, Message: "decode lexicon response", Err: err}
	}
	h.logger.Debug().Int("entries", len(entries)).Msg("Lexicon fetched")
	return entries, nil
}

// classifyStatus maps a response status onto the error taxonomy. 429 counts
// as upstream: the service asked us to back off, which is exactly what the
// retry layer does.
func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests || status >= 500:
		return &ProviderError{Class: ErrorClassUpstream, Message: fmt.Sprintf("lexicon service returned %d", status)}
	default:
		return &ProviderError{Class: ErrorClassClient, Message: fmt.Sprintf("lexicon service returned %d", status)}
	}
}
