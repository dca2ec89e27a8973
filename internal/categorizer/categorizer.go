package categorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"github.com/oluto/statements/internal/statement"
)

const (
	// maxBatchSize caps how many transactions go into a single model call.
	maxBatchSize = 50

	cacheCapacity = 500

	temperature = 0.1

	// requestTimeout bounds one model call. A stalled endpoint must not
	// pin a queue worker; the degraded default takes over instead.
	requestTimeout = 60 * time.Second
)

// Config carries the chat-completion endpoint settings. An empty APIKey
// disables categorization entirely; imports then proceed uncategorized.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

func (c Config) Enabled() bool {
	return c.APIKey != ""
}

// chatCompleter is the slice of the OpenAI-compatible client we use.
// *openai.Client satisfies it.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Categorizer assigns expense categories to parsed transactions by calling
// an OpenAI-compatible chat endpoint. Every method degrades gracefully:
// a model failure leaves transactions uncategorized, never fails the caller.
type Categorizer struct {
	client chatCompleter
	model  string
	cache  *suggestionCache
	log    zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Categorizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Categorizer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		cache:  newSuggestionCache(cacheCapacity),
		log:    log.With().Str("component", "categorizer").Logger(),
	}
}

const systemPrompt = `You are a bookkeeping assistant for Canadian small businesses.
Categorize business transactions into exactly one of these expense categories:

%s

Respond with JSON only. No prose, no markdown.`

func (c *Categorizer) callChat(ctx context.Context, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(systemPrompt, strings.Join(statement.Categories, "\n")),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("callChat: completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("callChat: completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// SuggestCategory returns a category suggestion for a single transaction.
// Results are cached per normalized vendor+description; on any model
// failure it returns the catch-all category with zero confidence. It never
// returns an error.
func (c *Categorizer) SuggestCategory(ctx context.Context, vendor string, amount decimal.Decimal, description string) statement.CategorySuggestion {
	key := cacheKey(vendor, description)
	if s, ok := c.cache.get(key); ok {
		return s
	}

	parts := []string{fmt.Sprintf("Vendor: %s", vendor), fmt.Sprintf("Amount: $%s", amount.StringFixed(2))}
	if description != "" {
		parts = append(parts, fmt.Sprintf("Description: %s", description))
	}
	prompt := fmt.Sprintf(`Suggest a category for this transaction:
%s

Respond with a JSON object: {"category": "...", "confidence": 0.0, "reasoning": "..."}`,
		strings.Join(parts, "\n"))

	suggestion := statement.CategorySuggestion{Category: statement.CategoryOther}

	body, err := c.callChat(ctx, prompt)
	if err != nil {
		c.log.Warn().Err(err).Str("vendor", vendor).Msg("category suggestion failed, using default")
		c.cache.put(key, suggestion)
		return suggestion
	}

	var parsed struct {
		Category   string `json:"category"`
		Confidence any    `json:"confidence"`
		Reasoning  string `json:"reasoning"`
	}
	if err := unmarshalLenient(body, &parsed); err != nil {
		c.log.Warn().Err(err).Str("vendor", vendor).Msg("unparseable suggestion response, using default")
		c.cache.put(key, suggestion)
		return suggestion
	}

	suggestion = statement.CategorySuggestion{
		Category:   statement.CanonicalCategory(parsed.Category),
		Confidence: clampConfidence(parsed.Confidence),
		Reasoning:  parsed.Reasoning,
	}
	c.cache.put(key, suggestion)
	return suggestion
}

// CategorizeBatch assigns categories to every transaction in place, calling
// the model in chunks. A chunk failure logs, abandons the remaining chunks,
// and leaves their transactions uncategorized; it never returns an error.
func (c *Categorizer) CategorizeBatch(ctx context.Context, txs []*statement.ParsedTransaction) {
	for offset := 0; offset < len(txs); offset += maxBatchSize {
		end := offset + maxBatchSize
		if end > len(txs) {
			end = len(txs)
		}
		chunk := txs[offset:end]

		body, err := c.callChat(ctx, batchPrompt(chunk))
		if err != nil {
			c.log.Warn().Err(err).
				Int("offset", offset).
				Int("remaining", len(txs)-offset).
				Msg("batch categorization failed, leaving remaining transactions uncategorized")
			return
		}

		applyAssignments(txs, offset, parseAssignments(body))
	}
}

func batchPrompt(chunk []*statement.ParsedTransaction) string {
	var b strings.Builder
	b.WriteString("Categorize these transactions:\n\n")
	for i, tx := range chunk {
		fmt.Fprintf(&b, "%d. %s | $%s", i, tx.VendorName, tx.Amount.StringFixed(2))
		if tx.Description != nil && *tx.Description != "" {
			fmt.Fprintf(&b, " | %s", *tx.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString(`
Respond with a JSON array, one object per transaction:
[{"index": 0, "category": "...", "confidence": 0.0}]`)
	return b.String()
}

func cacheKey(vendor, description string) string {
	return strings.ToLower(strings.TrimSpace(vendor)) + "|" + strings.ToLower(strings.TrimSpace(description))
}

func unmarshalLenient(body string, v any) error {
	return json.Unmarshal([]byte(stripCodeFences(body)), v)
}
