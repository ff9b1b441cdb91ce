// Package openai provides an OpenAI-backed media analysis provider.
//
// Images are analyzed through the vision-capable chat API; text and audio
// files are analyzed from their textual metadata. Embeddings come from the
// OpenAI embeddings API. Any API failure degrades to the deterministic
// synthetic analyzer instead of failing the pipeline.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/analyzer/synthetic"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/category"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// Config is the configuration for the OpenAI analyzer.
// APIKey: OpenAI API key (required)
// Model: Chat model for analysis, defaults to gpt-4o-mini
// BaseURL: API base URL, defaults to the OpenAI official address
// Dimensions: Embedding vector dimensions, defaults to 1536
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Dimensions int
}

// Client implements analyzer.Provider using the OpenAI API.
type Client struct {
	client     *openai.Client
	model      string
	dimensions int
	fallback   *synthetic.Client
}

// analysisPayload is the JSON shape the chat model is asked to produce.
type analysisPayload struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Emotion        string   `json:"emotion"`
	SentimentScore float64  `json:"sentimentScore"`
	Objects        []string `json:"objects"`
	SemanticTags   []string `json:"semanticTags"`
	Palette        []string `json:"palette"`
	Category       string   `json:"category"`
}

// NewClient creates a new OpenAI analyzer client.
//
// Parameters:
//   - cfg: Configuration containing APIKey, Model, BaseURL, Dimensions
//
// Returns:
//   - *Client: OpenAI analyzer instance
//   - error: Returns an error if the API key is missing
func NewClient(cfg *Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai analyzer: api key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	dimensions := cfg.Dimensions
	if dimensions == 0 {
		dimensions = 1536
	}

	return &Client{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      model,
		dimensions: dimensions,
		fallback:   synthetic.NewClient(dimensions),
	}, nil
}

// Analyze derives a memory artifact from one uploaded file via the chat
// API. When the API call or its JSON payload fails, the synthetic
// analyzer's artifact is returned instead so a museum can still be built
// offline.
func (c *Client) Analyze(ctx context.Context, file museum.UploadedFileRef) (*museum.MemoryArtifact, error) {
	payload, err := c.describe(ctx, file)
	if err != nil {
		return c.fallback.Analyze(ctx, file)
	}

	title := strings.TrimSpace(file.UserTitle)
	if title == "" {
		title = payload.Title
	}
	if title == "" {
		title = file.Name
	}

	description := strings.TrimSpace(file.UserDescription)
	if description == "" {
		description = payload.Description
	}
	if description == "" {
		description = "No description."
	}

	emotion := payload.Emotion
	if emotion == "" {
		emotion = "neutral"
	}

	palette := clip(payload.Palette, 6)
	if len(palette) == 0 {
		palette = []string{"#888888"}
	}

	slug := category.Normalize(payload.Category)
	if slug == "" {
		slug = category.InferFromSignals(title, description, strings.Join(payload.SemanticTags, " "))
	}

	return &museum.MemoryArtifact{
		ID:             museum.MakeID("artifact"),
		FileID:         file.ID,
		SourceType:     file.SourceType,
		Title:          title,
		Description:    description,
		Emotion:        emotion,
		SentimentScore: clamp01(payload.SentimentScore),
		Objects:        clip(payload.Objects, 8),
		SemanticTags:   clip(payload.SemanticTags, 10),
		Category:       string(slug),
		Palette:        palette,
		Embedding:      c.embed(ctx, file, title, description, payload.SemanticTags),
	}, nil
}

// AnalyzeBatch analyzes each file in order.
func (c *Client) AnalyzeBatch(ctx context.Context, files []museum.UploadedFileRef) ([]museum.MemoryArtifact, error) {
	artifacts := make([]museum.MemoryArtifact, 0, len(files))
	for _, file := range files {
		artifact, err := c.Analyze(ctx, file)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, *artifact)
	}
	return artifacts, nil
}

// Dimensions returns the embedding vector length.
func (c *Client) Dimensions() int {
	return c.dimensions
}

// Close is a no-op; the underlying HTTP client needs no teardown.
func (c *Client) Close() error {
	return nil
}

// describe asks the chat model for the structured analysis payload.
func (c *Client) describe(ctx context.Context, file museum.UploadedFileRef) (*analysisPayload, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: analysisPrompt(file.SourceType)},
	}

	if file.SourceType == museum.SourceImage && file.DataURL != "" {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    file.DataURL,
				Detail: openai.ImageURLDetailAuto,
			},
		})
	} else {
		input := file.TextContent
		if input == "" {
			input = "File name: " + file.Name
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: input,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai analyzer: empty completion")
	}

	return parsePayload(resp.Choices[0].Message.Content)
}

// embed produces the artifact embedding from the derived text. Embedding
// failures degrade to the deterministic pseudo-embedding so the pipeline
// still produces a fixed-length vector.
func (c *Client) embed(ctx context.Context, file museum.UploadedFileRef, title, description string, tags []string) []float64 {
	input := strings.TrimSpace(title + " " + description + " " + strings.Join(tags, " "))

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{input},
		Model: openai.AdaEmbeddingV2,
	})
	if err != nil || len(resp.Data) == 0 {
		return synthetic.PseudoEmbedding(file.ID+":"+input, c.dimensions)
	}

	embedding := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		embedding[i] = float64(v)
	}
	return embedding
}

// analysisPrompt builds the instruction for one media kind.
func analysisPrompt(sourceType museum.SourceType) string {
	return fmt.Sprintf(`You are an archivist describing one uploaded %s memory for a personal museum.
Respond with a single JSON object and nothing else, using exactly these keys:
{"title": string, "description": string, "emotion": string, "sentimentScore": number between 0 and 1,
"objects": string[], "semanticTags": string[], "palette": string[] of hex colors,
"category": one of %s}`, sourceType, strings.Join(slugStrings(), ", "))
}

func slugStrings() []string {
	out := make([]string, len(category.Slugs))
	for i, slug := range category.Slugs {
		out[i] = string(slug)
	}
	return out
}

// parsePayload unmarshals the model output, tolerating surrounding prose
// by extracting the outermost JSON object when direct parsing fails.
func parsePayload(content string) (*analysisPayload, error) {
	var payload analysisPayload
	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		return &payload, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("openai analyzer: model did not return a JSON object")
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("openai analyzer: %w", err)
	}
	return &payload, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clip(values []string, max int) []string {
	if values == nil {
		return []string{}
	}
	if len(values) > max {
		return values[:max]
	}
	return values
}
