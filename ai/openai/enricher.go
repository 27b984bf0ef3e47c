// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/poiesic/procsuggest/ai"
	"github.com/poiesic/procsuggest/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrInvalidLink is returned when the model answers with something that is
// not an absolute http(s) URL.
var ErrInvalidLink = errors.New("model returned an invalid link")

const maxEnrichAttempts = 3

// LinkEnricher implements ai.LinkEnricher using OpenAI-compatible chat APIs.
type LinkEnricher struct {
	client llms.Model
	logger *slog.Logger
}

// linkResponse is the JSON object the model is asked to produce.
type linkResponse struct {
	URL string `json:"url"`
}

// newLinkEnricher is an internal constructor that returns the concrete type.
func newLinkEnricher(config *ai.Config) (*LinkEnricher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken("none"),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return withClient(client), nil
}

func withClient(client llms.Model) *LinkEnricher {
	return &LinkEnricher{
		client: client,
		logger: slog.Default().With("component", "openai-enricher"),
	}
}

// NewLinkEnricher creates a new link enricher using the provided configuration.
//
// Returns ai.LinkEnricher interface to enforce abstraction.
func NewLinkEnricher(config *ai.Config) (ai.LinkEnricher, error) {
	return newLinkEnricher(config)
}

// EnrichLink asks the generator for the official page of record.
// An empty answer keeps the generated link.
func (e *LinkEnricher) EnrichLink(ctx context.Context, record core.ProcedureRecord, generated string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildLinkPrompt(generated))},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildLinkQuery(record.Name, record.Code))},
		},
	}

	// Try up to maxEnrichAttempts times in case of malformed JSON
	var result linkResponse
	var lastErr error
	for attempt := 0; attempt < maxEnrichAttempts; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return "", err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return generated, nil
		}

		responseText := cleanResponse(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing generator response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse generator response after retries", "err", lastErr)
		return "", lastErr
	}

	if result.URL == "" {
		return generated, nil
	}
	if err := validateLink(result.URL); err != nil {
		return "", err
	}

	e.logger.Debug("link enriched", "procedure", record.ID, "link", result.URL)
	return result.URL, nil
}

func validateLink(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLink, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidLink, raw)
	}
	return nil
}
