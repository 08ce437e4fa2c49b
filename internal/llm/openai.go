package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// requestTimeout bounds a single completion round-trip. Reasoning models
// can take minutes on a hard prompt, so this is generous.
const requestTimeout = 5 * time.Minute

// OpenAIClient talks to the OpenAI Responses API (or any compatible
// endpoint) over plain HTTP.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	effort  string
	http    *http.Client
}

// NewOpenAIClient builds a client for the given endpoint and model.
// effort is the reasoning effort level ("low", "medium", "high").
func NewOpenAIClient(baseURL, apiKey, model, effort string) *OpenAIClient {
	return &OpenAIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		effort:  effort,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// responsesRequest is the subset of the Responses API request we use.
type responsesRequest struct {
	Model     string         `json:"model"`
	Input     string         `json:"input"`
	Reasoning map[string]any `json:"reasoning,omitempty"`
}

// responsesReply covers the two shapes the API returns text in: the
// convenience output_text field, or the output message array.
type responsesReply struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends the prompt and returns the model's raw text output.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	body := responsesRequest{
		Model: c.model,
		Input: prompt,
	}
	if c.effort != "" {
		body.Reasoning = map[string]any{"effort": c.effort}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/responses", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling model: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading model response: %w", err)
	}

	var reply responsesReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return "", fmt.Errorf("decoding model response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if reply.Error != nil {
			return "", fmt.Errorf("model request failed (%s): %s", reply.Error.Type, reply.Error.Message)
		}
		return "", fmt.Errorf("model request failed with status %d", resp.StatusCode)
	}

	if reply.OutputText != "" {
		return reply.OutputText, nil
	}
	for _, item := range reply.Output {
		for _, content := range item.Content {
			if content.Text != "" {
				return content.Text, nil
			}
		}
	}

	return "", fmt.Errorf("model response contained no output text")
}
