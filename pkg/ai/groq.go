package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/config"
)

// GroqClient is a minimal client for Groq API calls used for risk analysis
type GroqClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGroqClient creates a Groq client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewGroqClient(cfg *config.GroqConfig) *GroqClient {
	var apiKey, base, model string
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
		model = cfg.Model
	}
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	if base == "" {
		base = os.Getenv("GROQ_API_URL")
		if base == "" {
			base = "https://api.groq.com"
		}
	}
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}

	return &GroqClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string      `json:"model,omitempty"`
	Messages    interface{} `json:"messages,omitempty"`
	Temperature float64     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const riskPromptHeader = `You are a content-risk analyst. Assess the following video transcript(s) for radical or extremist content. Respond with a single JSON object and nothing else, using exactly these fields:
{
  "radical_probability": <integer 0-100, likelihood the speaker promotes radical ideology>,
  "radical_content": <integer 0-100, share of the content itself that is radical>,
  "overview": "<one-paragraph overview>",
  "analysis": "<detailed analysis>",
  "risk_factors": ["<risk factor>", ...],
  "safety_tips": ["<safety tip>", ...],
  "language_breakdown": {"<language code>": "<brief per-language note>", ...}
}`

// GenerateRiskAssessment sends per-language transcripts to Groq and returns
// the raw assistant content for the caller to parse
func (g *GroqClient) GenerateRiskAssessment(ctx context.Context, transcripts map[string]string) (string, error) {
	var sb strings.Builder
	sb.WriteString(riskPromptHeader)
	sb.WriteString("\n\nTranscripts:\n")

	languages := make([]string, 0, len(transcripts))
	for lang := range transcripts {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	for _, lang := range languages {
		sb.WriteString(fmt.Sprintf("\n--- %s ---\n%s\n", lang, transcripts[lang]))
	}

	reqBody := ChatRequest{
		Model:       g.model,
		Messages:    []map[string]string{{"role": "user", "content": sb.String()}},
		Temperature: 0.2,
		MaxTokens:   4000,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("groq returned status %d", resp.StatusCode)
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}
	return cr.Choices[0].Message.Content, nil
}
