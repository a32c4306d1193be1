package ai

import (
	"context"
	"time"

	"google.golang.org/genai"

	"github.com/rustam-k0/banana-bot/internal/logger"
)

// Caller performs one attempt against one named model. Implementations
// must not retry internally; walking the cascade is the dispatcher's job.
type Caller interface {
	Generate(ctx context.Context, model string, req Request) (*Result, error)
}

// Client is the Gemini-backed model service adapter. One instance is
// shared across all users; the underlying HTTP client pools connections.
type Client struct {
	genai          *genai.Client
	timeout        time.Duration
	thinkingBudget int32
	logger         logger.Logger
}

func NewClient(ctx context.Context, apiKey string, timeout time.Duration, thinkingBudget int32, log logger.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		genai:          client,
		timeout:        timeout,
		thinkingBudget: thinkingBudget,
		logger:         log,
	}, nil
}

// All first-party filters are disabled; the cascade handles the
// backend's policy verdicts explicitly instead.
func safetyOff() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHateSpeech,
		genai.HarmCategoryDangerousContent,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryHarassment,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return settings
}

func (c *Client) generationConfig(capability Capability) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SafetySettings: safetyOff(),
	}
	switch capability {
	case CapabilityImageGenerate, CapabilityImageEdit:
		cfg.ResponseModalities = []string{"IMAGE", "TEXT"}
	default:
		cfg.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(c.thinkingBudget),
		}
	}
	return cfg
}

func buildContents(req Request) []*genai.Content {
	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, part := range req.Parts {
		if part.Data != nil {
			parts = append(parts, genai.NewPartFromBytes(part.Data, part.MIME))
		} else {
			parts = append(parts, genai.NewPartFromText(part.Text))
		}
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// Generate performs a single round trip against the named model and
// normalizes the response. Errors are returned pre-classified.
func (c *Client) Generate(ctx context.Context, model string, req Request) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.WithFields(logger.Fields{
		"model":      model,
		"capability": req.Capability,
	}).Debug("Calling model")

	resp, err := c.genai.Models.GenerateContent(ctx, model, buildContents(req), c.generationConfig(req.Capability))
	if err != nil {
		return nil, classify(err)
	}
	return normalize(resp)
}
