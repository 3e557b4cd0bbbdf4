package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/growthlane/outreach-cli/internal/model"
	"github.com/growthlane/outreach-cli/pkg/anthropic"
)

const (
	complimentMinLen   = 20
	complimentMaxLen   = 300
	promptContextMax   = 4000
	complimentSystem   = "You write one short, specific, genuine compliment about a company for a cold outreach message. One or two sentences, no greetings, no questions about scheduling, no exclamation spam."
	defaultMaxTokens   = 150
	defaultTemperature = 0.7
)

// refusalMarkers are substrings that indicate the model declined or
// broke character instead of producing a usable compliment.
var refusalMarkers = []string{
	"i cannot", "i can't", "i am unable", "i'm unable",
	"as an ai", "i apologize", "i'm sorry", "i am sorry",
}

// ValidCompliment applies the acceptance rules for generated text:
// length bounds, no refusal phrasing, and limited punctuation noise.
func ValidCompliment(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < complimentMinLen || len(trimmed) > complimentMaxLen {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range refusalMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	if strings.Count(trimmed, "!") > 2 || strings.Count(trimmed, "?") > 1 {
		return false
	}
	return true
}

// GenerationSettings carries the model knobs for compliment
// generation. Zero values fall back to the shipped defaults.
type GenerationSettings struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}

// ComplimentEnricher generates a personalized compliment per lead,
// falling back to a template when generation fails or is rejected.
type ComplimentEnricher struct {
	gen       anthropic.Client
	settings  GenerationSettings
	fallbacks []string
}

func NewComplimentEnricher(gen anthropic.Client, settings GenerationSettings, fallbacks []string) *ComplimentEnricher {
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = defaultMaxTokens
	}
	if settings.Temperature <= 0 {
		settings.Temperature = defaultTemperature
	}
	return &ComplimentEnricher{gen: gen, settings: settings, fallbacks: fallbacks}
}

func (c *ComplimentEnricher) Name() string { return "compliment_enrichment" }

func (c *ComplimentEnricher) Enrich(ctx context.Context, lead *model.Lead) error {
	text, err := c.generate(ctx, lead)
	if err == nil && ValidCompliment(text) {
		lead.Compliment = strings.TrimSpace(text)
		lead.ComplimentStatus = model.ComplimentAIGenerated
		return nil
	}

	fallback, fbErr := FallbackCompliment(c.fallbacks, lead.CompanyNameCanonical)
	if fbErr != nil {
		lead.ComplimentStatus = model.ComplimentError
		if err != nil {
			return eris.Wrap(err, "pipeline: compliment generation")
		}
		return fbErr
	}
	lead.Compliment = fallback
	lead.ComplimentStatus = model.ComplimentFallback
	if err != nil {
		return eris.Wrap(err, "pipeline: compliment generation, used fallback")
	}
	return nil
}

func (c *ComplimentEnricher) generate(ctx context.Context, lead *model.Lead) (string, error) {
	if c.gen == nil {
		return "", eris.New("pipeline: no compliment generator configured")
	}

	temp := c.settings.Temperature
	resp, err := c.gen.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.settings.Model,
		MaxTokens:   c.settings.MaxTokens,
		System:      complimentSystem,
		Prompt:      buildComplimentPrompt(lead),
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func buildComplimentPrompt(lead *model.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", lead.CompanyNameCanonical)
	if lead.CompanyIndustry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", lead.CompanyIndustry)
	}
	if lead.CompanyDomain != "" {
		fmt.Fprintf(&b, "Website: %s\n", lead.CompanyDomain)
	}
	if lead.JobTitle != "" {
		fmt.Fprintf(&b, "They are hiring: %s\n", lead.JobTitle)
	}
	if lead.JobLocation != "" {
		fmt.Fprintf(&b, "Location: %s\n", lead.JobLocation)
	}
	b.WriteString("Write the compliment now.")

	prompt := b.String()
	if len(prompt) > promptContextMax {
		prompt = prompt[:promptContextMax]
	}
	return prompt
}
