// Package ai implements the optional column suggestion fallback on top of
// the Gemini API. It is the lowest-priority resolver strategy: any error
// here simply leaves columns unresolved.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

// Suggester asks a Gemini model to classify unresolved report columns into
// canonical fields.
type Suggester struct {
	client *genai.Client
	model  string
}

// NewSuggester creates a suggester from GEMINI_API_KEY. Returns an error
// when the key is unset; callers treat that as "no suggester".
func NewSuggester(ctx context.Context, modelName string) (*Suggester, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return &Suggester{client: client, model: modelName}, nil
}

// Suggest proposes a canonical field per column name. Columns the model
// cannot classify are omitted from the result.
func (s *Suggester) Suggest(ctx context.Context, columns []string) (map[string]model.CanonicalField, error) {
	fields := make([]string, 0, len(model.CanonicalFields))
	for _, f := range model.CanonicalFields {
		fields = append(fields, string(f))
	}

	prompt := fmt.Sprintf(`You classify spreadsheet column headers from licensee sales reports.
Map each column name to exactly one of these fields, or "ignore" when none applies:
%s

Column names:
%s

Respond with only a JSON object mapping each column name to a field.`,
		strings.Join(fields, ", "), strings.Join(columns, "\n"))

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0)),
		ResponseMIMEType: "application/json",
	}
	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}

	text := result.Text()
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "```json"), "```"))

	var raw map[string]string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unparseable suggestion response: %w", err)
	}

	out := make(map[string]model.CanonicalField, len(raw))
	for col, field := range raw {
		f := model.CanonicalField(strings.TrimSpace(field))
		if f.IsValid() {
			out[col] = f
		}
	}
	return out, nil
}
