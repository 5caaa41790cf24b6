package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ferhatk/fizikcozum/model"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// ErrMissingApiKey is returned when no Gemini API key was configured.
var ErrMissingApiKey = errors.New("gemini api key is not configured")

const systemPrompt = `You are a physics teacher at TYT/AYT exam level. Verify the problem against
reliable sources before solving it.
Answer as JSON: {"konu":"...", "istenilen":"...", "verilenler":"...", "cozum":"...", "sonuc":"...", "konuOzet":"..."}.

- konu: the main topic of the problem (e.g. "Kinematics - Velocity and Acceleration")
- istenilen: what the problem asks for (short description)
- verilenler: the information given in the problem (as a list)
- cozum: the step by step solution, with formulas and explanations
- sonuc: the final result (numeric value and unit)
- konuOzet: a summary of the topic, at a level the student can follow

All output must be in Turkish. Write mathematical expressions explicitly.`

// solutionSchema constrains the model output to the Solution wire format.
var solutionSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"konu": {"type": "string", "description": "Physics topic"},
		"istenilen": {"type": "string", "description": "What is asked"},
		"verilenler": {"type": "string", "description": "Given information"},
		"cozum": {"type": "string", "description": "Step by step solution"},
		"sonuc": {"type": "string", "description": "Final result"},
		"konuOzet": {"type": "string", "description": "Topic summary"}
	},
	"required": ["konu", "istenilen", "verilenler", "cozum", "sonuc", "konuOzet"]
}`)

// GeminiAPI solves problems through the Gemini generateContent REST API.
type GeminiAPI struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewGeminiAPI returns a new pointer GeminiAPI
func NewGeminiAPI(apiKey, model string) *GeminiAPI {
	ans := GeminiAPI{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 2 * time.Minute},
	}
	return &ans
}

type content struct {
	Role  string            `json:"role,omitempty"`
	Parts []model.SolvePart `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

// Solve sends the question parts to the model and decodes the structured
// JSON answer.
func (o *GeminiAPI) Solve(ctx context.Context, parts []model.SolvePart) (*model.Solution, error) {
	if o.apiKey == "" {
		return nil, ErrMissingApiKey
	}

	payload, err := json.Marshal(generateRequest{
		Contents:          []content{{Role: "user", Parts: parts}},
		SystemInstruction: &content{Parts: []model.SolvePart{{Text: systemPrompt}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   solutionSchema,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("cannot encode solve request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", o.endpoint, o.model, o.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot reach gemini api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini api returned status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("cannot decode gemini response: %w", err)
	}

	text := gr.text()
	if text == "" {
		return nil, errors.New("empty response from model")
	}

	solution := &model.Solution{}
	if err := json.Unmarshal([]byte(text), solution); err != nil {
		return nil, fmt.Errorf("cannot decode model answer: %w", err)
	}
	return solution, nil
}
