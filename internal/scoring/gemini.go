package scoring

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	genai "google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("scoring: empty response from model")

// GeminiScorer is a thin wrapper around the official genai client.
type GeminiScorer struct {
	cli   *genai.Client
	model string
	rl    *rpsLimiter
}

// NewGeminiScorer builds a scorer for the given model. The API key is read by
// the genai client from the environment (GOOGLE_API_KEY).
// Optional RPS limiter via env: LLM_RPS and LLM_BURST.
func NewGeminiScorer(ctx context.Context, model string) (*GeminiScorer, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	var rps float64
	var burst int
	if v := os.Getenv("LLM_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			rps = f
		}
	}
	if v := os.Getenv("LLM_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			burst = n
		}
	}
	return &GeminiScorer{cli: cli, model: model, rl: newRPSLimiter(rps, burst)}, nil
}

func (g *GeminiScorer) Name() string { return "Gemini:" + g.model }

func (g *GeminiScorer) Close() error {
	if g.rl != nil {
		g.rl.Stop()
	}
	return nil
}

// Score sends the composed prompt and returns the model text verbatim.
func (g *GeminiScorer) Score(ctx context.Context, prompt string) (string, error) {
	log.Printf("scoring request (%s): %d bytes", g.model, len(prompt))

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		// Each API call consumes a limiter token.
		if err := g.rl.Acquire(ctx); err != nil {
			lastErr = err
			break
		}
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			nil,
		)
		if err != nil {
			lastErr = err
		} else if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = ErrEmptyResponse
		} else {
			return resp.Candidates[0].Content.Parts[0].Text, nil
		}
		time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
	}
	return "", lastErr
}
