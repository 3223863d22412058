package analyst

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

const promptTemplate = `あなたは優秀なFX（ドル円）の専属アナリストです。
以下の現在の相場状況に基づいて、トレーダーに向けて【端的で客観的な一言アドバイス】を書いてください。
文字数は100文字以内で、冗長な挨拶は不要です。

【現在の相場状況】
%s`

// Gemini produces a one-line market commentary for FX alerts.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Comment(ctx context.Context, marketContext string) (string, error) {
	prompt := fmt.Sprintf(promptTemplate, marketContext)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
