package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

type BioSuggestion struct {
	Headline string `json:"headline"`
	Bio      string `json:"bio"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestBio drafts a headline and short bio for a business card from free
// text about the person.
func (s *AIService) SuggestBio(ctx context.Context, jobTitle, company, about string) (*BioSuggestion, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You write copy for digital business cards.

Job title: %s
Company: %s
About: %s

Return JSON with exactly these fields:
{
  "headline": "one-line professional headline, max 60 characters",
  "bio": "short third-person bio, max 280 characters"
}

Return only the JSON, no explanation.`, jobTitle, company, about)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.5,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var suggestion BioSuggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return &suggestion, nil
}
