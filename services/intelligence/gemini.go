package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cupbot/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	maxOutputTokens = 150
	temperature     = 0.7
)

// GeminiClient generates replies with a Gemini model.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelName: modelName}, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func (g *GeminiClient) Generate(ctx context.Context, message string, b *models.Business, history []models.Interaction) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(SystemPrompt(b))}}
	model.SetMaxOutputTokens(maxOutputTokens)
	model.SetTemperature(temperature)

	cs := model.StartChat()
	var parts []genai.Part
	cs.History, parts = chatTurns(history, message)

	resp, err := cs.SendMessage(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// SystemPrompt describes the business to the model.
func SystemPrompt(b *models.Business) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a friendly and professional AI assistant for %s, a %s.\n", b.Name, b.BusinessType)
	sb.WriteString("Your responses should be:\n")
	sb.WriteString("- Concise (under 150 words)\n")
	sb.WriteString("- Professional yet friendly\n")
	fmt.Fprintf(&sb, "- Focused on %s-related topics\n", b.BusinessType)
	sb.WriteString("- Include appropriate emojis\n")
	sb.WriteString("- Guide users to specific commands (/book, /order, /info) when relevant\n\n")
	sb.WriteString("For specific actions like booking appointments or placing orders, direct users to use the dedicated commands.\n")

	if b.Description != "" {
		fmt.Fprintf(&sb, "\nAbout the business: %s\n", b.Description)
	}
	if len(b.Services) > 0 {
		sb.WriteString("\nServices:\n")
		for _, s := range b.Services {
			fmt.Fprintf(&sb, "- %s (%.2f %s)\n", s.Name, s.Price, b.Settings.Currency)
		}
	}
	if len(b.WorkingHours) > 0 {
		sb.WriteString("\nWorking hours:\n")
		sb.WriteString(FormatHours(b.WorkingHours))
		sb.WriteString("\n")
	}
	c := b.ContactInfo
	if c.Phone != "" || c.Email != "" || c.Address != "" {
		fmt.Fprintf(&sb, "\nContact: phone %s, email %s, address %s\n", c.Phone, c.Email, c.Address)
	}
	return sb.String()
}

// chatHistory maps stored interactions to chat turns. Gemini requires the
// history to open with a user turn and to alternate roles, so leading bot
// turns are dropped and consecutive turns by the same role are joined.
func chatHistory(history []models.Interaction) []*genai.Content {
	var out []*genai.Content
	for _, in := range history {
		if strings.TrimSpace(in.Message) == "" {
			continue
		}
		role := "user"
		if in.Type == models.InteractionReply {
			role = "model"
		}
		if len(out) == 0 && role == "model" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Parts = append(out[n-1].Parts, genai.Text(in.Message))
			continue
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(in.Message)}})
	}
	return out
}

// chatTurns splits history into the chat history and the parts of the
// outgoing message. A trailing user turn is folded into the outgoing message
// so the chat never holds two user turns in a row.
func chatTurns(history []models.Interaction, message string) ([]*genai.Content, []genai.Part) {
	turns := chatHistory(history)
	var parts []genai.Part
	if n := len(turns); n > 0 && turns[n-1].Role == "user" {
		parts = append(parts, turns[n-1].Parts...)
		turns = turns[:n-1]
	}
	return turns, append(parts, genai.Text(message))
}
