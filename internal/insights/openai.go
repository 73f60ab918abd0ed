package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/focalhq/focal/internal/types"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Compile-time interface check
var _ Generator = (*OpenAI)(nil)

// ChatService defines the interface for making chat completion calls.
// This abstraction enables testing without calling the real OpenAI API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI implements the insight generator using OpenAI's chat API.
type OpenAI struct {
	completions ChatService
	model       openai.ChatModel
}

// NewOpenAI creates a new OpenAI insight generator.
func NewOpenAI(apiKey, model string) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{
		completions: client.Chat.Completions,
		model:       openai.ChatModel(model),
	}
}

// Generate summarizes the dashboard into a few sentences of coaching advice.
func (o *OpenAI) Generate(ctx context.Context, d types.Dashboard) (string, error) {
	resp, err := o.completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a concise productivity coach. Summarize the user's tracked time statistics in at most four sentences, naming one concrete improvement."),
			openai.UserMessage(describeDashboard(d)),
		}),
		Model: openai.F(o.model),
	})
	if err != nil {
		return "", fmt.Errorf("insight generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("insight generation failed: no choices returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ModelName returns the chat model name.
func (o *OpenAI) ModelName() string {
	return string(o.model)
}

// describeDashboard renders the projection as plain text for the prompt.
func describeDashboard(d types.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Time range: %s\n", d.TimeRange)
	fmt.Fprintf(&b, "Total tracked: %s hours (%d minutes)\n", d.Stats.TotalHours, d.Stats.TotalMinutes)
	fmt.Fprintf(&b, "Productivity score: %d/100\n", d.Stats.ProductivityScore)
	fmt.Fprintf(&b, "Goal achievement: %d%%\n", d.Stats.GoalAchievement)
	fmt.Fprintf(&b, "Efficiency rate: %d%%\n", d.Stats.EfficiencyRate)
	if len(d.TimeAllocation) > 0 {
		b.WriteString("Time allocation:\n")
		for _, a := range d.TimeAllocation {
			fmt.Fprintf(&b, "- %s: %d minutes (%d%%)\n", a.Name, a.Minutes, a.Value)
		}
	}
	return b.String()
}
