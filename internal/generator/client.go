package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// LLMClient is the interface both generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient and adds quiz-drafting methods.
type Generator struct {
	llm   LLMClient
	model string
}

func NewGenerator() *Generator {
	var llm LLMClient
	model := "mock"

	if os.Getenv("MOCK_GENERATOR") == "true" {
		llm = NewMockClient()
		log.Println("Generator using mock data")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-5-20250929"
		}
		llm = NewAPIClient(model)
		log.Println("Generator using Anthropic API:", model)
	}

	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateQuizDraft asks the model for a batch of draft quiz questions on a
// lesson topic. Drafts go back to the admin for review; nothing is
// published from here.
func (g *Generator) GenerateQuizDraft(ctx context.Context, lessonTitle, summary string, count int) (*GeneratedQuiz, *LLMResponse, error) {
	systemPrompt := QuizSystemPrompt()
	userPrompt := BuildQuizUserPrompt(lessonTitle, summary, count)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate quiz draft: %w", err)
	}

	quiz, err := ParseResponse(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse quiz response: %w", err)
	}

	return quiz, resp, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{
		Content:      buildMockJSON(),
		PromptTokens: 800,
		OutputTokens: 1600,
	}, nil
}

func buildMockJSON() string {
	correctAnswers := []string{"A", "B", "C", "D"}
	topics := []string{
		"input and output devices", "storage media", "system software",
		"spreadsheet formulas", "network basics",
	}

	questions := "["
	for i := 0; i < 5; i++ {
		correctID := correctAnswers[i%4]
		topic := topics[i%len(topics)]

		if i > 0 {
			questions += ","
		}

		choices := "["
		for j, id := range correctAnswers {
			label := "an incorrect"
			if id == correctID {
				label = "the correct"
			}
			if j > 0 {
				choices += ","
			}
			choices += fmt.Sprintf(`{"id":"%s","text":"[Mock] This option describes %s and is %s answer for this question."}`,
				id, topic, label)
		}
		choices += "]"

		questions += fmt.Sprintf(`{"prompt":"[Mock] Which of the following statements about %s is correct for a Grade 10 CAT learner?","choices":%s,"correct_answer_id":"%s","explanation":"[Mock] The correct answer is %s because it accurately describes %s as covered in the lesson."}`,
			topic, choices, correctID, correctID, topic)
	}
	questions += "]"

	return fmt.Sprintf(`{"questions":%s}`, questions)
}
