package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/ecoquest/internal/config"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "first", Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Text: "second"},
	)

	resp1, err := mock.Generate(context.Background(), UserPrompt("one"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text != "first" {
		t.Fatalf("expected first, got %s", resp1.Text)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), UserPrompt("two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text != "second" {
		t.Fatalf("expected second, got %s", resp2.Text)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "x"})

	req := UserPrompt("hello")
	req.System = "sys"
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
	if mock.Calls[0].Messages[0].Role != RoleUser {
		t.Fatalf("expected user role, got %q", mock.Calls[0].Messages[0].Role)
	}
}

func TestOfflineProvider(t *testing.T) {
	p := NewOfflineProvider()

	text, err := p.Generate(context.Background(), UserPrompt("teach me"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.HasPrefix(text.Text, "{") {
		t.Fatalf("expected prose, got %s", text.Text)
	}

	req := UserPrompt("quiz me")
	req.JSON = true
	quiz, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(quiz.Text, `"correctIndex"`) {
		t.Fatalf("expected a quiz object, got %s", quiz.Text)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "lesson-paragraph")
	if p := PurposeFrom(ctx); p != "lesson-paragraph" {
		t.Fatalf("expected 'lesson-paragraph', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"openrouter with key", Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "k"}}, false},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func clearKeys(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestFromSettings(t *testing.T) {
	t.Run("explicit provider", func(t *testing.T) {
		clearKeys(t)
		cfg, ok := FromSettings(config.LLMConfig{
			Provider: "openai",
			OpenAI:   config.ProviderConfig{APIKey: "sk", Model: "gpt-4o"},
		})
		if !ok || cfg.Provider != "openai" || cfg.OpenAI.Model != "gpt-4o" {
			t.Fatalf("unexpected config: %+v ok=%v", cfg, ok)
		}
		if cfg.Gemini.Model != defaultGeminiModel {
			t.Fatalf("expected default gemini model, got %q", cfg.Gemini.Model)
		}
	})

	t.Run("first configured key", func(t *testing.T) {
		clearKeys(t)
		cfg, ok := FromSettings(config.LLMConfig{Anthropic: config.ProviderConfig{APIKey: "sk"}})
		if !ok || cfg.Provider != "anthropic" {
			t.Fatalf("expected anthropic, got %+v ok=%v", cfg, ok)
		}
	})

	t.Run("discovered from env", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("OPENAI_API_KEY", "sk-env")
		cfg, ok := FromSettings(config.LLMConfig{})
		if !ok || cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-env" {
			t.Fatalf("expected openai from env, got %+v ok=%v", cfg, ok)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		clearKeys(t)
		if _, ok := FromSettings(config.LLMConfig{}); ok {
			t.Fatal("expected no provider")
		}
	})
}

func TestDiscoverConfig_Priority(t *testing.T) {
	clearKeys(t)
	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("GEMINI_API_KEY", "g")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g" {
		t.Fatalf("expected gemini first, got %+v", cfg)
	}
}
