package pipeline

import (
	"context"
	"fmt"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/outreach"
	"github.com/sells-group/leadscout/internal/source"
	"github.com/sells-group/leadscout/internal/store"
	"github.com/sells-group/leadscout/pkg/anthropic"
	"github.com/sells-group/leadscout/pkg/deepseek"
)

// Compile-time interface checks.
var (
	_ anthropic.Client = (*StubAnthropicClient)(nil)
	_ deepseek.Client  = (*StubDeepSeekClient)(nil)
	_ source.Sourcer   = (*StubSourcer)(nil)
	_ store.LeadLogger = (*StubSink)(nil)
)

// --- Anthropic Stub ---

// StubAnthropicClient implements anthropic.Client with a canned
// outreach message.
type StubAnthropicClient struct{}

// CreateMessage implements anthropic.Client.
func (s *StubAnthropicClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	return &anthropic.MessageResponse{
		ID:    "stub-msg-001",
		Model: req.Model,
		Content: []anthropic.ContentBlock{
			{Type: "text", Text: "Dear Owner,\n\nStub outreach message.\n\nBest regards,\nStub"},
		},
		StopReason: "end_turn",
	}, nil
}

// --- DeepSeek Stub ---

// StubDeepSeekClient implements deepseek.Client with a canned analysis
// payload covering every field the augmenter requires.
type StubDeepSeekClient struct{}

// ChatCompletion implements deepseek.Client.
func (s *StubDeepSeekClient) ChatCompletion(_ context.Context, req deepseek.ChatCompletionRequest) (*deepseek.ChatCompletionResponse, error) {
	return &deepseek.ChatCompletionResponse{
		ID:    "stub-chat-001",
		Model: req.Model,
		Choices: []deepseek.Choice{
			{Message: deepseek.Message{
				Role: "assistant",
				Content: `{"cap_rate": 7.5, "cash_on_cash_return": 10.2, "noi": 45000,
					"five_year_irr": 11.0, "risk_score": 3,
					"recommendation": "Buy - Good investment opportunity"}`,
			}},
		},
	}, nil
}

// --- Sourcer Stub ---

// StubSourcer implements source.Sourcer with fixed records or a fixed
// error.
type StubSourcer struct {
	Records []model.RawLead
	Err     error
}

// Scan implements source.Sourcer.
func (s *StubSourcer) Scan(_ context.Context) ([]model.RawLead, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.RawLead, len(s.Records))
	copy(out, s.Records)
	return out, nil
}

// --- Sink Stub ---

// StubSink implements store.LeadLogger, recording logged leads and
// optionally failing after FailAfter successful calls.
type StubSink struct {
	Logged    []*model.Lead
	FailAfter int
}

// LogLead implements store.LeadLogger.
func (s *StubSink) LogLead(_ context.Context, lead *model.Lead) error {
	if s.FailAfter > 0 && len(s.Logged) >= s.FailAfter {
		return fmt.Errorf("stub sink: capacity %d reached", s.FailAfter)
	}
	s.Logged = append(s.Logged, lead)
	return nil
}

// --- Outreach Stub ---

var _ outreach.Generator = (*StubGenerator)(nil)

// StubGenerator implements outreach.Generator with a deterministic
// message, or a fixed error when Err is set.
type StubGenerator struct {
	Err error
}

// Message implements outreach.Generator.
func (s *StubGenerator) Message(_ context.Context, owner, address string, _ *model.FinancialAnalysis) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return fmt.Sprintf("Dear %s, regarding %s.", owner, address), nil
}
