// Package advice turns a user's transaction history into LLM-backed
// budgeting guidance: bounded prompt construction, one outbound generation
// call, and defensive parsing of whatever text comes back.
package advice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

// TransactionLister provides the newest-first history the prompt is built
// from.
type TransactionLister interface {
	TransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error)
}

// TextGenerator is the opaque text-in/text-out boundary to the external
// generative service.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	store TransactionLister
	llm   TextGenerator
}

// NewService wires the pipeline. llm may be nil when no service credential
// is configured; Advise then fails fast without any network call.
func NewService(store TransactionLister, llm TextGenerator) *Service {
	return &Service{store: store, llm: llm}
}

// Advise builds a prompt from the user's recent transactions, invokes the
// generative service and extracts a structured Advice from its reply.
// Upstream failures and timeouts wrap core.ErrAdviceUpstream; malformed
// replies never fail, they degrade through the Parse fallback chain.
func (s *Service) Advise(ctx context.Context, userID int64) (core.Advice, error) {
	if s.llm == nil {
		return core.Advice{}, core.ErrAdviceNotConfigured
	}

	transactions, err := s.store.TransactionsByUser(ctx, userID)
	if err != nil {
		return core.Advice{}, fmt.Errorf("load transaction history: %w", err)
	}

	prompt := BuildPrompt(transactions)
	text, err := s.llm.GenerateText(ctx, prompt)
	if err != nil {
		return core.Advice{}, fmt.Errorf("%w: %v", core.ErrAdviceUpstream, err)
	}

	result := Parse(text)
	slog.DebugContext(ctx, "Advice generated",
		"user_id", userID,
		"history_size", len(transactions),
		"tips", len(result.Tips),
		"risk_categories", len(result.RiskCategories))
	return result, nil
}
