package advice

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

func makeHistory(n int) []core.Transaction {
	txs := make([]core.Transaction, n)
	for i := range txs {
		txs[i] = core.Transaction{
			Date:          core.NewDate(2025, 1, 1+(i%27)),
			Amount:        core.Money{Cents: int64(100 * (i + 1))},
			Description:   "tx",
			CategoryName:  "Food & Dining",
			CategoryType:  core.Expense,
			CategoryColor: "#e74c3c",
		}
	}
	return txs
}

// extractSnapshot pulls the serialized transaction list back out of the
// prompt text.
func extractSnapshot(t *testing.T, prompt string) []promptTransaction {
	t.Helper()
	const marker = "RecentTransactionsJSON = "
	idx := strings.Index(prompt, marker)
	if idx < 0 {
		t.Fatalf("prompt missing snapshot marker:\n%s", prompt)
	}
	var snapshot []promptTransaction
	if err := json.Unmarshal([]byte(prompt[idx+len(marker):]), &snapshot); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	return snapshot
}

func TestBuildPromptCapsAtOneHundredTwenty(t *testing.T) {
	prompt := BuildPrompt(makeHistory(200))
	snapshot := extractSnapshot(t, prompt)
	if len(snapshot) != 120 {
		t.Fatalf("expected 120 projected transactions, got %d", len(snapshot))
	}
	// The first (most recent) entries survive, not the tail.
	if snapshot[0].Amount != 1.00 {
		t.Fatalf("expected the head of the list to be kept, got %+v", snapshot[0])
	}
}

func TestBuildPromptProjection(t *testing.T) {
	tx := core.Transaction{
		Date:         core.NewDate(2025, 4, 9),
		Amount:       core.Money{Cents: 1250},
		Description:  "weekly groceries",
		CategoryName: "Food & Dining",
		CategoryType: core.Expense,
	}
	snapshot := extractSnapshot(t, BuildPrompt([]core.Transaction{tx}))
	if len(snapshot) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(snapshot))
	}
	got := snapshot[0]
	if got.Date != "2025-04-09" || got.Type != "expense" ||
		got.Category != "Food & Dining" || got.Amount != 12.50 ||
		got.Description != "weekly groceries" {
		t.Fatalf("projection wrong: %+v", got)
	}
}

func TestBuildPromptAsksForStrictJSON(t *testing.T) {
	prompt := BuildPrompt(nil)
	for _, want := range []string{`"summary"`, `"tips"`, `"riskCategories"`, "ONLY valid JSON"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if snapshot := extractSnapshot(t, prompt); len(snapshot) != 0 {
		t.Fatalf("expected empty snapshot for empty history, got %d", len(snapshot))
	}
}
