package advice

import (
	"encoding/json"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

// maxPromptTransactions bounds the history snapshot included in a prompt.
// It is a token-budget limit, not a tunable.
const maxPromptTransactions = 120

const promptTemplate = `You are a personal finance assistant. Analyze the user's recent transactions and provide:
- A concise summary of their spending and income patterns
- 5 actionable, personalized tips to improve budgeting and reduce unnecessary expenses
- If possible, call out 1-2 categories where overspending is likely

IMPORTANT: Return ONLY valid JSON with no additional text, markdown, or code blocks. Use this exact format:
{
  "summary": "Your analysis summary here",
  "tips": ["Tip 1", "Tip 2", "Tip 3", "Tip 4", "Tip 5"],
  "riskCategories": ["Category 1", "Category 2"]
}

RecentTransactionsJSON = `

// promptTransaction is the compact projection serialized into the prompt.
type promptTransaction struct {
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// BuildPrompt serializes at most the first maxPromptTransactions entries of
// the caller-sorted, newest-first history into the instruction template.
func BuildPrompt(transactions []core.Transaction) string {
	recent := transactions
	if len(recent) > maxPromptTransactions {
		recent = recent[:maxPromptTransactions]
	}

	simplified := make([]promptTransaction, len(recent))
	for i, t := range recent {
		simplified[i] = promptTransaction{
			Date:        t.Date.String(),
			Type:        string(t.CategoryType),
			Category:    t.CategoryName,
			Amount:      t.Amount.Float64(),
			Description: t.Description,
		}
	}

	snapshot, err := json.Marshal(simplified)
	if err != nil {
		// Only unmarshalable types can fail here and promptTransaction has none.
		snapshot = []byte("[]")
	}
	return promptTemplate + string(snapshot)
}
