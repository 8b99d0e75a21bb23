package core

type (
	// MonthlySummary is derived per (user, year, month) and never stored.
	// NetAmount always equals TotalIncome - TotalExpenses.
	MonthlySummary struct {
		TotalIncome   Money `json:"totalIncome"`
		TotalExpenses Money `json:"totalExpenses"`
		NetAmount     Money `json:"netAmount"`
	}

	// CategoryStats aggregates all of a user's transactions for one category.
	CategoryStats struct {
		CategoryID       int64        `json:"categoryId"`
		CategoryName     string       `json:"categoryName"`
		CategoryType     CategoryType `json:"categoryType"`
		CategoryColor    string       `json:"categoryColor"`
		TransactionCount int64        `json:"transactionCount"`
		TotalAmount      Money        `json:"totalAmount"`
		AvgAmount        Money        `json:"avgAmount"`
	}

	// AnalyticsOverview joins the two independent aggregate reads for the
	// combined analytics response.
	AnalyticsOverview struct {
		Monthly    MonthlySummary  `json:"monthly"`
		Categories []CategoryStats `json:"categories"`
	}
)
