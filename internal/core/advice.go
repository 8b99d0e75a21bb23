package core

// Advice is the structured budgeting guidance extracted from a generative
// text response. It is produced fresh per request and never persisted.
type Advice struct {
	Summary        string   `json:"summary"`
	Tips           []string `json:"tips"`
	RiskCategories []string `json:"riskCategories"`
}

// maxTips bounds the tip list as promised by the API contract.
const maxTips = 5

// Normalize applies defaults so downstream code never sees nil slices or
// an unbounded tip list, regardless of what the model returned.
func (a Advice) Normalize() Advice {
	if a.Tips == nil {
		a.Tips = []string{}
	}
	if len(a.Tips) > maxTips {
		a.Tips = a.Tips[:maxTips]
	}
	if a.RiskCategories == nil {
		a.RiskCategories = []string{}
	}
	return a
}
