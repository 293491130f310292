package points

import (
	"log/slog"

	"github.com/zombor/receipt-processor/internal/receipt"
)

// RuleScore is the contribution of a single rule
type RuleScore struct {
	Rule   string `json:"rule"`
	Points int    `json:"points"`
}

// Calculator sums a set of rules
type Calculator struct {
	rules []Rule
}

// NewCalculator creates a Calculator using the standard rule set
func NewCalculator() *Calculator {
	return NewCalculatorWithRules(Rules)
}

// NewCalculatorWithRules creates a Calculator with a custom rule set for testing
func NewCalculatorWithRules(rules []Rule) *Calculator {
	return &Calculator{rules: rules}
}

// Breakdown returns each rule's contribution in rule order
func (c *Calculator) Breakdown(r *receipt.Receipt) []RuleScore {
	scores := make([]RuleScore, 0, len(c.rules))
	for _, rule := range c.rules {
		points := rule.Score(r)
		slog.Debug("Rule scored", "rule", rule.Name, "points", points)
		scores = append(scores, RuleScore{Rule: rule.Name, Points: points})
	}
	return scores
}

// Calculate returns the total points for a receipt
func (c *Calculator) Calculate(r *receipt.Receipt) int {
	total := 0
	for _, s := range c.Breakdown(r) {
		total += s.Points
	}
	return total
}
