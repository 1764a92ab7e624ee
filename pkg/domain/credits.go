package domain

import "fmt"

// Credits mirrors the OpenRouter credits endpoint: money purchased and money
// spent, both in USD.
type Credits struct {
	TotalCredits float64
	TotalUsage   float64
}

func (c Credits) String() string {
	return fmt.Sprintf("💰 Used $%.2f of $%.2f. Remaining: $%.2f", c.TotalUsage, c.TotalCredits, c.TotalCredits-c.TotalUsage)
}
