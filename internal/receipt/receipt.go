package receipt

import (
	"fmt"
	"time"
)

// Item is a single line item on a receipt
type Item struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"` // Decimal string with two fractional digits
}

// Clock is a time of day with minute granularity
type Clock struct {
	Hour   int
	Minute int
}

// Minutes returns the number of minutes since midnight
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Receipt is a validated purchase receipt ready for scoring
type Receipt struct {
	Retailer     string
	PurchaseDate time.Time
	PurchaseTime Clock
	Items        []Item
	Total        string // Decimal string with two fractional digits
}

// Record is the stored result of processing a receipt
type Record struct {
	ID        string    `json:"id"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}
