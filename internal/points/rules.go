// Package points computes loyalty points for validated receipts.
//
// Each rule is a pure function of the receipt. The calculator sums the
// rules and never mutates its input, so it is safe for concurrent use.
package points

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/zombor/receipt-processor/internal/receipt"
)

var (
	quarter         = decimal.RequireFromString("0.25")
	descriptionRate = decimal.RequireFromString("0.2")
)

const (
	roundDollarPoints = 50
	quarterPoints     = 25
	itemPairPoints    = 5
	oddDayPoints      = 6
	afternoonPoints   = 10

	// Afternoon window in minutes since midnight: 14:01 inclusive to 16:00 exclusive
	afternoonStart = 14*60 + 1
	afternoonEnd   = 16 * 60

	// Cap on a single rule's contribution; seven capped rules still sum within int
	maxRulePoints = math.MaxInt >> 3
)

var maxRuleDecimal = decimal.NewFromInt(int64(maxRulePoints))

// Rule is a named scoring rule
type Rule struct {
	Name  string
	Score func(r *receipt.Receipt) int
}

// Rules is the fixed set of rules applied to every receipt
var Rules = []Rule{
	{Name: "retailer_name", Score: RetailerName},
	{Name: "round_dollar_total", Score: RoundDollarTotal},
	{Name: "quarter_multiple_total", Score: QuarterMultipleTotal},
	{Name: "item_pairs", Score: ItemPairs},
	{Name: "item_descriptions", Score: ItemDescriptions},
	{Name: "odd_purchase_day", Score: OddPurchaseDay},
	{Name: "afternoon_purchase", Score: AfternoonPurchase},
}

// RetailerName awards one point per alphanumeric character in the retailer name
func RetailerName(r *receipt.Receipt) int {
	points := 0
	for _, c := range r.Retailer {
		if unicode.IsLetter(c) || unicode.IsNumber(c) {
			points++
		}
	}
	return points
}

// RoundDollarTotal awards 50 points when the total has no cents
func RoundDollarTotal(r *receipt.Receipt) int {
	if strings.HasSuffix(r.Total, ".00") {
		return roundDollarPoints
	}
	return 0
}

// QuarterMultipleTotal awards 25 points when the total is a multiple of 0.25
func QuarterMultipleTotal(r *receipt.Receipt) int {
	total, err := decimal.NewFromString(r.Total)
	if err != nil {
		return 0
	}
	if total.Mod(quarter).IsZero() {
		return quarterPoints
	}
	return 0
}

// ItemPairs awards 5 points for every two items
func ItemPairs(r *receipt.Receipt) int {
	return len(r.Items) / 2 * itemPairPoints
}

// ItemDescriptions awards ceil(price * 0.2) for every item whose trimmed
// description length is a multiple of 3. A description that trims to
// nothing has length 0 and qualifies. The result saturates at maxRulePoints.
func ItemDescriptions(r *receipt.Receipt) int {
	points := decimal.Zero
	for _, item := range r.Items {
		if utf8.RuneCountInString(strings.TrimSpace(item.ShortDescription))%3 != 0 {
			continue
		}
		price, err := decimal.NewFromString(item.Price)
		if err != nil || price.IsNegative() {
			continue
		}
		points = points.Add(price.Mul(descriptionRate).Ceil())
		if points.GreaterThanOrEqual(maxRuleDecimal) {
			return maxRulePoints
		}
	}
	return int(points.IntPart())
}

// OddPurchaseDay awards 6 points when the day of the month is odd
func OddPurchaseDay(r *receipt.Receipt) int {
	if r.PurchaseDate.Day()%2 == 1 {
		return oddDayPoints
	}
	return 0
}

// AfternoonPurchase awards 10 points for purchases after 14:00 and before 16:00
func AfternoonPurchase(r *receipt.Receipt) int {
	m := r.PurchaseTime.Minutes()
	if m >= afternoonStart && m < afternoonEnd {
		return afternoonPoints
	}
	return 0
}
