package scheduling

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeTier ступень штрафа за отмену
// Применяется, если до начала записи осталось не меньше MinLead
type FeeTier struct {
	Name    string
	MinLead time.Duration
	Percent int64
}

// FeeTiers ступени штрафа по убыванию MinLead
// Ровно на границе применяется меньший штраф
var FeeTiers = []FeeTier{
	{Name: "free", MinLead: 120 * time.Minute, Percent: 0},
	{Name: "40", MinLead: 90 * time.Minute, Percent: 40},
	{Name: "45", MinLead: 60 * time.Minute, Percent: 45},
	{Name: "50", MinLead: 30 * time.Minute, Percent: 50},
}

// fullFeeTier применяется менее чем за 30 минут и после начала записи
var fullFeeTier = FeeTier{Name: "100", Percent: 100}

var hundred = decimal.NewFromInt(100)

// TierFor возвращает ступень штрафа для времени до начала записи lead
func TierFor(lead time.Duration) FeeTier {
	for _, tier := range FeeTiers {
		if lead >= tier.MinLead {
			return tier
		}
	}
	return fullFeeTier
}

// FeeFor вычисляет штраф за отмену записи стоимостью price, округленный до копеек
func FeeFor(lead time.Duration, price decimal.Decimal) decimal.Decimal {
	tier := TierFor(lead)
	if tier.Percent == 0 {
		return decimal.Zero
	}
	return price.Mul(decimal.NewFromInt(tier.Percent)).Div(hundred).Round(2)
}
