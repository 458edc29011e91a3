// README: Common money value object used across modules.
package types

type Money struct {
	Amount   int64
	Currency string
}

// Add returns a + b. Currencies must already agree; callers validate at the
// checkout boundary.
func (m Money) Add(n Money) Money {
	return Money{Amount: m.Amount + n.Amount, Currency: m.Currency}
}
