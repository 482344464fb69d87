// Package ledger computes and validates the monetary state of an order:
// total, deposit, recorded payments and the derived remaining balance.
// All functions are pure; persistence is the repository's concern.
package ledger

import (
	"github.com/shopspring/decimal"

	"tailor_shop/internal/models"
)

// ComputeRemaining returns total - deposit - paymentsSum. A negative
// result fails with ErrInvalidAmount instead of being clamped: the
// stored records can only produce it through a caller-side ordering bug.
func ComputeRemaining(total, deposit, paymentsSum decimal.Decimal) (decimal.Decimal, error) {
	remaining := total.Sub(deposit).Sub(paymentsSum)
	if remaining.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return remaining, nil
}

// ValidateOrderCreation checks the monetary fields of a new order and
// returns the opening remaining balance. Every violated field is
// reported in one ValidationError.
func ValidateOrderCreation(total, deposit decimal.Decimal) (decimal.Decimal, error) {
	verr := &ValidationError{}
	if !total.IsPositive() {
		verr.Add("totalAmount", "must be greater than zero")
	}
	if deposit.IsNegative() {
		verr.Add("depositAmount", "must not be negative")
	} else if deposit.GreaterThan(total) {
		verr.Add("depositAmount", "must not exceed total amount")
	}
	if verr.HasErrors() {
		return decimal.Zero, verr
	}
	return total.Sub(deposit), nil
}

// ValidatePayment checks a payment amount against the current remaining
// balance. A payment may settle the balance exactly but never overshoot it.
func ValidatePayment(amount, remaining decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ValidationError{
			Fields: []FieldError{{Field: "amount", Reason: "must be greater than zero"}},
			kind:   ErrNonPositiveAmount,
		}
	}
	if amount.GreaterThan(remaining) {
		return &ValidationError{
			Fields: []FieldError{{Field: "amount", Reason: "exceeds remaining balance"}},
			kind:   ErrExcessPayment,
		}
	}
	return nil
}

// ApplyPayment returns a new order snapshot with the payment deducted
// from the remaining balance. The caller must pair this with the
// payment record insert as one atomic unit; the repository's
// conditional decrement is what enforces that under concurrency.
func ApplyPayment(order models.Order, amount decimal.Decimal) (models.Order, error) {
	if err := ValidatePayment(amount, order.RemainingAmount); err != nil {
		return order, err
	}
	order.RemainingAmount = order.RemainingAmount.Sub(amount)
	return order, nil
}
