package economy

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInsufficientResources = errors.New("insufficient resources")

// ShortfallError names the resources that would have gone negative.
type ShortfallError struct {
	Missing Balance
}

func (e *ShortfallError) Error() string {
	if len(e.Missing) == 0 {
		return ErrInsufficientResources.Error()
	}
	parts := make([]string, 0, len(e.Missing))
	for _, k := range e.Missing.Keys() {
		parts = append(parts, fmt.Sprintf("%s short by %d", k, e.Missing[k]))
	}
	return ErrInsufficientResources.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ShortfallError) Unwrap() error {
	return ErrInsufficientResources
}

// Ledger owns one player's balances. The zero value is an empty ledger.
type Ledger struct {
	balance Balance
}

func NewLedger(initial Balance) Ledger {
	l := Ledger{balance: Balance{}}
	for k, v := range initial {
		if v > 0 {
			l.balance[k] = v
		}
	}
	return l
}

// Balance returns a copy of the current balances.
func (l Ledger) Balance() Balance {
	return l.balance.Clone()
}

func (l Ledger) Get(r Resource) int {
	return l.balance.Get(r)
}

func (l Ledger) CanAfford(cost Balance) bool {
	for k, v := range cost {
		if v <= 0 {
			continue
		}
		if l.balance.Get(k) < v {
			return false
		}
	}
	return true
}

// Apply adds a signed delta. Either every component lands or none does.
func (l *Ledger) Apply(delta Balance) error {
	missing := Balance{}
	for k, v := range delta {
		if next := l.balance.Get(k) + v; next < 0 {
			missing[k] = -next
		}
	}
	if len(missing) > 0 {
		return &ShortfallError{Missing: missing}
	}
	if l.balance == nil {
		l.balance = Balance{}
	}
	for k, v := range delta {
		if v == 0 {
			continue
		}
		l.balance[k] += v
		if l.balance[k] == 0 {
			delete(l.balance, k)
		}
	}
	return nil
}

// Debit is Apply of a cost expressed with positive amounts.
func (l *Ledger) Debit(cost Balance) error {
	return l.Apply(cost.Negate())
}

// Credit adds the positive components of delta and never fails.
func (l *Ledger) Credit(delta Balance) Balance {
	credited := delta.Positive()
	if l.balance == nil {
		l.balance = Balance{}
	}
	for k, v := range credited {
		l.balance[k] += v
	}
	return credited
}
