package finance

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/showroomhq/showroom/pkg/common"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	one     = decimal.NewFromInt(1)
)

// ComputeEMI returns the equated monthly installment for a loan, rounded
// half-up to two decimal places.
//
//	r = annualRatePercent / 100 / 12
//	n = tenureYears * 12
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate degenerates to straight-line principal / n.
func ComputeEMI(principal, annualRatePercent float64, tenureYears int) (float64, error) {
	if principal <= 0 {
		return 0, common.ErrInvalidPrincipal
	}
	if annualRatePercent < 0 {
		return 0, common.ErrInvalidRate
	}
	if tenureYears <= 0 {
		return 0, common.ErrInvalidTenure
	}

	p := decimal.NewFromFloat(principal)
	n := decimal.NewFromInt(int64(tenureYears) * 12)

	if annualRatePercent == 0 {
		emi, _ := p.Div(n).Round(2).Float64()
		return emi, nil
	}

	r := decimal.NewFromFloat(annualRatePercent).Div(hundred).Div(twelve)
	compound := one.Add(r).Pow(n)

	emi, _ := p.Mul(r).Mul(compound).Div(compound.Sub(one)).Round(2).Float64()
	return emi, nil
}

type quoteKey struct {
	principal float64
	rate      float64
	tenure    int
}

// Quoter memoizes the last EMI quote. Any change to principal, rate or tenure
// discards the previous value and recomputes; a failed computation leaves no
// stale quote behind.
type Quoter struct {
	mu    sync.Mutex
	key   quoteKey
	emi   float64
	valid bool
}

func NewQuoter() *Quoter {
	return &Quoter{}
}

func (q *Quoter) EMI(principal, annualRatePercent float64, tenureYears int) (float64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := quoteKey{principal: principal, rate: annualRatePercent, tenure: tenureYears}
	if q.valid && q.key == key {
		return q.emi, nil
	}

	q.valid = false
	emi, err := ComputeEMI(principal, annualRatePercent, tenureYears)
	if err != nil {
		return 0, err
	}

	q.key = key
	q.emi = emi
	q.valid = true
	return emi, nil
}

// Current reports the memoized quote, if any.
func (q *Quoter) Current() (float64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.emi, q.valid
}
