// internal/domain/mortgage/mortgage.go
package mortgage

import (
	"fmt"
	"math"

	"homefinder/pkg/errors"
)

const (
	AnnualRate         = 4.96
	DefaultDownPercent = 20
	DefaultTermYears   = 30
)

// Terms are the loan lengths offered, in years.
var Terms = []int{15, 20, 25, 30}

type Request struct {
	Price       float64 `json:"price"`
	DownPayment float64 `json:"down_payment"`
	TermYears   int     `json:"term_years"`
}

type Quote struct {
	Price          float64 `json:"price"`
	DownPayment    float64 `json:"down_payment"`
	DownPercent    float64 `json:"down_percent"`
	TermYears      int     `json:"term_years"`
	LoanAmount     float64 `json:"loan_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
}

// NewRequest fills in the default down payment and term for price.
func NewRequest(price float64) Request {
	return Request{
		Price:       price,
		DownPayment: price * DefaultDownPercent / 100,
		TermYears:   DefaultTermYears,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validTerm(years int) bool {
	for _, t := range Terms {
		if t == years {
			return true
		}
	}
	return false
}

// Calculate amortizes the loan at AnnualRate compounded monthly.
func Calculate(req Request) (Quote, error) {
	if !finite(req.Price) {
		return Quote{}, errors.NewFieldError("price", "must be a number")
	}
	if !finite(req.DownPayment) {
		return Quote{}, errors.NewFieldError("down_payment", "must be a number")
	}
	if req.Price < 0 {
		return Quote{}, errors.NewFieldError("price", "must not be negative")
	}
	if req.DownPayment < 0 || req.DownPayment > req.Price {
		return Quote{}, errors.NewFieldError("down_payment", fmt.Sprintf("must be between 0 and %.0f", req.Price))
	}
	if !validTerm(req.TermYears) {
		return Quote{}, errors.NewFieldError("term_years", "must be one of 15, 20, 25 or 30")
	}

	q := Quote{
		Price:       req.Price,
		DownPayment: req.DownPayment,
		TermYears:   req.TermYears,
		LoanAmount:  req.Price - req.DownPayment,
	}
	if req.Price > 0 {
		q.DownPercent = req.DownPayment / req.Price * 100
	}

	n := float64(req.TermYears * 12)
	q.MonthlyPayment = MonthlyPayment(q.LoanAmount, AnnualRate, req.TermYears)
	q.TotalPayment = q.MonthlyPayment * n
	q.TotalInterest = q.TotalPayment - q.LoanAmount
	if q.LoanAmount <= 0 {
		q.TotalInterest = 0
	}
	return q, nil
}

// MonthlyPayment is M = P r(1+r)^n / ((1+r)^n - 1). It is 0 for a non-positive
// principal.
func MonthlyPayment(principal, annualRatePct float64, years int) float64 {
	if principal <= 0 || years <= 0 {
		return 0
	}
	n := float64(years * 12)
	r := annualRatePct / 100 / 12
	if r == 0 {
		return principal / n
	}
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1)
}
