package model

import (
	"math"

	"github.com/bibbank/creditrisk/internal/domain/valueobject"
)

// DerivedRecord is an applicant extended with the engineered indicators the
// model was fitted on.
type DerivedRecord struct {
	Applicant Applicant

	AvgBillAmount      float64
	CreditUtilization  float64
	AvgPaymentAmount   float64
	AvgPaymentDelay    float64
	PaymentToBillRatio float64
	MaxPaymentDelay    int
	NumLateMonths      int
	PaymentAmountStd   float64
	SevereDelayFlag    int
}

// Numeric returns every numeric column of the record keyed by schema name.
func (d DerivedRecord) Numeric() map[string]float64 {
	a := d.Applicant
	cols := make(map[string]float64, 2+3*PeriodCount+9)

	cols[ColumnLimitBal] = a.CreditLimit().InexactFloat64()
	cols[ColumnAge] = float64(a.Age())

	codes := a.DelayCodes()
	bills := a.Bills()
	payments := a.Payments()
	for i := range PeriodCount {
		cols[DelayColumn(i)] = float64(codes[i])
		cols[BillColumn(i)] = bills[i].InexactFloat64()
		cols[PaymentColumn(i)] = payments[i].InexactFloat64()
	}

	cols[ColumnAvgBillAmount] = d.AvgBillAmount
	cols[ColumnCreditUtilization] = d.CreditUtilization
	cols[ColumnAvgPaymentAmount] = d.AvgPaymentAmount
	cols[ColumnAvgPaymentDelay] = d.AvgPaymentDelay
	cols[ColumnPaymentToBillRatio] = d.PaymentToBillRatio
	cols[ColumnMaxPaymentDelay] = float64(d.MaxPaymentDelay)
	cols[ColumnNumLateMonths] = float64(d.NumLateMonths)
	cols[ColumnPaymentAmountStd] = d.PaymentAmountStd
	cols[ColumnSevereDelayFlag] = float64(d.SevereDelayFlag)

	return cols
}

// Categorical returns the categorical attributes to be one-hot expanded.
func (d DerivedRecord) Categorical() []valueobject.Category {
	return d.Applicant.Categories()
}

// UtilizationPct is the display utilization: average bill over credit limit as
// a whole percentage capped at 100. It is 0 when the limit is not positive.
func (d DerivedRecord) UtilizationPct() int {
	limit := d.Applicant.CreditLimit().InexactFloat64()
	if limit <= 0 {
		return 0
	}
	return wholePct(d.AvgBillAmount / limit * 100)
}

// PaymentRatioPct is the display payment-to-bill ratio as a whole percentage
// capped at 100.
func (d DerivedRecord) PaymentRatioPct() int {
	return wholePct(d.AvgPaymentAmount / (d.AvgBillAmount + 1) * 100)
}

// wholePct rounds half to even and caps at 100. Non-finite input yields 0.
func wholePct(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Min(100, math.RoundToEven(v)))
}
