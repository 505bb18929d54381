package service

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/bibbank/creditrisk/internal/domain/model"
)

// SevereDelayThreshold is the delay, in months, at which a record is flagged
// as severely delinquent.
const SevereDelayThreshold = 3

// DeriveFeatures computes the engineered indicators for an applicant. It is
// pure: the applicant is not modified and the result depends only on it.
func DeriveFeatures(a model.Applicant) model.DerivedRecord {
	bills := a.Bills()
	payments := a.Payments()

	billValues := make([]float64, model.PeriodCount)
	paymentValues := make([]float64, model.PeriodCount)
	for i := range model.PeriodCount {
		billValues[i] = bills[i].InexactFloat64()
		paymentValues[i] = payments[i].InexactFloat64()
	}

	d := model.DerivedRecord{Applicant: a}

	d.AvgBillAmount = finite(stat.Mean(billValues, nil))
	d.AvgPaymentAmount = finite(stat.Mean(paymentValues, nil))
	d.PaymentAmountStd = finite(stat.StdDev(paymentValues, nil))

	if limit := a.CreditLimit().InexactFloat64(); limit != 0 {
		d.CreditUtilization = finite(d.AvgBillAmount / limit)
	}
	d.PaymentToBillRatio = finite(d.AvgPaymentAmount / (d.AvgBillAmount + 1))

	codes := a.DelayCodes()
	delays := make([]float64, model.PeriodCount)
	for i, code := range codes {
		late := max(code, 0)
		delays[i] = float64(late)
		d.MaxPaymentDelay = max(d.MaxPaymentDelay, late)
		if code > 0 {
			d.NumLateMonths++
		}
	}
	d.AvgPaymentDelay = finite(stat.Mean(delays, nil))

	if d.MaxPaymentDelay >= SevereDelayThreshold {
		d.SevereDelayFlag = 1
	}

	return d
}

// finite maps NaN and ±Inf to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
