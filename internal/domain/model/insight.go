package model

import "github.com/bibbank/creditrisk/internal/domain/valueobject"

// InsightKind identifies which indicator an insight describes.
type InsightKind string

const (
	InsightUtilization InsightKind = "utilization"
	InsightPaymentRate InsightKind = "payment_ratio"
	InsightDelay       InsightKind = "payment_delay"
	InsightCreditLimit InsightKind = "credit_limit"
	InsightBillTrend   InsightKind = "bill_trend"
	InsightAge         InsightKind = "age"
)

// Insight is a single qualitative finding about an applicant.
type Insight struct {
	Kind     InsightKind
	Severity valueobject.Severity
	Title    string
	Detail   string
}

// Text renders the insight as one line.
func (i Insight) Text() string {
	return i.Title + " - " + i.Detail
}
