package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bibbank/creditrisk/internal/domain/model"
	"github.com/bibbank/creditrisk/internal/domain/valueobject"
)

// Insight thresholds. Comparisons are applied literally: strict where the
// name says Above/Below, inclusive for the delay thresholds.
const (
	UtilizationCriticalAbovePct = 80
	UtilizationWarningAbovePct  = 50
	PaymentRatioCriticalBelow   = 20
	PaymentRatioWarningBelow    = 50
	DelayWarningMonths          = 1
	ThinFileLimitBelow          = 30000
	StrongRelationshipAbove     = 200000
	BillTrendFactor             = 1.3
	YoungApplicantBelowAge      = 25
)

var amountPrinter = message.NewPrinter(language.English)

// GenerateInsights derives the ordered qualitative findings for a record:
// utilization, payment ratio, payment delay, credit limit, bill trend, age.
// The credit limit and bill trend findings are omitted when neutral, and the
// age finding appears only for young applicants.
func GenerateInsights(d model.DerivedRecord) []model.Insight {
	insights := make([]model.Insight, 0, 6)
	insights = append(insights, utilizationInsight(d.UtilizationPct()))
	insights = append(insights, paymentRatioInsight(d.PaymentRatioPct()))
	insights = append(insights, delayInsight(d.Applicant.DelayStatus(), d.MaxPaymentDelay))

	if in, ok := creditLimitInsight(d.Applicant); ok {
		insights = append(insights, in)
	}
	if in, ok := billTrendInsight(d.Applicant); ok {
		insights = append(insights, in)
	}
	if age := d.Applicant.Age(); age < YoungApplicantBelowAge {
		insights = append(insights, model.Insight{
			Kind:     model.InsightAge,
			Severity: valueobject.SeverityWarning,
			Title:    fmt.Sprintf("Young client (age %d)", age),
			Detail:   "limited credit history increases risk uncertainty.",
		})
	}

	return insights
}

func utilizationInsight(pct int) model.Insight {
	in := model.Insight{Kind: model.InsightUtilization}
	switch {
	case pct > UtilizationCriticalAbovePct:
		in.Severity = valueobject.SeverityCritical
		in.Title = fmt.Sprintf("High credit utilization (%d%%)", pct)
		in.Detail = "using most of available credit, a strong default predictor."
	case pct > UtilizationWarningAbovePct:
		in.Severity = valueobject.SeverityWarning
		in.Title = fmt.Sprintf("Moderate credit utilization (%d%%)", pct)
		in.Detail = "above the recommended 30% threshold."
	default:
		in.Severity = valueobject.SeverityGood
		in.Title = fmt.Sprintf("Healthy credit utilization (%d%%)", pct)
		in.Detail = "well within safe limits."
	}
	return in
}

func paymentRatioInsight(pct int) model.Insight {
	in := model.Insight{Kind: model.InsightPaymentRate}
	switch {
	case pct < PaymentRatioCriticalBelow:
		in.Severity = valueobject.SeverityCritical
		in.Title = fmt.Sprintf("Very low payment ratio (%d%%)", pct)
		in.Detail = "client is paying back less than 20% of bills, indicating cash flow stress."
	case pct < PaymentRatioWarningBelow:
		in.Severity = valueobject.SeverityWarning
		in.Title = fmt.Sprintf("Partial repayments (%d%%)", pct)
		in.Detail = "client covers less than half of monthly bills on average."
	default:
		in.Severity = valueobject.SeverityGood
		in.Title = fmt.Sprintf("Strong payment ratio (%d%%)", pct)
		in.Detail = "client consistently covers a significant portion of bills."
	}
	return in
}

func delayInsight(status, maxDelay int) model.Insight {
	in := model.Insight{Kind: model.InsightDelay}
	switch {
	case maxDelay >= SevereDelayThreshold:
		in.Severity = valueobject.SeverityCritical
		in.Title = fmt.Sprintf("Severe payment delays (%d months)", maxDelay)
		in.Detail = "history of 3+ months overdue is the strongest default signal."
	case maxDelay >= DelayWarningMonths:
		unit := "month"
		if maxDelay > 1 {
			unit = "months"
		}
		in.Severity = valueobject.SeverityWarning
		in.Title = fmt.Sprintf("Minor payment delays (%d %s)", maxDelay, unit)
		in.Detail = "some late payments detected in recent history."
	case status == 0:
		in.Severity = valueobject.SeverityGood
		in.Title = "No payment delays"
		in.Detail = "all recent payments made on time."
	default:
		in.Severity = valueobject.SeverityGood
		in.Title = "Payments made ahead of schedule"
		in.Detail = "client pays before due dates."
	}
	return in
}

func creditLimitInsight(a model.Applicant) (model.Insight, bool) {
	limit := a.CreditLimit()
	shown := amountPrinter.Sprintf("$%d", limit.RoundBank(0).IntPart())

	switch {
	case limit.LessThan(decimal.NewFromInt(ThinFileLimitBelow)):
		return model.Insight{
			Kind:     model.InsightCreditLimit,
			Severity: valueobject.SeverityWarning,
			Title:    fmt.Sprintf("Low credit limit (%s)", shown),
			Detail:   "limited credit history may increase uncertainty.",
		}, true
	case limit.GreaterThan(decimal.NewFromInt(StrongRelationshipAbove)):
		return model.Insight{
			Kind:     model.InsightCreditLimit,
			Severity: valueobject.SeverityGood,
			Title:    fmt.Sprintf("High credit limit (%s)", shown),
			Detail:   "indicates strong banking relationship and trust.",
		}, true
	default:
		return model.Insight{}, false
	}
}

// billTrendInsight compares the most recent bill with the oldest.
func billTrendInsight(a model.Applicant) (model.Insight, bool) {
	bills := a.Bills()
	recent, oldest := bills[0], bills[model.PeriodCount-1]
	factor := decimal.NewFromFloat(BillTrendFactor)

	switch {
	case recent.GreaterThan(oldest.Mul(factor)):
		return model.Insight{
			Kind:     model.InsightBillTrend,
			Severity: valueobject.SeverityWarning,
			Title:    "Rising bill trend",
			Detail:   "recent bills are increasing, which may signal growing debt.",
		}, true
	case oldest.GreaterThan(recent.Mul(factor)):
		return model.Insight{
			Kind:     model.InsightBillTrend,
			Severity: valueobject.SeverityGood,
			Title:    "Declining bill trend",
			Detail:   "bills are decreasing over time, suggesting debt reduction.",
		}, true
	default:
		return model.Insight{}, false
	}
}
