package service

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/creditrisk/internal/domain/model"
	"github.com/bibbank/creditrisk/internal/domain/valueobject"
)

func decimals(values ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

// scenarioInput is the baseline applicant used across the pipeline tests.
func scenarioInput() model.ApplicantInput {
	return model.ApplicantInput{
		CreditLimit:        decimal.NewFromInt(80000),
		Age:                32,
		Gender:             "Male",
		Education:          "University",
		MaritalStatus:      "Single",
		PaymentDelayStatus: 0,
		BillAmounts:        decimals(10000, 9500, 8800, 9200, 8500, 9000),
		PaymentAmounts:     decimals(5000, 4800, 4500, 5200, 4700, 5000),
	}
}

func mustApplicant(t *testing.T, in model.ApplicantInput) model.Applicant {
	t.Helper()
	a, err := model.NewApplicant(in, valueobject.CategoryPolicyStrict)
	require.NoError(t, err)
	return a
}

// referenceSchema is a fitted-schema shaped column list: numeric columns
// first, then the full one-hot universe.
func referenceSchema() []string {
	cols := []string{model.ColumnLimitBal, model.ColumnAge}
	for i := range model.PeriodCount {
		cols = append(cols, model.DelayColumn(i))
	}
	for i := range model.PeriodCount {
		cols = append(cols, model.BillColumn(i))
	}
	for i := range model.PeriodCount {
		cols = append(cols, model.PaymentColumn(i))
	}
	cols = append(cols,
		model.ColumnAvgBillAmount, model.ColumnCreditUtilization, model.ColumnAvgPaymentAmount,
		model.ColumnAvgPaymentDelay, model.ColumnPaymentToBillRatio, model.ColumnMaxPaymentDelay,
		model.ColumnNumLateMonths, model.ColumnPaymentAmountStd, model.ColumnSevereDelayFlag,
	)
	for _, prefix := range []string{valueobject.GenderPrefix, valueobject.EducationPrefix, valueobject.MaritalPrefix} {
		for _, c := range valueobject.CategoriesFor(prefix) {
			cols = append(cols, c.Column())
		}
	}
	return cols
}

// identityScaler passes vectors through unchanged.
type identityScaler struct {
	columns []string
	err     error
}

func (s *identityScaler) ExpectedColumns() []string { return s.columns }

func (s *identityScaler) Transform(x []float64) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]float64(nil), x...), nil
}

// referenceModel is a fixed logistic model over referenceSchema that rises
// with delay and utilization and falls with the payment ratio.
type referenceModel struct {
	weights   map[string]float64
	intercept float64
	columns   []string
}

func newReferenceModel() *referenceModel {
	w := map[string]float64{
		model.ColumnCreditUtilization:  1.0,
		model.ColumnPaymentToBillRatio: -1.0,
		model.ColumnMaxPaymentDelay:    0.4,
		model.ColumnSevereDelayFlag:    0.5,
	}
	for i := range model.PeriodCount {
		w[model.DelayColumn(i)] = 0.1
	}
	return &referenceModel{weights: w, intercept: -1.5, columns: referenceSchema()}
}

func (m *referenceModel) PredictProba(x []float64) (float64, error) {
	z := m.intercept
	for i, name := range m.columns {
		z += m.weights[name] * x[i]
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// stubClassifier returns a fixed probability or error.
type stubClassifier struct {
	prob float64
	err  error
}

func (c *stubClassifier) PredictProba([]float64) (float64, error) { return c.prob, c.err }
