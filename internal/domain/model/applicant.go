package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/creditrisk/internal/domain/valueobject"
)

// ErrValidation marks a malformed applicant record. It is recoverable: the
// caller should correct the input and retry.
var ErrValidation = errors.New("invalid applicant")

// AnonymousApplicantName stands in for a blank applicant name.
const AnonymousApplicantName = "Anonymous Client"

// Delay status bounds. Values outside are clamped.
const (
	MinDelayStatus = -1
	MaxDelayStatus = 9
)

// ApplicantInput is the raw applicant record as received from a caller.
// Sequences are ordered most recent period first.
type ApplicantInput struct {
	Name               string
	CreditLimit        decimal.Decimal
	Age                int
	Gender             string
	Education          string
	MaritalStatus      string
	PaymentDelayStatus int
	BillAmounts        []decimal.Decimal
	PaymentAmounts     []decimal.Decimal
}

// Applicant is a validated applicant record. It is immutable.
type Applicant struct {
	name          string
	creditLimit   decimal.Decimal
	age           int
	gender        valueobject.Category
	education     valueobject.Category
	maritalStatus valueobject.Category
	delayStatus   int
	bills         [PeriodCount]decimal.Decimal
	payments      [PeriodCount]decimal.Decimal
}

// NewApplicant validates a raw record. Every failure wraps ErrValidation.
// The input is not modified.
func NewApplicant(in ApplicantInput, policy valueobject.CategoryPolicy) (Applicant, error) {
	if len(in.BillAmounts) != PeriodCount {
		return Applicant{}, fmt.Errorf("%w: bill_amounts must have %d elements, got %d",
			ErrValidation, PeriodCount, len(in.BillAmounts))
	}
	if len(in.PaymentAmounts) != PeriodCount {
		return Applicant{}, fmt.Errorf("%w: payment_amounts must have %d elements, got %d",
			ErrValidation, PeriodCount, len(in.PaymentAmounts))
	}
	if in.CreditLimit.IsNegative() {
		return Applicant{}, fmt.Errorf("%w: credit_limit must not be negative", ErrValidation)
	}
	if in.Age <= 0 {
		return Applicant{}, fmt.Errorf("%w: age must be positive, got %d", ErrValidation, in.Age)
	}

	gender, err := valueobject.ParseGender(in.Gender, policy)
	if err != nil {
		return Applicant{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	education, err := valueobject.ParseEducation(in.Education, policy)
	if err != nil {
		return Applicant{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	marital, err := valueobject.ParseMaritalStatus(in.MaritalStatus, policy)
	if err != nil {
		return Applicant{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = AnonymousApplicantName
	}

	a := Applicant{
		name:          name,
		creditLimit:   in.CreditLimit,
		age:           in.Age,
		gender:        gender,
		education:     education,
		maritalStatus: marital,
		delayStatus:   ClampDelayStatus(in.PaymentDelayStatus),
	}
	copy(a.bills[:], in.BillAmounts)
	copy(a.payments[:], in.PaymentAmounts)
	return a, nil
}

// ClampDelayStatus bounds a delay status to [MinDelayStatus, MaxDelayStatus].
func ClampDelayStatus(status int) int {
	return max(MinDelayStatus, min(status, MaxDelayStatus))
}

func (a Applicant) Name() string                           { return a.name }
func (a Applicant) CreditLimit() decimal.Decimal           { return a.creditLimit }
func (a Applicant) Age() int                               { return a.age }
func (a Applicant) Gender() valueobject.Category           { return a.gender }
func (a Applicant) Education() valueobject.Category        { return a.education }
func (a Applicant) MaritalStatus() valueobject.Category    { return a.maritalStatus }
func (a Applicant) DelayStatus() int                       { return a.delayStatus }
func (a Applicant) Bills() [PeriodCount]decimal.Decimal    { return a.bills }
func (a Applicant) Payments() [PeriodCount]decimal.Decimal { return a.payments }

// DelayCodes returns the per-period delay codes. The record carries a single
// status, which is broadcast to every period.
func (a Applicant) DelayCodes() [PeriodCount]int {
	var codes [PeriodCount]int
	for i := range codes {
		codes[i] = a.delayStatus
	}
	return codes
}

// Categories returns the categorical attributes in schema order.
func (a Applicant) Categories() []valueobject.Category {
	return []valueobject.Category{a.gender, a.education, a.maritalStatus}
}

// Input returns a canonical raw record that validates back to a.
func (a Applicant) Input() ApplicantInput {
	return ApplicantInput{
		Name:               a.name,
		CreditLimit:        a.creditLimit,
		Age:                a.age,
		Gender:             a.gender.Label(),
		Education:          a.education.Label(),
		MaritalStatus:      a.maritalStatus.Label(),
		PaymentDelayStatus: a.delayStatus,
		BillAmounts:        append([]decimal.Decimal(nil), a.bills[:]...),
		PaymentAmounts:     append([]decimal.Decimal(nil), a.payments[:]...),
	}
}
