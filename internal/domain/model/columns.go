package model

import "strconv"

// PeriodCount is the number of monthly billing periods on an applicant record.
const PeriodCount = 6

// Numeric column names of the fitted schema.
const (
	ColumnLimitBal           = "LIMIT_BAL"
	ColumnAge                = "AGE"
	ColumnAvgBillAmount      = "AVG_BILL_AMT"
	ColumnCreditUtilization  = "CREDIT_UTILITY"
	ColumnAvgPaymentAmount   = "AVG_PAY_AMT"
	ColumnAvgPaymentDelay    = "AVG_PAY_DELAY"
	ColumnPaymentToBillRatio = "PAYMENT_TO_BILL"
	ColumnMaxPaymentDelay    = "MAX_PAY_DELAY"
	ColumnNumLateMonths      = "NUM_LATE_MONTHS"
	ColumnPaymentAmountStd   = "PAYMENT_STD"
	ColumnSevereDelayFlag    = "SEVERE_DELAY_FLAG"
)

// DelayColumn names the delay code column of period i (0 = most recent).
// The fitted schema has no PAY_1: the sequence is PAY_0, PAY_2 .. PAY_6.
func DelayColumn(i int) string {
	if i == 0 {
		return "PAY_0"
	}
	return "PAY_" + strconv.Itoa(i+1)
}

// BillColumn names the bill amount column of period i (0 = most recent).
func BillColumn(i int) string {
	return "BILL_AMT" + strconv.Itoa(i+1)
}

// PaymentColumn names the payment amount column of period i (0 = most recent).
func PaymentColumn(i int) string {
	return "PAY_AMT" + strconv.Itoa(i+1)
}
