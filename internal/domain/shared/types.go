package shared

import (
	"errors"
	"strings"
)

// PaymentMode records how money moved in or out of the society
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeBank   PaymentMode = "bank"
	PaymentModeUPI    PaymentMode = "upi"
	PaymentModeCheque PaymentMode = "cheque"
)

var ErrInvalidPaymentMode = errors.New("payment mode must be one of cash, bank, upi, cheque")

// ParsePaymentMode normalizes raw input. An empty value means cash.
func ParsePaymentMode(raw string) (PaymentMode, error) {
	mode := PaymentMode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case "":
		return PaymentModeCash, nil
	case PaymentModeCash, PaymentModeBank, PaymentModeUPI, PaymentModeCheque:
		return mode, nil
	default:
		return "", ErrInvalidPaymentMode
	}
}

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
