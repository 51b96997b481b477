package loan

import "errors"

// Common errors
var (
	ErrInvalidAmount     = errors.New("loan amount must be positive")
	ErrInvalidTenure     = errors.New("loan tenure must be at least one month")
	ErrInvalidRate       = errors.New("interest rate cannot be negative")
	ErrNegativeBalance   = errors.New("remaining balance cannot be negative")
	ErrRequestNotPending = errors.New("loan request is not pending")
	ErrLoanNotActive     = errors.New("loan is not active")
	ErrAmbiguousLoan     = errors.New("member has several active loans; the installment must name one")
	ErrEmptyReason       = errors.New("rejection reason cannot be empty")

	ErrStatusBalanceMismatch = errors.New("completed loans must have no remaining balance and active loans must have some")
	ErrLoanHasEntries        = errors.New("loan has passbook installments recorded against it")
)

// ErrLoanNotFound indicates missing loan
type ErrLoanNotFound struct {
	LoanID string
}

func (e ErrLoanNotFound) Error() string {
	return "loan not found: " + e.LoanID
}

// Is implements the errors.Is interface for ErrLoanNotFound
func (e ErrLoanNotFound) Is(target error) bool {
	t, ok := target.(ErrLoanNotFound)
	if !ok {
		return false
	}
	// An empty target LoanID matches any ErrLoanNotFound
	if t.LoanID == "" {
		return true
	}
	return e.LoanID == t.LoanID
}

// ErrRequestNotFound indicates missing loan request
type ErrRequestNotFound struct {
	RequestID string
}

func (e ErrRequestNotFound) Error() string {
	return "loan request not found: " + e.RequestID
}

// Is implements the errors.Is interface for ErrRequestNotFound
func (e ErrRequestNotFound) Is(target error) bool {
	t, ok := target.(ErrRequestNotFound)
	if !ok {
		return false
	}
	if t.RequestID == "" {
		return true
	}
	return e.RequestID == t.RequestID
}

// ErrInvalidStatus indicates an unknown loan status
type ErrInvalidStatus struct {
	Status string
}

func (e ErrInvalidStatus) Error() string {
	return "invalid loan status: " + e.Status
}

// Is implements the errors.Is interface for ErrInvalidStatus
func (e ErrInvalidStatus) Is(target error) bool {
	_, ok := target.(ErrInvalidStatus)
	return ok
}
