package handler

import (
	"errors"
	"log/slog"

	"github.com/cooperative-society-ledger/internal/domain/eventlog"
	"github.com/cooperative-society-ledger/internal/domain/fund"
	"github.com/cooperative-society-ledger/internal/domain/loan"
	"github.com/cooperative-society-ledger/internal/domain/maturity"
	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/cooperative-society-ledger/internal/domain/snapshot"
	"github.com/cooperative-society-ledger/internal/engine"
	"github.com/gin-gonic/gin"
)

var notFoundErrors = []error{
	member.ErrMemberNotFound{},
	loan.ErrLoanNotFound{},
	loan.ErrRequestNotFound{},
	fund.ErrEntryNotFound{},
	eventlog.ErrRecordNotFound{},
	engine.ErrOverrideNotFound,
}

// State conflicts: the input is well formed but the entity cannot take it now
var conflictErrors = []error{
	member.ErrMemberInactive,
	member.ErrStatusUnchanged,
	loan.ErrRequestNotPending,
	loan.ErrLoanNotActive,
	loan.ErrAmbiguousLoan,
	loan.ErrLoanHasEntries,
	snapshot.ErrStaleSnapshot{},
}

var validationErrors = []error{
	member.ErrEmptyName,
	member.ErrInvalidAmount,
	member.ErrInvalidStatus{},
	passbook.ErrInvalidAmount,
	passbook.ErrEmptyEntry,
	passbook.ErrMissingMember,
	passbook.ErrInvalidEntryType{},
	loan.ErrInvalidAmount,
	loan.ErrInvalidTenure,
	loan.ErrInvalidRate,
	loan.ErrNegativeBalance,
	loan.ErrEmptyReason,
	loan.ErrStatusBalanceMismatch,
	loan.ErrInvalidStatus{},
	fund.ErrInvalidAmount,
	fund.ErrUnknownLedger,
	fund.ErrInvalidDirection{},
	maturity.ErrInvalidInterest,
	shared.ErrInvalidPaymentMode,
	snapshot.ErrInvalidSettings,
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError maps an engine or repository error to the response status.
// Anything unrecognized is logged and hidden behind a 500.
func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	switch {
	case matchesAny(err, notFoundErrors):
		RespondNotFound(c, err.Error())
	case matchesAny(err, conflictErrors):
		logger.Warn("Rejected "+op, "error", err)
		RespondConflict(c, err.Error())
	case matchesAny(err, validationErrors):
		RespondBadRequest(c, err.Error())
	default:
		logger.Error("Failed to "+op, "error", err)
		RespondInternalError(c)
	}
}
