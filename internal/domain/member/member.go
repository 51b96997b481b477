package member

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrEmptyName       = errors.New("member name cannot be empty")
	ErrMemberInactive  = errors.New("member is inactive")
	ErrInvalidAmount   = errors.New("amount cannot be negative")
	ErrStatusUnchanged = errors.New("member already has the requested status")
)

// Status is the lifecycle state of a member. Members are never deleted.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Member represents a registered society member
type Member struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	Address       string          `json:"address,omitempty"`
	JoinDate      time.Time       `json:"joinDate"`
	Status        Status          `json:"status"`
	TotalDeposits decimal.Decimal `json:"totalDeposits"`
	TotalLoans    decimal.Decimal `json:"totalLoans"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Registration carries the fields accepted when a member joins
type Registration struct {
	Name     string
	Phone    string
	Email    string
	Address  string
	JoinDate time.Time
}

// Contact holds the editable member fields. Nil fields are left unchanged.
type Contact struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

// NewMember creates an active member with zero totals. A zero join date means now.
func NewMember(reg Registration, now time.Time) (Member, error) {
	name := strings.TrimSpace(reg.Name)
	if name == "" {
		return Member{}, ErrEmptyName
	}

	joinDate := reg.JoinDate
	if joinDate.IsZero() {
		joinDate = now
	}

	return Member{
		ID:            uuid.NewString(),
		Name:          name,
		Phone:         strings.TrimSpace(reg.Phone),
		Email:         strings.TrimSpace(reg.Email),
		Address:       strings.TrimSpace(reg.Address),
		JoinDate:      joinDate,
		Status:        StatusActive,
		TotalDeposits: decimal.Zero,
		TotalLoans:    decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsActive reports whether the member may take part in new transactions
func (m Member) IsActive() bool {
	return m.Status == StatusActive
}

// AddDeposit grows the denormalized deposit total
func (m *Member) AddDeposit(amount decimal.Decimal, at time.Time) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if amount.IsZero() {
		return nil
	}

	m.TotalDeposits = m.TotalDeposits.Add(amount)
	m.UpdatedAt = at
	return nil
}

// AddLoan records a newly disbursed loan amount
func (m *Member) AddLoan(amount decimal.Decimal, at time.Time) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	m.TotalLoans = m.TotalLoans.Add(amount)
	m.UpdatedAt = at
	return nil
}

// UpdateContact applies the non-nil fields of c
func (m *Member) UpdateContact(c Contact, at time.Time) error {
	if c.Name != nil {
		name := strings.TrimSpace(*c.Name)
		if name == "" {
			return ErrEmptyName
		}
		m.Name = name
	}
	if c.Phone != nil {
		m.Phone = strings.TrimSpace(*c.Phone)
	}
	if c.Email != nil {
		m.Email = strings.TrimSpace(*c.Email)
	}
	if c.Address != nil {
		m.Address = strings.TrimSpace(*c.Address)
	}

	m.UpdatedAt = at
	return nil
}

// SetStatus moves the member between active and inactive
func (m *Member) SetStatus(status Status, at time.Time) error {
	if status != StatusActive && status != StatusInactive {
		return ErrInvalidStatus{Status: string(status)}
	}
	if m.Status == status {
		return ErrStatusUnchanged
	}

	m.Status = status
	m.UpdatedAt = at
	return nil
}

// ErrMemberNotFound indicates missing member
type ErrMemberNotFound struct {
	MemberID string
}

func (e ErrMemberNotFound) Error() string {
	return "member not found: " + e.MemberID
}

// Is implements the errors.Is interface for ErrMemberNotFound
func (e ErrMemberNotFound) Is(target error) bool {
	t, ok := target.(ErrMemberNotFound)
	if !ok {
		return false
	}
	// An empty target MemberID matches any ErrMemberNotFound
	if t.MemberID == "" {
		return true
	}
	return e.MemberID == t.MemberID
}

// ErrInvalidStatus indicates an unknown member status
type ErrInvalidStatus struct {
	Status string
}

func (e ErrInvalidStatus) Error() string {
	return "invalid member status: " + e.Status
}

// Is implements the errors.Is interface for ErrInvalidStatus
func (e ErrInvalidStatus) Is(target error) bool {
	_, ok := target.(ErrInvalidStatus)
	return ok
}
