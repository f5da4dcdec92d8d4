package sales

import (
	"time"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// DeliveryProposalStatus represents the status of a delivery proposal
type DeliveryProposalStatus string

const (
	DeliveryProposalStatusProposed DeliveryProposalStatus = "PROPOSED"
	DeliveryProposalStatusAccepted DeliveryProposalStatus = "ACCEPTED"
	DeliveryProposalStatusRejected DeliveryProposalStatus = "REJECTED"
)

// IsValid checks if the status is a valid DeliveryProposalStatus
func (s DeliveryProposalStatus) IsValid() bool {
	switch s {
	case DeliveryProposalStatusProposed, DeliveryProposalStatusAccepted, DeliveryProposalStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of DeliveryProposalStatus
func (s DeliveryProposalStatus) String() string {
	return string(s)
}

// DeliveryProposal is a supplier's proposed delivery schedule for a sales
// order. It exists only after the supplier proposes one; an Accepted
// proposal permanently unlocks status transitions for the order.
type DeliveryProposal struct {
	ProposedDate time.Time              `json:"proposed_date"`
	Notes        string                 `json:"notes"`
	Status       DeliveryProposalStatus `json:"status"`
	CreatedAt    time.Time              `json:"created_at"`
	RespondedAt  *time.Time             `json:"responded_at,omitempty"`
}

// NewDeliveryProposal creates a proposal in PROPOSED status
func NewDeliveryProposal(proposedDate time.Time, notes string) (*DeliveryProposal, error) {
	if proposedDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PROPOSED_DATE", "Proposed delivery date is required")
	}

	return &DeliveryProposal{
		ProposedDate: proposedDate,
		Notes:        notes,
		Status:       DeliveryProposalStatusProposed,
		CreatedAt:    time.Now(),
	}, nil
}

// Accept marks the proposal as accepted.
// Responding is only legal while the proposal is still PROPOSED.
func (p *DeliveryProposal) Accept(notes string) error {
	if p.Status != DeliveryProposalStatusProposed {
		return shared.NewDomainError("INVALID_STATE", "Delivery proposal has already been responded to")
	}

	now := time.Now()
	p.Status = DeliveryProposalStatusAccepted
	p.RespondedAt = &now
	if notes != "" {
		p.Notes = notes
	}

	return nil
}

// Reject marks the proposal as rejected.
// A rejected proposal can be superseded by a new one.
func (p *DeliveryProposal) Reject(notes string) error {
	if p.Status != DeliveryProposalStatusProposed {
		return shared.NewDomainError("INVALID_STATE", "Delivery proposal has already been responded to")
	}

	now := time.Now()
	p.Status = DeliveryProposalStatusRejected
	p.RespondedAt = &now
	if notes != "" {
		p.Notes = notes
	}

	return nil
}

// IsAccepted returns true if the proposal was accepted
func (p *DeliveryProposal) IsAccepted() bool {
	return p.Status == DeliveryProposalStatusAccepted
}

// IsRejected returns true if the proposal was rejected
func (p *DeliveryProposal) IsRejected() bool {
	return p.Status == DeliveryProposalStatusRejected
}

// IsPending returns true if the proposal has not been responded to
func (p *DeliveryProposal) IsPending() bool {
	return p.Status == DeliveryProposalStatusProposed
}
