package model

import (
	"time"
)

// RequestStatus constants
const (
	RequestStatusPending   = "PENDING"
	RequestStatusApproved  = "APPROVED"
	RequestStatusRejected  = "REJECTED"
	RequestStatusFulfilled = "FULFILLED"
)

// Item count bounds for a single material request
const (
	MinRequestItems = 1
	MaxRequestItems = 50
)

// MaxObservationsLen bounds the free-text observations field
const MaxObservationsLen = 500

// requestTransitions enumerates the only legal status edges.
// PENDING -> APPROVED -> FULFILLED, PENDING -> REJECTED; everything else is an error.
var requestTransitions = map[string][]string{
	RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected},
	RequestStatusApproved: {RequestStatusFulfilled},
}

// CanTransition reports whether moving a request from one status to another is legal
func CanTransition(from, to string) bool {
	for _, allowed := range requestTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// MaterialRequest is a batch of material line items requested by a user for a unit,
// subject to approval and fulfillment by the warehouse roles.
type MaterialRequest struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UnitID          uint          `gorm:"not null;index" json:"unit_id"`
	Unit            *Unit         `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	RequesterID     uint          `gorm:"not null;index" json:"requester_id"`
	Requester       *User         `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Status          string        `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Observations    string        `gorm:"type:varchar(500)" json:"observations,omitempty"`
	RejectionReason string        `gorm:"type:text" json:"rejection_reason,omitempty"`
	OperationDate   time.Time     `gorm:"not null;index" json:"operation_date"`
	ReviewedBy      *uint         `json:"reviewed_by,omitempty"`
	Reviewer        *User         `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`
	FulfilledBy     *uint         `json:"fulfilled_by,omitempty"`
	FulfilledAt     *time.Time    `json:"fulfilled_at,omitempty"`
	Items           []RequestItem `gorm:"foreignKey:RequestID" json:"items"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// RequestItem is a single material line within a request. MaterialID is unique
// per request; FulfilledQty stays null until the FULFILLED transition.
type RequestItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RequestID    uint      `gorm:"not null;index;uniqueIndex:idx_request_material" json:"request_id"`
	MaterialID   uint      `gorm:"not null;index;uniqueIndex:idx_request_material" json:"material_id"`
	Material     *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	RequestedQty int       `gorm:"not null" json:"requested_qty"`
	FulfilledQty *int      `json:"fulfilled_qty,omitempty"`
}
