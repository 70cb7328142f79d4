package model

import (
	"time"
)

const (
	ActionCreateRequest  = "CREATE_REQUEST"
	ActionApproveRequest = "APPROVE_REQUEST"
	ActionRejectRequest  = "REJECT_REQUEST"
	ActionFulfillRequest = "FULFILL_REQUEST"

	ActionCreateMaterial     = "CREATE_MATERIAL"
	ActionUpdateMaterial     = "UPDATE_MATERIAL"
	ActionDeactivateMaterial = "DEACTIVATE_MATERIAL"

	ActionCreateUnit = "CREATE_UNIT"
	ActionUpdateUnit = "UPDATE_UNIT"

	ActionCreateUser = "CREATE_USER"
	ActionUpdateUser = "UPDATE_USER"
	ActionDeleteUser = "DELETE_USER"

	ActionAccessDenied = "ACCESS_DENIED"
)

// AuditLog tracks who did what and when for critical system changes
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id"` // null for automated writes
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string    `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
