package models

import "time"

type AuditLog struct {
	ID           int       `json:"id" db:"id"`
	ResourceID   int       `json:"resource_id" db:"resource_id"`
	ResourceType string    `json:"resource_type" db:"resource_type"`
	Action       string    `json:"action" db:"action"`
	Data         []byte    `json:"data" db:"data"`
	CompanyID    int       `json:"company_id" db:"company_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
