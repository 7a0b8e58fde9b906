package domain

import "time"

// Store statuses.
const (
	StoreStatusActive    = "active"
	StoreStatusInactive  = "inactive"
	StoreStatusSuspended = "suspended"
)

type Store struct {
	StoreID    string    `json:"id" dynamodbav:"store_id"`
	Name       string    `json:"name" dynamodbav:"name"`
	Storename  string    `json:"storename" dynamodbav:"storename"` // lowercase handle, unique
	OwnerID    string    `json:"owner_id" dynamodbav:"owner_id"`
	Status     string    `json:"status" dynamodbav:"status"`
	LastActive time.Time `json:"last_active" dynamodbav:"last_active"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateStoreRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}
