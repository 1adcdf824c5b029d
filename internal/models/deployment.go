package models

import (
	"time"

	"github.com/google/uuid"
)

// Deployment statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Deployment represents one deployment attempt, simple or advanced.
type Deployment struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FunctionName   string    `json:"function_name" gorm:"not null;index"`
	RepositoryName string    `json:"repository_name" gorm:"not null"`
	ImageTag       string    `json:"image_tag" gorm:"not null"`
	Region         string    `json:"region" gorm:"not null"`
	ContextHash    string    `json:"context_hash"`
	ImageURI       string    `json:"image_uri"`
	FunctionARN    string    `json:"lambda_arn"`
	Status         string    `json:"status" gorm:"not null;index"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
