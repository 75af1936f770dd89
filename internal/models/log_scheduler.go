package models

import (
	"time"
)

// Scheduler run statuses
const (
	SchedulerStart   = "START"
	SchedulerRunning = "RUNNING"
	SchedulerSuccess = "SUCCESS"
	SchedulerFailed  = "FAILED"
)

// LogScheduler represents the log_schedulers table
type LogScheduler struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	DocumentID    string    `json:"document_id" gorm:"column:document_id;size:64;index"`
	SchedulerCode string    `json:"scheduler_code" gorm:"column:scheduler_code;size:64;index"`
	Message       string    `json:"message" gorm:"column:message"`
	Status        string    `json:"status" gorm:"column:status;size:16"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName sets the insert table name for LogScheduler
func (LogScheduler) TableName() string {
	return "log_schedulers"
}
