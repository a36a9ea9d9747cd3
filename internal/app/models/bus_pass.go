package models

import "time"

// PassNumberLength is the length of a generated pass number
const PassNumberLength = 8

// BusPass defines the pass model based on the 'bus_passes' table
type BusPass struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"studentId" db:"student_id"`
	IssueDate  time.Time `json:"issueDate" db:"issue_date"`
	ExpiryDate time.Time `json:"expiryDate" db:"expiry_date"`
	PassNumber string    `json:"passNumber" db:"pass_number"`
	IsActive   bool      `json:"isActive" db:"is_active"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// IsExpired reports whether the expiry date lies strictly before today.
// A pass is still valid on its expiry date.
func (p *BusPass) IsExpired(today time.Time) bool {
	return DateOf(p.ExpiryDate).Before(DateOf(today))
}
