// Package recheck holds student-submitted result recheck petitions. Requests
// snapshot the student fields at submission time; later edits to the student
// record do not flow back into a request.
package recheck

import (
	"context"
	"time"
)

// Request statuses. A request starts pending; admin triage overwrites the
// status unconditionally, so re-approving or flipping a decision is allowed.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidDecision reports whether status is an admin triage outcome.
func ValidDecision(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

// Request is one recheck petition.
type Request struct {
	ID          string    `json:"id"`
	StudentName string    `json:"student_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	RollNumber  string    `json:"roll_number"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Store is the queue contract shared by the Postgres and in-memory backends.
// Submit assigns id, submission time and pending status. List returns
// most-recently-submitted first. SetStatus overwrites unconditionally and
// reports whether the id existed. Requests are never deleted.
type Store interface {
	Submit(ctx context.Context, req Request) (Request, error)
	List(ctx context.Context) ([]Request, error)
	SetStatus(ctx context.Context, id, status string) (bool, error)
}
