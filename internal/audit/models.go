// Package audit records access to classified data. Entries are append-only
// and write-only from the policy engine's perspective: nothing in the
// assignment flow ever reads them back, and a failed write never affects
// the operation that triggered it.
package audit

import (
	"time"

	id "talentflow/pkg/domain"
)

// Action names what the actor did with the classified data.
type Action string

const (
	ActionView   Action = "view"
	ActionAssign Action = "assign"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is emitted from domain logic whenever classified data is touched.
// Keep it transport-agnostic so stores and sinks can fan out.
type Entry struct {
	ActorID        id.UserID
	Classification id.Classification
	Action         Action
	Detail         string
	RequestID      string
	Client         string
	Timestamp      time.Time
}
