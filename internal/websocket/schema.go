package websocket

import "github.com/stemsi/presensi-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing   Action = "ping"
	ActionFilter Action = "filter"
)

// FilterRequest narrows the feed to one (batch, department) pair.
// Zero values clear the corresponding filter.
type FilterRequest struct {
	Action       Action `json:"action"`
	BatchID      int    `json:"batch_id"`
	DepartmentID int    `json:"department_id"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventMarked   Event = "attendance_marked"
	EventFiltered Event = "filtered"
	EventPong     Event = "pong"
)

// MarkedEvent relays one committed marking.
type MarkedEvent struct {
	Event Event                 `json:"event"`
	Data  model.AttendanceEvent `json:"data"`
}

type FilteredResponse struct {
	Event        Event `json:"event"`
	BatchID      int   `json:"batch_id"`
	DepartmentID int   `json:"department_id"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

// Filter decides which feed events reach a connection.
type Filter struct {
	BatchID      int
	DepartmentID int
}

// Match reports whether an event passes the filter.
func (f Filter) Match(ev model.AttendanceEvent) bool {
	if f.BatchID != 0 && ev.Scope.BatchID != f.BatchID {
		return false
	}
	if f.DepartmentID != 0 && ev.Scope.DepartmentID != f.DepartmentID {
		return false
	}
	return true
}

// Respond applies a client request to the connection's filter and returns
// the payload to send back.
func Respond(req FilterRequest, f *Filter) any {
	switch req.Action {
	case ActionPing:
		return PongResponse{Event: EventPong}
	case ActionFilter:
		*f = Filter{BatchID: req.BatchID, DepartmentID: req.DepartmentID}
		return FilteredResponse{Event: EventFiltered, BatchID: f.BatchID, DepartmentID: f.DepartmentID}
	}
	return ErrorResponse{Event: EventError, Error: "unknown action: " + string(req.Action)}
}
