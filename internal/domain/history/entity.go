package history

import "time"

// EventType 历史事件类型
type EventType string

const (
	EventLoan                 EventType = "Loan"
	EventReturn               EventType = "Return"
	EventLoanUpdated          EventType = "LoanUpdated"
	EventLoanDeleted          EventType = "LoanDeleted"
	EventReservation          EventType = "Reservation"
	EventReservationUpdated   EventType = "ReservationUpdated"
	EventReservationDeleted   EventType = "ReservationDeleted"
	EventReservationAvailable EventType = "ReservationAvailable"
	EventStockAdjusted        EventType = "StockAdjusted"
)

// Event 历史记录（只追加）
type Event struct {
	ID            uint
	UserID        uint
	EventType     EventType
	LoanID        *uint
	ReservationID *uint
	CreatedAt     time.Time
}

// AuditEntry 审计日志文档
type AuditEntry struct {
	UserID    uint                   `bson:"user_id" json:"user_id"`
	Action    string                 `bson:"action" json:"action"`
	Entity    string                 `bson:"entity" json:"entity"`
	EntityID  uint                   `bson:"entity_id" json:"entity_id"`
	Details   map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`
	TraceID   string                 `bson:"trace_id,omitempty" json:"trace_id,omitempty"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}
