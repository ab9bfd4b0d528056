package model

import "time"

// TicketEventType 票券生命週期事件類型
type TicketEventType string

const (
	TicketEventIssued  TicketEventType = "issued"
	TicketEventClaimed TicketEventType = "claimed"
)

// IsValid 驗證類型是否有效
func (t TicketEventType) IsValid() bool {
	switch t {
	case TicketEventIssued, TicketEventClaimed:
		return true
	}
	return false
}

// TicketEvent 發券 / 核銷後送進 stream 的事件，由 audit worker 落地。
// 它只是稽核軌跡，不是庫存決策的依據
type TicketEvent struct {
	Type       TicketEventType `json:"type"`
	EventID    int             `json:"event_id"`
	TicketCode string          `json:"ticket_code"`
	OccurredAt time.Time       `json:"occurred_at"`
}
