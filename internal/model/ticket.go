package model

import (
	"time"

	"github.com/google/uuid"
)

// Ticket 票券模型。Code 是對外的唯一代碼，發券時產生後不再變動。
// IsClaimed 只會由 issued 轉成 claimed 一次，沒有回頭路
type Ticket struct {
	ID        int        `json:"id" db:"id"`
	Code      uuid.UUID  `json:"ticket_code" db:"ticket_code"`
	EventID   int        `json:"event_id" db:"event_id"`
	IsClaimed bool       `json:"is_claimed" db:"is_claimed"`
	ClaimDate *time.Time `json:"claim_date,omitempty" db:"claim_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// TicketStatusResponse 票券狀態查詢響應
type TicketStatusResponse struct {
	Code      string     `json:"ticket_code"`
	IsClaimed bool       `json:"is_claimed"`
	ClaimDate *time.Time `json:"claim_date"`
}
