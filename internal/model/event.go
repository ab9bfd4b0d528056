package model

import "time"

const (
	MinTotalTickets = 1
	MaxTotalTickets = 300
)

// Event 活動模型。SoldTickets 是已發出的票數，只增不減，
// 永遠滿足 0 <= SoldTickets <= TotalTickets
type Event struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	StartDate    time.Time `json:"start_date" db:"start_date"`
	EndDate      time.Time `json:"end_date" db:"end_date"`
	TotalTickets int       `json:"total_tickets" db:"total_tickets"`
	SoldTickets  int       `json:"sold_tickets" db:"sold_tickets"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateEventParams 部分更新參數。nil 代表「未提供」，
// 與明確給零值是兩回事
type UpdateEventParams struct {
	Name         *string
	StartDate    *time.Time
	EndDate      *time.Time
	TotalTickets *int
}

// IsActive 檢查 now 是否落在活動期間內（頭尾皆含）
func (e *Event) IsActive(now time.Time) bool {
	return !now.Before(e.StartDate) && !now.After(e.EndDate)
}

// EventDetailResponse 活動詳情響應
type EventDetailResponse struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	TotalTickets     int       `json:"total_tickets"`
	SoldTickets      int       `json:"sold_tickets"`
	ClaimedTickets   int       `json:"claimed_tickets"`
	TicketsAvailable int       `json:"tickets_available"`
}
