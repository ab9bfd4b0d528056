package worker

import (
	"context"
	"go-event-ticketing/internal/model"
	"go-event-ticketing/internal/queue"
	"go-event-ticketing/internal/service"
	"go-event-ticketing/internal/worker"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAuditWorker_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// 1. 準備：建立 Memory Queue
	q := queue.NewTicketEventQueue(10)

	// 2. 準備：用一個簡單的 Mock Service 記錄有沒有被呼叫
	recorded := make(chan *model.TicketEvent, 1)
	mockSvc := &mockAuditService{
		onRecord: func(event *model.TicketEvent) {
			recorded <- event
		},
	}

	// 3. 啟動 Worker
	w := worker.NewAuditWorker(mockSvc, q)
	w.Start(ctx)

	// 4. 執行：模擬 service 發出一筆票券事件
	event := &model.TicketEvent{
		Type:       model.TicketEventIssued,
		EventID:    1,
		TicketCode: uuid.New().String(),
		OccurredAt: time.Now().UTC(),
	}
	q.Publish(ctx, event)

	// 5. 驗證：檢查 Service 是否在時間內被觸發
	select {
	case got := <-recorded:
		if got.TicketCode != event.TicketCode {
			t.Errorf("recorded ticket code = %s, want %s", got.TicketCode, event.TicketCode)
		}
	case <-time.After(1 * time.Second):
		t.Error("超時！Worker 沒有在時間內處理票券事件")
	}
}

// 簡單的 Mock 實作
type mockAuditService struct {
	service.AuditService // 嵌入介面
	onRecord             func(*model.TicketEvent)
}

func (m *mockAuditService) Record(ctx context.Context, event *model.TicketEvent) error {
	m.onRecord(event)
	return nil
}
