package worker

import (
	"context"
	"go-event-ticketing/internal/queue"
	"go-event-ticketing/internal/service"
)

type AuditWorker interface {
	// 訂閱票券事件隊列並開始落地
	Start(ctx context.Context) error
}

type AuditWorkerImpl struct {
	service service.AuditService
	queue   queue.TicketEventQueue
}

func NewAuditWorker(service service.AuditService, queue queue.TicketEventQueue) AuditWorker {
	return &AuditWorkerImpl{
		service: service,
		queue:   queue,
	}
}

func (w *AuditWorkerImpl) Start(ctx context.Context) error {
	msgs, _ := w.queue.Subscribe(ctx)

	go func() {
		for msg := range msgs {
			err := w.service.Record(ctx, msg.Data)

			if err != nil {
				// 資料庫暫時寫不進去，留給下一輪重試
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
