package queue

import (
	"context"
	"go-event-ticketing/internal/model"
)

type Delivery struct {
	Data *model.TicketEvent
	Ack  func()
	Nack func(requeue bool)
}

type TicketEventQueue interface {
	// 發送票券事件到隊列
	Publish(ctx context.Context, event *model.TicketEvent) error
	// 訂閱票券事件隊列
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

type TicketEventQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.TicketEvent
}

func NewTicketEventQueue(bufferSize int) TicketEventQueue {
	return &TicketEventQueueImpl{
		ch: make(chan *model.TicketEvent, bufferSize),
	}
}

func (q *TicketEventQueueImpl) Publish(ctx context.Context, event *model.TicketEvent) error {
	q.ch <- event
	return nil
}

func (q *TicketEventQueueImpl) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.ch:
				if !ok {
					return
				}

				// 將原始事件包裝成 Delivery 格式給 Worker
				out <- Delivery{
					Data: event,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- event // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
