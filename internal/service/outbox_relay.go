package service

import (
	"context"
	"log"
	"time"

	"Care_Club/internal/pkg"
	"Care_Club/internal/repository/mysql"
)

// OutboxRelay 轮询审核出站表并投递 kafka；投递失败累加重试，由仓储侧封顶
type OutboxRelay struct {
	outbox   *mysql.OutboxRepository
	producer *pkg.ModerationProducer
	interval time.Duration
	batch    int
}

func NewOutboxRelay(outbox *mysql.OutboxRepository, producer *pkg.ModerationProducer) *OutboxRelay {
	return &OutboxRelay{
		outbox:   outbox,
		producer: producer,
		interval: 2 * time.Second,
		batch:    100,
	}
}

func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.drain(ctx)
		}
	}
}

func (r *OutboxRelay) drain(ctx context.Context) {
	rows, err := r.outbox.FetchPending(ctx, r.batch)
	if err != nil {
		log.Printf("outbox relay: fetch pending: %v", err)
		return
	}
	for _, row := range rows {
		sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := r.producer.Send(sendCtx, row.ReportID, row.EventType, []byte(row.Payload))
		cancel()
		if err != nil {
			log.Printf("outbox relay: send %d: %v", row.ID, err)
			if err := r.outbox.MarkFailed(ctx, row.ID); err != nil {
				log.Printf("outbox relay: mark failed %d: %v", row.ID, err)
			}
			continue
		}
		if err := r.outbox.MarkSent(ctx, row.ID); err != nil {
			log.Printf("outbox relay: mark sent %d: %v", row.ID, err)
		}
	}
}
