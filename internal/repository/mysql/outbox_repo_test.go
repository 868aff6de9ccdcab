package mysql

import (
	"context"
	"testing"
	"time"

	"Care_Club/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxLifecycle(t *testing.T) {
	db := newTestDB(t)
	outbox := &OutboxRepository{DB: db}
	reports := &ReportRepository{DB: db}
	post := seedPost(t, db, 1, time.Now())
	require.NoError(t, reports.Create(context.Background(), newReport(2, model.TargetPost, post.ID)))

	rows, err := outbox.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, outbox.MarkSent(context.Background(), rows[0].ID))
	rows, err = outbox.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOutboxRetryCap(t *testing.T) {
	db := newTestDB(t)
	outbox := &OutboxRepository{DB: db}
	reports := &ReportRepository{DB: db}
	post := seedPost(t, db, 1, time.Now())
	require.NoError(t, reports.Create(context.Background(), newReport(2, model.TargetPost, post.ID)))

	rows, err := outbox.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	id := rows[0].ID

	// 前四次失败仍保持 pending，第五次封顶为 failed
	for i := 0; i < outboxMaxRetry-1; i++ {
		require.NoError(t, outbox.MarkFailed(context.Background(), id))
		pending, err := outbox.FetchPending(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	}
	require.NoError(t, outbox.MarkFailed(context.Background(), id))

	pending, err := outbox.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	var row model.ModerationOutbox
	require.NoError(t, db.First(&row, id).Error)
	assert.EqualValues(t, 2, row.Status)
	assert.Equal(t, outboxMaxRetry, row.Retry)
}
