package mysql

import (
	"context"
	"testing"
	"time"

	"Care_Club/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentAddMaintainsAggregates(t *testing.T) {
	db := newTestDB(t)
	comments := &CommentRepository{DB: db}
	posts := &PostRepository{DB: db}
	post := seedPost(t, db, 1, time.Now().Add(-time.Hour))

	first := seedComment(t, db, comments, post.ID, 2, time.Now().Add(-time.Minute))
	second := seedComment(t, db, comments, post.ID, 3, time.Now())

	got, err := posts.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.CommentCount)
	require.NotNil(t, got.LatestCommentAt)
	assert.WithinDuration(t, second.CreatedAt, *got.LatestCommentAt, time.Second)
	assert.WithinDuration(t, second.CreatedAt, got.LastActivityAt, time.Second)
	_ = first
}

func TestCommentAddMissingPost(t *testing.T) {
	db := newTestDB(t)
	comments := &CommentRepository{DB: db}

	err := comments.Add(context.Background(), &model.Comment{
		PostID:           999,
		AuthorID:         1,
		Body:             "orphan",
		ModerationStatus: model.ModerationActive,
		CreatedAt:        time.Now(),
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCommentDeleteDecrementsWithoutGoingNegative(t *testing.T) {
	db := newTestDB(t)
	comments := &CommentRepository{DB: db}
	posts := &PostRepository{DB: db}
	post := seedPost(t, db, 1, time.Now())
	comment := seedComment(t, db, comments, post.ID, 2, time.Now())

	require.NoError(t, comments.Delete(context.Background(), comment.ID, post.ID))
	got, err := posts.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CommentCount)

	// 并发路径下的二次删除：影响 0 行，计数不再回减
	require.NoError(t, comments.Delete(context.Background(), comment.ID, post.ID))
	got, err = posts.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CommentCount)
}

func TestCommentDeleteRemovesVotes(t *testing.T) {
	db := newTestDB(t)
	comments := &CommentRepository{DB: db}
	votes := &VoteRepository{DB: db}
	post := seedPost(t, db, 1, time.Now())
	comment := seedComment(t, db, comments, post.ID, 2, time.Now())

	_, _, err := votes.Toggle(context.Background(), post.ID, comment.ID, 3)
	require.NoError(t, err)

	require.NoError(t, comments.Delete(context.Background(), comment.ID, post.ID))
	count, err := votes.CountByComment(context.Background(), comment.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCommentListActiveByPost(t *testing.T) {
	db := newTestDB(t)
	comments := &CommentRepository{DB: db}
	post := seedPost(t, db, 1, time.Now().Add(-time.Hour))

	base := time.Now().Add(-10 * time.Minute)
	first := seedComment(t, db, comments, post.ID, 2, base.Add(time.Minute))
	second := seedComment(t, db, comments, post.ID, 3, base.Add(2*time.Minute))
	hidden := seedComment(t, db, comments, post.ID, 4, base.Add(3*time.Minute))
	require.NoError(t, db.Model(hidden).UpdateColumn("moderation_status", model.ModerationHidden).Error)

	// 旧的在前，hidden 不出现
	list, err := comments.ListActiveByPost(context.Background(), post.ID, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	list, err = comments.ListActiveByPost(context.Background(), post.ID, first.CreatedAt, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	total, err := comments.CountActiveByPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
