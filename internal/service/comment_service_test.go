package service

import (
	"context"
	"testing"
	"time"

	"Care_Club/internal/apperr"
	"Care_Club/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentUpdatesPostAggregates(t *testing.T) {
	f := newFixture(t)
	post := f.seedPost(t, 1, 1, time.Now().Add(-time.Hour))

	view, err := f.commentSvc.Add(context.Background(), 3, post.ID, "Let the soil dry out", nil)
	require.NoError(t, err)
	require.NotNil(t, view.Author)
	assert.Equal(t, "Sam", view.Author.Name)

	got, err := f.posts.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.CommentCount)
	require.NotNil(t, got.LatestCommentAt)
}

func TestAddCommentMissingPost(t *testing.T) {
	f := newFixture(t)
	_, err := f.commentSvc.Add(context.Background(), 3, 999, "hello", nil)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAddCommentPrivateProfileRejected(t *testing.T) {
	f := newFixture(t)
	post := f.seedPost(t, 1, 1, time.Now())
	_, err := f.commentSvc.Add(context.Background(), 2, post.ID, "hi", nil)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestListCommentsVisibilityGate(t *testing.T) {
	f := newFixture(t)
	post := f.seedPost(t, 1, 1, time.Now())
	f.seedComment(t, post.ID, 3)
	require.NoError(t, f.db.Model(post).UpdateColumn("moderation_status", model.ModerationHidden).Error)

	_, err := f.commentSvc.List(context.Background(), 3, post.ID, "", 10)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	page, err := f.commentSvc.List(context.Background(), 1, post.ID, "", 10)
	require.NoError(t, err)
	assert.Len(t, page.Comments, 1)
}

func TestListCommentsVotedFlag(t *testing.T) {
	f := newFixture(t)
	post := f.seedPost(t, 1, 1, time.Now())
	comment := f.seedComment(t, post.ID, 1)

	_, err := f.commentSvc.ToggleHelpful(context.Background(), 3, post.ID, comment.ID)
	require.NoError(t, err)

	page, err := f.commentSvc.List(context.Background(), 3, post.ID, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Comments, 1)
	assert.True(t, page.Comments[0].UserVotedHelpful)
	assert.EqualValues(t, 1, page.Comments[0].Aggregates.HelpfulCount)

	page, err = f.commentSvc.List(context.Background(), 1, post.ID, "", 10)
	require.NoError(t, err)
	assert.False(t, page.Comments[0].UserVotedHelpful)
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	f := newFixture(t)
	post := f.seedPost(t, 1, 1, time.Now())
	comment := f.seedComment(t, post.ID, 3)

	err := f.commentSvc.Delete(context.Background(), 1, post.ID, comment.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	// 路径里的帖子 id 必须匹配
	err = f.commentSvc.Delete(context.Background(), 3, post.ID+1, comment.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	require.NoError(t, f.commentSvc.Delete(context.Background(), 3, post.ID, comment.ID))
	got, err := f.posts.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CommentCount)
}

func TestToggleHelpfulOnlyCountsAddTransition(t *testing.T) {
	f := newFixture(t)
	f.cfg.VoteLimitBurst = 1
	post := f.seedPost(t, 1, 1, time.Now())
	comment := f.seedComment(t, post.ID, 1)

	res, err := f.commentSvc.ToggleHelpful(context.Background(), 3, post.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, res.Voted)
	assert.EqualValues(t, 1, res.NewCount)

	// 取消投票不计限流，额度耗尽也能撤票
	res, err = f.commentSvc.ToggleHelpful(context.Background(), 3, post.ID, comment.ID)
	require.NoError(t, err)
	assert.False(t, res.Voted)
	assert.EqualValues(t, 0, res.NewCount)

	// 再次投票是新增迁移，吃到 429
	_, err = f.commentSvc.ToggleHelpful(context.Background(), 3, post.ID, comment.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindRateLimited))
}

func TestToggleHelpfulWrongPost(t *testing.T) {
	f := newFixture(t)
	post := f.seedPost(t, 1, 1, time.Now())
	other := f.seedPost(t, 1, 1, time.Now())
	comment := f.seedComment(t, post.ID, 1)

	_, err := f.commentSvc.ToggleHelpful(context.Background(), 3, other.ID, comment.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
