package service

import (
	"context"
	"errors"
	"time"

	"Care_Club/internal/apperr"
	"Care_Club/internal/model"
	"Care_Club/internal/repository/mysql"

	"gorm.io/gorm"
)

const (
	commentPageDefault = 50
	commentPageMax     = 100
)

type CommentPage struct {
	Comments   []CommentView `json:"comments"`
	Total      int64         `json:"total"`
	HasMore    bool          `json:"has_more"`
	NextCursor *string       `json:"next_cursor"`
}

type VoteResult struct {
	Voted    bool  `json:"voted"`
	NewCount int64 `json:"new_count"`
}

type CommentService struct {
	comments *mysql.CommentRepository
	posts    *mysql.PostRepository
	votes    *mysql.VoteRepository
	guard    *Guard
	enrich   *EnrichService
}

func NewCommentService(comments *mysql.CommentRepository, posts *mysql.PostRepository, votes *mysql.VoteRepository, guard *Guard, enrich *EnrichService) *CommentService {
	return &CommentService{comments: comments, posts: posts, votes: votes, guard: guard, enrich: enrich}
}

// List 评论旧的在前；列表只含 active 评论，带上当前用户的投票标记
func (s *CommentService) List(ctx context.Context, viewerID, postID uint64, cursor string, limit int) (*CommentPage, error) {
	if limit <= 0 {
		limit = commentPageDefault
	}
	if limit > commentPageMax {
		limit = commentPageMax
	}

	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.ModerationStatus != model.ModerationActive && post.AuthorID != viewerID {
		return nil, apperr.NotFound("Post not found")
	}

	var cursorTime time.Time
	if cursor != "" {
		if t, err := time.Parse(time.RFC3339Nano, cursor); err == nil {
			cursorTime = t
		}
	}

	list, err := s.comments.ListActiveByPost(ctx, postID, cursorTime, limit+1)
	if err != nil {
		return nil, err
	}
	total, err := s.comments.CountActiveByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	hasMore := len(list) > limit
	if hasMore {
		list = list[:limit]
	}
	var nextCursor *string
	if hasMore && len(list) > 0 {
		c := list[len(list)-1].CreatedAt.Format(time.RFC3339Nano)
		nextCursor = &c
	}

	ids := make([]uint64, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	voted, err := s.votes.VotedSet(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}

	views, err := s.enrich.EnrichComments(ctx, list, voted)
	if err != nil {
		return nil, err
	}
	return &CommentPage{Comments: views, Total: total, HasMore: hasMore, NextCursor: nextCursor}, nil
}

// Add 评论：隐私门槛 -> 限流 -> 插入（评论与父帖聚合同事务）
func (s *CommentService) Add(ctx context.Context, authorID, postID uint64, body string, photoURLs []string) (*CommentView, error) {
	if err := s.guard.RequirePublicProfile(ctx, authorID); err != nil {
		return nil, err
	}
	if err := s.guard.RequireRateLimit(ctx, ActionCreateComment, authorID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:           postID,
		AuthorID:         authorID,
		Body:             body,
		PhotoURLs:        photoURLs,
		ModerationStatus: model.ModerationActive,
		CreatedAt:        time.Now(),
	}
	if err := s.comments.Add(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, err
	}

	views, err := s.enrich.EnrichComments(ctx, []model.Comment{*comment}, nil)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete 只有评论作者能删；删除连带回收投票并回减父帖计数
func (s *CommentService) Delete(ctx context.Context, userID, postID, commentID uint64) error {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return apperr.NotFound("Comment not found")
	}
	if comment.AuthorID != userID {
		return apperr.Forbidden("Only the comment author can delete it")
	}
	return s.comments.Delete(ctx, commentID, postID)
}

// ToggleHelpful 有票删票、无票投票；只有新增投票这一迁移计入限流
func (s *CommentService) ToggleHelpful(ctx context.Context, userID, postID, commentID uint64) (*VoteResult, error) {
	if err := s.guard.RequirePublicProfile(ctx, userID); err != nil {
		return nil, err
	}

	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, apperr.Validation("Comment does not belong to this post")
	}

	has, err := s.votes.HasVote(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}
	if !has {
		if err := s.guard.RequireRateLimit(ctx, ActionHelpfulVote, userID); err != nil {
			return nil, err
		}
	}

	voted, newCount, err := s.votes.Toggle(ctx, postID, commentID, userID)
	if err != nil {
		return nil, err
	}
	return &VoteResult{Voted: voted, NewCount: newCount}, nil
}

func (s *CommentService) findPost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, err
	}
	return post, nil
}

func (s *CommentService) findComment(ctx context.Context, commentID uint64) (*model.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Comment not found")
		}
		return nil, err
	}
	return comment, nil
}
