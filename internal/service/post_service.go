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
	postPageDefault = 20
	postPageMax     = 50
)

type CreatePostInput struct {
	PlantID   uint64
	Title     string
	Details   string
	Tried     string
	PhotoURLs []string
}

type PostPage struct {
	Posts      []PostView `json:"posts"`
	Total      int64      `json:"total"`
	HasMore    bool       `json:"has_more"`
	NextCursor *string    `json:"next_cursor"`
}

type PostService struct {
	posts  *mysql.PostRepository
	plants *mysql.PlantRepository
	guard  *Guard
	enrich *EnrichService
}

func NewPostService(posts *mysql.PostRepository, plants *mysql.PlantRepository, guard *Guard, enrich *EnrichService) *PostService {
	return &PostService{posts: posts, plants: plants, guard: guard, enrich: enrich}
}

// Create 发帖：隐私门槛 -> 植物归属 -> 限流 -> 落库
// 没传图片时默认带上植物的最近一张图
func (s *PostService) Create(ctx context.Context, authorID uint64, in CreatePostInput) (*PostView, error) {
	if err := s.guard.RequirePublicProfile(ctx, authorID); err != nil {
		return nil, err
	}

	plant, err := s.plants.FindByID(ctx, in.PlantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Plant not found")
		}
		return nil, err
	}
	if plant.UserID != authorID {
		return nil, apperr.Forbidden("You can only create posts for your own plants")
	}

	if err := s.guard.RequireRateLimit(ctx, ActionCreatePost, authorID); err != nil {
		return nil, err
	}

	photos := in.PhotoURLs
	if len(photos) == 0 && plant.ImageURL != "" {
		// 存原始 key，读侧再换成可访问 URL
		photos = []string{plant.ImageURL}
	}

	now := time.Now()
	post := &model.Post{
		PlantID:          in.PlantID,
		AuthorID:         authorID,
		Title:            in.Title,
		Details:          in.Details,
		Tried:            in.Tried,
		PhotoURLs:        photos,
		Status:           model.PostOpen,
		ModerationStatus: model.ModerationActive,
		CreatedAt:        now,
		UpdatedAt:        now,
		LastActivityAt:   now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, post)
}

// List 公共帖子流，新帖在前；hidden/removed 一律不出现
func (s *PostService) List(ctx context.Context, status string, cursor string, limit int) (*PostPage, error) {
	if limit <= 0 {
		limit = postPageDefault
	}
	if limit > postPageMax {
		limit = postPageMax
	}
	var postStatus model.PostStatus
	switch status {
	case "":
	case string(model.PostOpen), string(model.PostResolved):
		postStatus = model.PostStatus(status)
	default:
		return nil, apperr.Validation("Invalid status filter")
	}

	// 无效游标按第一页处理
	var cursorTime time.Time
	if cursor != "" {
		if t, err := time.Parse(time.RFC3339Nano, cursor); err == nil {
			cursorTime = t
		}
	}

	list, err := s.posts.ListActive(ctx, postStatus, cursorTime, limit+1)
	if err != nil {
		return nil, err
	}
	total, err := s.posts.CountActive(ctx, postStatus)
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

	views, err := s.enrich.EnrichPosts(ctx, list)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: views, Total: total, HasMore: hasMore, NextCursor: nextCursor}, nil
}

// Get 审核门槛：非 active 帖子对外一律 404，作者本人按 id 直查不受限
func (s *PostService) Get(ctx context.Context, viewerID, postID uint64) (*PostView, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.ModerationStatus != model.ModerationActive && post.AuthorID != viewerID {
		return nil, apperr.NotFound("Post not found")
	}
	return s.enrichOne(ctx, post)
}

// Resolve 只有作者能解决，且必须附 resolved_note；重复解决返回 Conflict
func (s *PostService) Resolve(ctx context.Context, userID, postID uint64, note string) (*PostView, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, apperr.Forbidden("Only the post author can mark it as resolved")
	}
	if err := s.guard.RequirePublicProfile(ctx, userID); err != nil {
		return nil, err
	}

	affected, err := s.posts.Resolve(ctx, postID, note, time.Now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperr.Conflict("Post is already resolved")
	}

	post, err = s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, post)
}

// Delete 作者硬删除，评论与投票一并清理
func (s *PostService) Delete(ctx context.Context, userID, postID uint64) error {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return apperr.Forbidden("Only the post author can delete it")
	}
	return s.posts.DeleteCascade(ctx, postID)
}

func (s *PostService) findPost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) enrichOne(ctx context.Context, post *model.Post) (*PostView, error) {
	views, err := s.enrich.EnrichPosts(ctx, []model.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
