package service

import (
	"context"
	"strings"
	"time"

	"Care_Club/internal/model"
	"Care_Club/internal/repository/mysql"
)

// AnonymousName 私密账号在一切读路径上的展示名
const AnonymousName = "Anonymous"

type AuthorInfo struct {
	ID    *uint64 `json:"id"`
	Name  string  `json:"name"`
	City  string  `json:"city,omitempty"`
	Level int     `json:"level"`
	Title string  `json:"title,omitempty"`
}

type PlantInfo struct {
	ID             uint64 `json:"id"`
	CommonName     string `json:"common_name"`
	ScientificName string `json:"scientific_name,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	Nickname       string `json:"nickname,omitempty"`
}

type PostAggregates struct {
	CommentCount    int64      `json:"comment_count"`
	LatestCommentAt *time.Time `json:"latest_comment_at"`
}

type CommentAggregates struct {
	HelpfulCount int64 `json:"helpful_count"`
}

type PostView struct {
	ID               uint64         `json:"id"`
	PlantID          uint64         `json:"plant_id"`
	AuthorID         *uint64        `json:"author_id"`
	Title            string         `json:"title"`
	Details          string         `json:"details,omitempty"`
	Tried            string         `json:"tried,omitempty"`
	PhotoURLs        []string       `json:"photo_urls"`
	Status           string         `json:"status"`
	ModerationStatus string         `json:"moderation_status"`
	ResolvedAt       *time.Time     `json:"resolved_at"`
	ResolvedNote     *string        `json:"resolved_note"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	LastActivityAt   time.Time      `json:"last_activity_at"`
	Aggregates       PostAggregates `json:"aggregates"`
	Author           *AuthorInfo    `json:"author"`
	Plant            *PlantInfo     `json:"plant"`
}

type CommentView struct {
	ID               uint64            `json:"id"`
	PostID           uint64            `json:"post_id"`
	AuthorID         *uint64           `json:"author_id"`
	Body             string            `json:"body"`
	PhotoURLs        []string          `json:"photo_urls"`
	ModerationStatus string            `json:"moderation_status"`
	CreatedAt        time.Time         `json:"created_at"`
	Aggregates       CommentAggregates `json:"aggregates"`
	Author           *AuthorInfo       `json:"author"`
	UserVotedHelpful bool              `json:"user_voted_helpful"`
}

// EnrichService 读路径的补全：作者/植物信息、隐私脱敏、图片 key 转可访问 URL
// 脱敏在审核过滤之后做：先决定条目可不可见，再决定作者字段长什么样
type EnrichService struct {
	users         *mysql.UserRepository
	plants        *mysql.PlantRepository
	assetsBaseURL string
}

func NewEnrichService(users *mysql.UserRepository, plants *mysql.PlantRepository, assetsBaseURL string) *EnrichService {
	return &EnrichService{users: users, plants: plants, assetsBaseURL: assetsBaseURL}
}

// photoURL 对象存储协作方：已是完整 URL 的原样返回，否则拼配置的基址
func (s *EnrichService) photoURL(key string) string {
	v := strings.TrimSpace(key)
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return v
	}
	base := s.assetsBaseURL
	if base == "" {
		return v
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.TrimPrefix(v, "/")
}

func (s *EnrichService) photoURLs(keys model.PhotoList) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if u := s.photoURL(k); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// authorBatch 返回展示信息，私密作者已替换为匿名占位；private 集合供调用方清洗关联字段
func (s *EnrichService) authorBatch(ctx context.Context, ids []uint64) (map[uint64]AuthorInfo, map[uint64]bool, error) {
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	infos := make(map[uint64]AuthorInfo, len(users))
	private := make(map[uint64]bool)
	for id, u := range users {
		if u.IsPrivate() {
			private[id] = true
			infos[id] = AuthorInfo{Name: AnonymousName, Level: 1}
			continue
		}
		uid := u.ID
		infos[id] = AuthorInfo{ID: &uid, Name: u.Name, City: u.City, Level: u.Level, Title: u.Title}
	}
	return infos, private, nil
}

func (s *EnrichService) EnrichPosts(ctx context.Context, posts []model.Post) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	authorIDs := make([]uint64, 0, len(posts))
	plantIDs := make([]uint64, 0, len(posts))
	seenA := make(map[uint64]struct{})
	seenP := make(map[uint64]struct{})
	for _, p := range posts {
		if _, ok := seenA[p.AuthorID]; !ok {
			seenA[p.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, p.AuthorID)
		}
		if _, ok := seenP[p.PlantID]; !ok {
			seenP[p.PlantID] = struct{}{}
			plantIDs = append(plantIDs, p.PlantID)
		}
	}

	authors, private, err := s.authorBatch(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	plants, err := s.plants.FindByIDs(ctx, plantIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		view := PostView{
			ID:               p.ID,
			PlantID:          p.PlantID,
			Title:            p.Title,
			Details:          p.Details,
			Tried:            p.Tried,
			PhotoURLs:        s.photoURLs(p.PhotoURLs),
			Status:           string(p.Status),
			ModerationStatus: string(p.ModerationStatus),
			ResolvedAt:       p.ResolvedAt,
			ResolvedNote:     p.ResolvedNote,
			CreatedAt:        p.CreatedAt,
			UpdatedAt:        p.UpdatedAt,
			LastActivityAt:   p.LastActivityAt,
			Aggregates:       PostAggregates{CommentCount: p.CommentCount, LatestCommentAt: p.LatestCommentAt},
		}
		if a, ok := authors[p.AuthorID]; ok {
			av := a
			view.Author = &av
		}
		if pl, ok := plants[p.PlantID]; ok {
			info := PlantInfo{
				ID:             pl.ID,
				CommonName:     pl.CommonName,
				ScientificName: pl.ScientificName,
				ImageURL:       s.photoURL(pl.ImageURL),
				Nickname:       pl.Nickname,
			}
			if private[p.AuthorID] {
				// 私密作者的植物昵称同样不外泄
				info.Nickname = ""
			}
			view.Plant = &info
		}
		if !private[p.AuthorID] {
			aid := p.AuthorID
			view.AuthorID = &aid
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *EnrichService) EnrichComments(ctx context.Context, comments []model.Comment, voted map[uint64]bool) ([]CommentView, error) {
	views := make([]CommentView, 0, len(comments))
	if len(comments) == 0 {
		return views, nil
	}

	authorIDs := make([]uint64, 0, len(comments))
	seen := make(map[uint64]struct{})
	for _, c := range comments {
		if _, ok := seen[c.AuthorID]; !ok {
			seen[c.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}

	authors, private, err := s.authorBatch(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	for _, c := range comments {
		view := CommentView{
			ID:               c.ID,
			PostID:           c.PostID,
			Body:             c.Body,
			PhotoURLs:        s.photoURLs(c.PhotoURLs),
			ModerationStatus: string(c.ModerationStatus),
			CreatedAt:        c.CreatedAt,
			Aggregates:       CommentAggregates{HelpfulCount: c.HelpfulCount},
			UserVotedHelpful: voted[c.ID],
		}
		if a, ok := authors[c.AuthorID]; ok {
			av := a
			view.Author = &av
		}
		if !private[c.AuthorID] {
			aid := c.AuthorID
			view.AuthorID = &aid
		}
		views = append(views, view)
	}
	return views, nil
}
