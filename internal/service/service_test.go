package service

import (
	"context"
	"testing"
	"time"

	"Care_Club/internal/config"
	"Care_Club/internal/model"
	"Care_Club/internal/pkg"
	"Care_Club/internal/repository/mysql"
	redisrepo "Care_Club/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db  *gorm.DB
	cfg *config.Config

	posts    *mysql.PostRepository
	comments *mysql.CommentRepository
	votes    *mysql.VoteRepository
	reports  *mysql.ReportRepository

	postSvc       *PostService
	commentSvc    *CommentService
	moderationSvc *ModerationService
}

// 用户 1、3 公开，用户 2 私密；植物 n 归用户 n
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Plant{},
		&model.Post{},
		&model.Comment{},
		&model.HelpfulVote{},
		&model.Report{},
		&model.ModerationAction{},
		&model.ModerationOutbox{},
	))

	mr := miniredis.RunT(t)
	redisrepo.Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		redisrepo.Close()
		redisrepo.Client = nil
	})

	require.NoError(t, db.Create([]model.User{
		{ID: 1, Name: "Casey", City: "Portland", Level: 3, Title: "Green Thumb", ProfileVisibility: "public"},
		{ID: 2, Name: "Robin", Level: 2, ProfileVisibility: "private"},
		{ID: 3, Name: "Sam", Level: 1, ProfileVisibility: "public"},
	}).Error)
	require.NoError(t, db.Create([]model.Plant{
		{ID: 1, UserID: 1, CommonName: "Monstera", Nickname: "Monty", ImageURL: "plants/1.jpg"},
		{ID: 2, UserID: 2, CommonName: "Fiddle Leaf Fig", Nickname: "Fidel", ImageURL: "plants/2.jpg"},
		{ID: 3, UserID: 3, CommonName: "Pothos"},
	}).Error)

	cfg := &config.Config{
		PostLimitBurst:    3,
		PostLimitDaily:    5,
		CommentLimitBurst: 10,
		CommentLimitDaily: 50,
		VoteLimitBurst:    30,
		VoteLimitDaily:    200,
		AssetsBaseURL:     "https://cdn.example.com/",
	}

	posts := &mysql.PostRepository{DB: db}
	comments := &mysql.CommentRepository{DB: db}
	votes := &mysql.VoteRepository{DB: db}
	reports := &mysql.ReportRepository{DB: db}
	users := &mysql.UserRepository{DB: db}
	plants := &mysql.PlantRepository{DB: db}
	limiter := redisrepo.NewRateLimitRepository()

	guard := NewGuard(users, limiter, cfg)
	enrich := NewEnrichService(users, plants, cfg.AssetsBaseURL)
	mailer := pkg.NewMailer(pkg.SMTPConfig{})

	return &fixture{
		db:            db,
		cfg:           cfg,
		posts:         posts,
		comments:      comments,
		votes:         votes,
		reports:       reports,
		postSvc:       NewPostService(posts, plants, guard, enrich),
		commentSvc:    NewCommentService(comments, posts, votes, guard, enrich),
		moderationSvc: NewModerationService(reports, posts, comments, mailer, ""),
	}
}

// seedPost 直接走仓储落库，绕开服务层的限流
func (f *fixture) seedPost(t *testing.T, authorID, plantID uint64, createdAt time.Time) *model.Post {
	t.Helper()
	post := &model.Post{
		PlantID:          plantID,
		AuthorID:         authorID,
		Title:            "Brown spots spreading fast",
		PhotoURLs:        model.PhotoList{},
		Status:           model.PostOpen,
		ModerationStatus: model.ModerationActive,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
		LastActivityAt:   createdAt,
	}
	require.NoError(t, f.posts.Create(context.Background(), post))
	return post
}

func (f *fixture) seedComment(t *testing.T, postID, authorID uint64) *model.Comment {
	t.Helper()
	comment := &model.Comment{
		PostID:           postID,
		AuthorID:         authorID,
		Body:             "Could be overwatering",
		PhotoURLs:        model.PhotoList{},
		ModerationStatus: model.ModerationActive,
		CreatedAt:        time.Now(),
	}
	require.NoError(t, f.comments.Add(context.Background(), comment))
	return comment
}
