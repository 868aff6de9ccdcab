package mysql

import (
	"context"
	"testing"
	"time"

	"Care_Club/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TranslateError 让 sqlite 的唯一键冲突也映射为 gorm.ErrDuplicatedKey，
// 与线上 mysql 行为一致
func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint64, createdAt time.Time) *model.Post {
	t.Helper()
	post := &model.Post{
		PlantID:          1,
		AuthorID:         authorID,
		Title:            "Yellowing leaves on my monstera",
		Details:          "Lower leaves turning yellow over the past week",
		PhotoURLs:        model.PhotoList{},
		Status:           model.PostOpen,
		ModerationStatus: model.ModerationActive,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
		LastActivityAt:   createdAt,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func seedComment(t *testing.T, db *gorm.DB, repo *CommentRepository, postID, authorID uint64, createdAt time.Time) *model.Comment {
	t.Helper()
	comment := &model.Comment{
		PostID:           postID,
		AuthorID:         authorID,
		Body:             "Check the drainage first",
		PhotoURLs:        model.PhotoList{},
		ModerationStatus: model.ModerationActive,
		CreatedAt:        createdAt,
	}
	require.NoError(t, repo.Add(context.Background(), comment))
	return comment
}
