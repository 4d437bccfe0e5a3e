package persistent

import (
	"context"
	"errors"

	"audslp/services/like/internal/entity"
	"audslp/services/like/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository is the storage boundary of the like service. Every mutation
// is a single conditional statement so that concurrent callers cannot create
// a second record for one (article, fingerprint) pair or lose a counter update.
type LikeRepository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction. fn's error rolls the transaction back.
	Transaction(ctx context.Context, fn func(tx LikeRepository) error) error
	IsLiked(ctx context.Context, articleID int64, fingerprint string) (bool, error)
	// GetLikesCount returns entity.ErrNotFound when the article is missing.
	GetLikesCount(ctx context.Context, articleID int64) (int64, error)
	LikedArticleIDs(ctx context.Context, fingerprint string, articleIDs []int64) ([]int64, error)
	// InsertLike reports false when the pair already had a record.
	InsertLike(ctx context.Context, like *entity.Like) (bool, error)
	// DeleteLike reports false when there was no record to delete.
	DeleteLike(ctx context.Context, articleID int64, fingerprint string) (bool, error)
	// AdjustLikesCount adds delta to likes_count in the database, never below
	// zero. Returns entity.ErrNotFound when the article is missing.
	AdjustLikesCount(ctx context.Context, articleID int64, delta int) error
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Transaction(ctx context.Context, fn func(tx LikeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&likeRepository{db: tx})
	})
}

func (r *likeRepository) IsLiked(ctx context.Context, articleID int64, fingerprint string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LikeModel{}).
		Where("article_id = ? AND user_fingerprint = ?", articleID, fingerprint).
		Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) GetLikesCount(ctx context.Context, articleID int64) (int64, error) {
	var article model.ArticleCounterModel
	err := r.db.WithContext(ctx).Select("id", "likes_count").Where("id = ?", articleID).Take(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, entity.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return article.LikesCount, nil
}

func (r *likeRepository) LikedArticleIDs(ctx context.Context, fingerprint string, articleIDs []int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.LikeModel{}).
		Where("user_fingerprint = ? AND article_id IN ?", fingerprint, articleIDs).
		Pluck("article_id", &ids).Error
	return ids, err
}

func (r *likeRepository) InsertLike(ctx context.Context, like *entity.Like) (bool, error) {
	m := ToLikeModel(like)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "article_id"}, {Name: "user_fingerprint"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	*like = *ToLikeEntity(m)
	return true, nil
}

func (r *likeRepository) DeleteLike(ctx context.Context, articleID int64, fingerprint string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("article_id = ? AND user_fingerprint = ?", articleID, fingerprint).
		Delete(&model.LikeModel{})
	return res.RowsAffected > 0, res.Error
}

func (r *likeRepository) AdjustLikesCount(ctx context.Context, articleID int64, delta int) error {
	expr := clause.Expr{SQL: "likes_count + ?", Vars: []interface{}{delta}}
	if delta < 0 {
		expr = clause.Expr{
			SQL:  "CASE WHEN likes_count + ? < 0 THEN 0 ELSE likes_count + ? END",
			Vars: []interface{}{delta, delta},
		}
	}

	res := r.db.WithContext(ctx).Model(&model.ArticleCounterModel{}).
		Where("id = ?", articleID).
		UpdateColumn("likes_count", expr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
