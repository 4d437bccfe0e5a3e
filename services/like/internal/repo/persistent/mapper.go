package persistent

import (
	"audslp/services/like/internal/entity"
	"audslp/services/like/internal/model"
)

func ToLikeEntity(m *model.LikeModel) *entity.Like {
	if m == nil {
		return nil
	}

	return &entity.Like{
		ID:          m.ID,
		ArticleID:   m.ArticleID,
		Fingerprint: m.Fingerprint,
		UserAgent:   m.UserAgent,
		CreatedAt:   m.CreatedAt,
	}
}

func ToLikeModel(e *entity.Like) *model.LikeModel {
	if e == nil {
		return nil
	}

	return &model.LikeModel{
		ID:          e.ID,
		ArticleID:   e.ArticleID,
		Fingerprint: e.Fingerprint,
		UserAgent:   e.UserAgent,
		CreatedAt:   e.CreatedAt,
	}
}
