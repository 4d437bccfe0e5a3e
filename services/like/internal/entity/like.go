package entity

import "time"

// Like is one (article, fingerprint) like record.
type Like struct {
	ID          string
	ArticleID   int64
	Fingerprint string
	UserAgent   string
	CreatedAt   time.Time
}

// LikeStatus is what a like control displays for one article.
type LikeStatus struct {
	IsLiked    bool  `json:"is_liked"`
	TotalLikes int64 `json:"total_likes"`
}

// Flipped is the optimistic guess of the status after one toggle.
func (s LikeStatus) Flipped() LikeStatus {
	if s.IsLiked {
		total := s.TotalLikes - 1
		if total < 0 {
			total = 0
		}
		return LikeStatus{IsLiked: false, TotalLikes: total}
	}
	return LikeStatus{IsLiked: true, TotalLikes: s.TotalLikes + 1}
}
