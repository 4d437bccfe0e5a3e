package usecase

import (
	"context"
	"fmt"
	"time"

	"audslp/pkg/logger"
	"audslp/pkg/metrics"
	"audslp/pkg/queue"
	"audslp/services/like/internal/entity"
	"audslp/services/like/internal/repo/cache"
	"audslp/services/like/internal/repo/persistent"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const publishTimeout = 5 * time.Second

type LikeUseCase interface {
	ResolveLikeState(ctx context.Context, articleID int64, fingerprint string) (entity.LikeStatus, error)
	ResolveBatchLikeState(ctx context.Context, articleIDs []int64, fingerprint string) (map[int64]struct{}, error)
	ToggleLike(ctx context.Context, articleID int64, fingerprint, userAgent string) (entity.LikeStatus, error)
}

// EventPublisher is satisfied by *queue.Client.
type EventPublisher interface {
	PublishLikeToggled(ctx context.Context, event queue.LikeToggledEvent) error
}

type likeUseCase struct {
	likeRepo    persistent.LikeRepository
	statusCache cache.StatusCache
	publisher   EventPublisher
	logger      *logger.Logger
	toggles     singleflight.Group
	now         func() time.Time
}

// NewLikeUseCase wires the like protocol. statusCache and publisher are
// optional and may be nil.
func NewLikeUseCase(
	likeRepo persistent.LikeRepository,
	statusCache cache.StatusCache,
	publisher EventPublisher,
	logger *logger.Logger,
) LikeUseCase {
	return &likeUseCase{
		likeRepo:    likeRepo,
		statusCache: statusCache,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

func validate(op string, articleID int64, fingerprint string) error {
	if articleID <= 0 {
		return entity.NewError(op, entity.ErrInvalidArgument, fmt.Errorf("article id %d must be positive", articleID))
	}
	if fingerprint == "" {
		return entity.NewError(op, entity.ErrInvalidArgument, fmt.Errorf("fingerprint is required"))
	}
	return nil
}

func (uc *likeUseCase) ResolveLikeState(ctx context.Context, articleID int64, fingerprint string) (entity.LikeStatus, error) {
	const op = "resolve like state"
	if err := validate(op, articleID, fingerprint); err != nil {
		metrics.LikeErrors.WithLabelValues("resolve", entity.KindName(err)).Inc()
		return entity.LikeStatus{}, err
	}

	if status, ok := uc.cachedStatus(ctx, articleID, fingerprint); ok {
		return status, nil
	}

	var status entity.LikeStatus
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		liked, err := uc.likeRepo.IsLiked(gctx, articleID, fingerprint)
		status.IsLiked = liked
		return err
	})
	g.Go(func() error {
		total, err := uc.likeRepo.GetLikesCount(gctx, articleID)
		status.TotalLikes = total
		return err
	})
	if err := g.Wait(); err != nil {
		err = entity.Classify(op, err)
		uc.logger.Warn("Failed to resolve like state for article %d: %v", articleID, err)
		metrics.LikeErrors.WithLabelValues("resolve", entity.KindName(err)).Inc()
		return entity.LikeStatus{}, err
	}

	uc.storeStatus(ctx, articleID, fingerprint, status)
	return status, nil
}

func (uc *likeUseCase) ResolveBatchLikeState(ctx context.Context, articleIDs []int64, fingerprint string) (map[int64]struct{}, error) {
	liked := make(map[int64]struct{})
	if fingerprint == "" {
		return liked, nil
	}

	ids := uniquePositive(articleIDs)
	if len(ids) == 0 {
		return liked, nil
	}
	metrics.BatchSize.Observe(float64(len(ids)))

	found, err := uc.likeRepo.LikedArticleIDs(ctx, fingerprint, ids)
	if err != nil {
		err = entity.Classify("resolve batch like state", err)
		uc.logger.Warn("Failed to resolve batch like state for %d articles: %v", len(ids), err)
		metrics.LikeErrors.WithLabelValues("batch", entity.KindName(err)).Inc()
		return nil, err
	}

	for _, id := range found {
		liked[id] = struct{}{}
	}
	return liked, nil
}

// ToggleLike flips the like of fingerprint on articleID. Concurrent duplicate
// calls for the same pair in this process share one toggle and its result;
// across processes the unique index and atomic counter updates keep records
// and counter consistent.
func (uc *likeUseCase) ToggleLike(ctx context.Context, articleID int64, fingerprint, userAgent string) (entity.LikeStatus, error) {
	const op = "toggle like"
	if err := validate(op, articleID, fingerprint); err != nil {
		metrics.LikeErrors.WithLabelValues("toggle", entity.KindName(err)).Inc()
		return entity.LikeStatus{}, err
	}

	key := fmt.Sprintf("%d:%s", articleID, fingerprint)
	v, err, _ := uc.toggles.Do(key, func() (interface{}, error) {
		// The mutation must complete even if the first caller goes away.
		return uc.toggle(context.WithoutCancel(ctx), articleID, fingerprint, userAgent)
	})
	if err != nil {
		err = entity.Classify(op, err)
		uc.logger.Error("Failed to toggle like on article %d: %v", articleID, err)
		metrics.LikeErrors.WithLabelValues("toggle", entity.KindName(err)).Inc()
		return entity.LikeStatus{}, err
	}

	return v.(entity.LikeStatus), nil
}

func (uc *likeUseCase) toggle(ctx context.Context, articleID int64, fingerprint, userAgent string) (entity.LikeStatus, error) {
	var status entity.LikeStatus

	err := uc.likeRepo.Transaction(ctx, func(tx persistent.LikeRepository) error {
		if _, err := tx.GetLikesCount(ctx, articleID); err != nil {
			return err
		}

		removed, err := tx.DeleteLike(ctx, articleID, fingerprint)
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}

		if removed {
			if err := tx.AdjustLikesCount(ctx, articleID, -1); err != nil {
				return fmt.Errorf("failed to decrement likes: %w", err)
			}
			status.IsLiked = false
		} else {
			inserted, err := tx.InsertLike(ctx, &entity.Like{
				ArticleID:   articleID,
				Fingerprint: fingerprint,
				UserAgent:   userAgent,
			})
			if err != nil {
				return fmt.Errorf("failed to insert like: %w", err)
			}
			// Not inserted means a concurrent toggle created the record
			// first; that toggle already counted it.
			if inserted {
				if err := tx.AdjustLikesCount(ctx, articleID, 1); err != nil {
					return fmt.Errorf("failed to increment likes: %w", err)
				}
			}
			status.IsLiked = true
		}

		total, err := tx.GetLikesCount(ctx, articleID)
		if err != nil {
			return err
		}
		status.TotalLikes = total
		return nil
	})
	if err != nil {
		return entity.LikeStatus{}, err
	}

	result := "unliked"
	if status.IsLiked {
		result = "liked"
	}
	metrics.LikeToggles.WithLabelValues(result).Inc()

	uc.storeStatus(ctx, articleID, fingerprint, status)
	uc.publish(articleID, status)

	return status, nil
}

func (uc *likeUseCase) cachedStatus(ctx context.Context, articleID int64, fingerprint string) (entity.LikeStatus, bool) {
	if uc.statusCache == nil {
		return entity.LikeStatus{}, false
	}
	status, ok, err := uc.statusCache.Get(ctx, articleID, fingerprint)
	switch {
	case err != nil:
		uc.logger.Warn("Failed to read like status cache: %v", err)
		metrics.LikeStatusCache.WithLabelValues("error").Inc()
		return entity.LikeStatus{}, false
	case ok:
		metrics.LikeStatusCache.WithLabelValues("hit").Inc()
		return status, true
	default:
		metrics.LikeStatusCache.WithLabelValues("miss").Inc()
		return entity.LikeStatus{}, false
	}
}

func (uc *likeUseCase) storeStatus(ctx context.Context, articleID int64, fingerprint string, status entity.LikeStatus) {
	if uc.statusCache == nil {
		return
	}
	if err := uc.statusCache.Set(ctx, articleID, fingerprint, status); err != nil {
		uc.logger.Warn("Failed to write like status cache: %v", err)
	}
}

func (uc *likeUseCase) publish(articleID int64, status entity.LikeStatus) {
	if uc.publisher == nil {
		return
	}

	event := queue.LikeToggledEvent{
		ArticleID:  articleID,
		Liked:      status.IsLiked,
		TotalLikes: status.TotalLikes,
		OccurredAt: uc.now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := uc.publisher.PublishLikeToggled(ctx, event); err != nil {
			uc.logger.Error("[LIKE EVENTS] Failed to publish like event for article %d: %v", articleID, err)
		}
	}()
}

func uniquePositive(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
