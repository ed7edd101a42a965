package photo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
	"github.com/google/uuid"
)

const (
	freshPoolLimit    = 20
	fallbackPoolLimit = 20
	topCandidates     = 5
	tagMatchScore     = 2.0
	sendCountPenalty  = 0.1
)

// Selector выбирает картинку аватара для пользователя: сначала из тех, что он ещё не видел,
// затем из всей категории, и фиксирует отправку
type Selector struct {
	ImageRepo    repository.IAvatarImageRepo
	ReceivedRepo repository.IReceivedImageRepo
	Rand         Rand
	Log          *slog.Logger
	Now          func() time.Time
}

func NewSelector(
	imageRepo repository.IAvatarImageRepo,
	receivedRepo repository.IReceivedImageRepo,
	rnd Rand,
	log *slog.Logger,
) *Selector {
	if rnd == nil {
		rnd = DefaultRand()
	}
	return &Selector{
		ImageRepo:    imageRepo,
		ReceivedRepo: receivedRepo,
		Rand:         rnd,
		Log:          log,
		Now:          time.Now,
	}
}

// Select выбирает картинку категории. Квота должна быть проверена вызывающим.
// Если картинок нет, возвращает Selection с пулом empty и ничего не пишет
func (s *Selector) Select(ctx context.Context, target domain.PhotoTarget, category domain.ImageCategory, hints []string) (*domain.Selection, error) {
	fresh, err := s.ImageRepo.SelectFresh(ctx, target.AvatarID, category, target.UserID, freshPoolLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load fresh pool: %w", err)
	}

	var (
		picked *domain.AvatarImage
		pool   domain.SelectionPool
	)

	if len(fresh) > 0 {
		picked = s.pickScored(fresh, hints)
		pool = domain.SelectionPoolFresh
	} else {
		fallback, err := s.ImageRepo.SelectLeastSent(ctx, target.AvatarID, category, fallbackPoolLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load fallback pool: %w", err)
		}
		if len(fallback) == 0 {
			s.Log.Warn("no images in category",
				"avatar_id", target.AvatarID,
				"category", category)
			return &domain.Selection{Pool: domain.SelectionPoolEmpty}, nil
		}
		picked = fallback[s.Rand.IntN(len(fallback))]
		pool = domain.SelectionPoolFallback
	}

	if err := s.ImageRepo.IncrementSendCount(ctx, picked.ID); err != nil {
		return nil, fmt.Errorf("failed to count image send: %w", err)
	}
	picked.SendCount++

	record := &domain.UserReceivedImage{
		ID:             uuid.New(),
		UserID:         target.UserID,
		AvatarID:       target.AvatarID,
		ImageID:        picked.ID,
		ConversationID: target.ConversationID,
		SentAt:         s.Now().UTC(),
	}
	if err := s.ReceivedRepo.Create(ctx, record); err != nil {
		// счётчик уже увеличен, откатывать не будем: картинка может попасть пользователю повторно
		s.Log.Warn("failed to record received image, continuing",
			"error", err,
			"image_id", picked.ID,
			"user_id", target.UserID,
			"avatar_id", target.AvatarID)
	}

	s.Log.Debug("image selected",
		"image_id", picked.ID,
		"avatar_id", target.AvatarID,
		"category", category,
		"pool", pool,
		"send_count", picked.SendCount)

	return &domain.Selection{Image: picked, Pool: pool}, nil
}

// pickScored сортирует кандидатов по score и берёт случайный из первых topCandidates
func (s *Selector) pickScored(images []*domain.AvatarImage, hints []string) *domain.AvatarImage {
	type scored struct {
		image *domain.AvatarImage
		score float64
	}

	ranked := make([]scored, len(images))
	for i, img := range images {
		ranked[i] = scored{image: img, score: Score(img, hints)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	n := min(topCandidates, len(ranked))
	return ranked[s.Rand.IntN(n)].image
}

// Score +2 за каждую подсказку, совпавшую с тегом картинки, минус 0.1 за каждую прошлую отправку
func Score(img *domain.AvatarImage, hints []string) float64 {
	return float64(matchedHints(img.Tags, hints))*tagMatchScore - float64(img.SendCount)*sendCountPenalty
}

// matchedHints число подсказок, которые совпали хотя бы с одним тегом.
// Совпадение: подстрока без учёта регистра в любую сторону
func matchedHints(tags domain.ImageTags, hints []string) int {
	matched := 0
	for _, hint := range hints {
		h := strings.ToLower(strings.TrimSpace(hint))
		if h == "" {
			continue
		}
		for _, tag := range tags {
			t := strings.ToLower(strings.TrimSpace(tag))
			if t == "" {
				continue
			}
			if strings.Contains(t, h) || strings.Contains(h, t) {
				matched++
				break
			}
		}
	}
	return matched
}
