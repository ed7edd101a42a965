package photo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/google/uuid"
)

type fakeReceivedRepo struct {
	mu      sync.Mutex
	records []domain.UserReceivedImage
	err     error
}

func (f *fakeReceivedRepo) Create(_ context.Context, r *domain.UserReceivedImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeReceivedRepo) has(userID uuid.UUID, avatarID string, imageID uuid.UUID) bool {
	for _, r := range f.records {
		if r.UserID == userID && r.AvatarID == avatarID && r.ImageID == imageID {
			return true
		}
	}
	return false
}

// fakeImageRepo отдаёт копии, как настоящая БД
type fakeImageRepo struct {
	mu       sync.Mutex
	images   []*domain.AvatarImage
	received *fakeReceivedRepo

	incCalls   int
	incErr     error
	freshErr   error
	freshLimit int
}

func (f *fakeImageRepo) add(avatarID string, category domain.ImageCategory, sendCount int64, tags ...string) *domain.AvatarImage {
	img := &domain.AvatarImage{
		ID:        uuid.New(),
		AvatarID:  avatarID,
		FilePath:  string(category) + "/" + uuid.NewString() + ".jpg",
		Category:  category,
		Tags:      domain.ImageTags(tags),
		SendCount: sendCount,
		CreatedAt: time.Unix(int64(len(f.images)), 0),
	}
	f.images = append(f.images, img)
	return img
}

func (f *fakeImageRepo) byID(id uuid.UUID) *domain.AvatarImage {
	for _, img := range f.images {
		if img.ID == id {
			return img
		}
	}
	return nil
}

func (f *fakeImageRepo) query(avatarID string, category domain.ImageCategory, limit int, keep func(*domain.AvatarImage) bool) []*domain.AvatarImage {
	var out []*domain.AvatarImage
	for _, img := range f.images {
		if img.AvatarID == avatarID && img.Category == category && keep(img) {
			cp := *img
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SendCount != out[j].SendCount {
			return out[i].SendCount < out[j].SendCount
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeImageRepo) SelectFresh(_ context.Context, avatarID string, category domain.ImageCategory, userID uuid.UUID, limit int) ([]*domain.AvatarImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.freshErr != nil {
		return nil, f.freshErr
	}
	f.freshLimit = limit
	return f.query(avatarID, category, limit, func(img *domain.AvatarImage) bool {
		return !f.received.has(userID, avatarID, img.ID)
	}), nil
}

func (f *fakeImageRepo) SelectLeastSent(_ context.Context, avatarID string, category domain.ImageCategory, limit int) ([]*domain.AvatarImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query(avatarID, category, limit, func(*domain.AvatarImage) bool { return true }), nil
}

func (f *fakeImageRepo) IncrementSendCount(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incCalls++
	if f.incErr != nil {
		return f.incErr
	}
	img := f.byID(id)
	if img == nil {
		return domain.ErrImageNotFound
	}
	img.SendCount++
	return nil
}

func (f *fakeImageRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.AvatarImage, error) {
	if img := f.byID(id); img != nil {
		cp := *img
		return &cp, nil
	}
	return nil, domain.ErrImageNotFound
}

func (f *fakeImageRepo) Upsert(_ context.Context, img *domain.AvatarImage) error {
	f.images = append(f.images, img)
	return nil
}

func (f *fakeImageRepo) ExposureStats(context.Context) ([]domain.ExposureStats, error) {
	return nil, nil
}

type fakeQuota struct {
	allowed  bool
	checkErr error
	incErr   error
	checked  int
	imageInc int
}

func (f *fakeQuota) CheckMessageLimit(context.Context, uuid.UUID) (bool, error) { return true, nil }
func (f *fakeQuota) IncrementMessageCount(context.Context, uuid.UUID) error     { return nil }
func (f *fakeQuota) Remaining(context.Context, uuid.UUID) (*domain.Usage, error) {
	return &domain.Usage{}, nil
}

func (f *fakeQuota) CheckImageLimit(context.Context, uuid.UUID) (bool, error) {
	f.checked++
	return f.allowed, f.checkErr
}

func (f *fakeQuota) IncrementImageCount(context.Context, uuid.UUID) error {
	f.imageInc++
	return f.incErr
}

type fakeEvents struct {
	events []domain.ImageSentEvent
	err    error
}

func (f *fakeEvents) PublishImageSent(_ context.Context, e domain.ImageSentEvent) error {
	f.events = append(f.events, e)
	return f.err
}
