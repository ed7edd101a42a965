package domain

// Tier уровень подписки
type Tier string

const (
	TierFree     Tier = "free"
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// RateLimits дневные лимиты уровня
type RateLimits struct {
	MessagesPerDay int64
	ImagesPerDay   int64
}

// Limits возвращает лимиты уровня, неизвестный уровень считается free
func (t Tier) Limits() RateLimits {
	switch t {
	case TierPremium:
		return RateLimits{MessagesPerDay: 999999, ImagesPerDay: 100}
	case TierStandard:
		return RateLimits{MessagesPerDay: 1000, ImagesPerDay: 20}
	default:
		return RateLimits{MessagesPerDay: 20, ImagesPerDay: 5}
	}
}

func (t Tier) rank() int {
	switch t {
	case TierPremium:
		return 2
	case TierStandard:
		return 1
	default:
		return 0
	}
}

// CanAccess доступен ли контент уровня required
func (t Tier) CanAccess(required Tier) bool {
	return t.rank() >= required.rank()
}

// IsValid проверяет, является ли уровень валидным
func (t Tier) IsValid() bool {
	switch t {
	case TierFree, TierStandard, TierPremium:
		return true
	default:
		return false
	}
}

// QuotaKind вид дневной квоты
type QuotaKind string

const (
	QuotaMessages QuotaKind = "messages"
	QuotaImages   QuotaKind = "images"
)

// Limit лимит уровня для вида квоты
func (l RateLimits) Limit(kind QuotaKind) int64 {
	if kind == QuotaImages {
		return l.ImagesPerDay
	}
	return l.MessagesPerDay
}
