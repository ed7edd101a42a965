package domain

import "github.com/google/uuid"

// PhotoIntent результат детектора запроса фото. Живёт в рамках одного сообщения
type PhotoIntent struct {
	ShouldSendImage bool          `json:"should_send_image"`
	Category        ImageCategory `json:"category"`
	Tags            []string      `json:"tags"`
}

// PhotoTarget для кого и от чьего имени выбирается картинка
type PhotoTarget struct {
	AvatarID       string
	UserID         uuid.UUID
	ConversationID uuid.UUID
}

// SelectionPool из какого пула выбрана картинка
type SelectionPool string

const (
	SelectionPoolFresh    SelectionPool = "fresh"    // картинки, которые пользователь ещё не получал
	SelectionPoolFallback SelectionPool = "fallback" // все картинки категории, свежие исчерпаны
	SelectionPoolEmpty    SelectionPool = "empty"    // в категории нет картинок
)

// Selection результат работы селектора
type Selection struct {
	Image *AvatarImage
	Pool  SelectionPool
}

// Found выбрана ли картинка
func (s *Selection) Found() bool {
	return s != nil && s.Image != nil
}

// PhotoOutcome исход обработки запроса фото
type PhotoOutcome string

const (
	PhotoOutcomeNoRequest      PhotoOutcome = "no_request"
	PhotoOutcomeQuotaExhausted PhotoOutcome = "quota_exhausted"
	PhotoOutcomeNoImage        PhotoOutcome = "no_image"
	PhotoOutcomeSelected       PhotoOutcome = "selected"
)

// PhotoResult то, что ядро отдаёт оркестратору сообщений
type PhotoResult struct {
	Outcome PhotoOutcome
	Intent  *PhotoIntent
	Image   *AvatarImage
	Pool    SelectionPool
}

// ImageURL путь выбранной картинки или пустая строка
func (r *PhotoResult) ImageURL() string {
	if r == nil || r.Image == nil {
		return ""
	}
	return r.Image.URL()
}
