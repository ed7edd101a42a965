package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ImageCategory грубая категория картинки / запроса на фото
type ImageCategory string

const (
	ImageCategoryFitness ImageCategory = "fitness"
	ImageCategoryBeach   ImageCategory = "beach"
	ImageCategoryFormal  ImageCategory = "formal"
	ImageCategorySelfie  ImageCategory = "selfie"
	ImageCategoryCasual  ImageCategory = "casual"
)

// String возвращает строковое представление категории
func (c ImageCategory) String() string {
	return string(c)
}

func (c ImageCategory) IsValid() bool {
	switch c {
	case ImageCategoryFitness, ImageCategoryBeach, ImageCategoryFormal, ImageCategorySelfie, ImageCategoryCasual:
		return true
	default:
		return false
	}
}

// ImageTags свободные теги картинки.
// В БД хранятся одной текстовой колонкой через запятую: "beach, surfing, ocean"
type ImageTags []string

// ParseImageTags разбирает строку тегов, пустые элементы отбрасываются
func ParseImageTags(raw string) ImageTags {
	parts := strings.Split(raw, ",")
	tags := make(ImageTags, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// Scan реализует sql.Scanner
func (t *ImageTags) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = ImageTags{}
	case []byte:
		*t = ParseImageTags(string(v))
	case string:
		*t = ParseImageTags(v)
	default:
		return fmt.Errorf("unsupported tags type %T", value)
	}
	return nil
}

// Value реализует driver.Valuer
func (t ImageTags) Value() (driver.Value, error) {
	return strings.Join(t, ", "), nil
}

// UnmarshalJSON принимает и массив, и строку через запятую
func (t *ImageTags) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*t = ParseImageTags(raw)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or an array: %w", err)
	}
	*t = ParseImageTags(strings.Join(list, ","))
	return nil
}

// AvatarImage статичная картинка из библиотеки аватара
type AvatarImage struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	AvatarID        string        `json:"avatar_id" db:"avatar_id"`
	FilePath        string        `json:"file_path" db:"file_path"`
	Category        ImageCategory `json:"category" db:"category"`
	Subcategory     string        `json:"subcategory" db:"subcategory"`
	Tags            ImageTags     `json:"tags" db:"tags"`
	Mood            *string       `json:"mood,omitempty" db:"mood"`
	TimeOfDay       *string       `json:"time_of_day,omitempty" db:"time_of_day"`
	Setting         *string       `json:"setting,omitempty" db:"setting"`
	OutfitStyle     *string       `json:"outfit_style,omitempty" db:"outfit_style"`
	CaptionTemplate *string       `json:"caption_template,omitempty" db:"caption_template"`
	SendCount       int64         `json:"send_count" db:"send_count"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
}

// FileName имя файла без каталога
func (i *AvatarImage) FileName() string {
	return path.Base(i.FilePath)
}

// URL публичный путь картинки: /api/images/{avatar}/{category}/{file}
func (i *AvatarImage) URL() string {
	return fmt.Sprintf("/api/images/%s/%s/%s", i.AvatarID, i.Category, i.FileName())
}

// ImageID детерминированный id картинки по аватару и пути файла.
// Повторная загрузка того же файла обновляет запись, а не создаёт новую
func ImageID(avatarID, filePath string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("cnctd:avatar_image:"+avatarID+"/"+filePath))
}

// ObjectKey ключ объекта в S3 бакете аватаров
func ObjectKey(avatarID, category, filename string) string {
	return avatarID + "/" + category + "/" + filename
}

// UserReceivedImage факт отправки картинки пользователю аватаром в рамках диалога
type UserReceivedImage struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	AvatarID       string    `json:"avatar_id" db:"avatar_id"`
	ImageID        uuid.UUID `json:"image_id" db:"image_id"`
	ConversationID uuid.UUID `json:"conversation_id" db:"conversation_id"`
	SentAt         time.Time `json:"sent_at" db:"sent_at"`
}

// ExposureStats размер библиотеки и число отправок по аватару
type ExposureStats struct {
	AvatarID       string `db:"avatar_id"`
	LibrarySize    int64  `db:"library_size"`
	ReceivedImages int64  `db:"received_images"`
}
