package domain

import "time"

// Avatar ИИ-персонаж, с которым общается пользователь
type Avatar struct {
	ID                  string    `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	Tagline             string    `json:"tagline" db:"tagline"`
	PersonalityPrompt   string    `json:"personality_prompt,omitempty" db:"personality_prompt"`
	PhysicalDescription string    `json:"physical_description,omitempty" db:"physical_description"`
	ProfileImageURL     string    `json:"profile_image_url" db:"profile_image_url"`
	Age                 int       `json:"age" db:"age"`
	Occupation          string    `json:"occupation" db:"occupation"`
	Interests           string    `json:"interests" db:"interests"`
	Tier                Tier      `json:"tier" db:"tier"`
	IsActive            bool      `json:"is_active" db:"is_active"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}
