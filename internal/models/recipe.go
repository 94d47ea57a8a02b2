package models

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is the root of a generated aggregate. Ingredients, steps, the
// playlist and the wine pairing are created together in one generation run
// and persisted in a single transaction.
type Recipe struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title           string `gorm:"size:255;not null" json:"title"`
	Country         string `gorm:"size:100" json:"country"`
	Region          string `gorm:"size:100" json:"region"`
	Description     string `gorm:"type:text" json:"description"`
	PreparationTime int    `json:"preparation_time"`
	CookingTime     int    `json:"cooking_time"`
	Difficulty      string `gorm:"size:50" json:"difficulty"`
	Servings        int    `json:"servings"`
	IsPremium       bool   `json:"is_premium"`
	ImageURL        string `gorm:"size:255" json:"image_url"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	StoryIntro         string `gorm:"type:text" json:"story_intro"`
	StoryIntroAudioURL string `gorm:"size:255" json:"story_intro_audio_url"`

	Ingredients []Ingredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
	Steps       []Step       `gorm:"foreignKey:RecipeID" json:"steps"`
	Playlist    *Playlist    `gorm:"foreignKey:RecipeID" json:"playlist"`
	WinePairing *WinePairing `gorm:"foreignKey:RecipeID" json:"wine_pairing"`
}

// Ingredient keeps quantity and unit as free text; the generator is not
// trusted to produce numbers. Position preserves appearance order.
type Ingredient struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Quantity string    `gorm:"size:50" json:"quantity"`
	Unit     string    `gorm:"size:50" json:"unit"`
	Position int       `json:"-"`
}

type Step struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	OrderNumber int       `gorm:"not null" json:"order_number"`
	Title       string    `gorm:"size:100" json:"title"`
	Description string    `gorm:"type:text" json:"description"`

	StoryContent            string `gorm:"type:text" json:"story_content"`
	StoryAudioURL           string `gorm:"size:255" json:"story_audio_url"`
	StoryBackgroundImageURL string `gorm:"size:255" json:"story_background_image_url"`
}

type Playlist struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Title       string    `gorm:"size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	SpotifyLink string    `gorm:"size:255" json:"spotify_link"`
	ImageURL    string    `gorm:"size:255" json:"image_url"`
}

type WinePairing struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Name        string    `gorm:"size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Region      string    `gorm:"size:100" json:"region"`
	ImageURL    string    `gorm:"size:255" json:"image_url"`
}
