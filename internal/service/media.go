package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/savorista/backend/config"
)

// Derived URL builders. All of these are deterministic functions of the
// recipe name so two runs for the same dish point at the same assets.

// Slug lower-cases the recipe name and replaces spaces with underscores;
// used for audio URLs and the progress file name.
func Slug(recipeName string) string {
	return strings.ToLower(strings.ReplaceAll(recipeName, " ", "_"))
}

// imageQuery URL-encodes only the spaces, matching the image search URLs
// the mobile client already stores.
func imageQuery(recipeName string) string {
	return strings.ReplaceAll(recipeName, " ", "%20")
}

// RecipeImageURL returns the image-search URL for the dish.
func RecipeImageURL(recipeName string) string {
	return fmt.Sprintf("https://source.unsplash.com/800x600/?%s", imageQuery(recipeName))
}

// StoryIntroAudioURL returns the narration audio URL for the intro.
func StoryIntroAudioURL(recipeName string) string {
	return fmt.Sprintf("https://savorista.com/audio/stories/%s_intro.mp3", Slug(recipeName))
}

// StepAudioURL returns the narration audio URL for step n (1-based).
func StepAudioURL(recipeName string, n int) string {
	return fmt.Sprintf("https://savorista.com/audio/stories/%s_step%d.mp3", Slug(recipeName), n)
}

// StepBackgroundImageURL returns the background image URL for step n.
func StepBackgroundImageURL(recipeName string, n int) string {
	return fmt.Sprintf("https://source.unsplash.com/800x600/?%s,%d", imageQuery(recipeName), n)
}

// PlaylistImageURL is shared by all playlists.
func PlaylistImageURL() string {
	return "https://source.unsplash.com/800x600/?music"
}

// WineImageURL is shared by all wine pairings.
func WineImageURL() string {
	return "https://source.unsplash.com/800x600/?wine"
}

// MediaService optionally pins recipe images into an S3 bucket so the
// stored aggregate does not depend on the image-search service staying
// stable. When no bucket is configured, or the download/upload fails, the
// source URL is kept as-is.
type MediaService struct {
	s3Config *config.S3Config
	client   *http.Client
}

// NewMediaService builds the media service. s3Config may be nil.
func NewMediaService(s3Config *config.S3Config) *MediaService {
	return &MediaService{
		s3Config: s3Config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// PinImage downloads imageURL and uploads it to S3 under the recipe slug,
// returning the public bucket URL. Falls back to imageURL on any failure.
func (s *MediaService) PinImage(ctx context.Context, imageURL, recipeName string) string {
	if s.s3Config == nil {
		return imageURL
	}

	data, err := s.download(ctx, imageURL)
	if err != nil {
		log.Printf("[MediaService] keeping source URL, download failed: %v", err)
		return imageURL
	}

	key := fmt.Sprintf("recipe-images/%s.jpg", Slug(recipeName))
	pinned, err := s.upload(ctx, data, key)
	if err != nil {
		log.Printf("[MediaService] keeping source URL, upload failed: %v", err)
		return imageURL
	}
	return pinned
}

func (s *MediaService) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image, status: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *MediaService) upload(ctx context.Context, data []byte, key string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}
