package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pantrysnap/backend/config"
)

// PhotoService stores uploaded ingredient photos in S3 so generation results
// can link back to the pictures they came from.
type PhotoService struct {
	s3Config *config.S3Config
}

func NewPhotoService(s3Config *config.S3Config) *PhotoService {
	return &PhotoService{s3Config: s3Config}
}

// UploadIngredientPhoto decodes a data-URI encoded image and writes it to
// the photo bucket under the user's prefix. It returns the object key.
func (s *PhotoService) UploadIngredientPhoto(ctx context.Context, userID uuid.UUID, dataURI string) (string, error) {
	data, contentType, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	ext := "jpg"
	if strings.Contains(contentType, "png") {
		ext = "png"
	}
	key := fmt.Sprintf("ingredients/%s/%s.%s", userID, uuid.New(), ext)

	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return key, nil
}

// PhotoURL returns a presigned read URL for a previously uploaded photo.
func (s *PhotoService) PhotoURL(ctx context.Context, key string) (string, error) {
	return s.s3Config.GeneratePresignedURL(ctx, key, 15*time.Minute)
}

// decodeDataURI splits a "data:image/...;base64,..." payload into raw bytes
// and the declared content type.
func decodeDataURI(dataURI string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURI, "data:image") {
		return nil, "", fmt.Errorf("invalid data URI")
	}
	idx := strings.Index(dataURI, ";base64,")
	if idx < 0 {
		return nil, "", fmt.Errorf("invalid data URI")
	}

	contentType := dataURI[len("data:"):idx]
	data, err := base64.StdEncoding.DecodeString(dataURI[idx+len(";base64,"):])
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return data, contentType, nil
}
