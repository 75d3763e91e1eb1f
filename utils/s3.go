package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Uploader stores uploaded images (scan snapshots, profile pictures) and
// returns public URLs served through the CDN.
type S3Uploader struct {
	client *s3.Client
	bucket string
	cdnURL string
}

func NewS3Uploader(ctx context.Context, region, bucket, cdnURL string) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}

	return &S3Uploader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		cdnURL: cdnURL,
	}, nil
}

// UploadImage puts raw image bytes under prefix and returns the public URL.
func (u *S3Uploader) UploadImage(ctx context.Context, data []byte, contentType, prefix string) (string, error) {
	ext := extensionFor(contentType)
	key := fmt.Sprintf("%s-%d%s", prefix, time.Now().UnixNano(), ext)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("%s/%s", u.cdnURL, key), nil
}

// UploadBase64Image accepts a "data:<mime>;base64,<data>" URI.
func (u *S3Uploader) UploadBase64Image(ctx context.Context, base64Data, prefix string) (string, error) {
	parts := strings.Split(base64Data, ",")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid base64 image")
	}
	meta := parts[0]

	mediaType := strings.SplitN(meta, ":", 2)
	if len(mediaType) != 2 {
		return "", fmt.Errorf("invalid base64 image")
	}
	contentType := strings.SplitN(mediaType[1], ";", 2)[0] // "image/jpeg"

	imageData, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	return u.UploadImage(ctx, imageData, contentType, prefix)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 {
		return "." + parts[1]
	}
	return ""
}
