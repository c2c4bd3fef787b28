package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/medibook/clinic-scheduler/internal/config"
	"github.com/medibook/clinic-scheduler/internal/httperr"
)

const maxPhotoWidth = 800

// Uploader stores doctor profile photos: decode, bound the width, re-encode
// as WebP and put to S3 under a random key.
type Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewUploader returns nil when S3 is not configured; callers treat a nil
// uploader as "photo uploads disabled".
func NewUploader(cfg *config.Config) *Uploader {
	if cfg.S3Bucket == "" || cfg.S3AccessKey == "" {
		return nil
	}

	client := s3.New(s3.Options{
		Region:      cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
	})

	return &Uploader{
		client:  client,
		bucket:  cfg.S3Bucket,
		baseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
	}
}

func (u *Uploader) UploadDoctorPhoto(ctx context.Context, r io.Reader) (string, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return "", httperr.ErrInvalidArgument("invalid_image", "Uploaded file is not a readable image.")
	}

	src = shrink(src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("encode photo: %w", err)
	}

	key := "doctors/" + uuid.NewString() + ".webp"

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", httperr.ErrExternal("photo_store_failed", "Photo storage is unavailable.")
	}

	return u.baseURL + "/" + key, nil
}

func shrink(src image.Image) image.Image {
	b := src.Bounds()
	if b.Dx() <= maxPhotoWidth {
		return src
	}

	h := b.Dy() * maxPhotoWidth / b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxPhotoWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
