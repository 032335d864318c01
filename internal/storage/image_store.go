package storage

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// MaxImageSize caps uploaded images at 5 MiB
const MaxImageSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageStore stores uploaded images in an external blob service and returns
// a public retrieval URL.
type ImageStore interface {
	Upload(filename, contentType string, body io.Reader) (string, error)
}

// OSSConfig configures the blob store client
type OSSConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	BaseURL         string // public URL prefix; derived from endpoint when empty
	Folder          string
}

type ossImageStore struct {
	bucket  *oss.Bucket
	baseURL string
	folder  string
}

// NewOSSImageStore constructs the blob store client up front, so a
// misconfigured bucket fails at startup instead of on the first upload.
func NewOSSImageStore(cfg OSSConfig) (ImageStore, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss client: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("oss bucket %s: %w", cfg.Bucket, err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.%s", cfg.Bucket, strings.TrimPrefix(cfg.Endpoint, "https://"))
	}
	folder := cfg.Folder
	if folder == "" {
		folder = "uploads"
	}

	return &ossImageStore{
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		folder:  folder,
	}, nil
}

// AllowedImage reports whether the filename carries an accepted extension
func AllowedImage(filename string) bool {
	return allowedExtensions[strings.ToLower(path.Ext(filename))]
}

func (s *ossImageStore) Upload(filename, contentType string, body io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("%s/%s%s", s.folder, uuid.NewString(), ext)

	opts := []oss.Option{}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	if err := s.bucket.PutObject(key, body, opts...); err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}
