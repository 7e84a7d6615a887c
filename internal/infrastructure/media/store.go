package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Config captures the object storage settings.
type Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	KeyPrefix     string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store uploads profile images to an S3-compatible bucket and returns their
// public URL. It implements ports.MediaStore.
type Store struct {
	client objectPutter
	cfg    Config
	now    func() time.Time
}

// NewStore builds an S3 client from cfg. Static credentials and a custom
// endpoint are used when set, which is how MinIO is reached locally.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("media store: bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("media store: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newStore(client, cfg), nil
}

func newStore(client objectPutter, cfg Config) *Store {
	return &Store{client: client, cfg: cfg, now: time.Now}
}

// Upload puts the file at localPath under <prefix>/<yyyy>/<mm>/<uuid><ext>.
// An empty path yields an empty URL.
func (s *Store) Upload(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("media store: open: %w", err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("media store: detect type: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("media store: rewind: %w", err)
	}

	key := s.objectKey(localPath, mtype)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(mtype.String()),
	})
	if err != nil {
		return "", fmt.Errorf("media store: put %s: %w", key, err)
	}

	return s.publicURL(key), nil
}

func (s *Store) objectKey(localPath string, mtype *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	if ext == "" {
		ext = mtype.Extension()
	}
	d := s.now().UTC()
	name := fmt.Sprintf("%04d/%02d/%s%s", d.Year(), int(d.Month()), uuid.NewString(), ext)
	if s.cfg.KeyPrefix == "" {
		return name
	}
	return path.Join(s.cfg.KeyPrefix, name)
}

func (s *Store) publicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	if s.cfg.Endpoint != "" {
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
