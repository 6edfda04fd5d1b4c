package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the slice of the S3 client API the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds the settings for s3:// sources. Credentials always come from
// the default AWS chain (environment, shared config, instance role).
type S3Config struct {
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"` // optional, e.g. MinIO
	PathStyle bool   `yaml:"path_style,omitempty"`
}

// NewS3Client builds an S3 client from cfg.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// IsS3 reports whether source names an S3 object.
func IsS3(source string) bool {
	return strings.HasPrefix(source, "s3://")
}

// splitS3 splits "s3://bucket/some/key.csv" into bucket and key.
func splitS3(source string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(source, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 source %q: want s3://bucket/key", source)
	}
	return bucket, key, nil
}

// Loader opens and parses CSV sources. A source is an http(s) URL, an
// s3://bucket/key reference, or a local file path.
type Loader struct {
	HTTP *http.Client
	S3   ObjectGetter // required only for s3:// sources
}

// Open returns a reader over the raw bytes of source. The caller closes it.
func (l *Loader) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.openHTTP(ctx, source)
	case IsS3(source):
		return l.openS3(ctx, source)
	default:
		return os.Open(source)
	}
}

func (l *Loader) openHTTP(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := l.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (l *Loader) openS3(ctx context.Context, source string) (io.ReadCloser, error) {
	if l.S3 == nil {
		return nil, fmt.Errorf("no s3 client configured for %s", source)
	}
	bucket, key, err := splitS3(source)
	if err != nil {
		return nil, err
	}
	out, err := l.S3.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}
