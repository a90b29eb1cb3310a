// Package objectstorage uploads the images of posts, campaigns and
// organization logos to an S3 compatible bucket. Objects are keyed by the
// hash of their content, so uploading the same image twice stores it once.
package objectstorage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.vocdoni.io/dvote/log"
)

var (
	// ErrorFileTypeNotSupported is returned when the file type is not in the supported types list.
	ErrorFileTypeNotSupported = fmt.Errorf("file type not supported")
	// ErrorObjectTooLarge is returned when the object exceeds the maximum size.
	ErrorObjectTooLarge = fmt.Errorf("object too large")
	// ErrorEmptyObject is returned when there is no data to store.
	ErrorEmptyObject = fmt.Errorf("empty object")
	// ErrorInvalidKind is returned when the object kind is unknown.
	ErrorInvalidKind = fmt.Errorf("invalid object kind")
)

// ObjectFileType represents the MIME type of a stored object file.
type ObjectFileType string

const (
	// FileTypeJPEG represents the JPEG image MIME type.
	FileTypeJPEG ObjectFileType = "image/jpeg"
	// FileTypePNG represents the PNG image MIME type.
	FileTypePNG ObjectFileType = "image/png"
)

// ObjectKind is the folder of the bucket the object is stored in.
type ObjectKind string

const (
	KindPost         ObjectKind = "posts"
	KindCampaign     ObjectKind = "campaigns"
	KindOrganization ObjectKind = "organizations"
)

var validKinds = map[ObjectKind]bool{
	KindPost:         true,
	KindCampaign:     true,
	KindOrganization: true,
}

// DefaultMaxSize is the default maximum object size in bytes.
const DefaultMaxSize = 5 << 20

// DefaultSupportedFileTypes returns the file types that are supported by default.
func DefaultSupportedFileTypes() map[ObjectFileType]bool {
	return map[ObjectFileType]bool{
		FileTypeJPEG: true,
		FileTypePNG:  true,
	}
}

// Uploader stores an object in the bucket. It is implemented by the S3
// upload manager.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Config holds the configuration for the object storage client. Endpoint is
// only needed for S3 compatible services; PublicURL overrides the base URL
// of the returned object URLs.
type Config struct {
	Bucket         string
	Region         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	PublicURL      string
	MaxSize        int64
	SupportedTypes []ObjectFileType
}

// Client uploads objects. It remembers the recently uploaded keys to skip
// uploading the same content again.
type Client struct {
	uploader       Uploader
	bucket         string
	baseURL        string
	maxSize        int64
	supportedTypes map[ObjectFileType]bool
	uploaded       *lru.Cache[string, string]
}

// New creates an S3 backed client from the configuration.
func New(ctx context.Context, conf *Config) (*Client, error) {
	if conf == nil || conf.Bucket == "" {
		return nil, fmt.Errorf("invalid object storage configuration")
	}
	opts := []func(*awsconfig.LoadOptions) error{}
	if conf.Region != "" {
		opts = append(opts, awsconfig.WithRegion(conf.Region))
	}
	if conf.AccessKey != "" && conf.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot load AWS configuration: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithUploader(conf, manager.NewUploader(client))
}

// NewWithUploader creates a client that stores the objects with the given
// uploader.
func NewWithUploader(conf *Config, uploader Uploader) (*Client, error) {
	if conf == nil || conf.Bucket == "" || uploader == nil {
		return nil, fmt.Errorf("invalid object storage configuration")
	}
	supportedTypes := DefaultSupportedFileTypes()
	for _, t := range conf.SupportedTypes {
		supportedTypes[t] = true
	}
	maxSize := conf.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	cache, err := lru.New[string, string](256)
	if err != nil {
		return nil, fmt.Errorf("cannot create cache: %w", err)
	}
	return &Client{
		uploader:       uploader,
		bucket:         conf.Bucket,
		baseURL:        baseURL(conf),
		maxSize:        maxSize,
		supportedTypes: supportedTypes,
		uploaded:       cache,
	}, nil
}

func baseURL(conf *Config) string {
	switch {
	case conf.PublicURL != "":
		return strings.TrimSuffix(conf.PublicURL, "/")
	case conf.Endpoint != "":
		return strings.TrimSuffix(conf.Endpoint, "/") + "/" + conf.Bucket
	case conf.Region != "":
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", conf.Bucket, conf.Region)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com", conf.Bucket)
}

// Put uploads an image of the given kind on behalf of owner (free-form
// string) and returns its public URL. The content type is sniffed from the
// data, the declared one is ignored.
func (c *Client) Put(ctx context.Context, data io.Reader, kind ObjectKind, owner string) (string, error) {
	if !validKinds[kind] {
		return "", ErrorInvalidKind
	}
	buff, err := io.ReadAll(io.LimitReader(data, c.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("cannot read file: %w", err)
	}
	if len(buff) == 0 {
		return "", ErrorEmptyObject
	}
	if int64(len(buff)) > c.maxSize {
		return "", ErrorObjectTooLarge
	}
	filetype := http.DetectContentType(buff)
	if !c.supportedTypes[ObjectFileType(filetype)] {
		return "", ErrorFileTypeNotSupported
	}
	key := objectKey(kind, buff, filetype)
	if url, ok := c.uploaded.Get(key); ok {
		return url, nil
	}
	if _, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buff),
		ContentType: aws.String(filetype),
		Metadata:    map[string]string{"owner": owner},
	}); err != nil {
		return "", fmt.Errorf("cannot upload object: %w", err)
	}
	url := c.baseURL + "/" + key
	c.uploaded.Add(key, url)
	log.Debugw("object uploaded", "key", key, "owner", owner, "size", len(buff))
	return url, nil
}

// objectKey is the kind folder and the truncated sha256 of the data, with
// the extension of the content type.
func objectKey(kind ObjectKind, data []byte, filetype string) string {
	hash := sha256.Sum256(data)
	ext := strings.TrimPrefix(filetype, "image/")
	if ext == "jpeg" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s/%s.%s", kind, hex.EncodeToString(hash[:16]), ext)
}
