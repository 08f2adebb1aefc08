// utils/blob.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gosimple/slug"
)

// BlobStore uploads image bytes to an R2 bucket and hands back public
// CDN URLs. Constructed once at startup and injected into whatever
// needs it.
type BlobStore struct {
	client     *s3.Client
	bucket     string
	cdnBaseURL string
}

func NewBlobStore(ctx context.Context) (*BlobStore, error) {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	bucket := os.Getenv("R2_BUCKET_NAME")
	cdnBaseURL := os.Getenv("CDN_BASE_URL")
	if cdnBaseURL == "" {
		cdnBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	return &BlobStore{
		client:     s3.NewFromConfig(cfg),
		bucket:     bucket,
		cdnBaseURL: cdnBaseURL,
	}, nil
}

// Upload puts raw bytes under key and returns the public URL.
func (b *BlobStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to R2: %w", key, err)
	}
	return fmt.Sprintf("%s/%s", b.cdnBaseURL, key), nil
}

// ImageKey builds a collision-safe object key like
// "real/1700000000000-coastal-scene.jpg". The prefix segregates real
// and generated uploads; the millisecond timestamp keeps repeat ingests
// of the same source from colliding.
func ImageKey(prefix, sourceURL string) string {
	base := "image"
	if u, err := url.Parse(sourceURL); err == nil {
		if name := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path)); name != "" && name != "/" && name != "." {
			base = name
		}
	}
	return fmt.Sprintf("%s/%d-%s.jpg", prefix, time.Now().UnixMilli(), slug.Make(base))
}
