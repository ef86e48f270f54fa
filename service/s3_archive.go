package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"rta-kabinets/quote"
)

// S3Archive holds what S3Saver needs to reach a bucket
type S3Archive struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // optional, e.g. a MinIO URL
	PathStyle bool
}

// ObjectPutter is the subset of *s3.Client used to archive quotes
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Saver archives generated quotes as objects in an S3-compatible bucket
type S3Saver struct {
	client ObjectPutter
	bucket string
	prefix string
}

var _ quote.Saver = (*S3Saver)(nil)

// NewS3Saver loads AWS credentials from the default chain and builds the client
func NewS3Saver(ctx context.Context, cfg S3Archive) (*S3Saver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3SaverWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3SaverWithClient wraps an existing client
func NewS3SaverWithClient(client ObjectPutter, bucket, prefix string) *S3Saver {
	return &S3Saver{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Key is the object key a quote named name is stored under
func (s *S3Saver) Key(name string) string {
	return path.Join(s.prefix, quote.NormalizeName(name))
}

func (s *S3Saver) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := s.Key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put s3://%s/%s: %w", s.bucket, key, err)
	}
	zap.S().Debugf("☁️  S3 upload: s3://%s/%s (%d bytes)", s.bucket, key, len(data))
	return "s3://" + s.bucket + "/" + key, nil
}
