package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"corporate-backend-refactor/pkg/utils"
)

// S3Store S3 兼容后端（AWS 或 MinIO），单桶，引用直接映射为对象键
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store 创建 S3 blob 存储
// 凭证走默认链（环境变量 / 共享配置）；Endpoint 非空时启用自定义端点。
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Store) Driver() Driver { return DriverS3 }

func (s *S3Store) put(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	_, err := s.client.PutObject(ctx, input)
	return err
}

func (s *S3Store) Upload(ctx context.Context, data []byte, contentType string) (Reference, error) {
	key, err := utils.GenerateObjectKey(24)
	if err != nil {
		return "", err
	}
	if err := s.put(ctx, key, data, contentType); err != nil {
		return "", err
	}
	return Reference(key), nil
}

func (s *S3Store) Replace(ctx context.Context, ref Reference, data []byte, contentType string) error {
	key := string(ref)
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
		return fmt.Errorf("blob %s not found", ref)
	}
	return s.put(ctx, key, data, contentType)
}

func (s *S3Store) Fetch(ctx context.Context, ref Reference) ([]byte, string, error) {
	key := string(ref)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		return nil, "", err
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", err
	}
	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return data, contentType, nil
}

func (s *S3Store) Delete(ctx context.Context, ref Reference) error {
	key := string(ref)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key})
	return err
}
