package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 30 * time.Second

// S3Config holds the connection settings of an S3 compatible bucket
type S3Config struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	PublicACL bool   `yaml:"public_acl"`
}

// Enabled reports whether enough settings are present to publish
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// S3Publisher uploads rendered frames to a bucket
type S3Publisher struct {
	Client    s3iface.S3API
	Bucket    string
	Prefix    string
	PublicACL bool
}

// NewS3Publisher creates a publisher backed by a new AWS session
func NewS3Publisher(cfg S3Config) (*S3Publisher, error) {
	if !cfg.Enabled() {
		return nil, errors.New("s3 bucket is not configured")
	}

	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return &S3Publisher{
		Client:    s3.New(sess),
		Bucket:    cfg.Bucket,
		Prefix:    cfg.Prefix,
		PublicACL: cfg.PublicACL,
	}, nil
}

// Key returns the object key a file name is stored under
func (p *S3Publisher) Key(name string) string {
	return path.Join(p.Prefix, name)
}

// Publish uploads data under the publisher's prefix and returns the object key.
// The content type is derived from the name's extension.
func (p *S3Publisher) Publish(ctx context.Context, name string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	key := p.Key(name)
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	}
	if p.PublicACL {
		input.ACL = aws.String(s3.ObjectCannedACLPublicRead)
	}

	if _, err := p.Client.PutObjectWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}
