// Package s3provider is an S3-backed storage.Provider. Grounded on dittofs's
// pkg/blocks/store/s3: aws-sdk-go-v2 client, key prefixing, full-object reads.
package s3provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/chunkvault/chunkvault/pkg/chunkerr"
)

// Config configures a Provider.
type Config struct {
	ProviderID     string
	Bucket         string
	Region         string
	Endpoint       string
	KeyPrefix      string
	ForcePathStyle bool
}

// Provider is an S3-backed storage.Provider.
type Provider struct {
	id        string
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// New wraps an existing S3 client.
func New(client *s3.Client, cfg Config) *Provider {
	return &Provider{
		id:        cfg.ProviderID,
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}
}

// NewFromConfig builds an S3 client from cfg and the AWS default credential
// chain, then wraps it.
func NewFromConfig(ctx context.Context, cfg Config) (*Provider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &chunkerr.StorageError{ProviderID: cfg.ProviderID, Op: "new", Cause: fmt.Errorf("load aws config: %w", err)}
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.BaseEndpoint = aws.String(cfg.Endpoint) })
	}
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.UsePathStyle = true })
	}

	return New(s3.NewFromConfig(awsCfg, s3Opts...), cfg), nil
}

func (p *Provider) ProviderID() string { return p.id }
func (p *Provider) Kind() string       { return "s3" }

func (p *Provider) fullKey(key string) string { return p.keyPrefix + key }

func (p *Provider) WriteChunk(ctx context.Context, key string, r io.Reader, correlationID string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &chunkerr.StorageError{ProviderID: p.id, Op: "write_chunk", Cause: err}
	}

	fullKey := p.fullKey(key)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(fullKey),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", &chunkerr.StorageError{ProviderID: p.id, Op: "write_chunk", Cause: err}
	}
	return fullKey, nil
}

func (p *Provider) ReadChunk(ctx context.Context, key, storagePath, correlationID string) (io.ReadCloser, error) {
	resp, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(storagePath),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, &chunkerr.NotFoundError{Kind: "chunk", ID: key}
		}
		return nil, &chunkerr.StorageError{ProviderID: p.id, Op: "read_chunk", Cause: err}
	}
	return resp.Body, nil
}

func (p *Provider) ChunkExists(ctx context.Context, key, storagePath, correlationID string) (bool, error) {
	_, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(storagePath),
	})
	if err == nil {
		return true, nil
	}
	if isNotFoundError(err) {
		return false, nil
	}
	return false, &chunkerr.StorageError{ProviderID: p.id, Op: "chunk_exists", Cause: err}
}

func (p *Provider) DeleteChunk(ctx context.Context, key, storagePath, correlationID string) (bool, error) {
	exists, err := p.ChunkExists(ctx, key, storagePath, correlationID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	_, err = p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(storagePath),
	})
	if err != nil {
		return false, &chunkerr.StorageError{ProviderID: p.id, Op: "delete_chunk", Cause: err}
	}
	return true, nil
}

// HealthCheck verifies the bucket is reachable.
func (p *Provider) HealthCheck(ctx context.Context) error {
	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(p.bucket)})
	if err != nil {
		return fmt.Errorf("s3provider health check: %w", err)
	}
	return nil
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "NoSuchKey") || strings.Contains(s, "NotFound") || strings.Contains(s, "404")
}

