// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// uploading, deleting, and addressing media files. It wraps the AWS SDK v2
// and is configured for path-style access so it works against R2, MinIO,
// CEPH and AWS alike.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// maxDeleteBatch is the DeleteObjects per-request key limit.
const maxDeleteBatch = 1000

// Options configures a Client.
type Options struct {
	Endpoint  string // empty means AWS S3
	Region    string
	AccessKey string // empty means the default AWS credential chain
	SecretKey string
	Bucket    string
	PublicURL string // optional CDN or custom domain serving the bucket
	Policy    *Policy
}

// Object describes a stored file.
type Object struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// DeleteResult reports the outcome of a batch delete per key.
type DeleteResult struct {
	Deleted []string
	Failed  map[string]string // key -> reason
}

// Err folds per-key failures into a single error, or nil if every key was deleted.
func (r DeleteResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	var errs []error
	for key, reason := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %s", key, reason))
	}
	return errors.Join(errs...)
}

// Client wraps an S3 client bound to one bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string
	policy    *Policy
	now       func() time.Time
}

// New creates a storage client. Static credentials are used when an access
// key is configured; otherwise the default AWS chain (env, shared config,
// instance role) is loaded.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	if opts.Policy == nil {
		opts.Policy = DefaultPolicy()
	}

	endpoint := strings.TrimRight(opts.Endpoint, "/")

	var s3Client *s3.Client
	if opts.AccessKey != "" {
		s3Client = s3.New(s3.Options{
			Region:                     opts.Region,
			Credentials:                credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
			UsePathStyle:               true,
			RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
			ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
		}, withEndpoint(endpoint))
	} else {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
		if err != nil {
			return nil, fmt.Errorf("storage: load aws config: %w", err)
		}
		s3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.UsePathStyle = true
		}, withEndpoint(endpoint))
	}

	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", opts.Region)
	}

	return &Client{
		s3:        s3Client,
		bucket:    opts.Bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(opts.PublicURL, "/"),
		policy:    opts.Policy,
		now:       time.Now,
	}, nil
}

func withEndpoint(endpoint string) func(*s3.Options) {
	return func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}
}

// Upload checks data against the upload policy and stores it under a fresh
// key. Policy violations are returned as errors wrapping ErrPolicy and
// nothing is written.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (*Object, error) {
	contentType, ext, err := c.policy.Check(filename, data)
	if err != nil {
		return nil, err
	}

	key := NewKey(c.now(), ext)
	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}

	return &Object{
		URL:         c.FileURL(key),
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// DeleteFiles removes the given keys with batched DeleteObjects calls.
// Deleting a key that does not exist counts as success. The returned error
// is non-nil only when a request as a whole failed; per-key failures are
// reported in DeleteResult.Failed.
func (c *Client) DeleteFiles(ctx context.Context, keys ...string) (DeleteResult, error) {
	res := DeleteResult{Failed: map[string]string{}}

	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(keys))
		batch := keys[start:end]

		objects := make([]s3types.ObjectIdentifier, len(batch))
		for i, k := range batch {
			objects[i] = s3types.ObjectIdentifier{Key: aws.String(k)}
		}

		out, err := c.s3.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(c.bucket),
			Delete: &s3types.Delete{Objects: objects, Quiet: aws.Bool(false)},
		})
		if err != nil {
			for _, k := range keys[start:] {
				res.Failed[k] = err.Error()
			}
			return res, fmt.Errorf("s3 delete objects: %w", err)
		}

		for _, d := range out.Deleted {
			res.Deleted = append(res.Deleted, aws.ToString(d.Key))
		}
		for _, e := range out.Errors {
			res.Failed[aws.ToString(e.Key)] = aws.ToString(e.Code) + ": " + aws.ToString(e.Message)
		}
	}
	return res, nil
}

// FileURL returns the public URL for a key.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// ExtractKey recovers the storage key from a file URL. URLs served by this
// client map back to their full key; anything else goes through the
// generic rules of KeyFromURL.
func (c *Client) ExtractKey(rawURL string) (string, bool) {
	clean := stripQuery(rawURL)

	if c.publicURL != "" {
		if key, ok := strings.CutPrefix(clean, c.publicURL+"/"); ok && key != "" {
			return key, true
		}
	}
	if key, ok := strings.CutPrefix(clean, c.endpoint+"/"+c.bucket+"/"); ok && key != "" {
		return key, true
	}

	return KeyFromURL(rawURL)
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}
