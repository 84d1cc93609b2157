// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// media files and gated attachments. It wraps the AWS SDK v2 and is
// configured for path-style access (required by CEPH/Hetzner).
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client wraps an S3 client for two buckets: media (public-read, served
// directly or via CDN) and attachments (private, served via presigned
// URLs so book and course downloads can be gated).
type Client struct {
	s3            *s3.Client
	presigner     *s3.PresignClient
	mediaBucket   string
	privateBucket string
	endpoint      string
	publicURL     string // optional CDN/direct URL for media files
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage.
func New(endpoint, region, accessKey, secretKey, mediaBucket, privateBucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:            s3Client,
		presigner:     s3.NewPresignClient(s3Client),
		mediaBucket:   mediaBucket,
		privateBucket: privateBucket,
		endpoint:      endpoint,
		publicURL:     strings.TrimRight(publicURL, "/"),
	}, nil
}

// UploadMedia stores an object in the media bucket with a public-read
// ACL so it can be served directly.
func (c *Client) UploadMedia(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.mediaBucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", c.mediaBucket, key, err)
	}
	return nil
}

// UploadAttachment stores an object in the private bucket. Attachments
// are only reachable through presigned URLs.
func (c *Client) UploadAttachment(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.privateBucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", c.privateBucket, key, err)
	}
	return nil
}

// DeleteMedia removes an object from the media bucket.
func (c *Client) DeleteMedia(ctx context.Context, key string) error {
	return c.delete(ctx, c.mediaBucket, key)
}

// DeleteAttachment removes an object from the private bucket.
func (c *Client) DeleteAttachment(ctx context.Context, key string) error {
	return c.delete(ctx, c.privateBucket, key)
}

func (c *Client) delete(ctx context.Context, bucket, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// MediaBucket returns the name of the public media bucket.
func (c *Client) MediaBucket() string { return c.mediaBucket }

// PrivateBucket returns the name of the private attachment bucket.
func (c *Client) PrivateBucket() string { return c.privateBucket }

// MediaURL returns the public URL for a file in the media bucket.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) MediaURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.mediaBucket + "/" + key
}

// AttachmentURL generates a pre-signed GET URL for a private object.
// The URL is valid for the specified duration (max 7 days per S3 spec).
func (c *Client) AttachmentURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.privateBucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", c.privateBucket, key, err)
	}
	return req.URL, nil
}
