/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 *
 * Package s3store keeps objects in an Amazon S3 bucket. A Store serves two
 * roles: it implements httpcache.Cache (hashed keys under the "s3cache"
 * prefix, errors logged and swallowed) for the registration fetcher, and it
 * offers context aware Read/Write/Remove/List on plain keys for persisting
 * bracket draws. The cache half descends from
 * github.com/sourcegraph/s3cache.
 */
package s3store

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ErrNotFound is returned by Read when no object exists under the key.
var ErrNotFound = errors.New("s3store: object not found")

// ObjectAPI is the subset of *s3.Client used by Store.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput,
		optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput,
		optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput,
		optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput,
		optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Store objects store and retrieve data using Amazon S3.
type Store struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is used for every S3 request. Init() sets it from the default
	// AWS config unless the caller already assigned one.
	Client ObjectAPI

	bucketName string

	// gzip compresses objects on write and decompresses on read; object keys
	// gain a ".gz" suffix.
	gzip bool

	logErrors bool

	// ctx is used by the httpcache.Cache methods, which take no context
	ctx context.Context
}

// New returns a Store backed by bucketName. Callers should invoke Init()
// before use unless they supply their own Client.
func New(ctxIn context.Context, bucketNameIn string, gzipIn bool,
	logErrorsIn bool) *Store {

	return &Store{
		ctx:        ctxIn,
		bucketName: bucketNameIn,
		gzip:       gzipIn,
		logErrors:  logErrorsIn,
	}
}

// Init loads the default AWS configuration (environment variables, then
// shared config and credentials files) when no Client was provided and
// verifies the bucket is reachable and listable.
func (s *Store) Init() error {
	if s.Client == nil {
		var err error
		s.Config, err = config.LoadDefaultConfig(s.ctx)
		if err != nil {
			return fmt.Errorf("s3store.init: failed to load AWS config: %w", err)
		}
		s.Client = s3.NewFromConfig(s.Config)
	}

	if _, err := s.Client.HeadBucket(s.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	}); err != nil {
		return fmt.Errorf("s3store.init: head bucket failed for %s: %w",
			s.bucketName, err)
	}

	if _, err := s.Client.ListObjectsV2(s.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucketName),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3store.init: list objects failed for %s: %w",
			s.bucketName, err)
	}

	return nil
}

func (s *Store) Bucket() string { return s.bucketName }

// Read returns the object stored under key or ErrNotFound.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
	}

	resp, err := s.Client.GetObject(ctx, input)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3store.read: failed to get object %v/%v: %w",
			*input.Bucket, *input.Key, err)
	}
	defer resp.Body.Close()

	rdr := resp.Body
	if s.gzip {
		rdr, err = gzip.NewReader(rdr)
		if err != nil {
			return nil, fmt.Errorf("s3store.read: failed to open compressed object %v/%v: %w",
				*input.Bucket, *input.Key, err)
		}
		defer rdr.Close()
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("s3store.read: failed to read object %v/%v: %w",
			*input.Bucket, *input.Key, err)
	}

	return data, nil
}

// Write stores data under key, replacing any existing object.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
		Body:   bytes.NewReader(data),
	}

	if s.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("s3store.write: failed to gzip data for %v/%v: %w",
				*input.Bucket, *input.Key, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("s3store.write: failed to close gzip writer for %v/%v: %w",
				*input.Bucket, *input.Key, err)
		}
		input.Body = bytes.NewReader(buf.Bytes())
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := s.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3store.write: put failed for %v/%v: %w",
			*input.Bucket, *input.Key, err)
	}

	return nil
}

// Remove deletes the object under key. Removing a missing key is not an
// error.
func (s *Store) Remove(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
	}

	if _, err := s.Client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("s3store.remove: delete failed for %v/%v: %w",
			*input.Bucket, *input.Key, err)
	}

	return nil
}

// List returns the keys beginning with prefix, as passed to Write.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	}
	for {
		resp, err := s.Client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("s3store.list: list failed for %v/%v: %w",
				s.bucketName, prefix, err)
		}
		for _, obj := range resp.Contents {
			keys = append(keys, s.plainKey(aws.ToString(obj.Key)))
		}
		if !aws.ToBool(resp.IsTruncated) {
			break
		}
		input.ContinuationToken = resp.NextContinuationToken
	}

	return keys, nil
}

// Get implements httpcache.Cache.
func (s *Store) Get(key string) ([]byte, bool) {
	data, err := s.Read(s.ctx, cacheKey(key))
	if err != nil {
		if s.logErrors && !errors.Is(err, ErrNotFound) {
			log.Printf("s3store.get: %v", err)
		}
		return []byte{}, false
	}

	return data, true
}

// Set implements httpcache.Cache.
func (s *Store) Set(key string, data []byte) {
	if err := s.Write(s.ctx, cacheKey(key), data); err != nil && s.logErrors {
		log.Printf("s3store.set: %v", err)
	}
}

// Delete implements httpcache.Cache.
func (s *Store) Delete(key string) {
	if err := s.Remove(s.ctx, cacheKey(key)); err != nil && s.logErrors {
		log.Printf("s3store.delete: %v", err)
	}
}

// cacheKey maps an httpcache key (a URL) onto a fixed length object name.
func cacheKey(key string) string {
	const PathPrefix = "s3cache"

	h := md5.New()
	io.WriteString(h, key)

	return fmt.Sprintf("%v/%v", PathPrefix, hex.EncodeToString(h.Sum(nil)))
}

func (s *Store) objectKey(key string) string {
	if s.gzip {
		return key + ".gz"
	}
	return key
}

func (s *Store) plainKey(objKey string) string {
	if s.gzip {
		return strings.TrimSuffix(objKey, ".gz")
	}
	return objKey
}

func isNoSuchKey(err error) bool {
	var apiErr smithy.APIError
	// no such key just indicates a miss
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey"
}
