/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/swisstd/swiss"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput,
		optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput,
		optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps a tournament under a key prefix of an S3 bucket.
type S3Store struct {
	client      S3API
	bucket      string
	prefix      string
	concurrency int
}

// NewS3Store returns an S3Store using the default AWS configuration
// sources:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
func NewS3Store(ctx context.Context, bucket string, prefix string,
	concurrency int) (*S3Store, error) {

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3store: failed to load AWS config: %w", err)
	}

	return NewS3StoreWithClient(s3.NewFromConfig(cfg), bucket, prefix,
		concurrency), nil
}

// NewS3StoreWithClient returns an S3Store that talks to S3 through client.
func NewS3StoreWithClient(client S3API, bucket string, prefix string,
	concurrency int) *S3Store {

	if concurrency <= 0 {
		concurrency = 1
	}
	return &S3Store{
		client:      client,
		bucket:      bucket,
		prefix:      strings.Trim(prefix, "/"),
		concurrency: concurrency,
	}
}

func (s *S3Store) Location() string {
	if s.prefix == "" {
		return fmt.Sprintf("s3://%v", s.bucket)
	}
	return fmt.Sprintf("s3://%v/%v", s.bucket, s.prefix)
}

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Store) get(ctx context.Context,
	name string) ([]byte, *s3.GetObjectOutput, error) {

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	}
	resp, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("s3store.get: failed to get object %v/%v: %w",
			s.bucket, *input.Key, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, nil, fmt.Errorf("s3store.get: failed to read object %v/%v: %w",
			s.bucket, *input.Key, err)
	}

	return buf.Bytes(), resp, nil
}

func (s *S3Store) LoadRoster(ctx context.Context) ([]string, error) {
	data, _, err := s.get(ctx, RosterFileName)
	if err != nil {
		return nil, err
	}
	return ParseRoster(bytes.NewReader(data))
}

type s3RoundObject struct {
	number int
	name   string
}

func (s *S3Store) listRounds(ctx context.Context) ([]s3RoundObject, error) {
	listPrefix := ""
	if s.prefix != "" {
		listPrefix = s.prefix + "/"
	}

	var objs []s3RoundObject
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(listPrefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3store.list: list objects failed for %v: %w",
				s.Location(), err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), listPrefix)
			n, ok, err := ParseRoundFileName(name)
			if !ok {
				continue
			}
			if err != nil {
				return nil, err
			}
			objs = append(objs, s3RoundObject{number: n, name: name})
		}
	}
	sort.Slice(objs, func(i, j int) bool {
		return objs[i].number < objs[j].number
	})

	return objs, nil
}

func (s *S3Store) LoadRounds(ctx context.Context) ([]swiss.Round, error) {
	objs, err := s.listRounds(ctx)
	if err != nil {
		return nil, err
	}

	rounds := make([]swiss.Round, len(objs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for idx, obj := range objs {
		g.Go(func() error {
			data, resp, err := s.get(gctx, obj.name)
			if err != nil {
				return err
			}
			r, err := ParseRound(obj.number, bytes.NewReader(data))
			if err != nil {
				return err
			}
			r.Posted = aws.ToTime(resp.LastModified)
			rounds[idx] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rounds, nil
}

// AppendRound uploads r with a conditional put so an existing round object
// is never replaced.
func (s *S3Store) AppendRound(ctx context.Context, r swiss.Round) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(RoundFileName(r.Number))),
		Body:        bytes.NewReader(FormatRound(r)),
		ContentType: aws.String("text/plain; charset=utf-8"),
		IfNoneMatch: aws.String("*"),
	}

	_, err := s.client.PutObject(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "PreconditionFailed", "ConditionalRequestConflict":
				return &swiss.DuplicateRoundError{Round: r.Number,
					Location: fmt.Sprintf("s3://%v/%v", s.bucket, *input.Key)}
			}
		}
		return fmt.Errorf("s3store.put: put failed for %v/%v: %w", s.bucket,
			*input.Key, err)
	}

	return nil
}
