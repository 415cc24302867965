/* Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 */
package s3cache

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/gregjones/httpcache/test"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput,
	optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput,
	optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {

	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context,
	params *s3.DeleteObjectInput,
	optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Cache(t *testing.T) {
	cache := New(context.Background(), newFakeS3(), "club", "webcache",
		false, true)
	test.Cache(t, cache)
}

func TestS3CacheWithGzip(t *testing.T) {
	fake := newFakeS3()
	cache := New(context.Background(), fake, "club", "/webcache/", true, true)
	test.Cache(t, cache)

	cache.Set("https://example.com/june/runde1.txt", []byte("Alice-Bob;3-1\n"))
	for key, data := range fake.objects {
		if !strings.HasPrefix(key, "club/webcache/s3cache/") ||
			!strings.HasSuffix(key, ".gz") {

			t.Errorf("unexpected object key %v", key)
		}
		if !bytes.HasPrefix(data, []byte{0x1f, 0x8b}) {
			t.Errorf("object %v stored uncompressed", key)
		}
	}
}

func TestOpenInvalidLocation(t *testing.T) {
	for _, loc := range []string{"", "/tmp/cache", "s3:///cache",
		"https://example.com/cache"} {

		if _, err := Open(context.Background(), loc); err == nil {
			t.Errorf("Open(%q): expected error", loc)
		}
	}
}
