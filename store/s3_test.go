/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/mikeb26/swisstd/swiss"
)

// fakeS3 is an in-memory bucket that pages listings two keys at a time.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	posted  time.Time
	putErr  error
}

func newFakeS3(objects map[string]string) *fakeS3 {
	f := &fakeS3{objects: make(map[string][]byte),
		posted: time.Date(2025, 6, 12, 19, 3, 0, 0, time.UTC)}
	for k, v := range objects {
		f.objects[k] = []byte(v)
	}
	return f
}

func (f *fakeS3) ListObjectsV2(ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := aws.ToString(params.Prefix)
	var keys []string
	for k := range f.objects {
		rest, ok := strings.CutPrefix(k, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if params.ContinuationToken != nil {
		start, _ = strconv.Atoi(*params.ContinuationToken)
	}
	end := min(start+2, len(keys))
	out := &s3.ListObjectsV2Output{}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(k),
			LastModified: aws.Time(f.posted)})
	}
	if end < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}

	return out, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput,
	optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{
		Body:         io.NopCloser(bytes.NewReader(data)),
		LastModified: aws.Time(f.posted),
	}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput,
	optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {

	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := aws.ToString(params.Key)
	if _, exists := f.objects[key]; exists &&
		aws.ToString(params.IfNoneMatch) == "*" {

		return nil, &smithy.GenericAPIError{Code: "PreconditionFailed"}
	}
	f.objects[key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3StoreLoad(t *testing.T) {
	fake := newFakeS3(map[string]string{
		"events/june/participants.txt": "Alice\nBob\nCarol\n",
		"events/june/runde1.txt":       "Alice-Bob;3-1\nCarol-BYE;4-0\n",
		"events/june/runde2.txt":       "Carol-Alice;2-2\nBob-BYE;4-0\n",
		"events/june/runde3.txt":       "Alice-BYE;4-0\nBob-Carol;0-4\n",
		"events/june/old/runde9.txt":   "ignored",
		"events/july/runde1.txt":       "ignored",
	})
	st := NewS3StoreWithClient(fake, "club", "/events/june/", 2)
	ctx := context.Background()

	if st.Location() != "s3://club/events/june" {
		t.Errorf("unexpected location %v", st.Location())
	}

	roster, err := st.LoadRoster(ctx)
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}
	if len(roster) != 3 {
		t.Errorf("unexpected roster %q", roster)
	}

	rounds, err := st.LoadRounds(ctx)
	if err != nil {
		t.Fatalf("LoadRounds: %v", err)
	}
	if len(rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %+v", rounds)
	}
	for i, r := range rounds {
		if r.Number != i+1 {
			t.Errorf("round %v out of order: %v", i, r.Number)
		}
		if !r.Posted.Equal(fake.posted) {
			t.Errorf("round %v posted %v", r.Number, r.Posted)
		}
	}

	tourney, err := swiss.NewTournament(roster, rounds)
	if err != nil {
		t.Fatalf("NewTournament: %v", err)
	}
	if tourney.Score("Carol") != 10 {
		t.Errorf("expected Carol on 10, got %v", tourney.Score("Carol"))
	}
}

func TestS3StoreAppendRound(t *testing.T) {
	fake := newFakeS3(map[string]string{
		"participants.txt": "Alice\nBob\n",
	})
	st := NewS3StoreWithClient(fake, "club", "", 4)
	ctx := context.Background()

	r := swiss.Round{Number: 1, Matches: []swiss.Match{
		{Player1: "Alice", Player2: "Bob"},
	}}
	if err := st.AppendRound(ctx, r); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}
	if string(fake.objects["runde1.txt"]) != "Alice-Bob;0-0\n" {
		t.Errorf("unexpected object %q", fake.objects["runde1.txt"])
	}

	err := st.AppendRound(ctx, r)
	var dupErr *swiss.DuplicateRoundError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateRoundError, got %v", err)
	}
	if dupErr.Location != "s3://club/runde1.txt" {
		t.Errorf("unexpected location %v", dupErr.Location)
	}

	fake.putErr = &smithy.GenericAPIError{Code: "AccessDenied"}
	r.Number = 2
	err = st.AppendRound(ctx, r)
	if err == nil || errors.As(err, &dupErr) {
		t.Errorf("expected plain put failure, got %v", err)
	}
}

func TestS3StoreBadRoundName(t *testing.T) {
	fake := newFakeS3(map[string]string{
		"participants.txt": "Alice\nBob\n",
		"runde1.txt":       "Alice-Bob;3-1\n",
		"runde1.txt~":      "Alice-Bob;3-1\n",
	})
	_, err := NewS3StoreWithClient(fake, "club", "", 4).LoadRounds(
		context.Background())
	var numErr *swiss.RoundNumberingError
	if !errors.As(err, &numErr) {
		t.Errorf("expected RoundNumberingError, got %v", err)
	}
}
