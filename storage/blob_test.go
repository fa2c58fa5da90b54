// SPDX-License-Identifier: EPL-2.0

package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// apiError implements smithy.APIError.
type apiError struct {
	code string
}

func (e *apiError) Error() string                 { return e.code }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

// mockS3 is an in-memory bucket.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMockS3() *mockS3 {
	return &mockS3{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, &apiError{code: "NoSuchKey"}
	}

	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}

	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*in.Key] = data
	if in.ContentType != nil {
		m.types[*in.Key] = *in.ContentType
	}

	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *in.Key)

	return &s3.DeleteObjectOutput{}, nil
}

func blobStores(t *testing.T) map[string]BlobStore {
	t.Helper()

	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	return map[string]BlobStore{
		"local":     local,
		"s3":        NewS3(newMockS3(), "bucket", ""),
		"s3 prefix": NewS3(newMockS3(), "bucket", "voice"),
	}
}

func TestBlobStore_Lifecycle(t *testing.T) {
	t.Parallel()

	for name, store := range blobStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := RecordingKey("abc", time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC))
			data := []byte("RIFF....WAVE")

			if err := store.Put(ctx, key, data, "audio/wav"); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := store.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Errorf("Get() = %q, want %q", got, data)
			}

			if err := store.Delete(ctx, key); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
			}
			if err := store.Delete(ctx, key); err != nil {
				t.Errorf("second Delete() error = %v, want nil", err)
			}
		})
	}
}

func TestBlobStore_InvalidKeys(t *testing.T) {
	t.Parallel()

	for name, store := range blobStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "/etc/passwd", "../escape", "a/../../b", `a\b`, "."} {
				if err := store.Put(context.Background(), key, nil, ""); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Put(%q) error = %v, want ErrInvalidKey", key, err)
				}
			}
		})
	}
}

func TestS3_PrefixAndContentType(t *testing.T) {
	t.Parallel()

	mock := newMockS3()
	store := NewS3(mock, "bucket", "voice")

	if err := store.Put(context.Background(), "recordings/a.wav", []byte{1}, "audio/wav"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok := mock.objects["voice/recordings/a.wav"]; !ok {
		t.Errorf("object keys = %v, want voice/recordings/a.wav", mock.objects)
	}
	if ct := mock.types["voice/recordings/a.wav"]; ct != "audio/wav" {
		t.Errorf("content type = %q, want audio/wav", ct)
	}
}

func TestS3_PutError(t *testing.T) {
	t.Parallel()

	mock := newMockS3()
	mock.putErr = &apiError{code: "AccessDenied"}

	err := NewS3(mock, "bucket", "").Put(context.Background(), "k", []byte{1}, "")
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) || apiErr.ErrorCode() != "AccessDenied" {
		t.Errorf("Put() error = %v, want wrapped AccessDenied", err)
	}
}

func TestNewS3Client(t *testing.T) {
	t.Parallel()

	c := NewS3Client(S3Config{Endpoint: "http://localhost:9000", AccessKeyID: "k", SecretAccessKey: "s"})
	if c == nil {
		t.Fatal("NewS3Client() = nil")
	}

	opts := c.Options()
	if !opts.UsePathStyle || opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://localhost:9000" {
		t.Errorf("custom endpoint not applied: path style %v, endpoint %v", opts.UsePathStyle, opts.BaseEndpoint)
	}
	if opts.Region != "auto" {
		t.Errorf("Region = %q, want auto", opts.Region)
	}
}

func TestRecordingKey(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 12, 31, 23, 59, 1, 0, time.FixedZone("X", 3600))
	want := "recordings/recording_20251231_225901_id1.wav"
	if got := RecordingKey("id1", at); got != want {
		t.Errorf("RecordingKey() = %q, want %q", got, want)
	}
}
