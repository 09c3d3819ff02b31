package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-prosoft/eventseed/aws/s3/s3types"
	"github.com/alpha-prosoft/eventseed/errors"
)

func TestAggregateKey(t *testing.T) {
	assert.Equal(t,
		"aggregates/event-tournament-svc/prod/3f1c.json",
		AggregateKey("event-tournament-svc", "prod", "3f1c"),
	)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	found, err := m.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	data := []byte("one")
	require.NoError(t, m.Put(ctx, "k", data))
	data[0] = 'X'

	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "one", string(got))

	found, err = m.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"k"}, m.Keys())
	assert.Equal(t, "memory://k", m.Location("k"))
}

func TestMemory_OverwriteReplacesUnrelatedContent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	key := AggregateKey("svc", "prod", "e1")

	require.NoError(t, m.Put(ctx, key, []byte(`{"written-by":"service","extra":[1,2,3]}`)))
	require.NoError(t, m.Put(ctx, key, []byte(`{"id":"#e1"}`)))

	got, _ := m.Get(key)
	assert.Equal(t, `{"id":"#e1"}`, string(got))
	assert.Equal(t, 2, m.Puts())
}

type fakeS3 struct {
	exists    bool
	existsErr error
	putErr    error

	bucket      string
	key         string
	data        []byte
	contentType string
}

func (f *fakeS3) Exists(_ context.Context, bucket, key string) (bool, error) {
	f.bucket, f.key = bucket, key
	return f.exists, f.existsErr
}

func (f *fakeS3) Put(_ context.Context, bucket, key string, data []byte, opts ...s3types.UploadOption) error {
	cfg := &s3types.UploadOptionConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	f.bucket, f.key, f.data, f.contentType = bucket, key, data, cfg.ContentType
	return f.putErr
}

func TestS3(t *testing.T) {
	ctx := context.Background()
	key := AggregateKey("svc", "prod", "e1")

	t.Run("exists", func(t *testing.T) {
		fake := &fakeS3{exists: true}
		s := NewS3(fake, "bucket-a")
		found, err := s.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "bucket-a", fake.bucket)
		assert.Equal(t, key, fake.key)
	})

	t.Run("put sets json content type", func(t *testing.T) {
		fake := &fakeS3{}
		s := NewS3(fake, "bucket-a")
		require.NoError(t, s.Put(ctx, key, []byte("{}")))
		assert.Equal(t, ContentType, fake.contentType)
		assert.Equal(t, "{}", string(fake.data))
	})

	t.Run("failures map to store access", func(t *testing.T) {
		cause := stderrors.New("s3.exists: access denied")
		s := NewS3(&fakeS3{existsErr: cause, putErr: cause}, "bucket-a")

		_, err := s.Exists(ctx, key)
		assert.True(t, errors.HasCode(err, errors.CodeStoreAccess))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "s3://bucket-a/"+key)

		err = s.Put(ctx, key, nil)
		assert.True(t, errors.HasCode(err, errors.CodeStoreAccess))
	})
}

// fakeS3Server answers the HEAD and PUT object requests minio-go issues.
type fakeS3Server struct {
	mu      sync.Mutex
	objects  map[string][]byte
	types    map[string]string
	denied   map[string]bool
	failing  map[string]bool
	requests map[string]int
}

func (f *fakeS3Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	if f.requests != nil {
		f.requests[path]++
	}
	if f.failing[path] {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if f.denied[path] {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	switch r.Method {
	case http.MethodHead:
		data, ok := f.objects[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(data)))
		w.Header().Set("Content-Type", f.types[path])
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.objects[path] = data
		f.types[path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestMinIO(t *testing.T) {
	fake := &fakeS3Server{
		objects: map[string][]byte{},
		types:   map[string]string{},
		denied:  map[string]bool{"bucket-a/denied.json": true},
	}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	m, err := NewMinIO(MinIOOptions{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "test",
		SecretKey: "test",
		Region:    "us-east-1",
	}, "bucket-a")
	require.NoError(t, err)

	ctx := context.Background()
	key := AggregateKey("svc", "prod", "e1")

	found, err := m.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Put(ctx, key, []byte(`{"id":"#e1"}`)))
	assert.Contains(t, string(fake.objects["bucket-a/"+key]), `{"id":"#e1"}`)
	assert.Equal(t, ContentType, fake.types["bucket-a/"+key])

	found, err = m.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = m.Exists(ctx, "denied.json")
	assert.True(t, errors.HasCode(err, errors.CodeStoreAccess), "got %v", err)

	assert.Equal(t, srv.URL+"/bucket-a/"+key, m.Location(key))
}

func TestMinIO_SingleAttempt(t *testing.T) {
	fake := &fakeS3Server{
		objects:  map[string][]byte{},
		types:    map[string]string{},
		failing:  map[string]bool{"bucket-a/busy.json": true},
		requests: map[string]int{},
	}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	m, err := NewMinIO(MinIOOptions{
		Endpoint:   strings.TrimPrefix(srv.URL, "http://"),
		AccessKey:  "test",
		SecretKey:  "test",
		Region:     "us-east-1",
		MaxRetries: 1,
	}, "bucket-a")
	require.NoError(t, err)

	err = m.Put(context.Background(), "busy.json", []byte(`{}`))
	assert.True(t, errors.HasCode(err, errors.CodeStoreAccess), "got %v", err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, 1, fake.requests["bucket-a/busy.json"])
}
