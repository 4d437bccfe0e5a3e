package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"audslp/pkg/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedPut struct {
	path         string
	body         string
	contentType  string
	cacheControl string
}

type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	puts    []recordedPut
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket := parts[0]

	switch {
	case r.Method == http.MethodHead && len(parts) == 1:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && len(parts) == 1:
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.puts = append(f.puts, recordedPut{
			path:         r.URL.Path,
			body:         string(body),
			contentType:  r.Header.Get("Content-Type"),
			cacheControl: r.Header.Get("Cache-Control"),
		})
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestClient(t *testing.T, fake *fakeS3) *Client {
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewClient(&config.Config{
		AWSRegion:          "us-east-1",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "test",
		AWSEndpoint:        srv.URL,
		S3UseSSL:           "false",
		S3BucketName:       "feeds",
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_CreatesMissingBucket(t *testing.T) {
	fake := &fakeS3{buckets: map[string]bool{}}
	newTestClient(t, fake)

	assert.True(t, fake.buckets["feeds"])
}

func TestPutDocument(t *testing.T) {
	fake := &fakeS3{buckets: map[string]bool{"feeds": true}}
	client := newTestClient(t, fake)

	url, err := client.PutDocument(context.Background(), "public/rss.xml", []byte("<rss/>"),
		"application/rss+xml; charset=utf-8", "public, max-age=1800, s-maxage=1800")
	require.NoError(t, err)

	require.Len(t, fake.puts, 1)
	put := fake.puts[0]
	assert.Equal(t, "/feeds/public/rss.xml", put.path)
	assert.Equal(t, "<rss/>", put.body)
	assert.Equal(t, "application/rss+xml; charset=utf-8", put.contentType)
	assert.Equal(t, "public, max-age=1800, s-maxage=1800", put.cacheControl)
	assert.True(t, strings.HasSuffix(url, "/feeds/public/rss.xml"), url)
	assert.True(t, strings.HasPrefix(url, "http://"), url)
}

func TestObjectURL_AWS(t *testing.T) {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String("ap-northeast-1"),
		Credentials: credentials.NewStaticCredentials("test", "test", ""),
	}))
	client := &Client{s3Client: s3.New(sess), bucket: "feeds"}

	assert.Equal(t, "https://feeds.s3.ap-northeast-1.amazonaws.com/robots.txt", client.ObjectURL("robots.txt"))
}
