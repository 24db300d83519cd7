package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
)

const DefaultPath = "/data/categories.json"

// Source fetches the raw categories document.
type Source interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// StatusError reports a non-2xx response from the catalog host.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

type HTTPSource struct {
	Client  *http.Client
	BaseURL string
	Path    string
}

func NewHTTPSource(client *http.Client, baseURL, path string) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	if path == "" {
		path = DefaultPath
	}
	return &HTTPSource{Client: client, BaseURL: baseURL, Path: path}
}

func (s *HTTPSource) URL() string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(s.Path, "/")
}

func (s *HTTPSource) Fetch(ctx context.Context) (io.ReadCloser, error) {
	url := s.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

// S3Source reads the categories document from an S3 bucket.
type S3Source struct {
	Client s3iface.S3API
	Bucket string
	Key    string
}

func NewS3Source(client s3iface.S3API, bucket, key string) *S3Source {
	return &S3Source{Client: client, Bucket: bucket, Key: key}
}

func (s *S3Source) Fetch(ctx context.Context) (io.ReadCloser, error) {
	result, err := s.Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get object %s from bucket %s", s.Key, s.Bucket)
	}
	return result.Body, nil
}
