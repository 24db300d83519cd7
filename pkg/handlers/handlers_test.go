package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stebinsabu13/fastlane/pkg/catalog"
	"github.com/stebinsabu13/fastlane/pkg/models"
)

const payload = `[
	{"id":"all","name":"All","variant":"v","icon":"i","type":"general"},
	{"id":"ferrari","name":"Scuderia Ferrari","variant":"v","icon":"i","type":"team"},
	{"id":"scale-1-43","name":"1:43","variant":"v","icon":"i","type":"scale"}
]`

func newLoader(t *testing.T, hits *int32) *catalog.Loader {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	return catalog.NewLoader(catalog.NewHTTPSource(srv.Client(), srv.URL, ""), catalog.WithLogger(quiet))
}

func query(params map[string]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, QueryStringParameters: params}
}

func TestHandleCategories(t *testing.T) {
	var hits int32
	api := NewAPI(newLoader(t, &hits))
	ctx := context.Background()

	resp, err := api.HandleCategories(ctx, query(nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var all struct {
		Categories []models.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &all))
	assert.Len(t, all.Categories, 3)

	resp, err = api.HandleCategories(ctx, query(map[string]string{"type": "team"}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &all))
	require.Len(t, all.Categories, 1)
	assert.Equal(t, "ferrari", all.Categories[0].ID)

	resp, err = api.HandleCategories(ctx, query(map[string]string{"id": "scale-1-43"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, `"name":"1:43"`)

	resp, err = api.HandleCategories(ctx, query(map[string]string{"id": "williams"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = api.HandleCategories(ctx, query(map[string]string{"type": "sponsor"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = api.HandleCategories(ctx, query(map[string]string{"view": "counts"}))
	require.NoError(t, err)
	var counts map[string]int
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &counts))
	assert.Equal(t, map[string]int{"general": 1, "team": 1, "manufacturer": 0, "scale": 1, "driver": 0}, counts)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "catalog is loaded once per cold start")
}

func TestCatalogUpdated(t *testing.T) {
	var hits int32
	loader := newLoader(t, &hits)
	h := &CatalogUpdated{Loader: loader, Bucket: "fastlane-static", Key: "data/categories.json"}

	event := events.S3Event{Records: []events.S3EventRecord{
		{S3: events.S3Entity{Bucket: events.S3Bucket{Name: "fastlane-static"}, Object: events.S3Object{Key: "images/rb19.png"}}},
	}}
	require.NoError(t, h.Handle(context.Background(), event))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	assert.Empty(t, loader.Categories())

	event.Records = append(event.Records, events.S3EventRecord{
		S3: events.S3Entity{Bucket: events.S3Bucket{Name: "fastlane-static"}, Object: events.S3Object{Key: "data/categories.json"}},
	})
	require.NoError(t, h.Handle(context.Background(), event))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Len(t, loader.Categories(), 3)
}

func TestHandleCategoriesRetriesAfterFallback(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, payload)
	}))
	defer srv.Close()

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	api := NewAPI(catalog.NewLoader(catalog.NewHTTPSource(srv.Client(), srv.URL, ""), catalog.WithLogger(quiet)))
	ctx := context.Background()

	resp, err := api.HandleCategories(ctx, query(nil))
	require.NoError(t, err)
	assert.Contains(t, resp.Body, catalog.LoadFailedMessage)

	resp, err = api.HandleCategories(ctx, query(nil))
	require.NoError(t, err)
	assert.NotContains(t, resp.Body, `"error"`)
	var all struct {
		Categories []models.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &all))
	assert.Len(t, all.Categories, 3)

	_, err = api.HandleCategories(ctx, query(nil))
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "no reload once the remote catalog is served")
}
