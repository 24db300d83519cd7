package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/aws/aws-lambda-go/events"
	log "github.com/sirupsen/logrus"

	"github.com/stebinsabu13/fastlane/pkg/catalog"
	"github.com/stebinsabu13/fastlane/pkg/models"
)

// API serves category queries behind API Gateway. The catalog is loaded on
// the first request and reloaded on later ones while it is in fallback.
type API struct {
	Loader *catalog.Loader
	loaded atomic.Bool
}

func NewAPI(loader *catalog.Loader) *API {
	return &API{Loader: loader}
}

type categoriesResponse struct {
	Categories []models.Category `json:"categories"`
	Error      string            `json:"error,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (a *API) HandleCategories(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if !a.loaded.Load() || a.Loader.Err() != "" {
		a.Loader.Load(ctx)
		a.loaded.Store(true)
	}

	params := req.QueryStringParameters
	if id := params["id"]; id != "" {
		category, ok := a.Loader.CategoryByID(id)
		if !ok {
			return respond(http.StatusNotFound, errorResponse{Message: "category not found"})
		}
		return respond(http.StatusOK, category)
	}

	if params["view"] == "counts" {
		return respond(http.StatusOK, a.Loader.CountByType())
	}

	if raw := params["type"]; raw != "" {
		typ, err := models.ParseCategoryType(raw)
		if err != nil {
			return respond(http.StatusBadRequest, errorResponse{Message: err.Error()})
		}
		return respond(http.StatusOK, categoriesResponse{
			Categories: a.Loader.CategoriesByType(typ),
			Error:      a.Loader.Err(),
		})
	}

	return respond(http.StatusOK, categoriesResponse{
		Categories: a.Loader.Categories(),
		Error:      a.Loader.Err(),
	})
}

func respond(status int, body any) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		log.WithError(err).Error("Failed to encode response")
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}, nil
}
