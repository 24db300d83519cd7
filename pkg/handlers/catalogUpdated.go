package handlers

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	log "github.com/sirupsen/logrus"

	"github.com/stebinsabu13/fastlane/pkg/catalog"
)

// CatalogUpdated reloads categories when the catalog document is rewritten in S3.
type CatalogUpdated struct {
	Loader *catalog.Loader
	Bucket string
	Key    string
}

func (h *CatalogUpdated) Handle(ctx context.Context, event events.S3Event) error {
	for _, record := range event.Records {
		bucket := record.S3.Bucket.Name
		key := record.S3.Object.Key

		if bucket != h.Bucket || key != h.Key {
			log.WithFields(log.Fields{"bucket": bucket, "key": key}).Debug("Ignoring unrelated object")
			continue
		}

		h.Loader.Load(ctx)
		log.WithFields(log.Fields{
			"bucket":   bucket,
			"key":      key,
			"counts":   h.Loader.CountByType(),
			"fallback": h.Loader.Err() != "",
		}).Info("Reloaded categories")
		return nil
	}
	return nil
}
