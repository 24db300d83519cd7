// Package catalog loads product categories from a remote JSON document and
// falls back to a built-in list when the document cannot be used.
package catalog

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stebinsabu13/fastlane/pkg/models"
	"github.com/stebinsabu13/fastlane/pkg/watch"
)

// LoadFailedMessage is published on the error flag when the fallback is in use.
const LoadFailedMessage = "Could not load categories, showing defaults"

type Loader struct {
	source   Source
	fallback []models.Category
	log      logrus.FieldLogger

	categories *watch.Value[[]models.Category]
	loading    *watch.Value[bool]
	err        *watch.Value[string]

	// inflight is only changed inside loading.Update.
	inflight int
	latest   atomic.Uint64
}

type Option func(*Loader)

func WithFallback(categories []models.Category) Option {
	return func(l *Loader) { l.fallback = categories }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Loader) { l.log = log }
}

func NewLoader(source Source, opts ...Option) *Loader {
	l := &Loader{
		source:     source,
		fallback:   DefaultFallback(),
		log:        logrus.StandardLogger(),
		categories: watch.New([]models.Category{}),
		loading:    watch.New(false),
		err:        watch.New(""),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches the categories once. Any failure replaces the set with the
// fallback list and sets the error flag. Loading stays true until every
// overlapping call has returned, and only the most recently started call
// publishes its result.
func (l *Loader) Load(ctx context.Context) {
	gen := l.latest.Add(1)
	l.loading.Update(func(loading bool) (bool, bool) {
		l.inflight++
		return true, !loading
	})
	l.err.Set("")
	defer l.loading.Update(func(loading bool) (bool, bool) {
		l.inflight--
		next := l.inflight > 0
		return next, next != loading
	})

	categories, err := l.fetch(ctx)
	if l.latest.Load() != gen {
		l.log.WithError(err).Debug("Category load superseded by a newer one")
		return
	}
	if err != nil {
		entry := l.log.WithError(err)
		var status *StatusError
		if errors.As(err, &status) {
			entry = entry.WithField("status", status.StatusCode)
		}
		entry.Warn("Failed to load categories, using fallback")
		l.categories.Set(append([]models.Category(nil), l.fallback...))
		l.err.Set(LoadFailedMessage)
		return
	}

	l.log.WithField("count", len(categories)).Info("Loaded categories")
	l.categories.Set(categories)
}

func (l *Loader) fetch(ctx context.Context) ([]models.Category, error) {
	body, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var categories []models.Category
	if err := json.NewDecoder(body).Decode(&categories); err != nil {
		return nil, errors.Wrap(err, "failed to decode categories")
	}
	if categories == nil {
		return nil, errors.New("categories document is null")
	}
	return categories, nil
}

func (l *Loader) Categories() []models.Category {
	return append([]models.Category(nil), l.categories.Get()...)
}

func (l *Loader) Loading() bool { return l.loading.Get() }

// Err returns the human-readable error flag, empty when the last load succeeded.
func (l *Loader) Err() string { return l.err.Get() }

func (l *Loader) CategoriesValue() watch.Readable[[]models.Category] { return l.categories }

func (l *Loader) LoadingValue() watch.Readable[bool] { return l.loading }

func (l *Loader) ErrValue() watch.Readable[string] { return l.err }

func (l *Loader) CategoryByID(id string) (models.Category, bool) {
	for _, c := range l.categories.Get() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

func (l *Loader) CategoryExists(id string) bool {
	_, ok := l.CategoryByID(id)
	return ok
}

func (l *Loader) CategoriesByType(t models.CategoryType) []models.Category {
	out := []models.Category{}
	for _, c := range l.categories.Get() {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

func (l *Loader) TeamCategories() []models.Category { return l.CategoriesByType(models.Team) }

func (l *Loader) ManufacturerCategories() []models.Category {
	return l.CategoriesByType(models.Manufacturer)
}

func (l *Loader) ScaleCategories() []models.Category { return l.CategoriesByType(models.Scale) }

func (l *Loader) DriverCategories() []models.Category { return l.CategoriesByType(models.Driver) }

func (l *Loader) GeneralCategories() []models.Category { return l.CategoriesByType(models.General) }

// CountByType always has an entry for each of the five classification tags.
func (l *Loader) CountByType() map[models.CategoryType]int {
	counts := make(map[models.CategoryType]int, len(models.CategoryTypes))
	for _, t := range models.CategoryTypes {
		counts[t] = 0
	}
	for _, c := range l.categories.Get() {
		if _, ok := counts[c.Type]; ok {
			counts[c.Type]++
		}
	}
	return counts
}
