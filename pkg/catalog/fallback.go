package catalog

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/stebinsabu13/fastlane/pkg/models"
)

// DefaultFallback is served whenever the remote catalog cannot be used.
func DefaultFallback() []models.Category {
	return []models.Category{
		{ID: "all", Name: "All Products", Variant: "variant-filled-primary", Icon: "lucide:grid-3x3", Type: models.General},
		{ID: "championship", Name: "World Champions", Description: "The cars that won the world title", Variant: "variant-filled-warning", Icon: "lucide:trophy", Type: models.General},
		{ID: "limited", Name: "Limited Editions", Description: "Exclusive collector models", Variant: "variant-filled-error", Icon: "lucide:star", Type: models.General},

		{ID: "red-bull", Name: "Red Bull Racing", Description: "The flying bulls of Milton Keynes", Variant: "variant-filled-primary", Icon: "lucide:zap", Type: models.Team},
		{ID: "ferrari", Name: "Scuderia Ferrari", Description: "The prancing horse of Maranello", Variant: "variant-filled-error", Icon: "lucide:heart", Type: models.Team},
		{ID: "mercedes", Name: "Mercedes-AMG Petronas", Description: "The silver arrows of Brackley", Variant: "variant-filled-surface", Icon: "lucide:star", Type: models.Team},
		{ID: "mclaren", Name: "McLaren F1 Team", Description: "Papaya orange from Woking", Variant: "variant-filled-warning", Icon: "lucide:rocket", Type: models.Team},
		{ID: "aston-martin", Name: "Aston Martin Aramco", Description: "British racing green from Silverstone", Variant: "variant-filled-success", Icon: "lucide:shield", Type: models.Team},
		{ID: "alpine", Name: "BWT Alpine F1 Team", Description: "French blue from Enstone", Variant: "variant-filled-secondary", Icon: "lucide:mountain", Type: models.Team},

		{ID: "burago", Name: "Bburago", Description: "Italian quality models since 1974", Variant: "variant-filled-tertiary", Icon: "lucide:factory", Type: models.Manufacturer},
		{ID: "minichamps", Name: "Minichamps", Description: "German precision in every detail", Variant: "variant-filled-secondary", Icon: "lucide:gem", Type: models.Manufacturer},
		{ID: "spark", Name: "Spark Model", Description: "French excellence in model making", Variant: "variant-filled-primary", Icon: "lucide:sparkles", Type: models.Manufacturer},
		{ID: "amalgam", Name: "Amalgam Collection", Description: "British luxury craftsmanship", Variant: "variant-filled-warning", Icon: "lucide:crown", Type: models.Manufacturer},

		{ID: "scale-1-43", Name: "1:43", Description: "Classic collector scale", Variant: "variant-soft-primary", Icon: "lucide:ruler", Type: models.Scale},
		{ID: "scale-1-18", Name: "1:18", Description: "Premium scale with exceptional detail", Variant: "variant-soft-success", Icon: "lucide:maximize", Type: models.Scale},
		{ID: "scale-1-64", Name: "1:64", Description: "Compact scale made for displays", Variant: "variant-soft-secondary", Icon: "lucide:minimize", Type: models.Scale},
		{ID: "scale-1-8", Name: "1:8", Description: "Exclusive high-end scale", Variant: "variant-soft-warning", Icon: "lucide:maximize-2", Type: models.Scale},

		{ID: "verstappen", Name: "Max Verstappen", Description: "Red Bull's dominant champion", Variant: "variant-soft-primary", Icon: "lucide:user", Type: models.Driver},
		{ID: "leclerc", Name: "Charles Leclerc", Description: "Ferrari's chosen one", Variant: "variant-soft-error", Icon: "lucide:user", Type: models.Driver},
		{ID: "hamilton", Name: "Lewis Hamilton", Description: "The Mercedes legend", Variant: "variant-soft-surface", Icon: "lucide:user", Type: models.Driver},
	}
}

// ReadFallbackCSV parses a fallback list with columns id,name,description,variant,icon,type.
func ReadFallbackCSV(r io.Reader) ([]models.Category, error) {
	var rows []*models.Category
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to parse fallback categories CSV")
	}
	categories := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		if row.ID == "" {
			return nil, errors.New("fallback category without id")
		}
		categories = append(categories, *row)
	}
	return categories, nil
}
