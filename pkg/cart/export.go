package cart

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/stebinsabu13/fastlane/pkg/models"
)

type line struct {
	ID        int    `csv:"id"`
	Name      string `csv:"name"`
	UnitPrice string `csv:"unit_price"`
	Quantity  int    `csv:"quantity"`
	Subtotal  string `csv:"subtotal"`
}

// WriteCSV writes one row per cart line with a header.
func WriteCSV(w io.Writer, items []models.CartItem) error {
	lines := make([]*line, 0, len(items))
	for _, item := range items {
		lines = append(lines, &line{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: item.Price.StringFixed(2),
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal().StringFixed(2),
		})
	}
	if err := gocsv.Marshal(lines, w); err != nil {
		return errors.Wrap(err, "failed to write cart CSV")
	}
	return nil
}
