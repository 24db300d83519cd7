package models

import (
	"encoding/json"

	"github.com/pkg/errors"
)

var ErrUnknownCategoryType = errors.New("unknown category type")

type CategoryType string

const (
	General      CategoryType = "general"
	Team         CategoryType = "team"
	Manufacturer CategoryType = "manufacturer"
	Scale        CategoryType = "scale"
	Driver       CategoryType = "driver"
)

// CategoryTypes lists every classification tag in display order.
var CategoryTypes = []CategoryType{General, Team, Manufacturer, Scale, Driver}

func ParseCategoryType(s string) (CategoryType, error) {
	for _, t := range CategoryTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownCategoryType, "%q", s)
}

func (t *CategoryType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategoryType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalCSV lets gocsv decode the type column.
func (t *CategoryType) UnmarshalCSV(s string) error {
	parsed, err := ParseCategoryType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Category is a filterable product grouping. Variant and Icon are opaque styling hints.
type Category struct {
	ID          string       `json:"id" csv:"id"`
	Name        string       `json:"name" csv:"name"`
	Description string       `json:"description,omitempty" csv:"description"`
	Variant     string       `json:"variant" csv:"variant"`
	Icon        string       `json:"icon" csv:"icon"`
	Type        CategoryType `json:"type" csv:"type"`
}
