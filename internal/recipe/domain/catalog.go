package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tair/foodgram/pkg/exceptions"
)

const (
	maxNameLength = 200
	maxUnitLength = 20
)

var (
	colorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Ingredient is a catalog entry with its measurement unit
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null;index"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:20;not null"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// Tag labels recipes, e.g. breakfast or dinner
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:200;not null;uniqueIndex"`
	Color string `json:"color" gorm:"size:7;not null;uniqueIndex"`
	Slug  string `json:"slug" gorm:"size:200;not null;uniqueIndex"`
}

func (Tag) TableName() string {
	return "tags"
}

func requiredText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", exceptions.InvalidInput(field + ": Обязательное поле.")
	}
	if utf8.RuneCountInString(value) > max {
		return "", exceptions.InvalidInputf("%s: Не более %d символов.", field, max)
	}
	return value, nil
}

// Normalize trims and validates an ingredient before it is stored
func (i *Ingredient) Normalize() error {
	var err error
	if i.Name, err = requiredText("name", i.Name, maxNameLength); err != nil {
		return err
	}
	if i.MeasurementUnit, err = requiredText("measurement_unit", i.MeasurementUnit, maxUnitLength); err != nil {
		return err
	}
	return nil
}

// Normalize trims and validates a tag before it is stored
func (t *Tag) Normalize() error {
	var err error
	if t.Name, err = requiredText("name", t.Name, maxNameLength); err != nil {
		return err
	}
	if t.Color, err = requiredText("color", t.Color, 7); err != nil {
		return err
	}
	if !colorPattern.MatchString(t.Color) {
		return exceptions.InvalidInput("Цвет тега указан не в формате HEX")
	}
	if t.Slug, err = requiredText("slug", t.Slug, maxNameLength); err != nil {
		return err
	}
	if !slugPattern.MatchString(t.Slug) {
		return exceptions.InvalidInput("slug: Допустимы только латинские буквы, цифры, дефис и подчёркивание.")
	}
	return nil
}

// Catalog read cache keys. Every key starts with CatalogCachePrefix so a
// catalog write can drop them all at once. Readers suffix the keys with the
// version stored at CatalogGenerationKey, which sits outside the prefix.
const (
	CatalogCachePrefix   = "catalog:"
	TagsCacheKey         = CatalogCachePrefix + "tags"
	CatalogGenerationKey = "catalog-generation"
)

// IngredientsCacheKey is the cache key of an ingredient listing by name prefix
func IngredientsCacheKey(namePrefix string) string {
	return CatalogCachePrefix + "ingredients:" + namePrefix
}
