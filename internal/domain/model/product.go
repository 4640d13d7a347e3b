// Package model contains the domain types shared by the optimization engines.
package model

import "strings"

// MinorUnitsPerMajor converts minor currency units (cents) into whole units.
const MinorUnitsPerMajor = 100

// Category is the product category used for emission factors and averages.
type Category string

// Known product categories.
const (
	CategoryMeat       Category = "meat"
	CategoryPoultry    Category = "poultry"
	CategoryFish       Category = "fish"
	CategoryDairy      Category = "dairy"
	CategoryCheese     Category = "cheese"
	CategoryYogurt     Category = "yogurt"
	CategoryMilk       Category = "milk"
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategoryGrains     Category = "grains"
	CategoryLegumes    Category = "legumes"
	CategoryBeverages  Category = "beverages"
	CategorySnacks     Category = "snacks"
	CategorySweets     Category = "sweets"
	CategoryCookies    Category = "cookies"
	CategoryOther      Category = "other"
)

// Origin classifies how far a product travelled to reach the shelf.
type Origin string

// Origin classifications, nearest first.
const (
	OriginLocal            Origin = "local"
	OriginNational         Origin = "national"
	OriginRegional         Origin = "regional"
	OriginContinental      Origin = "continental"
	OriginIntercontinental Origin = "intercontinental"
	OriginOverseas         Origin = "overseas"
	OriginUnknown          Origin = "unknown"
)

// Product labels recognised by the scorer and the substitute finder.
const (
	LabelOrganic       = "organic"
	LabelFairTrade     = "fair-trade"
	LabelBCorp         = "b-corp"
	LabelEcoFriendly   = "eco-friendly"
	LabelLocalProducer = "local-producer"
	LabelSmallProducer = "small-producer"
	LabelCooperative   = "cooperative"
	LabelSingleUse     = "single-use"
)

// Units of measure for NetQuantity.
const (
	UnitKilogram = "kg"
	UnitGram     = "g"
	UnitLiter    = "l"
	UnitMilliter = "ml"
	UnitPiece    = "unit"
)

// NutritionalInfo holds optional per-100g nutritional values.
// A nil field means the value is unknown.
type NutritionalInfo struct {
	Energy        *float64 `json:"energy,omitempty" bson:"energy,omitempty"`
	Protein       *float64 `json:"protein,omitempty" bson:"protein,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty" bson:"carbohydrates,omitempty"`
	Fat           *float64 `json:"fat,omitempty" bson:"fat,omitempty"`
	Fiber         *float64 `json:"fiber,omitempty" bson:"fiber,omitempty"`
	Sodium        *float64 `json:"sodium,omitempty" bson:"sodium,omitempty"`
}

// Product is an immutable catalog record. Price is in minor currency units.
type Product struct {
	ID            string           `json:"id" bson:"_id"`
	Name          string           `json:"name" bson:"name"`
	Brand         string           `json:"brand,omitempty" bson:"brand,omitempty"`
	Category      Category         `json:"category" bson:"category"`
	Price         int64            `json:"price" bson:"price"`
	NetQuantity   float64          `json:"net_quantity" bson:"net_quantity"`
	Unit          string           `json:"unit" bson:"unit"`
	Origin        Origin           `json:"origin" bson:"origin"`
	OriginCountry string           `json:"origin_country,omitempty" bson:"origin_country,omitempty"`
	Labels        []string         `json:"labels,omitempty" bson:"labels,omitempty"`
	Nutrition     *NutritionalInfo `json:"nutrition,omitempty" bson:"nutrition,omitempty"`
	Description   string           `json:"description,omitempty" bson:"description,omitempty"`
}

// WeightKg converts the net quantity into kilograms.
// Liquids count as 1 kg per liter and countable units as 0.5 kg each.
func (p Product) WeightKg() float64 {
	switch strings.ToLower(p.Unit) {
	case UnitKilogram, UnitLiter:
		return p.NetQuantity
	case UnitGram, UnitMilliter:
		return p.NetQuantity / 1000
	default:
		return p.NetQuantity * 0.5
	}
}

// HasLabel reports whether the product carries the given label, ignoring case.
func (p Product) HasLabel(label string) bool {
	for _, l := range p.Labels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}
