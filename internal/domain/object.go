package domain

import "time"

type ObjectType string

const (
	ObjectTypeProduction ObjectType = "production"
	ObjectTypeWarehouse  ObjectType = "warehouse"
	ObjectTypeHub        ObjectType = "hub"
	ObjectTypeSort       ObjectType = "sort"
	ObjectTypeOther      ObjectType = "other"
)

var ObjectTypes = []ObjectType{
	ObjectTypeProduction,
	ObjectTypeWarehouse,
	ObjectTypeHub,
	ObjectTypeSort,
	ObjectTypeOther,
}

func (t ObjectType) Label() string {
	switch t {
	case ObjectTypeProduction:
		return "Производство"
	case ObjectTypeWarehouse:
		return "Склад"
	case ObjectTypeHub:
		return "Хаб"
	case ObjectTypeSort:
		return "Сортировочный центр"
	case ObjectTypeOther:
		return "Другое"
	default:
		return string(t)
	}
}

type Object struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	BrandName string     `json:"brandName,omitempty"`
	City      string     `json:"city"`
	Address   *string    `json:"address"`
	Type      ObjectType `json:"type,omitempty"`
	LogoURL   *string    `json:"logoUrl"`
	Photos    []string   `json:"photos"`
	Lat       *float64   `json:"lat"`
	Lng       *float64   `json:"lng"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ObjectInput is the body of POST /objects.
type ObjectInput struct {
	Name      string     `json:"name"`
	BrandName string     `json:"brandName,omitempty"`
	City      string     `json:"city"`
	Address   string     `json:"address"`
	Type      ObjectType `json:"type,omitempty"`
	Lat       *float64   `json:"lat,omitempty"`
	Lng       *float64   `json:"lng,omitempty"`
}

// ObjectPatch is the body of PATCH /objects/:id. Nil fields are left as is.
type ObjectPatch struct {
	Name      *string     `json:"name,omitempty"`
	BrandName *string     `json:"brandName,omitempty"`
	City      *string     `json:"city,omitempty"`
	Address   *string     `json:"address,omitempty"`
	Type      *ObjectType `json:"type,omitempty"`
	LogoURL   *string     `json:"logoUrl,omitempty"`
	Photos    *[]string   `json:"photos,omitempty"`
	Lat       *float64    `json:"lat,omitempty"`
	Lng       *float64    `json:"lng,omitempty"`
}
