package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Product — тип устройства: набор компонентов и выпущенные экземпляры.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProductID  string                         `gorm:"uniqueIndex;size:64;not null" json:"productID"`
	Name       string                         `gorm:"size:255;not null" json:"name"`
	Components datatypes.JSONType[Components] `json:"components"`

	// Список устройств выводится из devices.product_id, отдельно не хранится.
	Devices []Device `gorm:"foreignKey:ProductID;references:ProductID" json:"devices"`
}

// Component — описание одного компонента продукта.
type Component struct {
	Type  string            `json:"type"`
	Unit  string            `json:"unit"`
	Range Range             `json:"range"`
	State []json.RawMessage `json:"state"` // произвольные значения, без схемы
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Components — компоненты продукта по имени.
type Components map[string]Component

// Normalize возвращает непустую карту с непустыми State (в JSON — {} и [], а не null).
func (c Components) Normalize() Components {
	out := make(Components, len(c))
	for name, comp := range c {
		if comp.State == nil {
			comp.State = []json.RawMessage{}
		}
		out[name] = comp
	}
	return out
}

// Merge добавляет/перезаписывает записи из updates; остальные не трогает.
func (c Components) Merge(updates Components) Components {
	out := c.Normalize()
	for name, comp := range updates.Normalize() {
		out[name] = comp
	}
	return out
}

// ComponentMap — текущие компоненты продукта (никогда не nil).
func (p *Product) ComponentMap() Components {
	return p.Components.Data().Normalize()
}

func (p *Product) SetComponents(c Components) {
	p.Components = datatypes.NewJSONType(c.Normalize())
}
