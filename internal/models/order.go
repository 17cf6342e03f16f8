package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type Order struct {
	OrderID  int         `json:"order_id" gorm:"primaryKey;autoIncrement:false"`
	UserID   string      `json:"user_id" gorm:"index;not null"`
	Username string      `json:"username"`
	Items    []LineItem  `json:"items" gorm:"serializer:json"`
	Status   OrderStatus `json:"status" gorm:"index;default:'Pending'"`
}

// Total sums the line prices of the order.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price)
	}
	return total
}

type LineItem struct {
	ItemName  string          `json:"item_name"`
	Size      string          `json:"size"`
	Meats     []string        `json:"meats"`
	Veggies   []string        `json:"veggies"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Price     decimal.Decimal `json:"price"`
}

// lineItemJSON accepts both the current keys and the capitalized ones older
// order files use ("Item", "Meats": "Bacon, Ham", "Price" as the line total).
// Key matching is case-insensitive, so "Size", "Quantity" and "Price" land on
// the current fields.
type lineItemJSON struct {
	ItemName  string          `json:"item_name"`
	Item      string          `json:"Item"`
	Size      string          `json:"size"`
	Meats     json.RawMessage `json:"meats"`
	Veggies   json.RawMessage `json:"veggies"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Price     decimal.Decimal `json:"price"`
}

var noToppings = map[string]struct{}{
	"No meats":   {},
	"No veggies": {},
}

func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw lineItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	meats, err := decodeToppings(raw.Meats)
	if err != nil {
		return err
	}
	veggies, err := decodeToppings(raw.Veggies)
	if err != nil {
		return err
	}

	*li = LineItem{
		ItemName:  raw.ItemName,
		Size:      raw.Size,
		Meats:     meats,
		Veggies:   veggies,
		Quantity:  raw.Quantity,
		UnitPrice: raw.UnitPrice,
		Price:     raw.Price,
	}
	if li.ItemName == "" {
		li.ItemName = raw.Item
	}
	if li.UnitPrice.IsZero() && li.Quantity > 0 {
		li.UnitPrice = li.Price.Div(decimal.NewFromInt(int64(li.Quantity)))
	}
	return nil
}

// decodeToppings reads either a list or a comma-joined string.
func decodeToppings(data json.RawMessage) ([]string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] != '"' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return nil, err
	}
	list := []string{}
	for _, part := range strings.Split(joined, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := noToppings[part]; ok {
			continue
		}
		list = append(list, part)
	}
	return list, nil
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderCompleted OrderStatus = "Completed"
)

// legacyCompleted is how older order files spell the terminal status.
const legacyCompleted = "Complete"

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == legacyCompleted {
		raw = string(OrderCompleted)
	}
	*s = OrderStatus(raw)
	return nil
}
