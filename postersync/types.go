package postersync

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// FlexString absorbs remote fields that arrive as either a JSON string or
// a bare number.
type FlexString string

func (f *FlexString) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*f = ""
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// True reports whether the remote flag is set. The API encodes booleans
// as "1"/"0" strings.
func (f FlexString) True() bool {
	return string(f) == "1" || strings.EqualFold(string(f), "true")
}

// PriceTiers absorbs the price field, which is either a scalar or a map of
// price-tier id to amount.
type PriceTiers map[string]FlexString

func (p *PriceTiers) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*p = nil
		return nil
	}
	if raw[0] == '{' {
		var m map[string]FlexString
		if err := json.Unmarshal(raw, &m); err != nil {
			return err
		}
		*p = PriceTiers(m)
		return nil
	}
	var single FlexString
	if err := json.Unmarshal(raw, &single); err != nil {
		return err
	}
	*p = PriceTiers{"1": single}
	return nil
}

// First returns the lowest tier's amount, or "" when no tier is present.
// Tier ids are numeric strings, so "2" sorts before "10"; non-numeric ids
// sort after the numeric ones.
func (p PriceTiers) First() string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return string(p[keys[0]])
}

type RemoteCategory struct {
	CategoryId   FlexString `json:"category_id"`
	CategoryName string     `json:"category_name"`
	SortOrder    FlexString `json:"sort_order"`
	Hidden       FlexString `json:"category_hidden"`
}

type RemoteProduct struct {
	ProductId      FlexString `json:"product_id"`
	ProductName    string     `json:"product_name"`
	MenuCategoryId FlexString `json:"menu_category_id"`
	Price          PriceTiers `json:"price"`
	Photo          string     `json:"photo"`
	PhotoOrigin    string     `json:"photo_origin"`
	IngredientId   FlexString `json:"ingredient_id"`
	IngredientUnit string     `json:"ingredient_unit"`
	Out            FlexString `json:"out"`
	Hidden         FlexString `json:"hidden"`
}

func (p RemoteProduct) HasPhoto() bool {
	return strings.TrimSpace(p.Photo) != "" || strings.TrimSpace(p.PhotoOrigin) != ""
}

// RemoteImageURL returns the full remote URL hinted by the payload, or ""
// when the product carries no usable photo path.
func (p RemoteProduct) RemoteImageURL(host string) string {
	path := strings.TrimSpace(p.PhotoOrigin)
	if path == "" {
		path = strings.TrimSpace(p.Photo)
	}
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(host, "/") + "/" + strings.TrimLeft(path, "/")
}

type RemoteStorage struct {
	StorageId   FlexString `json:"storage_id"`
	StorageName string     `json:"storage_name"`
	// The API spells the field this way.
	StorageAddress string `json:"storage_adress"`
}

type RemoteLeftover struct {
	IngredientId   FlexString `json:"ingredient_id"`
	IngredientName string     `json:"ingredient_name"`
	Left           FlexString `json:"storage_ingredient_left"`
	IngredientUnit string     `json:"ingredient_unit"`
}
