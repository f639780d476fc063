// Package models defines core data structures for products, parsed intents, and search results.
package models

import "strconv"

// Product is one catalog row. Rows are created wholesale by ingestion and
// read-only during query processing.
type Product struct {
	ID               int64  `json:"id" db:"id"`
	CategoryGroup    string `json:"category_group,omitempty" db:"category_group"`
	CategorySubgroup string `json:"category_subgroup,omitempty" db:"category_subgroup"`
	Name             string `json:"name" db:"name"`
	ModelCode        string `json:"model_code,omitempty" db:"model_code"`
	Specs            string `json:"specs,omitempty" db:"specs"`
	Price            int64  `json:"price" db:"price"`
	Description      string `json:"description,omitempty" db:"description"`
}

// Valid reports whether the product may be stored. Every stored product has a
// non-empty name; price is always a defined non-negative integer so that price
// sorts stay total.
func (p *Product) Valid() bool {
	return p.Name != "" && p.Price >= 0
}

// Document returns the text embedded for semantic search. The layout mirrors
// what the catalog shows shoppers: name, model, specs, price, group.
func (p *Product) Document() string {
	model := p.ModelCode
	if model == "" {
		model = "N/A"
	}
	specs := p.Specs
	if specs == "" {
		specs = "N/A"
	}
	group := p.CategorySubgroup
	if group == "" {
		group = "N/A"
	}
	return "Tên sản phẩm: " + p.Name +
		"  Model: " + model +
		"  Thông số: " + specs +
		"  Giá: " + strconv.FormatInt(p.Price, 10) + " VND" +
		"  Nhóm hàng: " + group
}
