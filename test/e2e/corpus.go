// Package e2e provides end-to-end tests over a realistic product corpus.
package e2e

import "github.com/vivohome/assistant/internal/models"

// QueryCase is one shopper query with the catalog rows it must surface.
type QueryCase struct {
	Description    string
	Query          string
	ExpectedModels []string
}

// Corpus is a synthetic catalog plus query test cases against it.
type Corpus struct {
	Products  []models.Product
	TestCases []QueryCase
}

// BuildCorpus returns a catalog resembling a real store file: mixed
// categories, two TV brands for compare queries, a duplicate model row, and
// rows with missing model codes.
func BuildCorpus() *Corpus {
	products := []models.Product{
		{CategoryGroup: "Điện tử", CategorySubgroup: "TV", Name: "TIVI SAMSUNG 75 inch UA75AU7002", ModelCode: "UA75AU7002", Specs: "75 inch 4K Crystal UHD", Price: 19500000},
		{CategoryGroup: "Điện tử", CategorySubgroup: "TV", Name: "TIVI SAMSUNG 55 inch UA55AU7002", ModelCode: "UA55AU7002", Specs: "55 inch 4K Crystal UHD", Price: 12500000},
		{CategoryGroup: "Điện tử", CategorySubgroup: "TV", Name: "TIVI SAMSUNG 43 inch UA43T6500", ModelCode: "UA43T6500", Specs: "43 inch FHD Smart", Price: 7500000},
		{CategoryGroup: "Điện tử", CategorySubgroup: "TV", Name: "TIVI LG 65 inch 65UQ8050", ModelCode: "65UQ8050", Specs: "65 inch 4K UHD", Price: 15000000},
		{CategoryGroup: "Điện tử", CategorySubgroup: "TV", Name: "TIVI LG 43 inch 43LM5750", ModelCode: "43LM5750", Specs: "43 inch FHD", Price: 7900000},
		{CategoryGroup: "Điện lạnh", CategorySubgroup: "Tủ lạnh", Name: "Tủ lạnh Samsung 208L RT20HAR8DBU", ModelCode: "RT20HAR8DBU", Specs: "208L Digital Inverter", Price: 4590000},
		{CategoryGroup: "Điện lạnh", CategorySubgroup: "Tủ lạnh", Name: "Tủ lạnh LG 335L GN-M332PS", ModelCode: "GN-M332PS", Specs: "335L Smart Inverter", Price: 9200000},
		{CategoryGroup: "Điện gia dụng", CategorySubgroup: "Máy giặt", Name: "Máy giặt Samsung 9kg WW90T3040", ModelCode: "WW90T3040", Specs: "9kg cửa ngang inverter tiết kiệm điện", Price: 6800000},
		{CategoryGroup: "Điện gia dụng", CategorySubgroup: "Bình tắm", Name: "Bình tắm nóng lạnh Rossi RPG 15SQ", ModelCode: "RPG 15SQ", Specs: "15L chống giật", Price: 2290000},
		{CategoryGroup: "Điện gia dụng", CategorySubgroup: "Bếp", Name: "Bếp từ đôi Sunhouse SHB9108", ModelCode: "SHB9108", Specs: "2000W cảm ứng", Price: 3490000},
		{CategoryGroup: "Gia dụng", CategorySubgroup: "Máy lọc nước", Name: "Máy lọc nước Karofi 9 lõi", ModelCode: "", Specs: "RO 9 lõi", Price: 5190000},
		{CategoryGroup: "Gia dụng", CategorySubgroup: "Máy lọc nước", Name: "Máy lọc nước Korichi 10 lõi", ModelCode: "", Specs: "RO 10 lõi hydrogen", Price: 6590000},
		// Duplicate model row; compare results must keep only one.
		{CategoryGroup: "Điện tử", CategorySubgroup: "TV", Name: "TIVI SAMSUNG 55 inch UA55AU7002 (khuyến mãi)", ModelCode: "UA55AU7002", Specs: "55 inch 4K", Price: 11900000},
	}

	cases := []QueryCase{
		{
			Description:    "highest_price_tv",
			Query:          "TV giá cao nhất",
			ExpectedModels: []string{"UA75AU7002"},
		},
		{
			Description:    "lowest_price_fridge",
			Query:          "Tủ lạnh rẻ nhất",
			ExpectedModels: []string{"RT20HAR8DBU"},
		},
		{
			Description:    "compare_tv_brands",
			Query:          "So sánh TV Samsung và LG",
			ExpectedModels: []string{"UA75AU7002", "65UQ8050"},
		},
		{
			Description:    "brand_lookup",
			Query:          "bình tắm Rossi",
			ExpectedModels: []string{"RPG 15SQ"},
		},
		{
			Description:    "category_lookup",
			Query:          "máy giặt",
			ExpectedModels: []string{"WW90T3040"},
		},
	}

	return &Corpus{Products: products, TestCases: cases}
}
