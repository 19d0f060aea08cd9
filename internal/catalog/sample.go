package catalog

import "github.com/studiowebux/shopdemo/internal/types"

// Sample is the built-in product set used in local mode
var Sample = []types.Product{
	{
		ID:                 1,
		Title:              "iPhone 15 Pro",
		Description:        "Latest iPhone with A17 Pro chip",
		Price:              999,
		DiscountPercentage: 5.0,
		Rating:             4.8,
		Stock:              50,
		Brand:              "Apple",
		Category:           "smartphones",
		Thumbnail:          "https://cdn.dummyjson.com/product-images/1/thumbnail.jpg",
		Images:             []string{},
	},
	{
		ID:                 2,
		Title:              "MacBook Pro 14",
		Description:        "Powerful laptop for professionals",
		Price:              1999,
		DiscountPercentage: 7.5,
		Rating:             4.9,
		Stock:              25,
		Brand:              "Apple",
		Category:           "laptops",
		Thumbnail:          "https://cdn.dummyjson.com/product-images/6/thumbnail.png",
		Images:             []string{},
	},
	{
		ID:                 3,
		Title:              "Samsung Galaxy S24",
		Description:        "Android flagship phone",
		Price:              899,
		DiscountPercentage: 3.2,
		Rating:             4.7,
		Stock:              75,
		Brand:              "Samsung",
		Category:           "smartphones",
		Thumbnail:          "https://cdn.dummyjson.com/product-images/2/thumbnail.jpg",
		Images:             []string{},
	},
}
