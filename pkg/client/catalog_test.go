package client

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() []Product {
	return []Product{
		{ProductID: 1, Name: "Wireless Mouse", Description: "USB receiver", Category: "Electronics", Price: 25, StockQuantity: 40},
		{ProductID: 2, Name: "Desk Lamp", Description: "Warm light", Category: "Home", Price: 18, StockQuantity: 12},
		{ProductID: 3, Name: "Mechanical Keyboard", Description: "Clicky switches", Category: "Electronics", Price: 95, StockQuantity: 7},
		{ProductID: 4, Name: "Water Bottle", Description: "Insulated steel", Category: "Outdoors", Price: 22, StockQuantity: 60},
		{ProductID: 5, Name: "USB Hub", Description: "4 ports", Category: "Electronics", Price: 15, StockQuantity: 0},
	}
}

func TestFilterProductsByCategory(t *testing.T) {
	out := FilterProducts(sampleCatalog(), "", "Electronics")

	require.Len(t, out, 3)
	for _, p := range out {
		assert.Equal(t, "Electronics", p.Category)
	}
}

func TestFilterProductsBySearch(t *testing.T) {
	out := FilterProducts(sampleCatalog(), "usb", "")

	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ProductID) // matches description
	assert.Equal(t, int64(5), out[1].ProductID) // matches name
}

func TestFilterProductsSearchAndCategory(t *testing.T) {
	out := FilterProducts(sampleCatalog(), "usb", "Electronics")
	require.Len(t, out, 2)

	out = FilterProducts(sampleCatalog(), "usb", "Home")
	assert.Empty(t, out)
}

func TestSortProductsPriceLow(t *testing.T) {
	products := sampleCatalog()
	SortProducts(products, SortByPriceLow)

	assert.True(t, sort.SliceIsSorted(products, func(i, j int) bool {
		return products[i].Price < products[j].Price
	}))
}

func TestSortProductsPriceHigh(t *testing.T) {
	products := sampleCatalog()
	SortProducts(products, SortByPriceHigh)

	assert.Equal(t, int64(3), products[0].ProductID)
	assert.Equal(t, int64(5), products[len(products)-1].ProductID)
}

func TestSortProductsByName(t *testing.T) {
	products := sampleCatalog()
	SortProducts(products, SortByName)

	assert.Equal(t, "Desk Lamp", products[0].Name)
	assert.Equal(t, "Wireless Mouse", products[len(products)-1].Name)
}

func TestSortProductsByStock(t *testing.T) {
	products := sampleCatalog()
	SortProducts(products, SortByStock)

	assert.Equal(t, 60, products[0].StockQuantity)
	assert.Equal(t, 0, products[len(products)-1].StockQuantity)
}

func TestSortProductsUnknownKeyIsNoop(t *testing.T) {
	products := sampleCatalog()
	SortProducts(products, SortKey("surprise"))

	assert.Equal(t, sampleCatalog(), products)
}
