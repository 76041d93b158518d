package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductCSV(t *testing.T) {
	input := strings.NewReader(
		"name,description,price,category,stockQuantity,imageUrl\n" +
			"Desk Lamp,Warm light,18.50,Home,12,https://cdn.example.com/lamp.jpg\n" +
			"USB Hub,4 ports,15,Electronics,0,\n")

	products, err := ParseProductCSV(input)

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Desk Lamp", products[0].Name)
	assert.Equal(t, 18.50, products[0].Price)
	assert.Equal(t, 12, products[0].StockQuantity)
	assert.Equal(t, "https://cdn.example.com/lamp.jpg", products[0].ImageURL)
	assert.Equal(t, "Electronics", products[1].Category)
	assert.Zero(t, products[1].StockQuantity)
}

func TestParseProductCSVColumnOrderFree(t *testing.T) {
	input := strings.NewReader(
		"price,name,category\n" +
			"9.99,Notebook,Stationery\n")

	products, err := ParseProductCSV(input)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Notebook", products[0].Name)
	assert.Equal(t, 9.99, products[0].Price)
}

func TestParseProductCSVMissingColumn(t *testing.T) {
	input := strings.NewReader("name,description\nDesk Lamp,Warm light\n")

	_, err := ParseProductCSV(input)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
}

func TestParseProductCSVBadPrice(t *testing.T) {
	input := strings.NewReader("name,price,category\nDesk Lamp,free,Home\n")

	_, err := ParseProductCSV(input)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseProductCSVEmpty(t *testing.T) {
	input := strings.NewReader("name,price,category\n")

	_, err := ParseProductCSV(input)
	require.Error(t, err)
}
