package loader

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercaprice/mercaprice-backend/internal/domain"
)

func TestClean_ValidRows(t *testing.T) {
	csv := "product_id;product_name;price\n" +
		"101;Leche entera;1.05\n" +
		"102;Pan de molde;1.50\n"

	res, err := Clean(strings.NewReader(csv), "test")
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 0, res.Dropped)

	assert.Equal(t, "101", res.Records[0].ProductID)
	assert.Equal(t, "Leche entera", res.Records[0].Name)
	assert.True(t, res.Records[0].Price.Equal(decimal.RequireFromString("1.05")))
}

func TestClean_CommaDecimalSeparator(t *testing.T) {
	csv := "product_id;product_name;price\n" +
		"101;Leche entera;1,05\n"

	res, err := Clean(strings.NewReader(csv), "test")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.True(t, res.Records[0].Price.Equal(decimal.RequireFromString("1.05")))
}

func TestClean_DropsInvalidRows(t *testing.T) {
	csv := "product_id;product_name;price\n" +
		"101;Leche entera;1.05\n" +
		";Sin id;2.00\n" + // empty id
		"   ;Solo espacios;2.00\n" + // id trims to empty
		"103;Precio roto;n/a\n" + // non-numeric price
		"104;Gratis;0\n" + // price must be > 0
		"105;Negativo;-1.20\n" +
		"106;Aceite de oliva;4.35\n"

	res, err := Clean(strings.NewReader(csv), "test")
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 5, res.Dropped)
	assert.Equal(t, "101", res.Records[0].ProductID)
	assert.Equal(t, "106", res.Records[1].ProductID)
}

func TestClean_SkipsShortRows(t *testing.T) {
	csv := "product_id;product_name;price\n" +
		"101;Leche entera;1.05\n" +
		"102;solo-dos-campos\n" +
		"103;Pan;1.50\n"

	res, err := Clean(strings.NewReader(csv), "test")
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Dropped)
}

func TestClean_TrimsProductID(t *testing.T) {
	csv := "product_id;product_name;price\n" +
		"  101  ;Leche entera;1.05\n"

	res, err := Clean(strings.NewReader(csv), "test")
	require.NoError(t, err)
	assert.Equal(t, "101", res.Records[0].ProductID)
}

func TestClean_IgnoresExtraColumns(t *testing.T) {
	csv := "date;ccaa;product_id;product_name;price;iva\n" +
		"2026-01-04;madrid;101;Leche entera;1.05;10\n"

	res, err := Clean(strings.NewReader(csv), "test")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "101", res.Records[0].ProductID)
	assert.Equal(t, "Leche entera", res.Records[0].Name)
}

func TestClean_StripsBOM(t *testing.T) {
	csv := "\ufeffproduct_id;product_name;price\n" +
		"101;Leche entera;1.05\n"

	res, err := Clean(strings.NewReader(csv), "test")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
}

func TestClean_NoSurvivorsIsNoDataError(t *testing.T) {
	csv := "product_id;product_name;price\n" +
		";Sin id;1.00\n" +
		"102;Roto;abc\n"

	_, err := Clean(strings.NewReader(csv), "snapshot-2026-01-04")

	var noData *domain.NoDataError
	require.ErrorAs(t, err, &noData)
	assert.Contains(t, noData.Error(), "snapshot-2026-01-04")
}

func TestClean_EmptyInput(t *testing.T) {
	_, err := Clean(strings.NewReader(""), "test")

	var noData *domain.NoDataError
	assert.ErrorAs(t, err, &noData)
}

func TestClean_MissingRequiredColumn(t *testing.T) {
	csv := "product_id;price\n101;1.05\n"

	_, err := Clean(strings.NewReader(csv), "test")

	var noData *domain.NoDataError
	assert.ErrorAs(t, err, &noData)
}
