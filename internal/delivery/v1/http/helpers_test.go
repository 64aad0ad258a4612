package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sergey-royt/effective-mobile-test-task/pkg/e"
)

func TestParsePriceToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"599.99", 59999},
		{"599.990", 59999},
		{"600", 60000},
		{"600.0000", 60000},
		{"0.01", 1},
		{"1000000000", 100_000_000_000},
	}

	for _, tc := range cases {
		got, err := parsePriceToCents(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestParsePriceToCents_Rejections(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"", e.ErrInvalidPrice},
		{"   ", e.ErrInvalidPrice},
		{"abc", e.ErrInvalidPrice},
		{"0", e.ErrPriceMustBePositive},
		{"-5", e.ErrPriceMustBePositive},
		{"5.999", e.ErrPricePrecision},
		{"1000000001", e.ErrInvalidPrice},
	}

	for _, tc := range cases {
		_, err := parsePriceToCents(tc.in)
		require.ErrorIs(t, err, tc.want, tc.in)
	}
}

func TestFormatPriceFromCents(t *testing.T) {
	require.Equal(t, "599.99", formatPriceFromCents(59999))
	require.Equal(t, "600.00", formatPriceFromCents(60000))
	require.Equal(t, "0.01", formatPriceFromCents(1))
}

func TestToHTTPResponse(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{e.ErrStatusBadRequest, http.StatusBadRequest},
		{e.ErrEmptyOrderItems, http.StatusBadRequest},
		{e.ErrQuantityNotPositive, http.StatusBadRequest},
		{e.ErrInvalidOrderStatus, http.StatusBadRequest},
		{e.ErrInsufficientStock, http.StatusBadRequest},
		{e.ErrInvalidPagination, http.StatusBadRequest},
		{e.ErrProductNotFound, http.StatusNotFound},
		{e.ErrOrderNotFound, http.StatusNotFound},
		{e.ErrProductNameTaken, http.StatusConflict},
		{e.ErrProductReferenced, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		code, _ := ToHTTPResponse(tc.err)
		require.Equal(t, tc.code, code, tc.err)
	}
}

func TestToHTTPResponse_WrappedErrors(t *testing.T) {
	wrapped := e.Wrap("OrderUseCase.CreateOrder", e.ErrInsufficientStock)
	code, msg := ToHTTPResponse(wrapped)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, e.ErrInsufficientStock.Error(), msg)
}

func TestToHTTPResponse_HidesInternalDetails(t *testing.T) {
	_, msg := ToHTTPResponse(errors.New("pq: connection refused"))
	require.Equal(t, e.ErrInternalServerError.Error(), msg)
	require.NotContains(t, msg, "connection refused")
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/orders?skip=5&limit=20", nil)
	req, err := parsePagination(r)
	require.NoError(t, err)
	require.Equal(t, int64(5), req.Offset)
	require.Equal(t, int64(20), req.Limit)

	r = httptest.NewRequest(http.MethodGet, "/orders", nil)
	req, err = parsePagination(r)
	require.NoError(t, err)
	require.Equal(t, int64(0), req.Offset)
	require.Equal(t, int64(0), req.Limit)

	for _, raw := range []string{"/orders?skip=-1", "/orders?limit=-1", "/orders?skip=abc"} {
		r = httptest.NewRequest(http.MethodGet, raw, nil)
		_, err = parsePagination(r)
		require.ErrorIs(t, err, e.ErrInvalidPagination)
	}
}
