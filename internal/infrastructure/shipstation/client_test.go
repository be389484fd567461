package shipstation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerce-platform/inventory-service/pkg/logging"
)

func testLogger() *logging.Logger {
	config := logging.DefaultConfig("shipstation-test")
	config.Output = io.Discard
	return logging.New(config)
}

func testClient(serverURL string) *Client {
	config := DefaultConfig()
	config.BaseURL = serverURL
	config.APIKey = "key"
	config.APISecret = "secret"
	config.PageSize = 2
	return NewClient(config, testLogger())
}

func TestFetchStockPagesUntilExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "2", r.URL.Query().Get("pageSize"))

		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"products":[{"sku":"A","warehouseLocation":"Main","onHand":5},{"sku":"B","warehouseLocation":"Main","onHand":3}],"pages":2,"page":1}`)
		case "2":
			fmt.Fprint(w, `{"products":[{"sku":"C","warehouseLocation":"Storefront","onHand":9}],"pages":2,"page":2}`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer server.Close()

	rows, err := testClient(server.URL).FetchStock(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "A", rows[0].SKU)
	assert.Equal(t, "Main", rows[0].Warehouse)
	assert.Equal(t, 5, rows[0].OnHand)
	assert.Equal(t, "C", rows[2].SKU)
}

func TestFetchStockForwardsSKU(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TS-BLK-M", r.URL.Query().Get("sku"))
		fmt.Fprint(w, `{"products":[{"sku":"TS-BLK-M","warehouseLocation":"Main","onHand":5}],"pages":1,"page":1}`)
	}))
	defer server.Close()

	rows, err := testClient(server.URL).FetchStock(context.Background(), "TS-BLK-M")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestFetchStockRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"products":[{"sku":"A","warehouseLocation":"Main","onHand":5}],"pages":1,"page":1}`)
	}))
	defer server.Close()

	rows, err := testClient(server.URL).FetchStock(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchStockDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchStock(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
