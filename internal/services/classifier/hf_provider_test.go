// File: internal/services/classifier/hf_provider_test.go
package classifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) *Config {
	cfg := DefaultConfig()
	cfg.APIURL = url
	cfg.APIKey = "test-key"
	cfg.MaxRetries = 1
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func TestPredictReturnsLowercasedTopLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"label":"Wheat Brown Rust","score":0.91},{"label":"Wheat Healthy","score":0.06}]`))
	}))
	defer srv.Close()

	provider, err := NewHFProvider(testConfig(srv.URL))
	require.NoError(t, err)

	label, err := provider.Predict(context.Background(), []byte{0xFF, 0xD8})
	require.NoError(t, err)
	assert.Equal(t, "wheat brown rust", label)
}

func TestPredictPicksHighestScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"label":"a","score":0.1},{"label":"b","score":0.8},{"label":"c","score":0.2}]`))
	}))
	defer srv.Close()

	provider, err := NewHFProvider(testConfig(srv.URL))
	require.NoError(t, err)

	label, err := provider.Predict(context.Background(), []byte{1})
	require.NoError(t, err)
	assert.Equal(t, "b", label)
}

func TestPredictRejectsEmptyImage(t *testing.T) {
	provider, err := NewHFProvider(testConfig("http://unused.invalid"))
	require.NoError(t, err)

	_, err = provider.Predict(context.Background(), nil)
	var cerr *ClassifierError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrTypeValidation, cerr.Type)
}

func TestPredictSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	provider, err := NewHFProvider(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = provider.Predict(context.Background(), []byte{1})
	var cerr *ClassifierError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrTypeProvider, cerr.Type)
	assert.Equal(t, http.StatusServiceUnavailable, cerr.Code)
}

func TestPredictRetriesTransientFailures(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"label":"potato early blight","score":0.7}]`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3
	provider, err := NewHFProvider(cfg)
	require.NoError(t, err)

	label, err := provider.Predict(context.Background(), []byte{1})
	require.NoError(t, err)
	assert.Equal(t, "potato early blight", label)
	assert.Equal(t, 2, attempts)
}

func TestNewHFProviderValidatesConfig(t *testing.T) {
	cfg := DefaultConfig()
	_, err := NewHFProvider(cfg)
	var cerr *ClassifierError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrTypeConfig, cerr.Type)
}
