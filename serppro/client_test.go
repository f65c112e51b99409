package serppro

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string, opts ...Option) *Client {
	t.Helper()
	client, err := NewClient(serverURL, "test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("missing base URL", func(t *testing.T) {
		_, err := NewClient("", "key", logger)
		require.ErrorIs(t, err, ErrMissingBaseURL)
	})

	t.Run("missing API key", func(t *testing.T) {
		_, err := NewClient("https://moab-apis.ru", "", logger)
		require.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("trailing slash stripped", func(t *testing.T) {
		client, err := NewClient("https://moab-apis.ru/", "key", logger)
		require.NoError(t, err)
		assert.Equal(t, "https://moab-apis.ru", client.baseURL)
	})

	t.Run("default profile", func(t *testing.T) {
		client, err := NewClient("https://moab-apis.ru", "key", logger)
		require.NoError(t, err)
		assert.Equal(t, 0, client.maxAttempts)
		assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
		assert.Nil(t, client.httpClient.Transport)
	})

	t.Run("wordstat profile", func(t *testing.T) {
		client, err := NewClient("https://moab-apis.ru", "key", logger, WithProfile(ProfileWordstat))
		require.NoError(t, err)
		assert.Equal(t, 1, client.maxAttempts)
		assert.Equal(t, time.Duration(0), client.httpClient.Timeout)
		require.NotNil(t, client.httpClient.Transport)
		transport := client.httpClient.Transport.(*http.Transport)
		assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
	})

	t.Run("profile settings can be overridden", func(t *testing.T) {
		client, err := NewClient("https://moab-apis.ru", "key", logger,
			WithProfile(ProfileSerpPro),
			WithTimeout(10*time.Second),
			WithMaxAttempts(3),
		)
		require.NoError(t, err)
		assert.Equal(t, 3, client.maxAttempts)
		assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
	})
}

func TestWordstatFrequency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/wordstat/frequency", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, map[string]any{
			"query":     "Король и Шут",
			"region":    "225",
			"device":    "All",
			"task_type": "Regular",
			"syntax":    "Ws",
		}, payload)

		json.NewEncoder(w).Encode(map[string]any{"frequency": 152340})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	resp, err := client.WordstatFrequency(context.Background(), FrequencyRequest{
		Query:  "Король и Шут",
		Region: "225",
	})
	require.NoError(t, err)
	assert.Equal(t, 152340, resp.Frequency)
}

func TestWordstatDeep(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wordstat/deep", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		// Deep requests carry no syntax field.
		assert.NotContains(t, payload, "syntax")

		json.NewEncoder(w).Encode(map[string]any{
			"associations": []map[string]any{
				{"frequency": "1200", "phrase": "король и шут аккорды"},
			},
			"popular": []map[string]any{
				{"frequency": "900", "phrase": "киш"},
				{"frequency": "400", "phrase": "горшок"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	resp, err := client.WordstatDeep(context.Background(), DeepRequest{Query: "Король и Шут"})
	require.NoError(t, err)
	require.Len(t, resp.Associations, 1)
	assert.Equal(t, "1200", resp.Associations[0].Frequency)
	assert.Equal(t, "король и шут аккорды", resp.Associations[0].Phrase)
	require.Len(t, resp.Popular, 2)
	assert.Equal(t, "киш", resp.Popular[0].Phrase)
	assert.False(t, resp.Invalid)
	assert.Empty(t, resp.Date)
}

func TestWordstatHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wordstat/history", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Month", payload["grouping"])
		assert.Equal(t, "2025-07-01", payload["start_date"])

		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"date": "2025-07-01T00:00:00", "frequency": 1000, "all_requests_percentage": 0.012},
				{"date": "2025-08-01T00:00:00", "frequency": 1250, "all_requests_percentage": 0.015},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	resp, err := client.WordstatHistory(context.Background(), HistoryRequest{
		Query:     "Король и Шут",
		StartDate: "2025-07-01",
		EndDate:   "2025-09-30",
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 1250, resp.Items[1].Frequency)
	assert.InDelta(t, 0.015, resp.Items[1].AllRequestsPercentage, 1e-9)
}

func TestValidationFailsBeforeNetwork(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.WordstatHistory(context.Background(), HistoryRequest{Query: ""})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = client.WordstatFrequency(context.Background(), FrequencyRequest{Device: Device("Watch")})
	require.ErrorAs(t, err, &vErr)

	_, err = client.RegionCheck(context.Background(), "225", SearchSystem("Bing"), RegionSearchByCode)
	require.ErrorAs(t, err, &vErr)

	assert.Equal(t, int32(0), requests.Load())
}

func TestUnprocessableError(t *testing.T) {
	t.Run("structured body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]any{
				"id":            "err-42",
				"error_message": "query contains forbidden operators",
				"invalid_data":  []string{"query"},
			})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.WordstatFrequency(context.Background(), FrequencyRequest{Query: "!!!"})

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 422, apiErr.StatusCode)
		assert.True(t, apiErr.IsUnprocessable())
		assert.Equal(t, "query contains forbidden operators", apiErr.Message)
		require.NotNil(t, apiErr.Model)
		assert.Equal(t, "err-42", apiErr.Model.ID)
		assert.Equal(t, []string{"query"}, apiErr.Model.InvalidData)
	})

	t.Run("loose message lookup when strict decode fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			// invalid_data has the wrong shape, so the strict decode fails.
			w.Write([]byte(`{"error_message": "bad query", "invalid_data": "query"}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.WordstatFrequency(context.Background(), FrequencyRequest{})

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 422, apiErr.StatusCode)
		assert.Equal(t, "bad query", apiErr.Message)
		assert.Nil(t, apiErr.Model)
	})

	t.Run("unparsable body falls back to default message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte("not json at all"))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.WordstatFrequency(context.Background(), FrequencyRequest{})

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Unprocessable Content - invalid query", apiErr.Message)
		assert.Nil(t, apiErr.Model)
	})
}

func TestServerErrorFallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.FinanceTotal(context.Background(), "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "HTTP 500", apiErr.Message)
	assert.Nil(t, apiErr.Model)
}

func TestRegionLookups(t *testing.T) {
	t.Run("yandex search", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v1/region/yandex", r.URL.Path)
			assert.Equal(t, "Москва", r.URL.Query().Get("query"))
			w.Write([]byte(`[{"name": "Москва", "code": "213"}, {"name": "Московская область", "code": "1"}]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		regions, err := client.RegionYandex(context.Background(), "Москва")
		require.NoError(t, err)
		require.Len(t, regions, 2)
		assert.Equal(t, "213", regions[0].Code)
		assert.Equal(t, "Московская область", regions[1].Name)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		regions, err := client.RegionGoogle(context.Background(), "Atlantis")
		require.NoError(t, err)
		assert.Empty(t, regions)

		regions, err = client.RegionCheck(context.Background(), "999999", SearchSystemYandex, RegionSearchByCode)
		require.NoError(t, err)
		assert.Empty(t, regions)
	})

	t.Run("check sends enum wire values", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/region/check", r.URL.Path)
			assert.Equal(t, "225", r.URL.Query().Get("code"))
			assert.Equal(t, "Yandex", r.URL.Query().Get("searchSystem"))
			assert.Equal(t, "Code", r.URL.Query().Get("searchType"))
			w.Write([]byte(`[{"name": "Россия", "code": "225"}]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		regions, err := client.RegionCheck(context.Background(), "225", SearchSystemYandex, RegionSearchByCode)
		require.NoError(t, err)
		require.Len(t, regions, 1)
		assert.Equal(t, "Россия", regions[0].Name)
	})
}

func TestFinance(t *testing.T) {
	t.Run("total with service param", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v1/finance/total", r.URL.Path)
			assert.Equal(t, "WordstatFrequency", r.URL.Query().Get("service"))
			json.NewEncoder(w).Encode(map[string]any{"request_count": 4821})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		stats, err := client.FinanceTotal(context.Background(), ServiceWordstatFrequency)
		require.NoError(t, err)
		assert.Equal(t, 4821, stats.RequestCount)
	})

	t.Run("total without service param", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.False(t, r.URL.Query().Has("service"))
			json.NewEncoder(w).Encode(map[string]any{"request_count": 0})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		stats, err := client.FinanceTotal(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 0, stats.RequestCount)
	})

	t.Run("statistics posts date range", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/finance/statistics", r.URL.Path)

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, map[string]any{
				"service_type": "WordstatDeep",
				"start_date":   "2025-07-01",
				"end_date":     "2025-10-06",
			}, payload)

			json.NewEncoder(w).Encode(map[string]any{"request_count": 120})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		stats, err := client.FinanceStatistics(context.Background(), FinanceStatsRequest{
			ServiceType: ServiceWordstatDeep,
			StartDate:   "2025-07-01",
			EndDate:     "2025-10-06",
		})
		require.NoError(t, err)
		assert.Equal(t, 120, stats.RequestCount)
	})
}

func TestRetryOnTimeout(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			time.Sleep(500 * time.Millisecond)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"frequency": 77})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithTimeout(50*time.Millisecond))

	resp, err := client.WordstatFrequency(context.Background(), FrequencyRequest{Query: "киш"})
	require.NoError(t, err)
	assert.Equal(t, 77, resp.Frequency)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestMaxAttemptsBoundsRetry(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithTimeout(50*time.Millisecond), WithMaxAttempts(2))

	_, err := client.WordstatFrequency(context.Background(), FrequencyRequest{Query: "киш"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsTransport())
	assert.Equal(t, int32(2), attempts.Load())
}

func TestSingleAttemptProfileDoesNotRetry(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL,
		WithProfile(ProfileWordstat),
		WithTimeout(50*time.Millisecond),
	)

	_, err := client.WordstatFrequency(context.Background(), FrequencyRequest{Query: "киш"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsTransport())
	assert.Equal(t, int32(1), attempts.Load())
}

func TestTransportErrorShortCircuits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	// Unbounded retry configured, but connection refused is not a timeout.
	client := newTestClient(t, serverURL, WithMaxAttempts(0))

	start := time.Now()
	_, err := client.WordstatFrequency(context.Background(), FrequencyRequest{Query: "киш"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsTransport())
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Message)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestContextCancellationStopsRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithMaxAttempts(0))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.WordstatFrequency(ctx, FrequencyRequest{Query: "киш"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsTransport())
	assert.Less(t, time.Since(start), time.Second)
}

func TestBatchFrequency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req FrequencyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		freq := map[string]int{"киш": 100, "горшок": 200, "анархия": 300}[req.Query]
		json.NewEncoder(w).Encode(map[string]any{"frequency": freq})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	requests := []FrequencyRequest{
		{Query: "киш"},
		{Query: "горшок"},
		{Query: "анархия"},
	}

	results, err := client.BatchFrequency(context.Background(), requests, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 100, results[0].Frequency)
	assert.Equal(t, 200, results[1].Frequency)
	assert.Equal(t, 300, results[2].Frequency)
}

func TestBatchFrequencyPropagatesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.BatchFrequency(context.Background(), []FrequencyRequest{{Query: "киш"}}, 0)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
}
