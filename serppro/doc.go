// Package serppro provides a client for the SerpPro SEO-data REST API.
//
// The API exposes Yandex Wordstat keyword data (frequency, deep associations
// and historical trends), region database lookups for Yandex and Google, and
// usage/billing counters. This package wraps each endpoint in a typed method
// and funnels every call through a single request executor.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := serppro.NewClient("https://moab-apis.ru", "your-api-key", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.WordstatFrequency(ctx, serppro.FrequencyRequest{
//		Query:  "Король и Шут",
//		Region: "225",
//	})
//
// # Profiles
//
// Two named profiles cover the two supported connection policies:
//
//   - ProfileSerpPro (the default): TLS verification on, 300 second
//     per-attempt timeout, timed-out attempts retried without bound.
//   - ProfileWordstat: TLS verification off, no explicit timeout, one
//     attempt per call.
//
// Either profile's settings can be overridden individually with WithTimeout,
// WithMaxAttempts and WithInsecureSkipVerify. Unbounded retry blocks the
// caller while the remote keeps timing out; cancel the context or set
// WithMaxAttempts to bound it.
//
// # Error Handling
//
// Callers can distinguish three failure classes:
//
//   - *ValidationError: caller input rejected before any network activity
//   - *APIError with StatusCode != 0: the remote rejected the request; the
//     structured error body is exposed via Model when decodable
//   - *APIError with StatusCode == 0: the remote was never reached
package serppro
