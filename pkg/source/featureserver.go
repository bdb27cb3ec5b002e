package source

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
)

//go:embed schema/query.json
var querySchemaJSON []byte

const querySchemaURL = "query.json"

var querySchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(querySchemaURL, bytes.NewReader(querySchemaJSON)); err != nil {
		return nil, fmt.Errorf("adding query schema: %w", err)
	}
	return compiler.Compile(querySchemaURL)
})

// DefaultTimeout bounds a single feature service request.
const DefaultTimeout = 30 * time.Second

// FeatureServer queries one layer of an ArcGIS-style feature service.
type FeatureServer struct {
	// URL is the layer endpoint, e.g. .../FeatureServer/0.
	URL    string
	Client *http.Client
	Logger *slog.Logger
}

// NewFeatureServer creates a client for the layer at layerURL.
func NewFeatureServer(layerURL string, timeout time.Duration, logger *slog.Logger) *FeatureServer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FeatureServer{
		URL:    strings.TrimRight(layerURL, "/"),
		Client: &http.Client{Timeout: timeout},
		Logger: logger.With("component", "feature-server"),
	}
}

type serviceError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

// Query issues GET <url>/query and returns the features of the response.
// Responses are checked against the query schema before they are decoded
// into features.
func (s *FeatureServer) Query(ctx context.Context, filter string, fields []string, wantGeometry bool) ([]building.RawFeature, error) {
	if strings.TrimSpace(filter) == "" {
		filter = "1=1"
	}
	if allFields(fields) {
		fields = []string{"*"}
	}
	q := url.Values{}
	q.Set("where", filter)
	q.Set("outFields", strings.Join(fields, ","))
	q.Set("returnGeometry", fmt.Sprint(wantGeometry))
	q.Set("f", "json")
	reqURL := s.URL + "/query?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", s.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, truncate(body, 200))
	}

	features, err := decodeQuery(body)
	if err != nil {
		return nil, err
	}
	s.logger().Debug("features received",
		"url", s.URL, "where", filter, "count", len(features), "duration", time.Since(start))
	return features, nil
}

func decodeQuery(body []byte) ([]building.RawFeature, error) {
	var doc any
	if err := decodeNumbers(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	var failure struct {
		Error *serviceError `json:"error"`
	}
	if err := json.Unmarshal(body, &failure); err == nil && failure.Error != nil {
		return nil, fmt.Errorf("%w: service error %d: %s", ErrInvalidResponse, failure.Error.Code, failure.Error.Message)
	}

	schema, err := querySchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	var set FeatureSet
	if err := decodeNumbers(body, &set); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return set.Features, nil
}

func decodeNumbers(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}

func (s *FeatureServer) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

func (s *FeatureServer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
