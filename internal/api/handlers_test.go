package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	infraerrors "github.com/jonesrussell/north-cloud/field-usage/infrastructure/errors"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/field-usage/internal/api"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage/mocks"
	"github.com/jonesrussell/north-cloud/field-usage/internal/metrics"
	"github.com/jonesrussell/north-cloud/field-usage/internal/testhelpers"
)

type fixture struct {
	cluster *mocks.MockCluster
	server  http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	cluster := mocks.NewMockCluster(ctrl)

	reg := prometheus.NewRegistry()
	fieldMetrics, err := metrics.New(reg)
	require.NoError(t, err)

	handler := api.NewHandler(cluster, fieldMetrics, logger.NewNop())
	server, err := api.NewServer(handler, api.ServerConfig{Port: 8080, Version: "test"}, reg, nil, logger.NewNop())
	require.NoError(t, err)

	return &fixture{cluster: cluster, server: server.Router()}
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return w
}

func TestGetReport(t *testing.T) {
	f := newFixture(t)
	testhelpers.ExpectTwoIndices(f.cluster)

	w := f.get(t, "/api/v1/usage/logs-*/report")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"indices": ["logs-1", "logs-2"],
		"field_count": 4,
		"accessed": {"a": 6, "host.name": 2},
		"unaccessed": {"b": 0, "c": 0}
	}`, w.Body.String())
	assert.True(t, strings.Index(w.Body.String(), `"a":6`) < strings.Index(w.Body.String(), `"host.name":2`))
}

func TestGetPerIndexReport(t *testing.T) {
	f := newFixture(t)
	testhelpers.ExpectTwoIndices(f.cluster)

	w := f.get(t, "/api/v1/usage/logs-*/per-index")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"logs-1": {"indices": "logs-1", "field_count": 3, "accessed": {"a": 5, "host.name": 2}, "unaccessed": {"b": 0}},
		"logs-2": {"indices": "logs-2", "field_count": 2, "accessed": {"a": 1}, "unaccessed": {"c": 0}}
	}`, w.Body.String())
}

func TestGetResults_KeepsOrder(t *testing.T) {
	f := newFixture(t)
	testhelpers.ExpectTwoIndices(f.cluster)

	w := f.get(t, "/api/v1/usage/logs-*/results")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"a":6,"host.name":2,"b":0,"c":0}`, w.Body.String())
}

func TestGetResultsByIndex(t *testing.T) {
	f := newFixture(t)
	testhelpers.ExpectTwoIndices(f.cluster)

	w := f.get(t, "/api/v1/usage/logs-*/results-by-index")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"logs-1":{"a":5,"host.name":2,"b":0},"logs-2":{"a":1,"c":0}}`, w.Body.String())
}

func TestListIndices(t *testing.T) {
	f := newFixture(t)
	f.cluster.EXPECT().ListIndices(gomock.Any(), "logs-*").Return([]string{"logs-1", "logs-2"}, nil)

	w := f.get(t, "/api/v1/usage/logs-*/indices")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Pattern string   `json:"pattern"`
		Indices []string `json:"indices"`
		Count   int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "logs-*", body.Pattern)
	assert.Equal(t, []string{"logs-1", "logs-2"}, body.Indices)
	assert.Equal(t, 2, body.Count)
}

func TestUpstreamFailure(t *testing.T) {
	f := newFixture(t)
	f.cluster.EXPECT().FieldUsageStats(gomock.Any(), "logs-*").Return(nil, errors.New("connection refused"))

	w := f.get(t, "/api/v1/usage/logs-*/report")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "unable to get field usage for logs-*")
}

func TestIndexNotFound(t *testing.T) {
	f := newFixture(t)
	f.cluster.EXPECT().FieldUsageStats(gomock.Any(), "nope").Return(nil, &infraerrors.HTTPError{
		StatusCode: http.StatusNotFound,
		Type:       "index_not_found_exception",
		Reason:     "no such index [nope]",
	})

	w := f.get(t, "/api/v1/usage/nope/results")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	testhelpers.ExpectTwoIndices(f.cluster)

	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/usage/logs-*/report").Code)

	w := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `fieldusage_field_access_count{field="a",index="all_indices",pattern="logs-*"} 6`)
	assert.Contains(t, body, `fieldusage_field_access_count{field="host.name",index="logs-1",pattern="logs-*"} 2`)
	assert.Contains(t, body, `fieldusage_http_requests_total{method="GET",route="/api/v1/usage/:pattern/report",status="200"} 1`)
}

func TestMetricsEndpoint_KeepsEachPattern(t *testing.T) {
	f := newFixture(t)
	testhelpers.ExpectTwoIndices(f.cluster)
	f.cluster.EXPECT().FieldUsageStats(gomock.Any(), "other").Return(map[string]fieldusage.IndexFieldUsage{
		fieldusage.ShardsKey: {},
		"other-1":            testhelpers.Usage(map[string]int64{"z": 9}),
	}, nil)
	f.cluster.EXPECT().FieldMapping(gomock.Any(), "other-1").Return(map[string]any{"z": testhelpers.Leaf()}, nil)

	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/usage/logs-*/report").Code)
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/usage/other/report").Code)

	body := f.get(t, "/metrics").Body.String()
	assert.Contains(t, body, `fieldusage_field_access_count{field="a",index="all_indices",pattern="logs-*"} 6`)
	assert.Contains(t, body, `fieldusage_field_access_count{field="host.name",index="all_indices",pattern="logs-*"} 2`)
	assert.Contains(t, body, `fieldusage_fields{index="all_indices",pattern="logs-*",state="accessed"} 2`)
	assert.Contains(t, body, `fieldusage_field_access_count{field="z",index="all_indices",pattern="other"} 9`)
	assert.Contains(t, body, `fieldusage_fields{index="all_indices",pattern="other",state="accessed"} 1`)
	assert.NotContains(t, body, `field="z",index="all_indices",pattern="logs-*"`)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"fieldusage"`)
}
