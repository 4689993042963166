// Package elasticsearch implements the cluster calls the field usage
// aggregator and the index sink need on top of go-elasticsearch.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/mitchellh/mapstructure"

	infraerrors "github.com/jonesrussell/north-cloud/field-usage/infrastructure/errors"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
)

// DefaultBulkBatchSize caps the number of documents sent per bulk request.
const DefaultBulkBatchSize = 500

// Client wraps an *es.Client with typed field usage operations.
type Client struct {
	es        *es.Client
	log       logger.Logger
	batchSize int
}

var _ fieldusage.Cluster = (*Client)(nil)

// NewClient wraps client. A nil log discards messages.
func NewClient(client *es.Client, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{es: client, log: log, batchSize: DefaultBulkBatchSize}
}

// FieldUsageStats calls GET /{pattern}/_field_usage_stats and decodes every
// index entry. The shard summary entry is kept under fieldusage.ShardsKey
// without per-field data.
func (c *Client) FieldUsageStats(ctx context.Context, pattern string) (map[string]fieldusage.IndexFieldUsage, error) {
	res, err := c.es.Indices.FieldUsageStats(
		pattern,
		c.es.Indices.FieldUsageStats.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("field usage stats request: %w", err)
	}
	defer closeBody(res, c.log)

	if res.IsError() {
		return nil, infraerrors.ParseResponse(res.StatusCode, res.Body)
	}

	var raw map[string]any
	if err := decodeBody(res.Body, &raw); err != nil {
		return nil, fmt.Errorf("decode field usage stats: %w", err)
	}

	out := make(map[string]fieldusage.IndexFieldUsage, len(raw))
	for index, entry := range raw {
		if index == fieldusage.ShardsKey {
			out[index] = fieldusage.IndexFieldUsage{}
			continue
		}
		var usage fieldusage.IndexFieldUsage
		if err := decodeUsage(entry, &usage); err != nil {
			return nil, fmt.Errorf("decode field usage for %s: %w", index, err)
		}
		out[index] = usage
	}

	c.log.Debug("Field usage stats received",
		logger.String("pattern", pattern),
		logger.Int("entries", len(out)),
	)
	return out, nil
}

func decodeUsage(input any, out *fieldusage.IndexFieldUsage) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// FieldMapping calls GET /{index}/_mapping and returns mappings.properties.
// An index without properties yields an empty map.
func (c *Client) FieldMapping(ctx context.Context, index string) (map[string]any, error) {
	res, err := c.es.Indices.GetMapping(
		c.es.Indices.GetMapping.WithIndex(index),
		c.es.Indices.GetMapping.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("get mapping request: %w", err)
	}
	defer closeBody(res, c.log)

	if res.IsError() {
		return nil, infraerrors.ParseResponse(res.StatusCode, res.Body)
	}

	var body map[string]struct {
		Mappings struct {
			Properties map[string]any `json:"properties"`
		} `json:"mappings"`
	}
	if err := decodeBody(res.Body, &body); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}

	entry, ok := body[index]
	if !ok {
		// An alias resolves to the concrete index name.
		if len(body) != 1 {
			return nil, fmt.Errorf("mapping response for %s holds %d indices", index, len(body))
		}
		for _, only := range body {
			entry = only
		}
	}

	if entry.Mappings.Properties == nil {
		return map[string]any{}, nil
	}
	return entry.Mappings.Properties, nil
}

// ListIndices returns the names of indices matching pattern, sorted.
func (c *Client) ListIndices(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}

	res, err := c.es.Cat.Indices(
		c.es.Cat.Indices.WithIndex(pattern),
		c.es.Cat.Indices.WithH("index"),
		c.es.Cat.Indices.WithFormat("json"),
		c.es.Cat.Indices.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("list indices request: %w", err)
	}
	defer closeBody(res, c.log)

	if res.IsError() {
		return nil, infraerrors.ParseResponse(res.StatusCode, res.Body)
	}

	var rows []struct {
		Index string `json:"index"`
	}
	if err := decodeBody(res.Body, &rows); err != nil {
		return nil, fmt.Errorf("decode index list: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Index)
	}
	slices.Sort(names)
	return names, nil
}

// Ping checks that the cluster answers.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer closeBody(res, c.log)

	if res.IsError() {
		return infraerrors.ParseResponse(res.StatusCode, res.Body)
	}
	return nil
}

// BulkIndex writes docs into index in batches and returns how many were
// accepted. Any rejected item fails the call with a *BulkError.
func (c *Client) BulkIndex(ctx context.Context, index string, docs []any) (int, error) {
	indexed := 0
	for batch := range slices.Chunk(docs, c.batchSize) {
		n, err := c.bulk(ctx, index, batch)
		indexed += n
		if err != nil {
			return indexed, err
		}
	}
	c.log.Debug("Bulk indexed documents",
		logger.String("index", index),
		logger.Int("count", indexed),
	)
	return indexed, nil
}

func (c *Client) bulk(ctx context.Context, index string, docs []any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	action := map[string]any{"index": map[string]any{}}
	for _, doc := range docs {
		if err := enc.Encode(action); err != nil {
			return 0, fmt.Errorf("encode bulk action: %w", err)
		}
		if err := enc.Encode(doc); err != nil {
			return 0, fmt.Errorf("encode bulk document: %w", err)
		}
	}

	res, err := c.es.Bulk(
		bytes.NewReader(buf.Bytes()),
		c.es.Bulk.WithIndex(index),
		c.es.Bulk.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("bulk request: %w", err)
	}
	defer closeBody(res, c.log)

	if res.IsError() {
		return 0, infraerrors.ParseResponse(res.StatusCode, res.Body)
	}

	var body bulkResponse
	if err := decodeBody(res.Body, &body); err != nil {
		return 0, fmt.Errorf("decode bulk response: %w", err)
	}
	return body.result(index)
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

func (b bulkResponse) result(index string) (int, error) {
	ok := 0
	var failed BulkError
	failed.Index = index
	for _, item := range b.Items {
		for _, outcome := range item {
			if outcome.Error == nil {
				ok++
				continue
			}
			failed.Failed++
			if failed.FirstReason == "" {
				failed.FirstReason = outcome.Error.Type + ": " + outcome.Error.Reason
			}
		}
	}
	if failed.Failed > 0 {
		return ok, &failed
	}
	return ok, nil
}

// BulkError reports documents a bulk request rejected.
type BulkError struct {
	Index       string
	Failed      int
	FirstReason string
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("%d documents rejected by %s, first: %s", e.Failed, e.Index, e.FirstReason)
}

func decodeBody(body io.Reader, out any) error {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	return dec.Decode(out)
}

func closeBody(res *esapi.Response, log logger.Logger) {
	if err := res.Body.Close(); err != nil {
		log.Debug("Failed to close response body", logger.Error(err))
	}
}
