package model

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/himanishpuri/SongScope/pkg/models"
)

// tfServingModel forwards record batches to a TensorFlow Serving instance
// that serves the SavedModel from the model directory.
type tfServingModel struct {
	predictURL string
	signature  string
	scoresKey  string
	titlesKey  string
	client     *http.Client
}

type predictRequest struct {
	SignatureName string         `json:"signature_name"`
	Inputs        map[string]any `json:"inputs"`
}

type predictResponse struct {
	Outputs map[string]json.RawMessage `json:"outputs"`
	Error   string                     `json:"error"`
}

func newTFServing(m Manifest, client *http.Client) (*tfServingModel, error) {
	if m.Endpoint == "" || m.Name == "" {
		return nil, fmt.Errorf("%w: tfserving needs endpoint and name", ErrBadManifest)
	}
	base, err := url.Parse(m.Endpoint)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: bad endpoint %q", ErrBadManifest, m.Endpoint)
	}
	return &tfServingModel{
		predictURL: strings.TrimRight(m.Endpoint, "/") + "/v1/models/" + url.PathEscape(m.Name) + ":predict",
		signature:  m.Signature,
		scoresKey:  m.Outputs["scores"],
		titlesKey:  m.Outputs["titles"],
		client:     client,
	}, nil
}

func (t *tfServingModel) Recommend(ctx context.Context, batch models.RecordBatch) (models.Prediction, error) {
	if err := checkBatch(batch); err != nil {
		return models.Prediction{}, err
	}

	body, err := json.Marshal(predictRequest{SignatureName: t.signature, Inputs: batch.Columns()})
	if err != nil {
		return models.Prediction{}, fmt.Errorf("encoding predict request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.predictURL, bytes.NewReader(body))
	if err != nil {
		return models.Prediction{}, fmt.Errorf("building predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("calling model server: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return models.Prediction{}, fmt.Errorf("reading predict response: %w", err)
	}

	var pr predictResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return models.Prediction{}, fmt.Errorf("decoding predict response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Prediction{}, fmt.Errorf("model server returned %d: %s", resp.StatusCode, pr.Error)
	}

	var pred models.Prediction
	if msg, ok := pr.Outputs[t.scoresKey]; ok {
		if err := json.Unmarshal(msg, &pred.Scores); err != nil {
			return models.Prediction{}, fmt.Errorf("decoding output %s: %w", t.scoresKey, err)
		}
	}
	msg, ok := pr.Outputs[t.titlesKey]
	if !ok {
		return models.Prediction{}, fmt.Errorf("model server response has no output %q", t.titlesKey)
	}
	if err := json.Unmarshal(msg, &pred.Titles); err != nil {
		return models.Prediction{}, fmt.Errorf("decoding output %s: %w", t.titlesKey, err)
	}
	return pred, nil
}
