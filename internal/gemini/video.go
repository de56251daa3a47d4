package gemini

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// StartVideo submits a long-running video generation job.
func (c *Client) StartVideo(ctx context.Context, prompt, aspectRatio string) (Operation, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Operation{}, ErrEmptyPrompt
	}

	payload := predictRequest{
		Instances: []predictInstance{{Prompt: prompt}},
	}
	if aspectRatio != "" {
		payload.Parameters = &predictParameters{AspectRatio: aspectRatio}
	}

	url := fmt.Sprintf("%s/%s/models/%s:predictLongRunning", c.baseURL, c.apiVersion, c.videoModel)

	var decoded operationResponse
	if err := c.do(ctx, http.MethodPost, url, payload, &decoded); err != nil {
		return Operation{}, err
	}
	if decoded.Name == "" {
		return Operation{}, fmt.Errorf("%w: no operation name", ErrOperationFailed)
	}

	c.logger.Info("video operation started", "operation", decoded.Name, "model", c.videoModel)
	return decoded.operation(), nil
}

func (c *Client) GetOperation(ctx context.Context, name string) (Operation, error) {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return Operation{}, fmt.Errorf("%w: empty operation name", ErrOperationFailed)
	}

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiVersion, name)

	var decoded operationResponse
	if err := c.do(ctx, http.MethodGet, url, nil, &decoded); err != nil {
		return Operation{}, err
	}
	if decoded.Name == "" {
		decoded.Name = name
	}
	return decoded.operation(), nil
}

// PollVideo waits interval between reads of the operation and reports each
// read to onPoll. There is no cap on the number of polls: it returns when the
// operation is done or ctx ends.
func (c *Client) PollVideo(ctx context.Context, name string, interval time.Duration, onPoll func(Operation)) (Operation, error) {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return Operation{}, ctx.Err()
		case <-timer.C:
		}

		op, err := c.GetOperation(ctx, name)
		if err != nil {
			return Operation{}, err
		}
		c.logger.Debug("video operation polled", "operation", name, "attempt", attempt, "done", op.Done)

		if onPoll != nil {
			onPoll(op)
		}

		if op.Done {
			if op.Error != "" {
				return op, fmt.Errorf("%w: %s", ErrOperationFailed, op.Error)
			}
			if len(op.VideoURIs) == 0 {
				return op, fmt.Errorf("%w: no video in response", ErrOperationFailed)
			}
			return op, nil
		}

		timer.Reset(interval)
	}
}

// FetchVideo downloads a generated video. The file URIs returned by the
// operation require the API key.
func (c *Client) FetchVideo(ctx context.Context, uri string) ([]byte, error) {
	if c.httpClient == nil {
		return nil, fmt.Errorf("http client is nil")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}

type predictRequest struct {
	Instances  []predictInstance  `json:"instances"`
	Parameters *predictParameters `json:"parameters,omitempty"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type operationResponse struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (r operationResponse) operation() Operation {
	op := Operation{Name: r.Name, Done: r.Done}
	if r.Response != nil {
		for _, sample := range r.Response.GenerateVideoResponse.GeneratedSamples {
			if sample.Video.URI != "" {
				op.VideoURIs = append(op.VideoURIs, sample.Video.URI)
			}
		}
	}
	if r.Error != nil {
		op.Error = strings.TrimSpace(r.Error.Message)
		if op.Error == "" {
			op.Error = fmt.Sprintf("code %d", r.Error.Code)
		}
	}
	return op
}
