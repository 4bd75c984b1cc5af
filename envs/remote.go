package envs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/reusee/sleuth/nets"
)

// Remote talks to a simulator bridge speaking JSON over HTTP.
type Remote struct {
	endpoint string
	client   nets.HTTPClient
}

var _ Environment = new(Remote)

var _ TaskRestrictor = new(Remote)

func NewRemote(endpoint string, client nets.HTTPClient) *Remote {
	return &Remote{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   client,
	}
}

type remoteResetResponse struct {
	Observations []string `json:"observations"`
	Infos        Info     `json:"infos"`
}

type remoteStepRequest struct {
	Actions []string `json:"actions"`
}

type remoteStepResponse struct {
	Observations []string  `json:"observations"`
	Scores       []float64 `json:"scores"`
	Dones        []bool    `json:"dones"`
	Infos        Info      `json:"infos"`
}

type remoteTasks struct {
	Tasks []string `json:"tasks"`
}

func (r *Remote) do(ctx context.Context, method string, path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(bs)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.endpoint+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return wrap(fmt.Errorf("%w: %s %s: %w", ErrEnvironment, method, path, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		content, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrEnvironment, method, path, resp.StatusCode, content)
	}
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %s %s: decode: %w", ErrEnvironment, method, path, err)
	}
	return nil
}

func (r *Remote) Reset(ctx context.Context) ([]string, Info, error) {
	var resp remoteResetResponse
	if err := r.do(ctx, http.MethodPost, "/reset", struct{}{}, &resp); err != nil {
		return nil, Info{}, err
	}
	if err := CheckBatch(resp.Observations, resp.Infos); err != nil {
		return nil, Info{}, err
	}
	return resp.Observations, resp.Infos, nil
}

func (r *Remote) Step(ctx context.Context, actions []string) ([]string, []float64, []bool, Info, error) {
	var resp remoteStepResponse
	if err := r.do(ctx, http.MethodPost, "/step", remoteStepRequest{
		Actions: actions,
	}, &resp); err != nil {
		return nil, nil, nil, Info{}, err
	}
	if err := CheckBatch(resp.Observations, resp.Infos, len(resp.Scores), len(resp.Dones)); err != nil {
		return nil, nil, nil, Info{}, err
	}
	return resp.Observations, resp.Scores, resp.Dones, resp.Infos, nil
}

func (r *Remote) Close() error {
	return r.do(context.Background(), http.MethodPost, "/close", struct{}{}, nil)
}

func (r *Remote) Tasks(ctx context.Context) ([]string, error) {
	var resp remoteTasks
	if err := r.do(ctx, http.MethodGet, "/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (r *Remote) SetTasks(ctx context.Context, tasks []string) error {
	return r.do(ctx, http.MethodPost, "/tasks", remoteTasks{
		Tasks: tasks,
	}, nil)
}
