package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sandeepkv93/storefront-crud-api/internal/observability"
)

type Config struct {
	BaseURL     string
	Profile     string
	Duration    time.Duration
	RPS         int
	Concurrency int
	Seed        int64
	Client      *http.Client
}

type Result struct {
	TotalRequests int64
	Failures      int64
	Status2xx     int64
	Status4xx     int64
	Status5xx     int64
	Scenarios     int64
}

type scenario func(ctx context.Context, c *caller) error

type counters struct {
	total, failures, s2xx, s4xx, s5xx, scenarios atomic.Int64
}

func (c *counters) result() Result {
	return Result{
		TotalRequests: c.total.Load(),
		Failures:      c.failures.Load(),
		Status2xx:     c.s2xx.Load(),
		Status4xx:     c.s4xx.Load(),
		Status5xx:     c.s5xx.Load(),
		Scenarios:     c.scenarios.Load(),
	}
}

// Run drives the product and user endpoints at roughly cfg.RPS scenario
// starts per second until cfg.Duration elapses or ctx is canceled.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Duration <= 0 {
		cfg.Duration = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 15
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 5 * time.Second}
	}
	profile := strings.ToLower(cfg.Profile)
	if profile == "" {
		profile = "mixed"
	}
	scenarios := scenariosForProfile(profile)
	if len(scenarios) == 0 {
		return Result{}, fmt.Errorf("unknown profile: %s", cfg.Profile)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	stats := &counters{}
	jobs := make(chan scenario, cfg.Concurrency*2)
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < cfg.Concurrency; i++ {
		c := &caller{client: cfg.Client, baseURL: cfg.BaseURL, profile: profile, stats: stats}
		g.Go(func() error {
			for sc := range jobs {
				if err := sc(gctx, c); err != nil && gctx.Err() == nil {
					stats.failures.Add(1)
				}
				stats.scenarios.Add(1)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed>>1)))
		ticker := time.NewTicker(tickInterval(cfg.RPS))
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				select {
				case jobs <- scenarios[rng.IntN(len(scenarios))]:
				case <-gctx.Done():
					return nil
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return stats.result(), err
	}
	return stats.result(), nil
}

func scenariosForProfile(profile string) []scenario {
	switch profile {
	case "mixed":
		return []scenario{productLifecycle, userLifecycle, listAll, listAll, invalidRequests}
	case "products":
		return []scenario{productLifecycle, listProducts}
	case "users":
		return []scenario{userLifecycle, listUsers}
	case "error-heavy":
		return []scenario{invalidRequests, invalidRequests, productLifecycle}
	default:
		return nil
	}
}

type caller struct {
	client  *http.Client
	baseURL string
	profile string
	stats   *counters
}

var errUnexpectedStatus = errors.New("unexpected status")

// do issues one request and decodes the JSON body into out when out is non-nil.
func (c *caller) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.stats.total.Add(1)
	class := statusClass(resp.StatusCode)
	switch class {
	case "2xx":
		c.stats.s2xx.Add(1)
	case "4xx":
		c.stats.s4xx.Add(1)
	case "5xx":
		c.stats.s5xx.Add(1)
	}
	observability.RecordLoadgenRequest(ctx, class, c.profile)

	if resp.StatusCode != want {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s %s got %d want %d", errUnexpectedStatus, method, path, resp.StatusCode, want)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

type idPayload struct {
	ID uint `json:"id"`
}

func productLifecycle(ctx context.Context, c *caller) error {
	var created idPayload
	name := "loadgen-" + uuid.NewString()[:8]
	if err := c.do(ctx, http.MethodPost, "/api/products", map[string]any{"name": name, "price": 9.99}, http.StatusCreated, &created); err != nil {
		return err
	}
	path := "/api/products/" + strconv.FormatUint(uint64(created.ID), 10)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, nil); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPut, path, map[string]any{"name": name, "price": 12.5}, http.StatusOK, nil); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPatch, path, nil, http.StatusOK, nil); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, http.StatusOK, nil)
}

func userLifecycle(ctx context.Context, c *caller) error {
	id := uuid.NewString()
	var created struct {
		Data idPayload `json:"data"`
	}
	body := map[string]any{
		"username": "lg-" + id,
		"email":    "lg-" + id + "@example.com",
		"password": "loadgen-password",
	}
	if err := c.do(ctx, http.MethodPost, "/api/users", body, http.StatusOK, &created); err != nil {
		return err
	}
	path := "/api/users/" + strconv.FormatUint(uint64(created.Data.ID), 10)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, nil); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPut, path, map[string]any{"role": "admin"}, http.StatusOK, nil); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPatch, path, nil, http.StatusOK, nil); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, http.StatusOK, nil)
}

func listProducts(ctx context.Context, c *caller) error {
	return c.do(ctx, http.MethodGet, "/api/products", nil, http.StatusOK, nil)
}

func listUsers(ctx context.Context, c *caller) error {
	return c.do(ctx, http.MethodGet, "/api/users", nil, http.StatusOK, nil)
}

func listAll(ctx context.Context, c *caller) error {
	if err := listProducts(ctx, c); err != nil {
		return err
	}
	return listUsers(ctx, c)
}

// invalidRequests exercises the validation and not-found paths. Every request
// is expected to be rejected, so only a mismatched status counts as failure.
func invalidRequests(ctx context.Context, c *caller) error {
	if err := c.do(ctx, http.MethodPost, "/api/products", map[string]any{"price": -1}, http.StatusBadRequest, nil); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/not-a-number", nil, http.StatusBadRequest, nil); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPost, "/api/users", map[string]any{"email": "nope"}, http.StatusBadRequest, nil); err != nil {
		return err
	}
	return c.do(ctx, http.MethodGet, "/api/users/999999999", nil, http.StatusNotFound, nil)
}

// tickInterval spaces scenario dispatch for rps, never below 1ns so the
// ticker stays valid at absurd rates.
func tickInterval(rps int) time.Duration {
	if rps <= 0 {
		return time.Second
	}
	return max(time.Second/time.Duration(rps), time.Nanosecond)
}
