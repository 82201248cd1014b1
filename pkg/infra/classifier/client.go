package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/data443/doctagger/pkg/common"
	"github.com/data443/doctagger/pkg/infra/cache"
	"github.com/data443/doctagger/pkg/infra/httpx"
	"github.com/data443/doctagger/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	policiesPath       = "/api/policies"
	classificationPath = "/api/classification/text"
)

var (
	ErrClassifierCall = errors.New("classification service call failed")
	ErrPolicyNotFound = errors.New("policy not found")
)

// Policy is a classification policy exposed by the external API.
type Policy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Match is one pattern match the API reported for a policy.
type Match struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ClassificationResponse is the body returned by the text classification
// endpoint.
type ClassificationResponse struct {
	TotalMatches int     `json:"totalMatches"`
	Matches      []Match `json:"matches"`
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=classifier_client_mock.go --case=underscore
type Client interface {
	GetPolicies(ctx context.Context) ([]Policy, error)
	GetPolicy(ctx context.Context, policyID string) (*Policy, error)
	ClassifyText(ctx context.Context, text, policyID string) (*ClassificationResponse, error)
}

type Options struct {
	BaseURL           string
	RequestsPerMinute int
}

type classiClient struct {
	baseURL        string
	client         httpx.Client
	logger         *logrus.Logger
	circuitBreaker httpx.CircuitBreaker
	limiter        *rateLimiter
	policiesCache  *cache.TTLMap
	policyCache    *cache.TTLMap
}

func NewClient(
	opts Options,
	client httpx.Client,
	circuitBreaker httpx.CircuitBreaker,
	logger *logrus.Logger,
) Client {
	if client == nil {
		client = &http.Client{}
	}
	rpm := opts.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	return &classiClient{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		client:         client,
		logger:         logger,
		circuitBreaker: circuitBreaker,
		limiter:        newRateLimiter(rpm, time.Minute),
		policiesCache:  cache.NewTTLMap(common.PoliciesCacheTTL),
		policyCache:    cache.NewTTLMap(common.PolicyCacheTTL),
	}
}

func (c *classiClient) GetPolicies(ctx context.Context) ([]Policy, error) {
	if cached, ok := c.policiesCache.Get("all"); ok {
		if policies, ok := cached.([]Policy); ok {
			c.logger.Debug("using cached policies")
			return policies, nil
		}
	}

	var policies []Policy
	err := c.circuitBreaker.Execute(func() error {
		var execErr error
		policies, execErr = c.fetchPolicies(ctx)
		return execErr
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Error("failed to retrieve policies")
		}
		return nil, err
	}

	c.policiesCache.Set("all", policies)
	return policies, nil
}

func (c *classiClient) fetchPolicies(ctx context.Context) ([]Policy, error) {
	c.limiter.Wait(ctx)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+policiesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create policies request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call policies endpoint: %w", err)
	}
	defer resp.Body.Close()

	prometheus.ClassifierLatency.WithLabelValues("policies").
		Observe(float64(time.Since(start).Milliseconds()))

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status_code", resp.StatusCode).Error("policies endpoint returned non-200 status")
		return nil, fmt.Errorf("%w: status %d", ErrClassifierCall, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("policies response read error: %w", err)
	}

	var policies []Policy
	if err := json.Unmarshal(body, &policies); err != nil {
		return nil, fmt.Errorf("invalid policies response: %w", err)
	}

	c.logger.WithField("count", len(policies)).Debug("retrieved policies")
	return policies, nil
}

func (c *classiClient) GetPolicy(ctx context.Context, policyID string) (*Policy, error) {
	if cached, ok := c.policyCache.Get(policyID); ok {
		if policy, ok := cached.(*Policy); ok {
			return policy, nil
		}
	}

	var policy *Policy
	err := c.circuitBreaker.Execute(func() error {
		var execErr error
		policy, execErr = c.fetchPolicy(ctx, policyID)
		return execErr
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).WithField("policy_id", policyID).Error("failed to retrieve policy")
		}
		return nil, err
	}

	c.policyCache.Set(policyID, policy)
	return policy, nil
}

func (c *classiClient) fetchPolicy(ctx context.Context, policyID string) (*Policy, error) {
	c.limiter.Wait(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+policiesPath+"/"+policyID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create policy request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call policy endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrPolicyNotFound, policyID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrClassifierCall, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("policy response read error: %w", err)
	}

	var policy Policy
	if err := json.Unmarshal(body, &policy); err != nil {
		return nil, fmt.Errorf("invalid policy response: %w", err)
	}

	return &policy, nil
}

func (c *classiClient) ClassifyText(ctx context.Context, text, policyID string) (*ClassificationResponse, error) {
	// Empty text never matches anything, skip the round trip.
	if strings.TrimSpace(text) == "" {
		c.logger.Debug("empty text provided, skipping classification call")
		return &ClassificationResponse{TotalMatches: 0, Matches: []Match{}}, nil
	}

	var result *ClassificationResponse
	err := c.circuitBreaker.Execute(func() error {
		var execErr error
		result, execErr = c.executeClassifyRequest(ctx, text, policyID)
		return execErr
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).WithField("policy_id", policyID).Error("classification failed")
		}
		return nil, err
	}

	return result, nil
}

func (c *classiClient) executeClassifyRequest(ctx context.Context, text, policyID string) (*ClassificationResponse, error) {
	c.limiter.Wait(ctx)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("Text", text); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	if err := form.WriteField("PolicyId", policyID); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+classificationPath,
		bytes.NewReader(buf.Bytes()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	c.logger.WithFields(logrus.Fields{
		"policy_id":   policyID,
		"text_length": len(text),
	}).Debug("calling classification API")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call classification endpoint: %w", err)
	}
	defer resp.Body.Close()

	prometheus.ClassifierLatency.WithLabelValues("classify").
		Observe(float64(time.Since(start).Milliseconds()))

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status_code", resp.StatusCode).Error("classification endpoint returned non-200 status")
		return nil, fmt.Errorf("%w: status %d", ErrClassifierCall, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("classification response read error: %w", err)
	}

	var classification ClassificationResponse
	if err := json.Unmarshal(body, &classification); err != nil {
		return nil, fmt.Errorf("invalid classification response: %w", err)
	}

	return &classification, nil
}
