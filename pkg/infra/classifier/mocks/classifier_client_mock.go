package mocks

import (
	"context"

	"github.com/data443/doctagger/pkg/infra/classifier"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) GetPolicies(ctx context.Context) ([]classifier.Policy, error) {
	args := m.Called(ctx)
	policies, _ := args.Get(0).([]classifier.Policy) //nolint:errcheck
	return policies, args.Error(1)
}

func (m *Client) GetPolicy(ctx context.Context, policyID string) (*classifier.Policy, error) {
	args := m.Called(ctx, policyID)
	policy, _ := args.Get(0).(*classifier.Policy) //nolint:errcheck
	return policy, args.Error(1)
}

func (m *Client) ClassifyText(ctx context.Context, text, policyID string) (*classifier.ClassificationResponse, error) {
	args := m.Called(ctx, text, policyID)
	resp, _ := args.Get(0).(*classifier.ClassificationResponse) //nolint:errcheck
	return resp, args.Error(1)
}
