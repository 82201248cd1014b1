package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/data443/doctagger/pkg/infra/classifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListPoliciesHandler_ReturnsPolicies(t *testing.T) {
	f := newWebFixture(t)
	f.classifier.On("GetPolicies", mock.Anything).Return([]classifier.Policy{
		{ID: "p1", Name: "pii"},
		{ID: "p2", Name: "financial"},
	}, nil)

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/policies", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var policies []classifier.Policy
	require.NoError(t, json.Unmarshal(body, &policies))
	assert.Len(t, policies, 2)
	assert.Equal(t, "pii", policies[0].Name)
}

func TestListPoliciesHandler_ServiceUnavailable(t *testing.T) {
	f := newWebFixture(t)
	f.classifier.On("GetPolicies", mock.Anything).
		Return(nil, errors.New("connection refused"))

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/policies", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGetPolicyHandler_ReturnsPolicy(t *testing.T) {
	f := newWebFixture(t)
	f.classifier.On("GetPolicy", mock.Anything, "p1").
		Return(&classifier.Policy{ID: "p1", Name: "pii"}, nil)

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/policies/p1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var policy classifier.Policy
	require.NoError(t, json.Unmarshal(body, &policy))
	assert.Equal(t, "pii", policy.Name)
}

func TestGetPolicyHandler_NotFound(t *testing.T) {
	f := newWebFixture(t)
	f.classifier.On("GetPolicy", mock.Anything, "missing").
		Return(nil, classifier.ErrPolicyNotFound)

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/policies/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPolicyHandler_UpstreamFailureIsBadGateway(t *testing.T) {
	f := newWebFixture(t)
	f.classifier.On("GetPolicy", mock.Anything, "p1").
		Return(nil, classifier.ErrClassifierCall)

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/policies/p1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
