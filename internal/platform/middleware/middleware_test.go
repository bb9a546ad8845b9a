// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brokerdesk/brokerdesk/internal/platform/constants"
	"github.com/brokerdesk/brokerdesk/internal/platform/ctxutil"
	"github.com/brokerdesk/brokerdesk/internal/platform/ratelimit"
)

func TestRequestID(t *testing.T) {
	t.Run("generates_when_absent", func(t *testing.T) {
		var seen string
		handler := RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			seen = ctxutil.GetRequestID(request.Context())
		}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))
	})

	t.Run("preserves_client_provided_id", func(t *testing.T) {
		var seen string
		handler := RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			seen = ctxutil.GetRequestID(request.Context())
		}))

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXRequestID, "trace-123")

		handler.ServeHTTP(httptest.NewRecorder(), request)
		assert.Equal(t, "trace-123", seen)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.New(ratelimit.Config{RPS: 1, Burst: 2, ClientTTL: constants.RateLimitClientTTL})

	handler := RateLimit(limiter)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"real_ip_header_wins", map[string]string{constants.HeaderXRealIP: "203.0.113.9"}, "203.0.113.9"},
		{"forwarded_for_first_hop", map[string]string{constants.HeaderXForwardedFor: "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"falls_back_to_remote_addr", nil, "192.0.2.1"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			for key, value := range testCase.headers {
				request.Header.Set(key, value)
			}
			assert.Equal(t, testCase.want, RealIP(request))
		})
	}
}

func TestIsSecure(t *testing.T) {
	t.Run("forwarded_proto_header_decides_behind_proxy", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXForwardedProto, "https")
		assert.True(t, IsSecure(request))

		request.Header.Set(constants.HeaderXForwardedProto, "http")
		assert.False(t, IsSecure(request))
	})

	t.Run("falls_back_to_tls_state", func(t *testing.T) {
		plain := httptest.NewRequest(http.MethodGet, "http://brokerdesk.app/", nil)
		assert.False(t, IsSecure(plain))

		terminated := httptest.NewRequest(http.MethodGet, "http://brokerdesk.app/", nil)
		terminated.TLS = &tls.ConnectionState{}
		assert.True(t, IsSecure(terminated))
	})
}
