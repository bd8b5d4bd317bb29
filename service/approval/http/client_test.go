package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/approval"
)

const testSecret = "test-secret"

func parseClaims(t *testing.T, header string) jwt.MapClaims {
	require.True(t, strings.HasPrefix(header, "Bearer "))
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	return claims
}

func TestClient_Instances(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodGet, r.Method)
		assert.Equal(t, InstancesPath, r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"instances":[
			{"id":"exec-1","state":"WAITING_FOR_HUMAN","trigger_context":{"environment":{"TOKEN":"hibernator+secret://env/TOKEN"}}},
			{"id":"exec-2","state":"SOMETHING_NEW"},
			{"id":"exec-3"},
			{"state":"APPROVED"}
		]}`))
	}))
	defer server.Close()

	client := New(server.URL+"/", WithTokenSource(NewTokenSource(testSecret)))
	instances, err := client.Instances(context.Background())
	require.NoError(t, err)
	require.Len(t, instances, 3)
	assert.Equal(t, "exec-1", instances[0].ID)
	assert.Equal(t, execution.StateWaitingForHuman, instances[0].State)
	assert.Equal(t, map[string]interface{}{"TOKEN": "hibernator+secret://env/TOKEN"}, instances[0].Environment())
	assert.Equal(t, execution.StateUnknown, instances[1].State)
	assert.Equal(t, execution.StateUnknown, instances[2].State)

	claims := parseClaims(t, authHeader)
	assert.Equal(t, DefaultSubject, claims["sub"])
	assert.Equal(t, IdentityMachine, claims["type"])
	assert.Equal(t, []interface{}{RoleRunner}, claims["roles"])
}

func TestClient_InstancesErrors(t *testing.T) {
	testCases := []struct {
		name    string
		handler nethttp.HandlerFunc
	}{
		{name: "server error", handler: func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusInternalServerError)
		}},
		{name: "invalid json", handler: func(w nethttp.ResponseWriter, r *nethttp.Request) {
			_, _ = w.Write([]byte(`{"instances":`))
		}},
		{name: "timeout", handler: func(w nethttp.ResponseWriter, r *nethttp.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()
			client := New(server.URL, WithTimeout(50*time.Millisecond))
			instances, err := client.Instances(context.Background())
			assert.Error(t, err)
			assert.Nil(t, instances)
		})
	}
}

func TestClient_RequestDecision(t *testing.T) {
	var received approval.Request
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPost, r.Method)
		assert.Equal(t, DecisionsPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		parseClaims(t, r.Header.Get("Authorization"))
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &received)
		if received.ExecutionID == "bad" {
			w.WriteHeader(nethttp.StatusConflict)
			_, _ = w.Write([]byte("already decided"))
			return
		}
		w.WriteHeader(nethttp.StatusCreated)
	}))
	defer server.Close()

	client := New(server.URL,
		WithTokenSource(NewTokenSource(testSecret)),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	err := client.RequestDecision(context.Background(), approval.NewRequest("exec-1", map[string]interface{}{"risk": "HIGH"}))
	require.NoError(t, err)
	assert.Equal(t, "exec-1", received.ExecutionID)
	assert.Equal(t, approval.DecisionRequestApproval, received.Decision)
	assert.Equal(t, map[string]interface{}{"risk": "HIGH"}, received.Context)

	err = client.RequestDecision(context.Background(), approval.NewRequest("bad", nil))
	assert.Error(t, err)
}

func TestTokenSource(t *testing.T) {
	_, err := NewTokenSource("").Token()
	assert.Error(t, err)

	source := NewTokenSource(testSecret)
	source.TTL = 2 * time.Minute
	token, err := source.Token()
	require.NoError(t, err)
	claims := parseClaims(t, "Bearer "+token)
	iat, _ := claims.GetIssuedAt()
	exp, _ := claims.GetExpirationTime()
	require.NotNil(t, iat)
	require.NotNil(t, exp)
	assert.Equal(t, 2*time.Minute, exp.Sub(iat.Time))
}
