package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contactservice "github.com/vivekdev/portfolio/backend/internal/service/contact"
)

type submitterFunc func(ctx context.Context, sub contactservice.Submission) error

func (f submitterFunc) Submit(ctx context.Context, sub contactservice.Submission) error {
	return f(ctx, sub)
}

const validBody = `{"name":"Ada","email":"ada@example.com","subject":"Project idea","message":"Let's build something together."}`

func serve(submitter Submitter, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	New(submitter).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSubmitSent(t *testing.T) {
	var logs bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = previous })

	var got contactservice.Submission
	resp := serve(submitterFunc(func(_ context.Context, sub contactservice.Submission) error {
		got = sub
		return nil
	}), validBody)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"sent"}`, resp.Body.String())
	assert.Equal(t, "ada@example.com", got.Email)
	assert.NotContains(t, logs.String(), "ada@example.com")
}

func TestSubmitValidationFailureThroughService(t *testing.T) {
	svc := contactservice.NewService("http://127.0.0.1:0/unused", 0)
	resp := serve(svc, `{"name":"A","email":"nope","subject":"Hi","message":"short"}`)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, "Name must be at least 2 characters.", body.Fields["name"])
	assert.Equal(t, "Please enter a valid email address.", body.Fields["email"])
	assert.Len(t, body.Fields, 4)
}

func TestSubmitStatusMapping(t *testing.T) {
	cases := []struct {
		name      string
		submitter Submitter
		body      string
		status    int
	}{
		{"not configured", nil, validBody, http.StatusServiceUnavailable},
		{"malformed body", submitterFunc(func(context.Context, contactservice.Submission) error { return nil }), `{`, http.StatusBadRequest},
		{"backend failure", submitterFunc(func(context.Context, contactservice.Submission) error {
			return fmt.Errorf("%w: status 500", contactservice.ErrForwardFailed)
		}), validBody, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, serve(tc.submitter, tc.body).Code)
		})
	}
}
