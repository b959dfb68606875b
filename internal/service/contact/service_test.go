package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	neturl "net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() Submission {
	return Submission{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Project inquiry",
		Message: "Would you be available next month?",
	}
}

func TestValidateAcceptsValidSubmission(t *testing.T) {
	assert.NoError(t, Validate(validSubmission()))
}

func TestValidateReportsEveryField(t *testing.T) {
	err := Validate(Submission{Name: "A", Email: "not-an-email", Subject: "Hey", Message: "short"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"name":    "Name must be at least 2 characters.",
		"email":   "Please enter a valid email address.",
		"subject": "Subject must be at least 5 characters.",
		"message": "Message must be at least 10 characters.",
	}, verr.Fields)
	assert.Equal(t, "invalid submission: email, message, name, subject", verr.Error())
}

func TestSubmitForwardsJSON(t *testing.T) {
	var got Submission
	var accept string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer backend.Close()

	svc := NewService(backend.URL, time.Second)
	require.NoError(t, svc.Submit(context.Background(), validSubmission()))

	assert.Equal(t, validSubmission(), got)
	assert.Equal(t, "application/json", accept)
}

func TestSubmitDoesNotForwardInvalidSubmission(t *testing.T) {
	called := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer backend.Close()

	err := NewService(backend.URL, time.Second).Submit(context.Background(), Submission{})

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.False(t, called)
}

func TestSubmitBackendRejection(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":[{"message":"form not found"}]}`))
	}))
	defer backend.Close()

	err := NewService(backend.URL, time.Second).Submit(context.Background(), validSubmission())
	assert.ErrorIs(t, err, ErrForwardFailed)
}

func TestSubmitBackendUnreachable(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	err := NewService(url, time.Second).Submit(context.Background(), validSubmission())
	assert.ErrorIs(t, err, ErrForwardFailed)

	var urlErr *neturl.Error
	assert.True(t, errors.As(err, &urlErr))
}

func TestValidateEmailRequiresDomainWithTLD(t *testing.T) {
	for _, email := range []string{"a@b", "ada@localhost", "ada@", "@example.com", "ada example@x.io"} {
		sub := validSubmission()
		sub.Email = email

		var verr *ValidationError
		require.True(t, errors.As(Validate(sub), &verr), email)
		assert.Equal(t, map[string]string{"email": "Please enter a valid email address."}, verr.Fields, email)
	}

	for _, email := range []string{"a@b.co", "ada.lovelace+work@mail.example.org"} {
		sub := validSubmission()
		sub.Email = email
		assert.NoError(t, Validate(sub), email)
	}
}
