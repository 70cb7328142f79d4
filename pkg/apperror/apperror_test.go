package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"invalid transition", InvalidTransition("request", "APPROVED", "APPROVED"), http.StatusConflict},
		{"authorization", Authorization("missing role"), http.StatusForbidden},
		{"not found", NotFound("request", 42), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestHTTPStatusUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("transition request: %w", InvalidTransition("request", "REJECTED", "APPROVED"))
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))

	var transition *InvalidTransitionError
	assert.ErrorAs(t, err, &transition)
	assert.Equal(t, "REJECTED", transition.From)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "request 42 not found", NotFound("request", 42).Error())
	assert.Equal(t, "request in status FULFILLED does not permit transition to APPROVED",
		InvalidTransition("request", "FULFILLED", "APPROVED").Error())
	assert.Equal(t, "material 7 appears more than once", Validation("material %d appears more than once", 7).Error())
}
