package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-directory-service/internal/error/code"
	"org-directory-service/internal/error/errs"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(err error) (*httptest.ResponseRecorder, Response) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FromError(c, err)

	var body Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestFromError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"building", errs.NotFound(errs.KindBuilding, 999), http.StatusNotFound, code.ErrBuildingNotFound},
		{"activity", errs.NotFound(errs.KindActivity, 999), http.StatusNotFound, code.ErrActivityNotFound},
		{"organization", fmt.Errorf("lookup: %w", errs.NotFound(errs.KindOrganization, 999)), http.StatusNotFound, code.ErrOrganizationNotFound},
		{"geometry", errs.InvalidGeometry("latitude NaN is not finite"), http.StatusBadRequest, code.ErrInvalidGeometry},
		{"unauthorized", fmt.Errorf("%w: expired", errs.ErrUnauthorized), http.StatusUnauthorized, code.ErrTokenInvalid},
		{"store", errs.Store("query", errors.New("connection reset")), http.StatusServiceUnavailable, code.ErrStoreUnavailable},
		{"cycle", fmt.Errorf("%w: activity 3", errs.ErrHierarchyCycle), http.StatusInternalServerError, code.ErrHierarchyInconsistent},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, code.ErrUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := render(tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestFromError_HidesInternalDetails(t *testing.T) {
	_, body := render(errs.Store("query", errors.New("password authentication failed for user postgres")))
	assert.NotContains(t, body.Message, "password")

	_, body = render(errs.NotFound(errs.KindBuilding, 7))
	assert.Equal(t, "building 7 not found", body.Message)
}

func TestFromError_UnknownKindFallsBackToRecordNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FromError(c, &errs.EntityNotFoundError{Kind: "phone_number", ID: 1})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, code.ErrRecordNotFound, CodeOf(&errs.EntityNotFoundError{Kind: "phone_number", ID: 1}))
}
