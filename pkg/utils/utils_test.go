package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestGetPagination(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, _ := newContext("/x")
		page, perPage := GetPagination(c)
		assert.Equal(t, DefaultPage, page)
		assert.Equal(t, DefaultPerPage, perPage)
	})

	t.Run("clamps per_page", func(t *testing.T) {
		c, _ := newContext("/x?page=3&per_page=1000")
		page, perPage := GetPagination(c)
		assert.Equal(t, 3, page)
		assert.Equal(t, MaxPerPage, perPage)
	})

	t.Run("ignores garbage", func(t *testing.T) {
		c, _ := newContext("/x?page=-1&per_page=abc")
		page, perPage := GetPagination(c)
		assert.Equal(t, DefaultPage, page)
		assert.Equal(t, DefaultPerPage, perPage)
	})
}

func TestGetIDParam(t *testing.T) {
	c, _ := newContext("/x")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, err := GetIDParam(c)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	c.Params = gin.Params{{Key: "id", Value: "0"}}
	_, err = GetIDParam(c)
	assert.Error(t, err)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, err = GetIDParam(c)
	assert.Error(t, err)
}

func TestGetOptionalBoolQuery(t *testing.T) {
	c, _ := newContext("/x?unread=true&bad=maybe")

	v, err := GetOptionalBoolQuery(c, "unread")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, *v)

	v, err = GetOptionalBoolQuery(c, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = GetOptionalBoolQuery(c, "bad")
	assert.Error(t, err)
}

func TestResponses(t *testing.T) {
	t.Run("paginated", func(t *testing.T) {
		c, w := newContext("/x")
		PaginatedSuccessResponse(c, "ok", []int{1, 2}, 2, 2, 5)

		var body PaginatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
		assert.Equal(t, 3, body.Pagination.TotalPages)
		assert.Equal(t, int64(5), body.Pagination.Total)
	})

	t.Run("internal error hides detail", func(t *testing.T) {
		c, w := newContext("/x")
		InternalServerErrorResponse(c, "boom", errors.New("pq: password authentication failed"))

		var body APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.False(t, body.Success)
		assert.Empty(t, body.Error)
	})

	t.Run("bad request carries detail", func(t *testing.T) {
		c, w := newContext("/x")
		BadRequestResponse(c, "invalid", errors.New("lat out of range"))

		var body APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "lat out of range", body.Error)
	})
}

func TestHaversineKm(t *testing.T) {
	// Monas to Bundaran HI, roughly 2.2 km
	d := HaversineKm(-6.175392, 106.827153, -6.195014, 106.823030)
	assert.InDelta(t, 2.2, d, 0.3)

	assert.Equal(t, 0.0, HaversineKm(-6.2, 106.8, -6.2, 106.8))
	assert.Equal(t, 1.23, RoundTo(1.2345, 2))
}
