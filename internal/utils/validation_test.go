package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type probeRequest struct {
	Code string `json:"code" form:"code" validate:"required"`
	Kind string `json:"kind" form:"kind" validate:"omitempty,oneof=a b"`
}

func bind(req *http.Request) (*httptest.ResponseRecorder, *probeRequest, bool) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	var body probeRequest
	ok := BindAndValidate(c, &body)
	return w, &body, ok
}

func TestBindAndValidate_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"P1","kind":"a"}`))
	req.Header.Set("Content-Type", "application/json")

	_, body, ok := bind(req)
	assert.True(t, ok)
	assert.Equal(t, "P1", body.Code)
}

func TestBindAndValidate_Query(t *testing.T) {
	_, body, ok := bind(httptest.NewRequest(http.MethodPost, "/?code=P2", nil))
	assert.True(t, ok)
	assert.Equal(t, "P2", body.Code)
}

func TestBindAndValidate_Invalid(t *testing.T) {
	w, _, ok := bind(httptest.NewRequest(http.MethodPost, "/?kind=z", nil))
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Code failed on 'required'")
	assert.Contains(t, w.Body.String(), "Kind failed on 'oneof'")
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":`))
	req.Header.Set("Content-Type", "application/json")

	w, _, ok := bind(req)
	assert.False(t, ok)
	assert.Contains(t, w.Body.String(), "Invalid request payload")
}
