package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/pkg/exceptions"
)

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"борщ"}`))

	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "борщ", dst.Name)
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	var dst map[string]interface{}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

	err := DecodeJSON(r, &dst)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, exceptions.StatusCode(err))
	assert.Equal(t, "Некорректное тело запроса", exceptions.PublicMessage(err))
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	var dst struct {
		Image string `json:"image"`
	}
	payload := `{"image":"` + strings.Repeat("a", MaxJSONBody) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))

	err := DecodeJSON(r, &dst)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, exceptions.StatusCode(err))
	assert.Equal(t, "Тело запроса слишком большое", exceptions.PublicMessage(err))
	assert.Empty(t, dst.Image)
}
