package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adam1capps/roof-mri-backend/internal/lifecycle"
)

func TestCreateRequestCanonicalSnakeCase(t *testing.T) {
	body := []byte(`{
		"contact_name": "Jane Doe",
		"company": "Acme Roofing",
		"email": "jane@acme.example",
		"tier": "professional",
		"extra_trainees": 2,
		"extra_kits": 1,
		"let_client_choose": true,
		"on_roof_day": true,
		"total_price": 4500.50,
		"vimeo_url": "https://vimeo.com/123",
		"tracks": ["inspection"]
	}`)

	var req createRequest
	require.NoError(t, json.Unmarshal(body, &req))
	in := req.canonical()

	assert.Equal(t, "Jane Doe", in.ContactName)
	assert.Equal(t, "Acme Roofing", in.Company)
	assert.Equal(t, 2, in.ExtraTrainees)
	assert.Equal(t, 1, in.ExtraKits)
	assert.True(t, in.LetClientChoose)
	assert.True(t, in.OnRoofDay)
	require.NotNil(t, in.TotalPrice)
	assert.Equal(t, 4500.50, *in.TotalPrice)
	assert.Equal(t, "https://vimeo.com/123", in.VimeoURL)
}

func TestCreateRequestCanonicalCamelCaseWins(t *testing.T) {
	// При обоих написаниях сразу канонической считается camelCase-версия.
	body := []byte(`{
		"contactName": "Jane Doe",
		"contact_name": "Ignored Name",
		"extraTrainees": 3,
		"extra_trainees": 9,
		"totalPrice": 100,
		"total_price": 200,
		"company": "Acme",
		"email": "jane@acme.example"
	}`)

	var req createRequest
	require.NoError(t, json.Unmarshal(body, &req))
	in := req.canonical()

	assert.Equal(t, "Jane Doe", in.ContactName)
	assert.Equal(t, 3, in.ExtraTrainees)
	require.NotNil(t, in.TotalPrice)
	assert.Equal(t, 100.0, *in.TotalPrice)
}

func TestSignRequestSpellings(t *testing.T) {
	var req signRequest
	require.NoError(t, json.Unmarshal([]byte(`{"signature_name": "Jane", "signature_data": "data:image/png;base64,AA"}`), &req))
	assert.Equal(t, "Jane", firstString(req.SignatureName, req.SignatureNameS))
	assert.Equal(t, "data:image/png;base64,AA", firstString(req.SignatureData, req.SignatureDataS))
}

func TestPageParamsClamping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(query string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/api/proposals?"+query, nil)
		return c
	}

	p, s := pageParams(newCtx(""))
	assert.Equal(t, 1, p)
	assert.Equal(t, lifecycle.DefaultPageSize, s)

	p, s = pageParams(newCtx("page=3&pageSize=50"))
	assert.Equal(t, 3, p)
	assert.Equal(t, 50, s)

	p, s = pageParams(newCtx("page=-1&pageSize=100000"))
	assert.Equal(t, 1, p)
	assert.Equal(t, lifecycle.MaxPageSize, s)
}
