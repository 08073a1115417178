package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageForm struct {
	Name    string `json:"name" validate:"nonblank"`
	Email   string `json:"email" validate:"simple_email"`
	Message string `json:"message" validate:"nonblank,max=20"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(messageForm{Name: "Anna", Email: "anna@example.nl", Message: "hoi"})
	assert.NoError(t, err)
}

func TestValidate_WhitespaceIsBlank(t *testing.T) {
	err := Validate(messageForm{Name: "   ", Email: "anna@example.nl", Message: "hoi"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["name"])
}

func TestValidate_SimpleEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.c":            true,
		"anna@example.nl":  true,
		"anna@example":     false,
		"anna example@x.y": false,
		"@example.nl":      false,
		"":                 false,
	}
	for email, ok := range cases {
		err := Validate(messageForm{Name: "Anna", Email: email, Message: "hoi"})
		if ok {
			assert.NoError(t, err, email)
		} else {
			assert.Error(t, err, email)
		}
	}
}

func TestValidationError_FirstFieldFollowsDeclarationOrder(t *testing.T) {
	err := Validate(messageForm{Name: "", Email: "nope", Message: ""})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "name", valErr.FirstField())
	assert.Len(t, valErr.Fields(), 3)
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(messageForm{Email: "anna@example.nl", Message: "hoi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'name'")
	assert.Contains(t, err.Error(), "is required")
}

type orderForm struct {
	Payment  string `json:"payment_method" validate:"oneof=cash bank"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=99"`
}

func TestValidate_OneOfAndRange(t *testing.T) {
	err := Validate(orderForm{Payment: "card", Quantity: 0})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields["payment_method"], "one of")
	assert.Contains(t, fields["quantity"], "greater than or equal to 1")
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"name":"Anna","email":"anna@example.nl","message":"hoi"}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var f messageForm
	require.NoError(t, DecodeAndValidate(req, &f))
	assert.Equal(t, "Anna", f.Name)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var f messageForm
	err := DecodeAndValidate(req, &f)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
