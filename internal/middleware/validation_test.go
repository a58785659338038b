package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shippingRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

func TestProperty_RequiredShippingFieldsAreEnforced(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a body passes only when every shipping field is present", prop.ForAll(
		func(withName, withPhone, withAddress bool) bool {
			body := make(map[string]interface{})
			missing := 0
			if withName {
				body["name"] = "Lan"
			} else {
				missing++
			}
			if withPhone {
				body["phone"] = "0901 234 567"
			} else {
				missing++
			}
			if withAddress {
				body["address"] = "12 Le Loi, Hue"
			} else {
				missing++
			}

			raw, _ := json.Marshal(body)
			req := httptest.NewRequest("POST", "/api/checkout", bytes.NewReader(raw))

			var parsed shippingRequest
			err := DecodeAndValidate(req, &parsed)
			if missing == 0 {
				return err == nil
			}

			return len(FormatValidationErrors(err)) == missing
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidate_RejectsOversizedBodies(t *testing.T) {
	padding := strings.Repeat("x", maxBodyBytes)
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"`+padding+`"}`))

	var parsed shippingRequest
	err := DecodeAndValidate(req, &parsed)
	require.Error(t, err)
	assert.Empty(t, FormatValidationErrors(err))
}
