package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/tidwall/gjson"
)

func TestAppErrorWrapsUnderlying(t *testing.T) {
	cause := errors.New("boom")
	err := BadRequest("bad_body", "could not parse body", cause)

	if !errors.Is(err, cause) {
		t.Fatal("underlying error lost")
	}
	if err.HTTPStatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", err.HTTPStatusCode)
	}
	if got := err.Error(); got != "could not parse body: boom" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestAppErrorJSONOmitsInternals(t *testing.T) {
	err := Unauthorized("bad_key", "invalid or missing api key").WithDetail("header", "Authorization")
	body := gjson.ParseBytes(err.ToJSON())

	if body.Get("code").String() != "bad_key" {
		t.Fatalf("code missing: %s", body.Raw)
	}
	if body.Get("details.header").String() != "Authorization" {
		t.Fatalf("details missing: %s", body.Raw)
	}
	if body.Get("HTTPStatusCode").Exists() || body.Get("Err").Exists() {
		t.Fatalf("internals leaked: %s", body.Raw)
	}
}
