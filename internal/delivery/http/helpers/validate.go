package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// maxRequestBody caps dashboard and editor request bodies.
const maxRequestBody = 64 << 10

// Validator is implemented by dashboard and editor requests that check their own fields.
// Validate returns one message per problem; empty means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes a JSON body into dest, rejecting unknown fields and bodies
// over maxRequestBody, then runs dest's Validator. It writes the 400 itself and
// returns false when the request must not go further.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, decodeMessage(err))
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}

func decodeMessage(err error) string {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is required"
	case errors.As(err, &tooLarge):
		return "request body is too large"
	default:
		return err.Error()
	}
}
