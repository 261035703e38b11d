package customheaders

import (
	"bufio"
	"errors"
	"net/http"
	"net/textproto"
	"strings"
)

const (
	// CrossOriginEmbedderPolicy is the name of the COEP response header
	CrossOriginEmbedderPolicy = "Cross-Origin-Embedder-Policy"
	// CrossOriginOpenerPolicy is the name of the COOP response header
	CrossOriginOpenerPolicy = "Cross-Origin-Opener-Policy"
)

var errInvalidHeaderParameter = errors.New("invalid syntax specified as header parameter")

// IsolationHeaders returns the cross-origin isolation headers sent with every
// response
func IsolationHeaders() http.Header {
	return http.Header{
		CrossOriginEmbedderPolicy: []string{"cross-origin"},
		CrossOriginOpenerPolicy:   []string{"same-origin"},
	}
}

// AddCustomHeaders adds a map of Headers to a Response
func AddCustomHeaders(w http.ResponseWriter, headers http.Header) {
	for k, v := range headers {
		for _, value := range v {
			w.Header().Add(k, value)
		}
	}
}

// SetHeaders replaces every header in headers on the Response, so each one
// ends up with exactly the given values
func SetHeaders(w http.ResponseWriter, headers http.Header) {
	for k, v := range headers {
		w.Header()[k] = append([]string(nil), v...)
	}
}

// ParseHeaderString parses a string of key values into a map
func ParseHeaderString(customHeaders []string) (http.Header, error) {
	headers := http.Header{}
	for _, keyValueString := range customHeaders {
		keyValueString = strings.TrimSpace(keyValueString) + "\n\n"
		tp := textproto.NewReader(bufio.NewReader(strings.NewReader(keyValueString)))
		keyValue, err := tp.ReadMIMEHeader()
		if err != nil {
			return nil, errInvalidHeaderParameter
		}

		for k, v := range keyValue {
			k = textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(k))
			headers[k] = append(headers[k], v...)
		}
	}
	return headers, nil
}
