package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mitchellh/mapstructure"
)

// parseQuery decodes the query string into the json-tagged fields of dst.
func parseQuery[Request any](req *http.Request, dst *Request) error {
	values := map[string]any{}
	for key, value := range req.URL.Query() {
		if len(value) == 1 {
			values[key] = value[0]
		} else {
			values[key] = value
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(values)
}

// parseBody decodes a JSON body. An empty body leaves dst untouched.
func parseBody[Request any](req *http.Request, dst *Request) error {
	if req.Body == nil {
		return nil
	}

	err := json.NewDecoder(req.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
