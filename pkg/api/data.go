package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

type Parameter map[string]string

func (p Parameter) ToReader() (io.Reader, string, error) {
	return strings.NewReader(p.Encode()), "application/x-www-form-urlencoded", nil
}

func (p Parameter) Encode() string {
	var parameters []string
	for key, value := range p {
		parameters = append(parameters, key+"="+PercentEncode(value))
	}
	sort.Strings(parameters)
	return strings.Join(parameters, "&")
}

type JSON map[string]any

type Array []JSON

func (j JSON) ToReader() (io.Reader, string, error) {
	return jsonReader(j)
}

func (a Array) ToReader() (io.Reader, string, error) {
	return jsonReader(a)
}

// Object wraps any JSON-serializable value as a request body.
type Object struct {
	V any
}

func (o Object) ToReader() (io.Reader, string, error) {
	return jsonReader(o.V)
}

func jsonReader(v any) (io.Reader, string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, "", err
	}

	return bytes.NewReader(b), "application/json", nil
}

func (m JSON) GetString(key string) (string, error) {
	value, err := m.Get(key)
	if err != nil {
		return "", err
	}

	if value == nil {
		return "", nil
	}

	if s, ok := value.(string); ok {
		return s, nil
	}

	return "", fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (m JSON) GetInt(key string) (int, error) {
	value, err := m.Get(key)
	if err != nil {
		return 0, err
	}

	switch t := value.(type) {
	case int:
		return t, nil
	case float64:
		if t == float64(int(t)) {
			return int(t), nil
		}
		return 0, fmt.Errorf("invalid type of field %s (actually float64)", key)
	}

	return 0, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (m JSON) Get(key string) (any, error) {
	key, subKey, found := strings.Cut(key, ".")

	value, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("not found field %s", key)
	}

	if found {
		if mvalue, ok := value.(map[string]any); ok {
			return JSON(mvalue).Get(subKey)
		}
		return nil, fmt.Errorf("invalid type of field %s (%T)", key, value)
	}

	return value, nil
}

func bytesToJSON(body []byte) (JSON, error) {
	result := JSON{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func bytesToArray(body []byte) (Array, error) {
	result := Array{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	return result, nil
}

type Response struct {
	Code    int
	Header  http.Header
	Body    any
	RawBody []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Code >= 200 && r.Code < 300
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.RawBody, v)
}

// ErrorMessage extracts the message of an error body, falling back to the
// HTTP status text.
func (r *Response) ErrorMessage() string {
	if body, ok := r.Body.(JSON); ok {
		for _, key := range []string{"msg", "message", "error_description", "error"} {
			if msg, err := body.GetString(key); err == nil && msg != "" {
				return msg
			}
		}
	}

	if len(r.RawBody) > 0 && len(r.RawBody) < 256 {
		return string(r.RawBody)
	}

	return http.StatusText(r.Code)
}
