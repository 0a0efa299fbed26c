package api

import (
	"net/http"
)

type oauth2Opt struct {
	token string
}

func OAuth2(prefix, token string) *oauth2Opt {
	return &oauth2Opt{token: prefix + " " + token}
}

func (opt *oauth2Opt) Do(client defaultClient, req *http.Request) {
	req.Header.Set("Authorization", opt.token)
}

type headerOpt struct {
	name, value string
}

// WithHeader sets a header on the outgoing request only, overriding the one
// configured on the client.
func WithHeader(name, value string) *headerOpt {
	return &headerOpt{name: name, value: value}
}

func (opt *headerOpt) Do(client defaultClient, req *http.Request) {
	req.Header.Set(opt.name, opt.value)
}
