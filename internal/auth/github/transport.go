package github

import "net/http"

// acceptJSON makes the token endpoint answer in JSON instead of form encoding.
type acceptJSON struct {
	base http.RoundTripper
}

func (t *acceptJSON) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(req)
}

func withAcceptJSON(client *http.Client) *http.Client {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	return &http.Client{
		Transport:     &acceptJSON{base: base},
		CheckRedirect: client.CheckRedirect,
		Jar:           client.Jar,
		Timeout:       client.Timeout,
	}
}
