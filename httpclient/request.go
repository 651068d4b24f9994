package httpclient

import "net/url"

// Request describes an outbound HTTP request.
type Request struct {
	Method string
	// Path is appended to BaseURL unless it is already absolute.
	Path    string
	Headers map[string]string
	Query   map[string]string
	// Body accepts nil, io.Reader, []byte, string, url.Values (form encoded),
	// *MultipartBody, or any value to be JSON encoded.
	Body any
	// Auth overrides the client-level auth.
	Auth *AuthConfig
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// FormBody builds a form-encoded body from key-value pairs.
func FormBody(kv map[string]string) url.Values {
	v := make(url.Values, len(kv))
	for k, val := range kv {
		v.Set(k, val)
	}
	return v
}
