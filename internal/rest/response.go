package rest

// Response is the normalized result of one executed request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Cookies    map[string]string
	Body       string
}

// OK reports whether the status code is 200.
func (r *Response) OK() bool {
	return r.StatusCode == 200
}

func newResponse(status int, headers, cookies map[string]string, body string) *Response {
	if headers == nil {
		headers = map[string]string{}
	}
	if cookies == nil {
		cookies = map[string]string{}
	}
	return &Response{StatusCode: status, Headers: headers, Cookies: cookies, Body: body}
}
