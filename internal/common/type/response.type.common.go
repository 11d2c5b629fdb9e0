package types

// Response is the internal envelope every service returns. Handlers hand it to the
// "send" function installed by the response middleware, which maps it onto the wire
// shape below.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   error  `json:"-"`
}

// ResponseAPI is the JSON body the API actually emits.
type ResponseAPI struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
