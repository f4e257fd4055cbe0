package server

// ParseError is a request decoding failure with the status it maps to.
type ParseError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return e.Message
}
