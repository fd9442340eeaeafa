package tools

// Envelope is the response shape of every tool call. At most one of Status
// and Error is set; both nil is a valid empty success.
type Envelope struct {
	Status *string `json:"status,omitempty"`
	Error  *string `json:"error,omitempty"`
}

// OK returns a success envelope carrying status.
func OK(status string) Envelope {
	return Envelope{Status: &status}
}

// Fail returns an error envelope carrying message.
func Fail(message string) Envelope {
	return Envelope{Error: &message}
}

// Empty returns a success envelope with no payload.
func Empty() Envelope {
	return Envelope{}
}

// Failed reports whether the envelope carries an error.
func (e Envelope) Failed() bool {
	return e.Error != nil
}

// Valid reports whether at most one of Status and Error is set.
func (e Envelope) Valid() bool {
	return e.Status == nil || e.Error == nil
}

// StatusText returns the status or "" when absent.
func (e Envelope) StatusText() string {
	if e.Status == nil {
		return ""
	}
	return *e.Status
}

// ErrorText returns the error or "" when absent.
func (e Envelope) ErrorText() string {
	if e.Error == nil {
		return ""
	}
	return *e.Error
}

// ToolInfo is one element of the list_tools response.
type ToolInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}
