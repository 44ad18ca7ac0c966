// internal/models/response.go
package models

import "encoding/json"

// APIResponse is the generic envelope some backend routes wrap results in.
type APIResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}
