package models

import "time"

// ConversionSession is the JSON view of one image-to-PDF working list
type ConversionSession struct {
	ID        string      `json:"id"`
	Images    []ImageItem `json:"images"`
	Busy      bool        `json:"busy"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ImageItem represents an uploaded image without its bytes
type ImageItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MIMEType    string `json:"mime_type"`
	Size        int    `json:"size"`
	ImageWidth  int    `json:"image_width,omitempty"`
	ImageHeight int    `json:"image_height,omitempty"`
}

// IntakeResult reports the outcome of a batch image upload
type IntakeResult struct {
	SessionID string      `json:"session_id"`
	Added     []ImageItem `json:"added"`
	Skipped   int         `json:"skipped"`
	Total     int         `json:"total"`
}

// ErrorResponse is the body of every non-2xx JSON reply
type ErrorResponse struct {
	Error string `json:"error"`
}
