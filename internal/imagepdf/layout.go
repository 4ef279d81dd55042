package imagepdf

import (
	"fmt"
	"strings"
)

// Orientation is applied uniformly to every page of one assembly run.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// A4 in points.
const (
	a4Width  = 595.28
	a4Height = 841.89
)

// DefaultMargin is the symmetric margin in points (20px in CSS units).
const DefaultMargin = 15.0

// ParseOrientation accepts "portrait"/"p" and "landscape"/"l", case-insensitive.
// An empty string selects portrait.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "p", "portrait":
		return Portrait, nil
	case "l", "landscape":
		return Landscape, nil
	default:
		return Portrait, fmt.Errorf("%w: %q", ErrInvalidOrientation, s)
	}
}

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// PageSize returns the page width and height for the orientation.
func PageSize(o Orientation) (float64, float64) {
	if o == Landscape {
		return a4Height, a4Width
	}
	return a4Width, a4Height
}

// Constraint records which side of the usable area limited the fit.
type Constraint string

const (
	ConstrainedByWidth  Constraint = "width"
	ConstrainedByHeight Constraint = "height"
)

// PageLayout is the placement of one image on one page.
type PageLayout struct {
	PageWidth  float64    `json:"page_width"`
	PageHeight float64    `json:"page_height"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Constraint Constraint `json:"constraint"`
}

// Fit scales an image of imgW x imgH to the largest size that fits inside the
// page minus margin on all four sides, preserving aspect ratio, and centers it.
//
// The width-first candidate is kept unless its height strictly exceeds the
// usable height; equality counts as fitting.
func Fit(pageW, pageH, margin float64, imgW, imgH int) (PageLayout, error) {
	if imgW <= 0 || imgH <= 0 {
		return PageLayout{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, imgW, imgH)
	}
	usableW := pageW - margin*2
	usableH := pageH - margin*2
	if usableW <= 0 || usableH <= 0 {
		return PageLayout{}, fmt.Errorf("%w: margin %.2f leaves no drawing area", ErrInvalidMargin, margin)
	}

	aspectRatio := float64(imgW) / float64(imgH)

	layout := PageLayout{
		PageWidth:  pageW,
		PageHeight: pageH,
		Width:      usableW,
		Height:     usableW / aspectRatio,
		Constraint: ConstrainedByWidth,
	}
	if layout.Height > usableH {
		layout.Height = usableH
		layout.Width = usableH * aspectRatio
		layout.Constraint = ConstrainedByHeight
	}

	layout.X = (pageW - layout.Width) / 2
	layout.Y = (pageH - layout.Height) / 2
	return layout, nil
}
