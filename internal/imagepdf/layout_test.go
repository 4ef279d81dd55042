package imagepdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		input   string
		want    Orientation
		wantErr bool
	}{
		{input: "", want: Portrait},
		{input: "p", want: Portrait},
		{input: "Portrait", want: Portrait},
		{input: "l", want: Landscape},
		{input: " LANDSCAPE ", want: Landscape},
		{input: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOrientation(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidOrientation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageSizeSwapsForLandscape(t *testing.T) {
	pw, ph := PageSize(Portrait)
	lw, lh := PageSize(Landscape)
	assert.Equal(t, pw, lh)
	assert.Equal(t, ph, lw)
	assert.Less(t, pw, ph)
}

func TestFitConstraint(t *testing.T) {
	for _, o := range []Orientation{Portrait, Landscape} {
		pageW, pageH := PageSize(o)
		usableW := pageW - DefaultMargin*2
		usableH := pageH - DefaultMargin*2
		usableRatio := usableW / usableH

		sizes := [][2]int{
			{800, 600}, {600, 800}, {1000, 1000}, {4000, 300}, {300, 4000}, {1, 1}, {1920, 1080}, {1080, 1920},
		}
		for _, s := range sizes {
			layout, err := Fit(pageW, pageH, DefaultMargin, s[0], s[1])
			require.NoError(t, err)

			ratio := float64(s[0]) / float64(s[1])
			if ratio >= usableRatio {
				assert.Equal(t, ConstrainedByWidth, layout.Constraint, "%s %v", o, s)
				assert.Equal(t, usableW, layout.Width, "%s %v", o, s)
				assert.LessOrEqual(t, layout.Height, usableH+1e-9)
			} else {
				assert.Equal(t, ConstrainedByHeight, layout.Constraint, "%s %v", o, s)
				assert.Equal(t, usableH, layout.Height, "%s %v", o, s)
				assert.Less(t, layout.Width, usableW)
			}

			// aspect ratio preserved
			assert.InDelta(t, ratio, layout.Width/layout.Height, 1e-9)

			// centered, never negative
			assert.InDelta(t, (pageW-layout.Width)/2, layout.X, 1e-9)
			assert.InDelta(t, (pageH-layout.Height)/2, layout.Y, 1e-9)
			assert.GreaterOrEqual(t, layout.X, DefaultMargin-1e-9)
			assert.GreaterOrEqual(t, layout.Y, DefaultMargin-1e-9)
		}
	}
}

func TestFitExactBoundaryIsWidthFirst(t *testing.T) {
	// usable area 64x128; a 1:2 image lands exactly on the usable height
	layout, err := Fit(84, 148, 10, 100, 200)
	require.NoError(t, err)

	assert.Equal(t, ConstrainedByWidth, layout.Constraint)
	assert.Equal(t, 64.0, layout.Width)
	assert.Equal(t, 128.0, layout.Height)
	assert.Equal(t, 10.0, layout.X)
	assert.Equal(t, 10.0, layout.Y)
}

func TestFitScenarioPortraitBatch(t *testing.T) {
	pageW, pageH := PageSize(Portrait)
	usableW := pageW - 2*DefaultMargin // 565.28
	usableH := pageH - 2*DefaultMargin // 811.89

	tests := []struct {
		name       string
		w, h       int
		constraint Constraint
		width      float64
		height     float64
	}{
		{name: "800x600", w: 800, h: 600, constraint: ConstrainedByWidth, width: usableW, height: usableW / (800.0 / 600.0)},
		// 0.75 is wider than the usable ratio 565.28/811.89 (about 0.696)
		{name: "600x800", w: 600, h: 800, constraint: ConstrainedByWidth, width: usableW, height: usableW / 0.75},
		{name: "1000x1000", w: 1000, h: 1000, constraint: ConstrainedByWidth, width: usableW, height: usableW},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := Fit(pageW, pageH, DefaultMargin, tt.w, tt.h)
			require.NoError(t, err)
			assert.Equal(t, tt.constraint, layout.Constraint)
			assert.InDelta(t, tt.width, layout.Width, 1e-9)
			assert.InDelta(t, tt.height, layout.Height, 1e-9)
			assert.LessOrEqual(t, layout.Height, usableH)
		})
	}

	layout, err := Fit(pageW, pageH, DefaultMargin, 600, 800)
	require.NoError(t, err)
	assert.InDelta(t, 753.7067, layout.Height, 1e-3)
	assert.InDelta(t, 44.0917, layout.Y, 1e-3)
}

func TestFitLandscapeIsHeightConstrainedForFourByThree(t *testing.T) {
	pageW, pageH := PageSize(Landscape)
	layout, err := Fit(pageW, pageH, DefaultMargin, 800, 600)
	require.NoError(t, err)

	assert.Equal(t, ConstrainedByHeight, layout.Constraint)
	assert.InDelta(t, pageH-2*DefaultMargin, layout.Height, 1e-9)
	assert.InDelta(t, (pageH-2*DefaultMargin)*800/600, layout.Width, 1e-9)
}

func TestFitRejectsBadInput(t *testing.T) {
	_, err := Fit(100, 100, 10, 0, 50)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = Fit(100, 100, 60, 10, 10)
	assert.ErrorIs(t, err, ErrInvalidMargin)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatWEBP, FormatFor("image/webp"))
	assert.Equal(t, FormatPNG, FormatFor("image/png"))
	assert.Equal(t, FormatPNG, FormatFor(""))
}
