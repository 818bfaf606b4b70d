package mediaquery

import (
	"math/big"
	"strconv"

	"cssval/css"
)

// Screen orientation types.
const (
	OrientationPortraitPrimary    = "portrait-primary"
	OrientationPortraitSecondary  = "portrait-secondary"
	OrientationLandscapePrimary   = "landscape-primary"
	OrientationLandscapeSecondary = "landscape-secondary"
)

// Values of the scan, update and color-gamut features.
const (
	ScanInterlace   = "interlace"
	ScanProgressive = "progressive"

	UpdateNone = "none"
	UpdateSlow = "slow"
	UpdateFast = "fast"

	ColorGamutSRGB    = "srgb"
	ColorGamutP3      = "p3"
	ColorGamutRec2020 = "rec2020"
)

// Screen describes an output device. Its zero value is unusable;
// start from DefaultScreen and override fields as needed.
type Screen struct {
	Width                int
	Height               int
	Angle                int
	ColorDepth           int
	Monochrome           int
	HorizontalResolution int
	VerticalResolution   int
	DevicePixelRatio     float64
	Scan                 string
	Update               string
	ColorGamut           string
	Media                string
}

// DefaultScreen returns the built-in output device: a 1280x720
// progressive sRGB screen at 96dpi with 24-bit color.
func DefaultScreen() Screen {
	return Screen{
		Width:                1280,
		Height:               720,
		ColorDepth:           24,
		HorizontalResolution: 96,
		VerticalResolution:   96,
		DevicePixelRatio:     1,
		Scan:                 ScanProgressive,
		Update:               UpdateNone,
		ColorGamut:           ColorGamutSRGB,
		Media:                "screen",
	}
}

// Orientation derives the orientation type from the screen shape and
// the rotation angle.
func (s Screen) Orientation() string {
	angle := normalizeAngle(s.Angle)
	if s.Width > s.Height {
		switch angle {
		case 90:
			return OrientationPortraitPrimary
		case 180:
			return OrientationLandscapeSecondary
		case 270:
			return OrientationPortraitSecondary
		default:
			return OrientationLandscapePrimary
		}
	}
	switch angle {
	case 90:
		return OrientationLandscapePrimary
	case 180:
		return OrientationPortraitSecondary
	case 270:
		return OrientationLandscapeSecondary
	default:
		return OrientationPortraitPrimary
	}
}

// normalizeAngle snaps toward negative infinity to a multiple of 90
// and wraps into [0, 360).
func normalizeAngle(angle int) int {
	q := angle / 90
	if angle%90 != 0 && angle < 0 {
		q--
	}
	angle = q * 90 % 360
	if angle < 0 {
		angle += 360
	}
	return angle
}

// Features builds the media feature snapshot for this screen with a
// document viewport of the given size: lengths in px, ratio features
// as exact fractions, and the device resolution in dppx.
func (s Screen) Features(viewportWidth, viewportHeight float64) map[string]string {
	f := map[string]string{
		"media":           s.Media,
		"width":           px(viewportWidth),
		"height":          px(viewportHeight),
		"orientation":     s.Orientation(),
		"resolution":      css.DefaultFormat.Float(s.DevicePixelRatio) + "dppx",
		"scan":            s.Scan,
		"grid":            "0",
		"update":          s.Update,
		"overflow-block":  "none",
		"overflow-inline": "none",
		"color":           strconv.Itoa(s.ColorDepth),
		"monochrome":      strconv.Itoa(s.Monochrome),
		"color-gamut":     s.ColorGamut,
		"device-width":    px(float64(s.Width)),
		"device-height":   px(float64(s.Height)),
	}
	if s.ColorDepth >= 0 && s.ColorDepth < 63 {
		f["color-index"] = strconv.Itoa(1 << s.ColorDepth)
	}
	if r, ok := ratio(int64(viewportWidth), int64(viewportHeight)); ok {
		f["aspect-ratio"] = r
	}
	if r, ok := ratio(int64(s.Width), int64(s.Height)); ok {
		f["device-aspect-ratio"] = r
	}
	return f
}

func px(v float64) string {
	return css.DefaultFormat.Float(v) + "px"
}

func ratio(w, h int64) (string, bool) {
	if h == 0 {
		return "", false
	}
	return big.NewRat(w, h).RatString(), true
}
