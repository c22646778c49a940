package settings

import "strings"

// Effect is a decorative treatment applied to the avatar and gallery images.
// Any effect other than EffectNone replaces the plain border.
type Effect string

const (
	EffectNone     Effect = "none"
	EffectGlow     Effect = "fx-glow"
	EffectGradient Effect = "fx-gradient"
	EffectScanner  Effect = "fx-scanner"
)

// Effects lists the selectable effects in menu order.
func Effects() []Effect {
	return []Effect{EffectNone, EffectGlow, EffectGradient, EffectScanner}
}

// ParseEffect accepts both the stored class names and their bare spellings.
// Unknown values resolve to EffectNone.
func ParseEffect(s string) Effect {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "fx-")
	switch s {
	case "glow":
		return EffectGlow
	case "gradient":
		return EffectGradient
	case "scanner":
		return EffectScanner
	default:
		return EffectNone
	}
}

// Class is the CSS class for the effect, empty for EffectNone.
func (e Effect) Class() string {
	if e == EffectNone || e == "" {
		return ""
	}
	return string(e)
}

// Label is the menu caption.
func (e Effect) Label() string {
	switch e {
	case EffectGlow:
		return "Glow"
	case EffectGradient:
		return "Gradient border"
	case EffectScanner:
		return "Scanner"
	default:
		return "None"
	}
}
