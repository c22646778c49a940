package settings

import (
	"fmt"
	"strings"
)

// Preview placeholders used when the name or bio is empty.
const (
	PlaceholderName = "Your name"
	PlaceholderBio  = "Your bio..."
)

// Frame decorates an element with either an effect class or a solid border,
// never both.
type Frame struct {
	Class  string
	Border string
}

// Style returns the inline CSS for the frame.
func (f Frame) Style() string {
	if f.Border == "" {
		return ""
	}
	return "border: " + f.Border + ";"
}

// Preview is everything the live preview panel displays. It is derived from
// form values alone.
type Preview struct {
	FontFamily string
	FontSize   string
	Accent     string
	TextColor  string

	Name string
	Bio  string

	Avatar      string
	AvatarFrame Frame

	Effect     Effect
	Gap        string
	ItemClass  string
	ImageFrame Frame

	Badges map[Field]string

	// FrameControlsDisabled is true when an effect replaces the border, so
	// the width and color inputs have no visible result.
	FrameControlsDisabled bool
}

// Render derives the preview from form values. It has no side effects and
// returns equal results for equal input. Every value that ends up in inline
// CSS is normalized first, so a half typed or hostile edit falls back to the
// field default.
func Render(v Values) Preview {
	effect := ParseEffect(v.Get(GalleryEffect))
	css := func(f Field) string { return f.Normalize(v.Get(f)) }

	p := Preview{
		FontFamily: css(FontFamily),
		FontSize:   css(BaseFontSize) + "px",
		Accent:     css(PrimaryColor),
		TextColor:  css(FontColor),
		Name:       orText(v.Get(UserName), PlaceholderName),
		Bio:        orText(v.Get(UserBio), PlaceholderBio),
		Avatar:     v.Avatar,
		Effect:     effect,
		Gap:        css(GalleryGap) + "rem",
		Badges: map[Field]string{
			BaseFontSize:      css(BaseFontSize) + "px",
			GalleryFrameWidth: css(GalleryFrameWidth) + "px",
			GalleryGap:        css(GalleryGap) + "rem",
		},
		FrameControlsDisabled: effect != EffectNone,
	}

	border := fmt.Sprintf("%spx solid %s", css(GalleryFrameWidth), css(GalleryFrameColor))

	switch effect {
	case EffectNone:
		p.AvatarFrame = Frame{Border: border}
		p.ImageFrame = Frame{Border: border}
	case EffectScanner:
		// The scanner sweep is drawn by the item wrapper, not the image.
		p.AvatarFrame = Frame{Class: effect.Class()}
		p.ItemClass = effect.Class()
	default:
		p.AvatarFrame = Frame{Class: effect.Class()}
		p.ImageFrame = Frame{Class: effect.Class()}
	}
	return p
}

// ContainerStyle is the inline CSS for the element wrapping the preview or
// the public portfolio.
func (p Preview) ContainerStyle() string {
	return fmt.Sprintf("font-family: %s; font-size: %s; --electric-blue: %s;", p.FontFamily, p.FontSize, p.Accent)
}

// TextStyle colors the name and bio.
func (p Preview) TextStyle() string {
	return "color: " + p.TextColor + ";"
}

// GalleryStyle spaces the gallery grid.
func (p Preview) GalleryStyle() string {
	return "gap: " + p.Gap + ";"
}

// Badge returns the caption shown next to a slider.
func (p Preview) Badge(f Field) string {
	return p.Badges[f]
}

func orText(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
