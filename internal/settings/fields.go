// Package settings keeps a creator's presentation settings form in sync with
// the stored profile: it loads values, derives the live preview, tracks
// unsaved edits and writes them back.
package settings

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cast"
)

// Kind describes how a field's value is typed in storage.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindNumber
	KindColor
	KindEffect
	KindFont
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindNumber:
		return "number"
	case KindColor:
		return "color"
	case KindEffect:
		return "effect"
	case KindFont:
		return "font"
	default:
		return "text"
	}
}

// Field identifies one entry of the settings form. The set of fields is fixed
// at compile time.
type Field int

const (
	FontFamily Field = iota
	BaseFontSize
	PrimaryColor
	FontColor
	UserName
	UserBio
	GalleryFrameColor
	GalleryFrameWidth
	GalleryGap
	GalleryEffect

	fieldCount
)

// Attributes written outside the registry.
const (
	AvatarAttribute    = "profile_picture_url"
	UpdatedAtAttribute = "updated_at"
)

type fieldInfo struct {
	id        string
	attribute string
	label     string
	kind      Kind
	def       string
	positive  bool
}

var registry = [fieldCount]fieldInfo{
	FontFamily:        {id: "fontFamily", attribute: "font_family", label: "Font", kind: KindFont, def: "Arial"},
	BaseFontSize:      {id: "baseFontSize", attribute: "font_size", label: "Base font size", kind: KindInt, def: "16", positive: true},
	PrimaryColor:      {id: "primaryColor", attribute: "primary_color", label: "Primary color", kind: KindColor, def: "#8A2BE2"},
	FontColor:         {id: "fontColor", attribute: "secondary_color", label: "Text color", kind: KindColor, def: "#FFFFFF"},
	UserName:          {id: "userName", attribute: "name", label: "Name", kind: KindText},
	UserBio:           {id: "userBio", attribute: "about", label: "Bio", kind: KindText},
	GalleryFrameColor: {id: "galleryFrameColor", attribute: "gallery_frame_color", label: "Frame color", kind: KindColor, def: "#000000"},
	GalleryFrameWidth: {id: "galleryFrameWidth", attribute: "gallery_frame_width", label: "Frame width", kind: KindInt, def: "0"},
	GalleryGap:        {id: "galleryGap", attribute: "gallery_gap", label: "Gallery gap", kind: KindNumber, def: "1"},
	GalleryEffect:     {id: "galleryEffect", attribute: "gallery_effect", label: "Special effect", kind: KindEffect, def: string(EffectNone)},
}

var (
	byID        = make(map[string]Field, fieldCount)
	byAttribute = make(map[string]Field, fieldCount)
)

func init() {
	for f := Field(0); f < fieldCount; f++ {
		byID[registry[f].id] = f
		byAttribute[registry[f].attribute] = f
	}
}

// Fields returns every registry entry in form order.
func Fields() []Field {
	out := make([]Field, 0, fieldCount)
	for f := Field(0); f < fieldCount; f++ {
		out = append(out, f)
	}
	return out
}

// Lookup resolves a form field id. The second result is false for ids that
// are not mapped.
func Lookup(id string) (Field, bool) {
	f, ok := byID[id]
	return f, ok
}

// LookupAttribute resolves a storage attribute name.
func LookupAttribute(name string) (Field, bool) {
	f, ok := byAttribute[name]
	return f, ok
}

func (f Field) valid() bool { return f >= 0 && f < fieldCount }

func (f Field) info() fieldInfo {
	if !f.valid() {
		return fieldInfo{}
	}
	return registry[f]
}

// ID is the form field identifier.
func (f Field) ID() string { return f.info().id }

// Attribute is the storage attribute the field maps to.
func (f Field) Attribute() string { return f.info().attribute }

// Label is the human readable caption of the field.
func (f Field) Label() string { return f.info().label }

// Kind reports how the value is typed in storage.
func (f Field) Kind() Kind { return f.info().kind }

// Default is the form value used when nothing has been loaded.
func (f Field) Default() string { return f.info().def }

func (f Field) String() string { return f.ID() }

// Normalize converts a stored attribute into the string the form shows.
// Values that cannot be read fall back to the field default, so the result
// is always safe to place in inline CSS for every field except name and bio.
func (f Field) Normalize(raw any) string {
	switch f.Kind() {
	case KindInt:
		return strconv.Itoa(f.intValue(raw))
	case KindNumber:
		return strconv.FormatFloat(f.numberValue(raw), 'f', -1, 64)
	case KindEffect:
		return string(ParseEffect(cast.ToString(raw)))
	case KindColor:
		return f.colorValue(cast.ToString(raw))
	case KindFont:
		return f.fontValue(cast.ToString(raw))
	default:
		return cast.ToString(raw)
	}
}

// Value converts a form string into the typed value written to storage.
func (f Field) Value(form string) any {
	switch f.Kind() {
	case KindInt:
		return f.intValue(form)
	case KindNumber:
		return f.numberValue(form)
	case KindEffect:
		return string(ParseEffect(form))
	case KindColor:
		return f.colorValue(form)
	case KindFont:
		return f.fontValue(form)
	default:
		return form
	}
}

// intValue reads integers in base 10 only: "010" is ten and "0x10" stops at
// the leading zero.
func (f Field) intValue(raw any) int {
	def, _ := strconv.Atoi(f.Default())
	var n int
	if s, ok := raw.(string); ok {
		var err error
		if n, err = strconv.Atoi(strings.TrimSpace(s)); err != nil {
			if n, ok = leadingInt(s); !ok {
				return def
			}
		}
	} else {
		var err error
		if n, err = cast.ToIntE(raw); err != nil {
			return def
		}
	}
	if f.info().positive && n <= 0 {
		return def
	}
	if n < 0 {
		return def
	}
	return n
}

func (f Field) numberValue(raw any) float64 {
	def, _ := strconv.ParseFloat(f.Default(), 64)
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "rem"))
		if !decimal.MatchString(s) {
			return def
		}
		raw = s
	}
	n, err := cast.ToFloat64E(raw)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return def
	}
	return n
}

var (
	hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	decimal  = regexp.MustCompile(`^[0-9]*\.?[0-9]+$`)
)

func (f Field) colorValue(s string) string {
	if s = strings.TrimSpace(s); hexColor.MatchString(s) {
		return s
	}
	return f.Default()
}

// fontValue keeps letters, digits, spaces, hyphens and commas of a font
// list. Anything else, quotes included, is dropped.
func (f Field) fontValue(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == ',' {
			return r
		}
		return -1
	}, s)
	if s = strings.Join(strings.Fields(s), " "); s == "" {
		return f.Default()
	}
	return s
}

// leadingInt reads the digits at the start of s, so "16px" and "16.5" both
// yield 16.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}
