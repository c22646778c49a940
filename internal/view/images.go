package view

import (
	"net/url"
	"strconv"
	"time"
)

const generatedAvatarBase = "https://ui-avatars.com/api/"

// AvatarURL returns src sized for display, or a generated avatar for name
// when the profile has no picture.
func AvatarURL(src, name string, size int) string {
	if src == "" {
		q := url.Values{}
		q.Set("name", name)
		q.Set("size", strconv.Itoa(size))
		q.Set("background", "random")
		return generatedAvatarBase + "?" + q.Encode()
	}
	return WithQuery(src, map[string]string{
		"width":  strconv.Itoa(size),
		"height": strconv.Itoa(size),
	})
}

// CacheBust appends a timestamp so a replaced image is fetched again.
func CacheBust(src string, at time.Time) string {
	if src == "" {
		return ""
	}
	return WithQuery(src, map[string]string{"t": strconv.FormatInt(at.Unix(), 10)})
}

// WithQuery sets query parameters on src. Unparseable URLs are returned as is.
func WithQuery(src string, params map[string]string) string {
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
