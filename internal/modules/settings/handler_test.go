package settings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owndesign/owndesign/internal/config"
	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/filestore"
	"github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/registry"
	"github.com/owndesign/owndesign/internal/rendering"
	"github.com/owndesign/owndesign/internal/storage"
	"github.com/owndesign/owndesign/internal/testutils"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

type testApp struct {
	e        *echo.Echo
	token    string
	owner    string
	profiles *testutils.ProfileRepo
	fs       afero.Fs
	pub      *testutils.RecordingPublisher
}

func newTestApp(t *testing.T, withProfile bool) *testApp {
	t.Helper()
	users := testutils.NewUserRepo()
	name := "Ada Lovelace"
	token, err := users.SignUp(context.Background(), &domain.User{Email: "ada.lovelace@example.com", Name: &name}, "analytical")
	require.NoError(t, err)
	owner := strings.TrimPrefix(token, "token-")

	profiles := testutils.NewProfileRepo()
	if withProfile {
		profiles.Put(owner, map[string]any{
			"name":        "Ada Lovelace",
			"about":       "First programmer",
			"font_size":   18,
			"gallery_gap": 1.5,
		})
	}

	fs := afero.NewMemMapFs()
	cfg := &config.Config{MaxUploadSize: 1 << 20, AllowedMimeTypes: []string{"image/png", "image/jpeg"}}
	media := filestore.NewService(storage.NewAferoStore(fs, "data", "imagenes"), cfg)
	pub := &testutils.RecordingPublisher{}

	e := echo.New()
	e.Renderer = rendering.NewUniversalRenderer()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("settings-test-secret-0123456789"))))

	m := New(Dependencies{
		Users:     users,
		Profiles:  profiles,
		Avatars:   media,
		Publisher: pub,
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, m.Boot(context.Background(), e.Group(""), registry.New(cfg)))

	return &testApp{e: e, token: token, owner: owner, profiles: profiles, fs: fs, pub: pub}
}

func (a *testApp) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("HX-Request", "true")
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: a.token})
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func TestSettings_RequiresLogin(t *testing.T) {
	app := newTestApp(t, true)
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"))
}

func TestSettings_Get(t *testing.T) {
	t.Run("renders the form with stored values", func(t *testing.T) {
		app := newTestApp(t, true)
		rec := app.do(t, http.MethodGet, "/settings", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "First programmer")
		assert.Contains(t, body, "font-size: 18px")
		assert.Contains(t, body, "1.5rem")
		assert.Contains(t, body, "beforeunload")
		assert.Contains(t, body, `hx-post="/settings/navigate"`)
	})

	t.Run("missing profile shows an error panel and no form", func(t *testing.T) {
		app := newTestApp(t, false)
		rec := app.do(t, http.MethodGet, "/settings", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Could not load your profile")
		assert.NotContains(t, rec.Body.String(), editorID)
	})

	t.Run("backend failure shows an error panel", func(t *testing.T) {
		app := newTestApp(t, true)
		app.profiles.FindErr = errors.New("connection refused")
		rec := app.do(t, http.MethodGet, "/settings", nil)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "could not be loaded")
	})
}

func TestSettings_Input(t *testing.T) {
	app := newTestApp(t, true)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/settings", nil).Code)

	rec := app.do(t, http.MethodPost, "/settings/input", url.Values{"field": {"baseFontSize"}, "value": {"22"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "font-size: 22px")
	assert.Contains(t, rec.Body.String(), `id="badge-baseFontSize"`)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), eventDirty)

	t.Run("effect change disables the frame controls", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/settings/input", url.Values{"field": {"galleryEffect"}, "value": {"fx-glow"}})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `id="frame-controls"`)
		assert.Contains(t, body, "disabled")
		assert.Contains(t, body, "fx-glow")
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/settings/input", url.Values{"field": {"nope"}, "value": {"1"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSettings_Save(t *testing.T) {
	t.Run("writes every field and reports success", func(t *testing.T) {
		app := newTestApp(t, true)
		app.do(t, http.MethodGet, "/settings", nil)
		app.do(t, http.MethodPost, "/settings/input", url.Values{"field": {"userName"}, "value": {"Countess"}})

		rec := app.do(t, http.MethodPost, "/settings/save", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Changes saved")
		assert.Contains(t, rec.Header().Get("HX-Trigger"), eventClean)

		assert.Equal(t, "Countess", app.profiles.Attr(app.owner, "name"))
		assert.EqualValues(t, 18, app.profiles.Attr(app.owner, "font_size"))
		assert.Equal(t, fixedNow, app.profiles.Attr(app.owner, "updated_at"))
		assert.Contains(t, app.pub.Topics(), "profile.saved")
	})

	t.Run("backend message is shown verbatim", func(t *testing.T) {
		app := newTestApp(t, true)
		app.do(t, http.MethodGet, "/settings", nil)
		app.do(t, http.MethodPost, "/settings/input", url.Values{"field": {"userBio"}, "value": {"x"}})
		app.profiles.UpdateErr = errors.New("permission denied for table profile")

		rec := app.do(t, http.MethodPost, "/settings/save", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "permission denied for table profile")
		assert.Empty(t, rec.Header().Get("HX-Trigger"))

		// Still dirty: the link guard holds navigation.
		rec = app.do(t, http.MethodPost, "/settings/navigate", url.Values{"href": {"/portfolio"}})
		assert.Contains(t, rec.Body.String(), "Unsaved changes")
	})
}

func TestSettings_NavigationGuard(t *testing.T) {
	app := newTestApp(t, true)
	app.do(t, http.MethodGet, "/settings", nil)

	t.Run("clean form follows the link", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/settings/navigate", url.Values{"href": {"/users"}})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/users", rec.Header().Get("HX-Redirect"))
	})

	app.do(t, http.MethodPost, "/settings/input", url.Values{"field": {"primaryColor"}, "value": {"#112233"}})

	t.Run("toggles are never held", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/settings/navigate", url.Values{"href": {"#main-nav"}, "toggle": {"collapse"}})
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("dirty form asks and keeps the first target", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/settings/navigate", url.Values{"href": {"/portfolio"}})
		assert.Contains(t, rec.Body.String(), "Unsaved changes")

		rec = app.do(t, http.MethodPost, "/settings/navigate", url.Values{"href": {"/users"}})
		assert.Contains(t, rec.Body.String(), "Unsaved changes")

		rec = app.do(t, http.MethodPost, "/settings/leave", nil)
		assert.Equal(t, "/portfolio", rec.Header().Get("HX-Redirect"))
		assert.Contains(t, rec.Header().Get("HX-Trigger"), eventClean)
	})
}

func TestSettings_Stay(t *testing.T) {
	app := newTestApp(t, true)
	app.do(t, http.MethodGet, "/settings", nil)
	app.do(t, http.MethodPost, "/settings/input", url.Values{"field": {"fontColor"}, "value": {"#000000"}})

	app.do(t, http.MethodPost, "/settings/navigate", url.Values{"href": {"/portfolio"}})
	rec := app.do(t, http.MethodPost, "/settings/stay", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodPost, "/settings/navigate", url.Values{"href": {"/users"}})
	assert.Contains(t, rec.Body.String(), "Unsaved changes")
	rec = app.do(t, http.MethodPost, "/settings/leave", nil)
	assert.Equal(t, "/users", rec.Header().Get("HX-Redirect"))
}

func TestSettings_Reset(t *testing.T) {
	app := newTestApp(t, true)
	app.do(t, http.MethodGet, "/settings", nil)
	app.do(t, http.MethodPost, "/settings/input", url.Values{"field": {"userName"}, "value": {"Someone Else"}})

	rec := app.do(t, http.MethodGet, "/settings/reset", nil)
	assert.Contains(t, rec.Body.String(), "Reset changes?")

	rec = app.do(t, http.MethodPost, "/settings/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")
	assert.NotContains(t, rec.Body.String(), "Someone Else")
	assert.Contains(t, rec.Header().Get("HX-Trigger"), eventClean)
	assert.Zero(t, app.profiles.UpdateCount())
}

func avatarRequest(t *testing.T, token, contentType string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/settings/avatar", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	return req
}

func TestSettings_Avatar(t *testing.T) {
	t.Run("stores the file and records its url", func(t *testing.T) {
		app := newTestApp(t, true)
		app.do(t, http.MethodGet, "/settings", nil)

		rec := httptest.NewRecorder()
		app.e.ServeHTTP(rec, avatarRequest(t, app.token, "image/png"))
		require.Equal(t, http.StatusOK, rec.Code)

		objectPath := fmt.Sprintf("avatars/%s-%d.png", app.owner, fixedNow.UnixMilli())
		assert.Equal(t, "/storage/imagenes/"+objectPath, app.profiles.Attr(app.owner, "profile_picture_url"))
		exists, err := afero.Exists(app.fs, "data/imagenes/"+objectPath)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Contains(t, rec.Body.String(), "/storage/imagenes/"+objectPath)
		assert.Contains(t, rec.Header().Get("HX-Trigger"), eventDirty)
	})

	t.Run("rejected type keeps the previous avatar", func(t *testing.T) {
		app := newTestApp(t, true)
		app.profiles.Put(app.owner, map[string]any{"name": "Ada", "profile_picture_url": "/old.png"})
		app.do(t, http.MethodGet, "/settings", nil)

		rec := httptest.NewRecorder()
		app.e.ServeHTTP(rec, avatarRequest(t, app.token, "application/pdf"))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "#"+avatarStatus, rec.Header().Get("HX-Retarget"))
		assert.Contains(t, rec.Body.String(), "Could not update the profile picture.")
		assert.Equal(t, "/old.png", app.profiles.Attr(app.owner, "profile_picture_url"))
	})

	t.Run("failed upload still marks the page dirty", func(t *testing.T) {
		app := newTestApp(t, true)
		app.do(t, http.MethodGet, "/settings", nil)

		rec := httptest.NewRecorder()
		app.e.ServeHTTP(rec, avatarRequest(t, app.token, "application/pdf"))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Header().Get("HX-Trigger"), eventDirty)

		// Both guards agree: the in-app guard holds the link as well.
		rec = app.do(t, http.MethodPost, "/settings/navigate", url.Values{"href": {"/users"}})
		assert.Contains(t, rec.Body.String(), "Unsaved changes")
		assert.Empty(t, rec.Header().Get("HX-Redirect"))
	})
}

func TestLocalTarget(t *testing.T) {
	assert.Equal(t, "/portfolio?userId=1", localTarget(" /portfolio?userId=1 "))
	assert.Equal(t, "/", localTarget("https://evil.example"))
	assert.Equal(t, "/", localTarget("//evil.example"))
	assert.Equal(t, "/", localTarget(""))
}
