package gallery

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
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
	"github.com/owndesign/owndesign/internal/handlers"
	"github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/registry"
	"github.com/owndesign/owndesign/internal/rendering"
	"github.com/owndesign/owndesign/internal/storage"
	"github.com/owndesign/owndesign/internal/testutils"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 42, time.UTC)

type fixture struct {
	e       *echo.Echo
	token   string
	owner   string
	gallery *testutils.GalleryRepo
	fs      afero.Fs
	pub     *testutils.RecordingPublisher
	reg     *registry.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := testutils.NewUserRepo()
	token, err := users.SignUp(context.Background(), &domain.User{Email: "katherine.j@example.com"}, "trajectory")
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	cfg := &config.Config{MaxUploadSize: 1024, AllowedMimeTypes: []string{"image/png", "image/jpeg"}}
	media := filestore.NewService(storage.NewAferoStore(fs, "data", "imagenes"), cfg)

	f := &fixture{
		e:       echo.New(),
		token:   token,
		owner:   strings.TrimPrefix(token, "token-"),
		gallery: testutils.NewGalleryRepo(),
		fs:      fs,
		pub:     &testutils.RecordingPublisher{},
		reg:     registry.New(cfg),
	}
	f.e.Renderer = rendering.NewUniversalRenderer()
	f.e.Validator = handlers.NewValidator()
	f.e.Use(session.Middleware(sessions.NewCookieStore([]byte("gallery-test-secret-0123456789ab"))))

	m := New(Dependencies{
		Users:     users,
		Gallery:   f.gallery,
		Media:     media,
		Publisher: f.pub,
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, m.Register(f.reg))
	require.NoError(t, m.Boot(context.Background(), f.e.Group(""), f.reg))
	return f
}

func (f *fixture) upload(t *testing.T, filename, contentType, content, description string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("description", description))
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/images", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: f.token})
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestGallery_NewForm(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/images/new", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: f.token})
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `enctype="multipart/form-data"`)
}

func TestGallery_RegistersMediaService(t *testing.T) {
	f := newFixture(t)
	_, ok := registry.Get(f.reg, registry.MediaServiceKey)
	assert.True(t, ok)
}

func TestGallery_Create(t *testing.T) {
	f := newFixture(t)
	rec := f.upload(t, "sunset.png", "image/png", "png-bytes", "Evening at the lake")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/portfolio?userId="+f.owner, rec.Header().Get("Location"))

	path := ObjectPath(f.owner, fixedNow, "sunset.png", "image/png")
	assert.Equal(t, "gallery-images/"+f.owner+"/1773500966000000042.png", path)
	exists, err := afero.Exists(f.fs, "data/imagenes/"+path)
	require.NoError(t, err)
	assert.True(t, exists)

	images, err := f.gallery.ListByOwner(context.Background(), f.owner)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "sunset.png", images[0].Title)
	assert.Equal(t, "Evening at the lake", images[0].Description)
	assert.Equal(t, "/storage/imagenes/"+path, images[0].ImageURL)
	assert.Equal(t, []string{"gallery.image_added"}, f.pub.Topics())
}

func TestGallery_CreateFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		f := newFixture(t)
		rec := f.upload(t, "", "", "", "no file")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/images/new", rec.Header().Get("Location"))
	})

	t.Run("unsupported type", func(t *testing.T) {
		f := newFixture(t)
		rec := f.upload(t, "notes.txt", "text/plain", "hello", "")
		assert.Equal(t, "/images/new", rec.Header().Get("Location"))
		images, _ := f.gallery.ListByOwner(context.Background(), f.owner)
		assert.Empty(t, images)
	})

	t.Run("record failure removes the stored file", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.CreateErr = assert.AnError
		rec := f.upload(t, "sunset.png", "image/png", "png-bytes", "")
		assert.Equal(t, "/images/new", rec.Header().Get("Location"))

		exists, _ := afero.Exists(f.fs, "data/imagenes/"+ObjectPath(f.owner, fixedNow, "sunset.png", "image/png"))
		assert.False(t, exists)
		assert.Empty(t, f.pub.Topics())
	})
}
