package settings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/filestore"
	"github.com/owndesign/owndesign/internal/middleware"
	form "github.com/owndesign/owndesign/internal/settings"
	"github.com/owndesign/owndesign/internal/view"
	g "maragu.dev/gomponents"
)

const basePath = "/settings"

// Handler serves the design page of the signed-in creator.
type Handler struct {
	editors *form.Editors
	now     func() time.Time
}

// NewHandler creates a handler over the given editors.
func NewHandler(editors *form.Editors, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{editors: editors, now: now}
}

func owner(c echo.Context) string {
	return middleware.CurrentUser(c).OwnerID()
}

// editor returns the open form of the visitor, loading a fresh one when the
// page was never opened in this process.
func (h *Handler) editor(c echo.Context) (*form.Controller, error) {
	if ed, ok := h.editors.Get(owner(c)); ok && ed.Loaded() {
		return ed, nil
	}
	ed := h.editors.Open(owner(c))
	if err := ed.Load(c.Request().Context()); err != nil {
		return nil, err
	}
	return ed, nil
}

func (h *Handler) page(c echo.Context, status int, guard bool, content ...g.Node) error {
	data := view.PageData{
		Title:   "Design",
		User:    middleware.CurrentUser(c),
		Flashes: view.GetFlashData(c),
	}
	if guard {
		data.GuardPath = basePath + "/navigate"
		data.Scripts = []g.Node{view.Templ(c.Request().Context(), UnloadGuard(false))}
	}
	return c.Render(status, "", view.Page(data, content...))
}

// Get opens a fresh form for the visitor and renders the design page. A
// profile that cannot be loaded shows an error panel instead of the form.
func (h *Handler) Get(c echo.Context) error {
	ed := h.editors.Open(owner(c))
	if err := ed.Load(c.Request().Context()); err != nil {
		status := http.StatusBadGateway
		msg := "Your profile could not be loaded. Please try again later."
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
			msg = "No profile exists for your account yet."
		}
		return h.page(c, status, false, view.ErrorPanel("Could not load your profile", msg))
	}
	return h.page(c, http.StatusOK, true, editorSection(editorData{
		Values:  ed.Values(),
		Preview: ed.Preview(),
		Now:     h.now(),
	}))
}

// Input applies one field edit and returns the refreshed preview.
func (h *Handler) Input(c echo.Context) error {
	ed, err := h.editor(c)
	if err != nil {
		return alert(c, http.StatusBadGateway, err.Error())
	}

	id := c.FormValue("field")
	preview, err := ed.Input(id, c.FormValue("value"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f, _ := form.Lookup(id)
	trigger(c, eventDirty)
	return c.Render(http.StatusOK, "", inputResponse(f, ed.Values(), preview, h.now()))
}

// Save writes the form. Backend messages are shown exactly as returned.
func (h *Handler) Save(c echo.Context) error {
	ed, err := h.editor(c)
	if err != nil {
		return alert(c, http.StatusBadGateway, err.Error())
	}

	err = ed.Save(c.Request().Context())
	switch {
	case errors.Is(err, form.ErrBusy):
		return alert(c, http.StatusConflict, "A save is already in progress.")
	case err != nil:
		var saveErr *form.SaveError
		if errors.As(err, &saveErr) {
			return alert(c, http.StatusUnprocessableEntity, saveErr.Message)
		}
		return alert(c, http.StatusUnprocessableEntity, err.Error())
	}

	if !isHTMX(c) {
		view.SetFlashSuccess(c, "Changes saved")
		return c.Redirect(http.StatusSeeOther, basePath)
	}
	if !ed.Tracker().Dirty() {
		trigger(c, eventClean)
	}
	return c.Render(http.StatusOK, "", view.Alert("success", "Changes saved"))
}

// ResetConfirm asks before discarding unsaved edits.
func (h *Handler) ResetConfirm(c echo.Context) error {
	return c.Render(http.StatusOK, "", resetModal())
}

// Reset reloads the stored profile into the form.
func (h *Handler) Reset(c echo.Context) error {
	ed, ok := h.editors.Get(owner(c))
	if !ok {
		ed = h.editors.Open(owner(c))
	}

	err := ed.Reset(c.Request().Context())
	switch {
	case errors.Is(err, form.ErrBusy):
		c.Response().Header().Set("HX-Retarget", "#"+statusID)
		c.Response().Header().Set("HX-Reswap", "innerHTML")
		return alert(c, http.StatusConflict, "Please wait for the current save to finish.")
	case err != nil:
		c.Response().Header().Set("HX-Retarget", "#"+statusID)
		c.Response().Header().Set("HX-Reswap", "innerHTML")
		return c.Render(http.StatusBadGateway, "", g.Group{
			view.Alert("danger", "Your profile could not be reloaded. Your edits were kept."),
			clearModal(),
		})
	}

	trigger(c, eventClean)
	return c.Render(http.StatusOK, "", g.Group{
		editorSection(editorData{Values: ed.Values(), Preview: ed.Preview(), Now: h.now()}),
		clearModal(),
	})
}

// Avatar replaces the profile picture right away.
func (h *Handler) Avatar(c echo.Context) error {
	ed, err := h.editor(c)
	if err != nil {
		return alert(c, http.StatusBadGateway, err.Error())
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return avatarAlert(c, http.StatusUnprocessableEntity, "Please choose an image to upload.")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return avatarAlert(c, http.StatusUnprocessableEntity, "The uploaded file could not be read.")
	}
	defer src.Close()

	_, err = ed.UploadAvatar(c.Request().Context(), filestore.Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Size:        fileHeader.Size,
		Body:        src,
	})
	// The editor is dirty once an upload was attempted, whatever its outcome.
	trigger(c, eventDirty)
	switch {
	case errors.Is(err, form.ErrBusy):
		return avatarAlert(c, http.StatusConflict, "An upload is already in progress.")
	case err != nil:
		var uploadErr *form.UploadError
		if errors.As(err, &uploadErr) {
			return avatarAlert(c, http.StatusUnprocessableEntity, uploadErr.Message())
		}
		return avatarAlert(c, http.StatusUnprocessableEntity, err.Error())
	}

	return c.Render(http.StatusOK, "", previewPanel(ed.Preview(), h.now()))
}

// Navigate decides whether a clicked link may be followed. With unsaved
// edits the leave confirmation is shown and the target remembered.
func (h *Handler) Navigate(c echo.Context) error {
	link := form.Link{Href: c.FormValue("href"), Toggle: c.FormValue("toggle")}

	if ed, ok := h.editors.Get(owner(c)); ok && ed.Navigate(link) {
		return c.Render(http.StatusOK, "", unsavedModal())
	}
	if !link.Navigable() {
		return c.NoContent(http.StatusNoContent)
	}
	c.Response().Header().Set("HX-Redirect", localTarget(link.Href))
	return c.NoContent(http.StatusOK)
}

// Leave discards the edits and follows the remembered link.
func (h *Handler) Leave(c echo.Context) error {
	target := "/"
	if ed, ok := h.editors.Get(owner(c)); ok {
		if pending, ok := ed.ConfirmLeave(); ok {
			target = pending
		}
		h.editors.Close(owner(c))
	}
	trigger(c, eventClean)
	c.Response().Header().Set("HX-Redirect", localTarget(target))
	return c.NoContent(http.StatusOK)
}

// Stay closes the confirmation and keeps editing.
func (h *Handler) Stay(c echo.Context) error {
	if ed, ok := h.editors.Get(owner(c)); ok {
		ed.CancelLeave()
	}
	return c.NoContent(http.StatusOK)
}

func alert(c echo.Context, status int, message string) error {
	return c.Render(status, "", view.Alert(alertKind(status), message))
}

func avatarAlert(c echo.Context, status int, message string) error {
	c.Response().Header().Set("HX-Retarget", "#"+avatarStatus)
	c.Response().Header().Set("HX-Reswap", "innerHTML")
	return alert(c, status, message)
}

func alertKind(status int) string {
	if status == http.StatusConflict {
		return "warning"
	}
	return "danger"
}

func trigger(c echo.Context, event string) {
	b, _ := json.Marshal(map[string]any{event: nil})
	c.Response().Header().Set("HX-Trigger", string(b))
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// localTarget keeps redirects on this site.
func localTarget(href string) string {
	href = strings.TrimSpace(href)
	if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") || strings.HasPrefix(href, "/\\") {
		return "/"
	}
	return href
}
