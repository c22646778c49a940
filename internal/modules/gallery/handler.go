package gallery

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/events"
	"github.com/owndesign/owndesign/internal/filestore"
	"github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/pubsub"
	"github.com/owndesign/owndesign/internal/view"
)

// Prefix is the object storage folder holding gallery images.
const Prefix = "gallery-images/"

// UploadRequest is the add-image form.
type UploadRequest struct {
	Description string `form:"description" validate:"max=2000"`
}

// Handler serves the add-image page.
type Handler struct {
	gallery   domain.GalleryRepository
	media     *filestore.Service
	publisher pubsub.Publisher
	now       func() time.Time
}

// NewHandler creates the upload handler.
func NewHandler(gallery domain.GalleryRepository, media *filestore.Service, publisher pubsub.Publisher, now func() time.Time) *Handler {
	return &Handler{gallery: gallery, media: media, publisher: publisher, now: now}
}

// New renders the upload form.
func (h *Handler) New(c echo.Context) error {
	return c.Render(http.StatusOK, "", view.Page(view.PageData{
		Title:   "Upload Photo",
		User:    middleware.CurrentUser(c),
		Flashes: view.GetFlashData(c),
	}, uploadForm()))
}

// ObjectPath names the stored file of an upload.
func ObjectPath(owner string, at time.Time, filename, contentType string) string {
	return fmt.Sprintf("%s%s/%d%s", Prefix, owner, at.UnixNano(), filestore.Ext(filename, contentType))
}

// Create stores the uploaded file and records it in the gallery.
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	user := middleware.CurrentUser(c)
	owner := user.OwnerID()

	fail := func(msg string) error {
		view.SetFlashError(c, "There was an error: "+msg)
		return c.Redirect(http.StatusSeeOther, "/images/new")
	}

	var req UploadRequest
	if err := c.Bind(&req); err != nil {
		return fail("the form could not be read")
	}
	if err := c.Validate(&req); err != nil {
		return fail("the description is too long")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return fail("please choose an image")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return fail("the uploaded file could not be read")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	objectPath := ObjectPath(owner, h.now(), fileHeader.Filename, contentType)
	imageURL, err := h.media.Store(ctx, objectPath, filestore.Upload{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		Body:        src,
	})
	if err != nil {
		logger.Warn("Rejected gallery upload", "owner", owner, "error", err)
		return fail(err.Error())
	}

	profileID := domain.ProfileRecordID(owner)
	created, err := h.gallery.Create(ctx, &domain.GalleryImage{
		ProfileID:   &profileID,
		ImageURL:    imageURL,
		StoragePath: objectPath,
		Title:       fileHeader.Filename,
		Description: req.Description,
	})
	if err != nil {
		logger.Error("Failed to record gallery image", "owner", owner, "error", err)
		if rmErr := h.media.Remove(ctx, objectPath); rmErr != nil {
			logger.Warn("Failed to remove orphaned image", "path", objectPath, "error", rmErr)
		}
		return fail(err.Error())
	}

	if h.publisher != nil {
		if err := events.ImageAdded.Publish(ctx, h.publisher, owner, events.GalleryChanged{
			OwnerID:  owner,
			ImageKey: created.Key(),
		}); err != nil {
			logger.Warn("Failed to publish image upload", "error", err)
		}
	}

	view.SetFlashSuccess(c, "Image uploaded")
	return c.Redirect(http.StatusSeeOther, "/portfolio?userId="+url.QueryEscape(owner))
}
