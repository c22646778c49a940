package portfolio

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/events"
	"github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/pubsub"
	"github.com/owndesign/owndesign/internal/storage"
	"github.com/owndesign/owndesign/internal/view"
	g "maragu.dev/gomponents"
)

// Handler serves public portfolios.
type Handler struct {
	profiles  domain.ProfileRepository
	gallery   domain.GalleryRepository
	objects   storage.ObjectStore
	publisher pubsub.Publisher
	cache     *styleCache
}

// NewHandler creates a portfolio handler.
func NewHandler(profiles domain.ProfileRepository, gallery domain.GalleryRepository, objects storage.ObjectStore, publisher pubsub.Publisher, cache *styleCache) *Handler {
	return &Handler{
		profiles:  profiles,
		gallery:   gallery,
		objects:   objects,
		publisher: publisher,
		cache:     cache,
	}
}

// PortfolioURL is the public address of an owner's portfolio.
func PortfolioURL(owner string) string {
	return "/portfolio?userId=" + url.QueryEscape(owner)
}

func (h *Handler) page(c echo.Context, status int, title string, content ...g.Node) error {
	return c.Render(status, "", view.Page(view.PageData{
		Title:   title,
		User:    middleware.CurrentUser(c),
		Flashes: view.GetFlashData(c),
	}, content...))
}

// Get renders the portfolio named by the userId parameter. Signed-in visitors
// without a parameter are sent to their own portfolio.
func (h *Handler) Get(c echo.Context) error {
	owner := c.QueryParam("userId")
	visitor := middleware.CurrentUser(c)
	if owner == "" {
		if visitor != nil {
			return c.Redirect(http.StatusSeeOther, PortfolioURL(visitor.OwnerID()))
		}
		return h.page(c, http.StatusOK, "Portfolio", missingPanel(noProfileMsg, true))
	}

	ctx := c.Request().Context()
	var (
		profile styled
		images  []*domain.GalleryImage
	)
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		var err error
		profile, err = h.cache.load(gctx, h.profiles, owner)
		return err
	})
	grp.Go(func() error {
		var err error
		images, err = h.gallery.ListByOwner(gctx, owner)
		return err
	})

	if err := grp.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return h.page(c, http.StatusNotFound, "Portfolio", missingPanel(notFoundMsg, visitor == nil))
		}
		middleware.FromContext(ctx).Error("Failed to load portfolio", "owner", owner, "error", err)
		return h.page(c, http.StatusBadGateway, "Portfolio",
			view.ErrorPanel("Portfolio unavailable", "The portfolio could not be loaded. Please try again later."))
	}

	return h.page(c, http.StatusOK, displayName(profile.Profile), portfolioSection(pageData{
		Owner:   owner,
		Profile: profile.Profile,
		Preview: profile.Preview,
		Images:  images,
		IsOwner: visitor != nil && visitor.OwnerID() == owner,
	}))
}

// Image renders the detail modal of one gallery image.
func (h *Handler) Image(c echo.Context) error {
	img, err := h.gallery.FindByKey(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "image not found")
		}
		return err
	}
	visitor := middleware.CurrentUser(c)
	canDelete := visitor != nil && visitor.OwnerID() == img.OwnerID()
	return c.Render(http.StatusOK, "", imageModal(img, canDelete))
}

// Delete removes an image the visitor owns: first the stored file, then the
// gallery record.
func (h *Handler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	visitor := middleware.CurrentUser(c)

	img, err := h.gallery.FindByKey(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "image not found")
		}
		return err
	}
	if visitor == nil || img.OwnerID() != visitor.OwnerID() {
		logger.Warn("Refused to delete image of another owner", "image", img.Key())
		return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
	}

	if img.StoragePath != "" {
		if err := h.objects.Remove(ctx, img.StoragePath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			logger.Error("Failed to remove image file", "path", img.StoragePath, "error", err)
			return c.Render(http.StatusBadGateway, "", view.Alert("danger", "The image could not be deleted."))
		}
	}
	if err := h.gallery.DeleteByKey(ctx, img.Key()); err != nil {
		logger.Error("Failed to delete image record", "image", img.Key(), "error", err)
		return c.Render(http.StatusBadGateway, "", view.Alert("danger", "The image could not be deleted."))
	}

	if h.publisher != nil {
		if err := events.ImageDeleted.Publish(ctx, h.publisher, visitor.OwnerID(), events.GalleryChanged{
			OwnerID:  visitor.OwnerID(),
			ImageKey: img.Key(),
		}); err != nil {
			logger.Warn("Failed to publish image deletion", "error", err)
		}
	}

	view.SetFlashSuccess(c, "Image deleted")
	c.Response().Header().Set("HX-Redirect", PortfolioURL(visitor.OwnerID()))
	return c.NoContent(http.StatusOK)
}
