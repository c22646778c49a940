package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/view"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// AboutGet is a handler function that renders the about page.
func AboutGet(c echo.Context) error {
	return c.Render(http.StatusOK, "", view.Page(view.PageData{
		Title:   "About",
		User:    middleware.CurrentUser(c),
		Flashes: view.GetFlashData(c),
	}, aboutContent()))
}

func aboutContent() g.Node {
	return Article(Class("mx-auto"), Style("max-width: 48rem"),
		H1(Class("mb-3"), g.Text("About OwnDesign")),
		P(g.Text("OwnDesign gives every creator a public portfolio they style themselves. Pick colors, fonts, corner radius and a background effect, watch the preview update as you type, and save when it looks right.")),
		H2(Class("h4 mt-4"), g.Text("How it works")),
		Ol(
			Li(g.Text("Register and a portfolio is created for you.")),
			Li(g.Text("Open Design to change how your page looks.")),
			Li(g.Text("Upload photos to fill your gallery.")),
			Li(g.Text("Share the link. Anyone can browse the creators directory.")),
		),
	)
}
