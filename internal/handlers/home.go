package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/view"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// HomeHandler handles requests for the home page.
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// HomeGet renders the landing page. Signed in users get links into their own
// portfolio and design page.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return c.Render(http.StatusOK, "", view.Page(view.PageData{
		Title:   "Home",
		User:    user,
		Flashes: view.GetFlashData(c),
	}, homeContent(user != nil)))
}

func homeContent(signedIn bool) g.Node {
	var actions g.Node
	if signedIn {
		actions = Div(Class("d-flex gap-2 justify-content-center"),
			A(Href("/portfolio"), Class("btn btn-primary btn-lg"), g.Text("View my portfolio")),
			A(Href("/settings"), Class("btn btn-outline-light btn-lg"), g.Text("Design it")),
		)
	} else {
		actions = Div(Class("d-flex gap-2 justify-content-center"),
			A(Href("/auth/register"), Class("btn btn-primary btn-lg"), g.Text("Get started")),
			A(Href("/auth/login"), Class("btn btn-outline-light btn-lg"), g.Text("Log in")),
		)
	}
	return Section(Class("text-center py-5"),
		H1(Class("display-4 fw-bold"), g.Text("OwnDesign")),
		P(Class("lead mb-4"), g.Text("Your work, your colors, your page. Build a portfolio that looks the way you want.")),
		actions,
		P(Class("mt-4"), A(Href("/users"), Class("link-light"), g.Text("Browse creators"))),
	)
}
