package view

import (
	"encoding/json"

	"github.com/owndesign/owndesign/internal/domain"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"
)

const (
	bootstrapCSS = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"
	bootstrapJS  = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"
	htmxJS       = "https://unpkg.com/htmx.org@1.9.12"

	// ModalID is the container modals are swapped into.
	ModalID = "modal"
)

// PageData carries what every full page needs.
type PageData struct {
	Title   string
	User    *domain.User
	Flashes FlashData
	// GuardPath, when set, routes navigation links through that endpoint so
	// unsaved edits can hold them.
	GuardPath string
	Scripts   []g.Node
}

// CalculateTitle handles the conditional logic for the page title.
func CalculateTitle(title string) string {
	if title != "" {
		return title + " - OwnDesign"
	}
	return "OwnDesign"
}

// Page wraps content in the document shell with navigation and flashes.
func Page(p PageData, content ...g.Node) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(p.Title),
		Language: "en",
		Head: []g.Node{
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			Link(Rel("stylesheet"), Href(bootstrapCSS)),
			Link(Rel("stylesheet"), Href("/static/css/effects.css")),
			Script(Src(htmxJS)),
		},
		Body: []g.Node{
			Class("bg-dark text-light"),
			NavBar(p),
			Main(Class("container py-4"),
				Flashes(p.Flashes),
				g.Group(content),
			),
			Div(ID(ModalID)),
			Script(Src(bootstrapJS)),
			g.Group(p.Scripts),
		},
	})
}

// NavBar renders the top bar. Guests see the sign in links, signed in users see
// their own portfolio and the design page.
func NavBar(p PageData) g.Node {
	links := []g.Node{navLink(p, "/users", "Creators", "")}
	if p.User != nil {
		links = append(links,
			navLink(p, "/portfolio", "My Portfolio", ""),
			navLink(p, "/settings", "Design", ""),
			navLink(p, "/images/new", "Upload Photo", ""),
		)
	}

	var account g.Node
	if p.User != nil {
		account = Form(Method("post"), Action("/auth/logout"), Class("d-flex align-items-center gap-2"),
			Span(Class("navbar-text small"), g.Text(p.User.DisplayName())),
			Button(Type("submit"), Class("btn btn-outline-light btn-sm"), g.Text("Log out")),
		)
	} else {
		account = Div(Class("d-flex gap-2"),
			navLink(p, "/auth/login", "Log in", ""),
			navLink(p, "/auth/register", "Register", ""),
		)
	}

	return Nav(Class("navbar navbar-expand-md navbar-dark bg-black border-bottom border-secondary"),
		Div(Class("container"),
			navLink(p, "/", "OwnDesign", "", Class("navbar-brand")),
			navLink(p, "#main-nav", "", "collapse", Class("navbar-toggler"),
				Span(Class("navbar-toggler-icon"))),
			Div(ID("main-nav"), Class("collapse navbar-collapse justify-content-between"),
				Ul(Class("navbar-nav"), g.Map(links, func(n g.Node) g.Node {
					return Li(Class("nav-item"), n)
				})),
				account,
			),
		),
	)
}

// navLink renders an anchor. On guarded pages the click is posted to the
// guard endpoint, which either redirects or asks for confirmation.
func navLink(p PageData, href, label, toggle string, children ...g.Node) g.Node {
	attrs := []g.Node{Href(href)}
	if len(children) == 0 || label != "" {
		attrs = append(attrs, Class("nav-link"))
	}
	if toggle != "" {
		attrs = append(attrs, Data("bs-toggle", toggle))
	}
	if p.GuardPath != "" && toggle == "" {
		attrs = append(attrs,
			hx.Post(p.GuardPath),
			hx.Vals(linkVals(href, toggle)),
			hx.Target("#"+ModalID),
			hx.Swap("innerHTML"),
		)
	}
	if label != "" {
		attrs = append(attrs, g.Text(label))
	}
	return A(append(attrs, children...)...)
}

func linkVals(href, toggle string) string {
	b, _ := json.Marshal(map[string]string{"href": href, "toggle": toggle})
	return string(b)
}

// Flashes renders the one-shot messages of the request.
func Flashes(f FlashData) g.Node {
	if f.Empty() {
		return nil
	}
	return Div(ID("flashes"),
		g.Map(f.Success, func(msg string) g.Node { return Alert("success", msg) }),
		g.Map(f.Error, func(msg string) g.Node { return Alert("danger", msg) }),
	)
}
