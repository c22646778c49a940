package community

import (
	"net/url"

	"github.com/owndesign/owndesign/internal/view"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

const resultsID = "creator-results"

func directory(entries []Entry, query string) g.Node {
	return Div(
		H1(Class("h3 mb-3"), g.Text("Creators")),
		Input(Type("search"), Name("q"), Value(query), Class("form-control mb-4"),
			Placeholder("Search by name"), Aria("label", "Search creators"),
			hx.Get("/users/search"),
			hx.Trigger("input changed delay:250ms, search"),
			hx.Target("#"+resultsID),
			hx.Swap("outerHTML"),
		),
		results(entries),
	)
}

func results(entries []Entry) g.Node {
	if len(entries) == 0 {
		return P(ID(resultsID), Class("text-secondary"), g.Text("No creators match your search."))
	}
	return Div(ID(resultsID), Class("row row-cols-1 row-cols-md-3 g-3"),
		g.Map(entries, card),
	)
}

func card(e Entry) g.Node {
	return Div(Class("col"),
		A(Href("/portfolio?userId="+url.QueryEscape(e.OwnerID)), Class("text-decoration-none"),
			Div(Class("card h-100 bg-black border-secondary text-light"),
				Div(Class("card-body d-flex gap-3 align-items-start"),
					Img(Class("rounded-circle"), Src(view.AvatarURL(e.Avatar, e.Name, 64)), Alt(e.Name),
						Width("64"), Height("64")),
					Div(
						H2(Class("h6 card-title mb-1"), g.Text(e.Name)),
						P(Class("card-text small text-secondary"), g.Text(e.Bio)),
					),
				),
			),
		),
	)
}
