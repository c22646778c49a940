package view

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// Alert renders a dismissible bootstrap alert of the given kind.
func Alert(kind, message string) g.Node {
	return Div(Class("alert alert-"+kind+" alert-dismissible fade show"), Role("alert"),
		g.Text(message),
		Button(Type("button"), Class("btn-close"), Data("bs-dismiss", "alert"), Aria("label", "Close")),
	)
}

// ErrorPanel replaces a page body that could not be built.
func ErrorPanel(title, message string, actions ...g.Node) g.Node {
	return Div(Class("card bg-black border-danger text-light my-5 mx-auto"), Style("max-width: 32rem;"),
		Div(Class("card-body text-center"),
			H2(Class("h4 card-title text-danger"), g.Text(title)),
			P(Class("card-text"), g.Text(message)),
			g.Group(actions),
		),
	)
}

// ModalProps describes a modal dialog rendered into the modal container.
type ModalProps struct {
	Title  string
	Body   g.Node
	Footer []g.Node
	// CloseURL is posted to when the dialog is dismissed. Without it the
	// dialog is simply removed.
	CloseURL string
}

// Modal renders an always visible dialog. Dismissing it empties the container.
func Modal(p ModalProps) g.Node {
	return Div(Class("modal d-block"), TabIndex("-1"), Role("dialog"), Style("background: rgba(0,0,0,.6);"),
		Div(Class("modal-dialog modal-dialog-centered"),
			Div(Class("modal-content bg-dark text-light border-secondary"),
				Div(Class("modal-header"),
					H5(Class("modal-title"), g.Text(p.Title)),
					closeButton(p.CloseURL, Class("btn-close btn-close-white"), Aria("label", "Close")),
				),
				Div(Class("modal-body"), p.Body),
				g.If(len(p.Footer) > 0, Div(Class("modal-footer"), g.Group(p.Footer))),
			),
		),
	)
}

func closeButton(closeURL string, children ...g.Node) g.Node {
	attrs := []g.Node{Type("button")}
	if closeURL != "" {
		attrs = append(attrs, hx.Post(closeURL), hx.Target("#"+ModalID), hx.Swap("innerHTML"))
	} else {
		attrs = append(attrs, g.Attr("onclick", "document.getElementById('"+ModalID+"').innerHTML=''"))
	}
	return Button(append(attrs, children...)...)
}

// CloseButton is a secondary footer button that dismisses the modal.
func CloseButton(label, closeURL string) g.Node {
	return closeButton(closeURL, Class("btn btn-secondary"), g.Text(label))
}
