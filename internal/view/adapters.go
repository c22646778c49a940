package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
)

// templNode wraps a templ.Component so it can be placed inside a gomponents tree.
type templNode struct {
	ctx       context.Context
	component templ.Component
}

// Render implements gomponents.Node.
func (n templNode) Render(w io.Writer) error {
	return n.component.Render(n.ctx, w)
}

// Templ adapts a templ component into a gomponents node. gomponents does not
// pass a context down the tree, so the caller supplies the one to render with.
func Templ(ctx context.Context, component templ.Component) g.Node {
	if ctx == nil {
		ctx = context.Background()
	}
	return templNode{ctx: ctx, component: component}
}

// Component adapts a gomponents node into a templ component.
func Component(node g.Node) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return node.Render(w)
	})
}
