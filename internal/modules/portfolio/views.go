package portfolio

import (
	"github.com/owndesign/owndesign/internal/domain"
	form "github.com/owndesign/owndesign/internal/settings"
	"github.com/owndesign/owndesign/internal/view"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

const (
	defaultBio   = "Content creator"
	avatarSize   = 400
	noProfileMsg = "No profile was specified."
	notFoundMsg  = "The requested profile was not found."
	emptyGallery = "This creator has not published any images yet."
)

type pageData struct {
	Owner   string
	Profile *domain.Profile
	Preview form.Preview
	Images  []*domain.GalleryImage
	IsOwner bool
}

func displayName(p *domain.Profile) string {
	if p != nil && p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return "Unnamed creator"
}

func bio(p *domain.Profile) string {
	if p != nil && p.About != nil && *p.About != "" {
		return *p.About
	}
	return defaultBio
}

func portfolioSection(d pageData) g.Node {
	name := displayName(d.Profile)
	pv := d.Preview
	return Section(ID("portfolio"), Class("py-4"), Style(pv.ContainerStyle()),
		Div(Class("text-center mb-5"),
			Img(Class("rounded-circle "+pv.AvatarFrame.Class), Style(pv.AvatarFrame.Style()),
				Src(view.AvatarURL(pv.Avatar, name, avatarSize)), Alt(name), Width("200"), Height("200")),
			H1(Class("mt-3"), Style(pv.TextStyle()), g.Text(name)),
			P(Class("lead"), Style(pv.TextStyle()), g.Text(bio(d.Profile))),
			g.If(d.IsOwner, ownerControls()),
		),
		gallery(d),
	)
}

func ownerControls() g.Node {
	return Div(Class("d-flex justify-content-center gap-2"),
		A(Href("/settings"), Class("btn btn-outline-light"), g.Text("Design")),
		A(Href("/images/new"), Class("btn btn-primary"), g.Text("Upload Photo")),
	)
}

func gallery(d pageData) g.Node {
	if len(d.Images) == 0 {
		return P(Class("text-center text-secondary"), g.Text(emptyGallery))
	}
	pv := d.Preview
	return Div(ID("gallery"), Class("d-grid"),
		Style("grid-template-columns: repeat(auto-fill, minmax(220px, 1fr)); "+pv.GalleryStyle()),
		g.Map(d.Images, func(img *domain.GalleryImage) g.Node {
			return Div(Class("ratio ratio-1x1 "+pv.ItemClass),
				Img(Class("w-100 h-100 object-fit-cover "+pv.ImageFrame.Class), Style(pv.ImageFrame.Style()),
					Src(img.ImageURL), Alt(img.Title), g.Attr("loading", "lazy"), Role("button"),
					hx.Get("/portfolio/images/"+img.Key()),
					hx.Target("#"+view.ModalID),
					hx.Swap("innerHTML"),
				),
			)
		}),
	)
}

func missingPanel(message string, showLogin bool) g.Node {
	var actions []g.Node
	if showLogin {
		actions = append(actions, A(Href("/auth/login"), Class("btn btn-primary"), g.Text("Log in")))
	}
	actions = append(actions, A(Href("/users"), Class("btn btn-link"), g.Text("Browse creators")))
	return view.ErrorPanel("Portfolio unavailable", message, actions...)
}

func imageModal(img *domain.GalleryImage, canDelete bool) g.Node {
	var footer []g.Node
	if canDelete {
		footer = append(footer, Button(Type("button"), Class("btn btn-danger"),
			hx.Delete("/portfolio/images/"+img.Key()),
			hx.Confirm("Delete this image permanently?"),
			g.Attr("hx-disabled-elt", "this"),
			g.Text("Delete"),
		))
	}
	footer = append(footer, view.CloseButton("Close", ""))

	title := img.Title
	if title == "" {
		title = "Image"
	}
	return view.Modal(view.ModalProps{
		Title: title,
		Body: Div(
			Img(Class("img-fluid rounded mb-3"), Src(img.ImageURL), Alt(title)),
			g.If(img.Description != "", P(g.Text(img.Description))),
			g.If(img.UploadedAt != nil, Small(Class("text-secondary"),
				g.Textf("Uploaded %s", uploadedAt(img)))),
		),
		Footer: footer,
	})
}

func uploadedAt(img *domain.GalleryImage) string {
	if img.UploadedAt == nil {
		return ""
	}
	return img.UploadedAt.Time.Format("January 2, 2006")
}
