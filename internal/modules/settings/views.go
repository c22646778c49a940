package settings

import (
	"strconv"
	"time"

	form "github.com/owndesign/owndesign/internal/settings"
	"github.com/owndesign/owndesign/internal/view"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

const (
	editorID      = "settings-editor"
	previewID     = "preview"
	statusID      = "save-status"
	avatarStatus  = "avatar-status"
	frameControls = "frame-controls"
)

var fontChoices = []string{"Arial", "Georgia", "Courier New", "Verdana", "Trebuchet MS", "Orbitron", "Roboto"}

type sliderRange struct {
	min, max, step string
}

var sliders = map[form.Field]sliderRange{
	form.BaseFontSize:      {min: "10", max: "32", step: "1"},
	form.GalleryFrameWidth: {min: "0", max: "20", step: "1"},
	form.GalleryGap:        {min: "0", max: "5", step: "0.25"},
}

// editorData is what the editor section needs to render.
type editorData struct {
	Values  form.Values
	Preview form.Preview
	Now     time.Time
}

func editorSection(d editorData) g.Node {
	return Div(ID(editorID), Class("row g-4"),
		Div(Class("col-lg-5"),
			Div(Class("card bg-black border-secondary"),
				Div(Class("card-body"),
					H2(Class("h5 mb-3"), g.Text("Design your portfolio")),
					avatarForm(d),
					fieldGroup("Typography", d, form.FontFamily, form.BaseFontSize, form.PrimaryColor, form.FontColor),
					fieldGroup("About you", d, form.UserName, form.UserBio),
					effectControl(d),
					frameFieldset(d.Values, d.Preview, false),
					fieldGroup("Gallery", d, form.GalleryGap),
					actions(),
				),
			),
		),
		Div(Class("col-lg-7"),
			H2(Class("h6 text-uppercase text-secondary"), g.Text("Live preview")),
			previewPanel(d.Preview, d.Now),
		),
	)
}

func fieldGroup(title string, d editorData, fields ...form.Field) g.Node {
	return FieldSet(Class("mb-3"),
		Legend(Class("h6"), g.Text(title)),
		g.Map(fields, func(f form.Field) g.Node { return control(f, d.Values.Get(f), d.Preview) }),
	)
}

// inputAttrs wires a control to the input endpoint. Each edit posts the
// field id with the control's value and swaps the preview.
func inputAttrs(f form.Field, trigger string) []g.Node {
	return []g.Node{
		ID(f.ID()),
		Name("value"),
		hx.Post(basePath + "/input"),
		hx.Trigger(trigger),
		hx.Vals(`{"field":"` + f.ID() + `"}`),
		hx.Target("#" + previewID),
		hx.Swap("outerHTML"),
	}
}

func control(f form.Field, value string, p form.Preview) g.Node {
	label := Label(For(f.ID()), Class("form-label d-flex justify-content-between"),
		g.Text(f.Label()),
		g.If(p.Badge(f) != "", badge(f, p.Badge(f), false)),
	)

	var input g.Node
	switch {
	case f == form.FontFamily:
		input = Select(append(inputAttrs(f, "change"), Class("form-select"),
			g.Map(fontOptions(value), func(font string) g.Node {
				return Option(Value(font), g.If(font == value, Selected()), g.Text(font))
			}))...)
	case f == form.UserBio:
		input = Textarea(append(inputAttrs(f, "input changed delay:200ms"), Class("form-control"), Rows("3"),
			g.Text(value))...)
	case f.Kind() == form.KindColor:
		input = Input(append(inputAttrs(f, "input changed delay:100ms"), Type("color"),
			Class("form-control form-control-color"), Value(value))...)
	case f.Kind() == form.KindInt || f.Kind() == form.KindNumber:
		r := sliders[f]
		input = Input(append(inputAttrs(f, "input changed delay:100ms"), Type("range"), Class("form-range"),
			Min(r.min), Max(r.max), Step(r.step), Value(value))...)
	default:
		input = Input(append(inputAttrs(f, "input changed delay:200ms"), Type("text"), Class("form-control"),
			Value(value))...)
	}
	return Div(Class("mb-3"), label, input)
}

func fontOptions(current string) []string {
	for _, font := range fontChoices {
		if font == current {
			return fontChoices
		}
	}
	if current == "" {
		return fontChoices
	}
	return append([]string{current}, fontChoices...)
}

func badge(f form.Field, text string, oob bool) g.Node {
	return Span(ID("badge-"+f.ID()), Class("badge text-bg-secondary"),
		g.If(oob, hx.SwapOOB("true")),
		g.Text(text),
	)
}

func effectControl(d editorData) g.Node {
	f := form.GalleryEffect
	current := form.ParseEffect(d.Values.Get(f))
	return Div(Class("mb-3"),
		Label(For(f.ID()), Class("form-label"), g.Text(f.Label())),
		Select(append(inputAttrs(f, "change"), Class("form-select"),
			g.Map(form.Effects(), func(e form.Effect) g.Node {
				return Option(Value(string(e)), g.If(e == current, Selected()), g.Text(e.Label()))
			}))...),
	)
}

// frameFieldset holds the border controls. They are disabled while an effect
// replaces the border.
func frameFieldset(v form.Values, p form.Preview, oob bool) g.Node {
	return FieldSet(ID(frameControls), Class("mb-3"),
		g.If(p.FrameControlsDisabled, Disabled()),
		g.If(oob, hx.SwapOOB("true")),
		Legend(Class("h6"), g.Text("Frame")),
		control(form.GalleryFrameColor, v.Get(form.GalleryFrameColor), p),
		control(form.GalleryFrameWidth, v.Get(form.GalleryFrameWidth), p),
		g.If(p.FrameControlsDisabled, P(Class("form-text text-secondary"),
			g.Text("Frame settings are disabled while a special effect is active."))),
	)
}

func avatarForm(d editorData) g.Node {
	return Form(Class("mb-3"),
		hx.Post(basePath+"/avatar"),
		hx.Encoding("multipart/form-data"),
		hx.Target("#"+previewID),
		hx.Swap("outerHTML"),
		hx.Trigger("change"),
		g.Attr("hx-disabled-elt", "find input"),
		Label(For("avatar"), Class("form-label"), g.Text("Profile picture")),
		Input(ID("avatar"), Name("avatar"), Type("file"), Accept("image/*"), Class("form-control")),
		Div(ID(avatarStatus)),
	)
}

func actions() g.Node {
	return Div(Class("d-flex gap-2 align-items-center"),
		Button(Type("button"), Class("btn btn-primary"),
			hx.Post(basePath+"/save"),
			hx.Target("#"+statusID),
			hx.Swap("innerHTML"),
			g.Attr("hx-disabled-elt", "this"),
			g.Text("Save changes"),
		),
		Button(Type("button"), Class("btn btn-outline-secondary"),
			hx.Get(basePath+"/reset"),
			hx.Target("#"+view.ModalID),
			hx.Swap("innerHTML"),
			g.Text("Reset"),
		),
		Div(ID(statusID), Class("flex-grow-1")),
	)
}

// previewPanel shows the portfolio as it will look once saved.
func previewPanel(p form.Preview, now time.Time) g.Node {
	return Div(ID(previewID), Class("card bg-black border-secondary p-4"), Style(p.ContainerStyle()),
		Div(Class("text-center mb-4"),
			Img(ID("preview-avatar"), Class("rounded-circle "+p.AvatarFrame.Class), Style(p.AvatarFrame.Style()),
				Src(view.CacheBust(view.AvatarURL(p.Avatar, p.Name, 160), now)),
				Alt("Profile picture"), Width("160"), Height("160")),
			H3(Class("mt-3"), Style(p.TextStyle()), g.Text(p.Name)),
			P(Style(p.TextStyle()), g.Text(p.Bio)),
		),
		Div(Class("d-grid"), Style("grid-template-columns: repeat(3, 1fr); "+p.GalleryStyle()),
			g.Map([]int{1, 2, 3}, func(i int) g.Node {
				return Div(Class("ratio ratio-1x1 "+p.ItemClass),
					Div(Class("bg-secondary "+p.ImageFrame.Class), Style(p.ImageFrame.Style()),
						Span(Class("visually-hidden"), g.Text("Sample image "+strconv.Itoa(i)))),
				)
			}),
		),
	)
}

// inputResponse is the fragment returned for one edit: the preview plus the
// badges and, when the effect changed, the frame controls.
func inputResponse(f form.Field, v form.Values, p form.Preview, now time.Time) g.Node {
	nodes := []g.Node{previewPanel(p, now)}
	for _, bf := range form.Fields() {
		if text := p.Badge(bf); text != "" {
			nodes = append(nodes, badge(bf, text, true))
		}
	}
	if f == form.GalleryEffect {
		nodes = append(nodes, frameFieldset(v, p, true))
	}
	return g.Group(nodes)
}

func resetModal() g.Node {
	return view.Modal(view.ModalProps{
		Title: "Reset changes?",
		Body:  P(g.Text("All unsaved changes will be lost and the form reloaded from your saved profile.")),
		Footer: []g.Node{
			view.CloseButton("Cancel", ""),
			Button(Type("button"), Class("btn btn-danger"),
				hx.Post(basePath+"/reset"),
				hx.Target("#"+editorID),
				hx.Swap("outerHTML"),
				g.Attr("hx-disabled-elt", "this"),
				g.Text("Reset"),
			),
		},
	})
}

func unsavedModal() g.Node {
	return view.Modal(view.ModalProps{
		Title:    "Unsaved changes",
		Body:     P(g.Text("You have unsaved changes. Leave this page and discard them?")),
		CloseURL: basePath + "/stay",
		Footer: []g.Node{
			view.CloseButton("Stay", basePath+"/stay"),
			Button(Type("button"), Class("btn btn-danger"),
				hx.Post(basePath+"/leave"),
				hx.Target("#"+view.ModalID),
				hx.Swap("innerHTML"),
				g.Text("Leave"),
			),
		},
	})
}

// clearModal empties the modal container out of band.
func clearModal() g.Node {
	return Div(ID(view.ModalID), hx.SwapOOB("true"))
}
