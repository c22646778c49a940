package gallery

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func uploadForm() g.Node {
	return Div(Class("card bg-black border-secondary mx-auto"), Style("max-width: 36rem;"),
		Div(Class("card-body"),
			H1(Class("h4 mb-3"), g.Text("Add an image")),
			Form(Method("post"), Action("/images"), EncType("multipart/form-data"),
				Div(Class("mb-3"),
					Label(For("image"), Class("form-label"), g.Text("Image")),
					Input(ID("image"), Name("image"), Type("file"), Accept("image/*"), Class("form-control"), Required()),
				),
				Div(Class("mb-3"),
					Label(For("description"), Class("form-label"), g.Text("Description")),
					Textarea(ID("description"), Name("description"), Class("form-control"), Rows("3"), MaxLength("2000")),
				),
				Button(Type("submit"), Class("btn btn-primary"), g.Text("Upload")),
			),
		),
	)
}
