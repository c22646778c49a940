package handlers

import (
	authdto "github.com/owndesign/owndesign/internal/view/dto/auth"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func authCard(title string, body ...g.Node) g.Node {
	return Div(Class("row justify-content-center"),
		Div(Class("col-md-6 col-lg-5"),
			Div(Class("card bg-secondary-subtle text-dark shadow"),
				Div(Class("card-body p-4"),
					H1(Class("h3 mb-4 text-center"), g.Text(title)),
					g.Group(body),
				),
			),
		),
	)
}

func field(label, name, typ, value string, extra ...g.Node) g.Node {
	return Div(Class("mb-3"),
		Label(For(name), Class("form-label"), g.Text(label)),
		Input(ID(name), Name(name), Type(typ), Class("form-control"), Value(value), Required(), g.Group(extra)),
	)
}

func registerForm(d authdto.RegisterData) g.Node {
	return authCard("Create your portfolio",
		Form(Method("post"), Action("/auth/register"),
			field("Full name", "full_name", "text", d.FullName, MinLength("5")),
			field("Email", "email", "email", d.Email, AutoComplete("email")),
			field("Password", "password", "password", "", MinLength("9"), AutoComplete("new-password")),
			Button(Type("submit"), Class("btn btn-primary w-100"), g.Text("Register")),
		),
		P(Class("mt-3 mb-0 text-center"),
			g.Text("Already have an account? "), A(Href("/auth/login"), g.Text("Log in")),
		),
	)
}

func loginForm(d authdto.LoginData) g.Node {
	return authCard("Log in",
		Form(Method("post"), Action("/auth/login"),
			field("Email", "email", "email", d.Email, AutoComplete("email")),
			field("Password", "password", "password", "", AutoComplete("current-password")),
			Button(Type("submit"), Class("btn btn-primary w-100"), g.Text("Log in")),
		),
		P(Class("mt-3 mb-0 text-center"),
			g.Text("New here? "), A(Href("/auth/register"), g.Text("Create an account")),
		),
	)
}
