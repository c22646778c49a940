package auth

// LoginData is the view model of the login form. Email is prefilled after a
// failed attempt.
type LoginData struct {
	Email string
}

// RegisterData carries the values a failed registration sends back to the form.
// The password is never returned.
type RegisterData struct {
	FullName string
	Email    string
}
