package handlers

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/middleware"
	"github.com/owndesign/owndesign/internal/view"
	authdto "github.com/owndesign/owndesign/internal/view/dto/auth"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	users    domain.UserRepository
	profiles domain.ProfileRepository
	emailer  domain.EmailSender
	baseURL  string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users domain.UserRepository, profiles domain.ProfileRepository, emailer domain.EmailSender, baseURL string) *AuthHandler {
	return &AuthHandler{
		users:    users,
		profiles: profiles,
		emailer:  emailer,
		baseURL:  baseURL,
	}
}

// RegisterGet renders the registration page, prefilled after a failed attempt.
func (h *AuthHandler) RegisterGet(c echo.Context) error {
	data := authdto.RegisterData{
		FullName: view.TakeFormValue(c, "full_name"),
		Email:    view.TakeFormValue(c, "email"),
	}
	return c.Render(http.StatusOK, "", view.Page(view.PageData{
		Title:   "Register",
		Flashes: view.GetFlashData(c),
	}, registerForm(data)))
}

// RegisterPost creates the account and its profile, then signs the user in.
func (h *AuthHandler) RegisterPost(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	var reg domain.Registration
	if err := c.Bind(&reg); err != nil {
		view.SetFlashError(c, "The form could not be read.")
		return c.Redirect(http.StatusSeeOther, "/auth/register")
	}

	back := func(msg string) error {
		view.SetFlashError(c, msg)
		view.KeepFormValue(c, "full_name", reg.FullName)
		view.KeepFormValue(c, "email", reg.Email)
		return c.Redirect(http.StatusSeeOther, "/auth/register")
	}

	if err := reg.Validate(); err != nil {
		return back(registrationMessage(err))
	}

	fullName := reg.FullName
	if _, err := h.users.SignUp(ctx, &domain.User{Email: reg.Email, Name: &fullName}, reg.Password); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return back("A user with this email already exists.")
		}
		logger.Error("Error creating user", "error", err)
		return back("Could not create your account.")
	}

	user, err := h.users.FindUserByEmail(ctx, reg.Email)
	if err != nil {
		logger.Error("Registered user could not be read back", "error", err)
		return back("Could not create your account.")
	}
	if _, err := h.profiles.Create(ctx, user.OwnerID(), reg.FullName); err != nil {
		logger.Error("Failed to create profile", "owner", user.OwnerID(), "error", err)
		return back("Your account was created but the profile could not be set up. Please log in to try again.")
	}

	token, err := h.users.SignIn(ctx, &domain.User{Email: reg.Email}, reg.Password)
	if err != nil {
		logger.Error("Failed to sign in new user", "error", err)
		view.SetFlashError(c, "Account created. Please log in.")
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}
	middleware.SetAuthCookie(c, token)

	h.sendWelcome(c, reg.Email, reg.FullName, user.OwnerID())

	view.SetFlashSuccess(c, "Account created successfully!")
	return c.Redirect(http.StatusSeeOther, "/portfolio?userId="+url.QueryEscape(user.OwnerID()))
}

func (h *AuthHandler) sendWelcome(c echo.Context, to, name, owner string) {
	if h.emailer == nil {
		return
	}
	link := h.baseURL + "/portfolio?userId=" + url.QueryEscape(owner)
	body := fmt.Sprintf(`<p>Hi %s,</p><p>Your portfolio is ready at <a href="%s">%s</a>.</p>`,
		html.EscapeString(name), html.EscapeString(link), html.EscapeString(link))
	if err := h.emailer.Send(to, "Welcome to OwnDesign", body); err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to send welcome email", "error", err)
	}
}

// registrationMessage turns a validation failure into the text shown to the visitor.
func registrationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please check the form and try again."
	}
	switch fe := verrs[0]; fe.Field() {
	case "FullName":
		return "Full name must be at least 5 characters long."
	case "Email":
		if fe.Tag() == "emailprefix" {
			return "The part of your email before the @ must be at least 7 characters long."
		}
		return "Please enter a valid email address."
	case "Password":
		return "Password must be at least 9 characters long."
	default:
		return "Please check the form and try again."
	}
}

// LoginGet renders the login page.
func (h *AuthHandler) LoginGet(c echo.Context) error {
	data := authdto.LoginData{Email: view.TakeFormValue(c, "email")}
	return c.Render(http.StatusOK, "", view.Page(view.PageData{
		Title:   "Login",
		Flashes: view.GetFlashData(c),
	}, loginForm(data)))
}

// LoginPost signs the user in.
func (h *AuthHandler) LoginPost(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil || c.Validate(&req) != nil {
		view.SetFlashError(c, "Please enter your email and password.")
		view.KeepFormValue(c, "email", req.Email)
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}

	token, err := h.users.SignIn(ctx, &domain.User{Email: req.Email}, req.Password)
	if err != nil {
		middleware.FromContext(ctx).Warn("Failed login attempt", "email", req.Email, "error", err)
		view.SetFlashError(c, "Invalid email or password.")
		view.KeepFormValue(c, "email", req.Email)
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}

	middleware.SetAuthCookie(c, token)
	view.SetFlashSuccess(c, "Logged in successfully!")
	return c.Redirect(http.StatusSeeOther, "/portfolio")
}

// Logout expires the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	middleware.ClearAuthCookie(c)
	view.SetFlashSuccess(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}
