package cli

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"blog-client/internal/api"
	apperrors "blog-client/internal/errors"
	"blog-client/internal/models"

	"github.com/spf13/cobra"
)

// PasswordEnv is read when --password is not given.
const PasswordEnv = "BLOG_PASSWORD"

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Identifier string
	Password   string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an email address or phone number",
		Long: `Sign in and store the session tokens for later commands.

The password is taken from --password, then $BLOG_PASSWORD, then the
first line of standard input.`,
		Example: `  blog login -i ann@example.com
  BLOG_PASSWORD=... blog login -i 5551234567`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Identifier, "identifier", "i", "", "Email address or 10-digit phone number")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("identifier")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *LoginOptions) error {
	password, err := resolvePassword(cmd, opts.Password)
	if err != nil {
		return err
	}

	app := opts.App()
	user, err := app.Session.SignIn(cmd.Context(), &models.LoginRequest{
		Identifier: strings.TrimSpace(opts.Identifier),
		Password:   password,
	})
	if err != nil {
		return commandError("login failed", err)
	}
	return opts.printer(cmd).User(user)
}

func resolvePassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(PasswordEnv); env != "" {
		return env, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", WrapExitError(ExitCommandError, "no password given", err)
	}
	return line, nil
}

// SignupOptions holds flags for the signup command.
type SignupOptions struct {
	*RootOptions
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	DateOfBirth     string
	Password        string
	ConfirmPassword string
	Preferences     []string
	ImagePath       string
}

// NewSignupCommand creates the signup command.
func NewSignupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SignupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Example: `  blog signup --first-name Ann --last-name Lee --email ann@example.com \
    --phone 5551234567 --dob 1990-04-12 --password 'S3cret!pass' \
    --preferences technology,space --image avatar.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&opts.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "10-digit phone number")
	cmd.Flags().StringVar(&opts.DateOfBirth, "dob", "", "Date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "Account password")
	cmd.Flags().StringVar(&opts.ConfirmPassword, "confirm-password", "", "Password confirmation (defaults to --password)")
	cmd.Flags().StringSliceVar(&opts.Preferences, "preferences", nil, "Preferred categories")
	cmd.Flags().StringVar(&opts.ImagePath, "image", "", "Profile picture (JPEG, PNG or GIF)")
	for _, name := range []string{"first-name", "last-name", "email", "phone", "dob", "preferences"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runSignup(cmd *cobra.Command, opts *SignupOptions) error {
	password, err := resolvePassword(cmd, opts.Password)
	if err != nil {
		return err
	}
	confirm := opts.ConfirmPassword
	if confirm == "" {
		confirm = password
	}

	image, err := readImage(opts.ImagePath)
	if err != nil {
		return err
	}

	user, err := opts.App().Session.SignUp(cmd.Context(), &models.RegisterRequest{
		FirstName:       strings.TrimSpace(opts.FirstName),
		LastName:        strings.TrimSpace(opts.LastName),
		Email:           strings.TrimSpace(opts.Email),
		Phone:           strings.TrimSpace(opts.Phone),
		DateOfBirth:     strings.TrimSpace(opts.DateOfBirth),
		Password:        password,
		ConfirmPassword: confirm,
		Preferences:     opts.Preferences,
	}, image)
	if err != nil {
		return commandError("signup failed", err)
	}
	return opts.printer(cmd).User(user)
}

func readImage(path string) (*api.Image, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot read image", err)
	}
	return &api.Image{
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.App().Session.Logout(cmd.Context())
			return rootOpts.printer(cmd).Result(map[string]bool{"signedOut": true}, "Signed out")
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			return rootOpts.printer(cmd).User(app.Session.CurrentUser())
		},
	}
}

// ProfileOptions holds flags for the profile command.
type ProfileOptions struct {
	*RootOptions
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Preferences []string
}

// NewProfileCommand creates the profile command. Without flags it prints the
// profile; with flags it updates the given fields only.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "profile",
		Short:   "Show or update your profile",
		Example: `  blog profile --first-name Annie --preferences space,science`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.FirstName, "first-name", "", "New first name")
	cmd.Flags().StringVar(&opts.LastName, "last-name", "", "New last name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "New email address")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "New 10-digit phone number")
	cmd.Flags().StringSliceVar(&opts.Preferences, "preferences", nil, "New preferred categories")

	return cmd
}

func runProfile(cmd *cobra.Command, opts *ProfileOptions) error {
	app := opts.App()
	if err := app.RequireSession(cmd.Context()); err != nil {
		return err
	}

	req := profileUpdate(cmd, opts)
	if req == nil {
		return opts.printer(cmd).User(app.Session.CurrentUser())
	}

	user, err := app.Session.UpdateProfile(cmd.Context(), req)
	if err != nil {
		return commandError("profile update failed", err)
	}
	return opts.printer(cmd).User(user)
}

// profileUpdate builds a request from the flags that were set, or nil.
func profileUpdate(cmd *cobra.Command, opts *ProfileOptions) *models.UpdateProfileRequest {
	req := &models.UpdateProfileRequest{}
	changed := false
	set := func(name string, value string, dst **string) {
		if cmd.Flags().Changed(name) {
			v := strings.TrimSpace(value)
			*dst = &v
			changed = true
		}
	}
	set("first-name", opts.FirstName, &req.FirstName)
	set("last-name", opts.LastName, &req.LastName)
	set("email", opts.Email, &req.Email)
	set("phone", opts.Phone, &req.Phone)
	if cmd.Flags().Changed("preferences") {
		req.Preferences = opts.Preferences
		changed = true
	}
	if !changed {
		return nil
	}
	return req
}

// commandError maps client errors onto exit codes.
func commandError(message string, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return WrapExitError(ExitCommandError, message, err)
	case errors.Is(err, apperrors.ErrNotAuthenticated),
		errors.Is(err, apperrors.ErrSessionExpired),
		errors.Is(err, apperrors.ErrNoSession):
		return WrapExitError(ExitNoSession, message, err)
	default:
		return WrapExitError(ExitFailure, message, err)
	}
}

func notFound(kind, id string) error {
	return NewExitError(ExitFailure, fmt.Sprintf("%s %s not found", kind, id))
}
