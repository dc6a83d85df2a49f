package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"blog-client/internal/models"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the API rejected the request
	ExitCommandError = 2 // bad flags, unreadable files, broken configuration
	ExitNoSession    = 3 // the command needs a signed-in user
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without an underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Printer writes command results as text or JSON.
type Printer struct {
	Format string
	Writer io.Writer
}

type jsonResult struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

// JSON reports whether results are written as JSON.
func (p *Printer) JSON() bool {
	return p.Format == "json"
}

// Result writes data as JSON, or text as-is in text mode.
func (p *Printer) Result(data interface{}, text string) error {
	if p.JSON() {
		return json.NewEncoder(p.Writer).Encode(jsonResult{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(p.Writer, text)
	return err
}

// User writes a user summary.
func (p *Printer) User(u *models.User) error {
	if u == nil {
		return p.Result(nil, "anonymous")
	}
	return p.Result(u, formatUser(u))
}

// Articles writes a list of articles; viewer marks the viewer's reactions.
func (p *Printer) Articles(articles []models.Article, viewer string) error {
	if p.JSON() {
		if articles == nil {
			articles = []models.Article{}
		}
		return p.Result(articles, "")
	}
	if len(articles) == 0 {
		return p.Result(nil, "No articles found")
	}
	var b strings.Builder
	for i := range articles {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(formatArticle(&articles[i], viewer))
	}
	return p.Result(nil, b.String())
}

// Article writes a single article.
func (p *Printer) Article(a *models.Article, viewer string) error {
	return p.Result(a, formatArticle(a, viewer))
}

func formatUser(u *models.User) string {
	line := fmt.Sprintf("%s %s <%s>", u.FirstName, u.LastName, u.Email)
	if len(u.Preferences) > 0 {
		line += "\npreferences: " + strings.Join(u.Preferences, ", ")
	}
	return line
}

func formatArticle(a *models.Article, viewer string) string {
	mark := func(on bool) string {
		if on {
			return "*"
		}
		return ""
	}
	return fmt.Sprintf("%s  [%s] %s\n    by %s %s  +%d%s -%d%s",
		a.ID, a.Category, a.Title,
		a.Author.FirstName, a.Author.LastName,
		len(a.Likes), mark(a.LikedBy(viewer)),
		len(a.Dislikes), mark(a.DislikedBy(viewer)),
	)
}
