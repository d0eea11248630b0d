package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/user"
	"github.com/darasahq/darasa/portal"
)

var readPasswordFunc = term.ReadPassword // mockable

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type app struct {
	authn      *auth.Authenticator
	dispatcher *portal.Dispatcher
	usrSvc     user.Service
	validate   *validator.Validate
	translator ut.Translator
	in         *bufio.Reader
	out        io.Writer
}

func (a *app) isAuthenticated() bool {
	return a.authn.State() == auth.StateAuthenticated
}

// prompt labels the REPL prompt with the signed-in account, if any.
func (a *app) prompt() string {
	if sess, ok := a.authn.Current(); ok {
		return fmt.Sprintf("%s (%s)", sess.Email, sess.Role)
	}
	return a.authn.State().String()
}

func (a *app) Login(ctx context.Context) error {
	email, err := a.readLine("Email")
	if err != nil {
		return err
	}
	pwd, err := a.readPassword()
	if err != nil {
		return err
	}

	req := loginRequest{Email: strings.TrimSpace(email), Password: string(pwd)}
	if err := a.validate.Struct(req); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			for _, msg := range vErrs.Translate(a.translator) {
				fmt.Fprintln(a.out, msg)
			}
			return err
		}
		return err
	}

	if _, err := a.authn.Login(ctx, req.Email, req.Password); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	return a.Home(ctx)
}

// Home renders the view for the current session: a role dashboard when
// signed in, the sign-in view otherwise.
func (a *app) Home(ctx context.Context) error {
	var sess *auth.UserSession
	if s, ok := a.authn.Current(); ok {
		sess = &s
	}
	view := a.dispatcher.Resolve(sess, a.authn.State() == auth.StateAuthenticating)
	if err := view.Render(ctx, a.out); err != nil {
		fmt.Fprintf(a.out, "rendering %s: %v\n", view.Name(), err)
		return err
	}
	return nil
}

// Admin renders the admin dashboard behind a role allow-list.
func (a *app) Admin(ctx context.Context) error {
	var sess *auth.UserSession
	if s, ok := a.authn.Current(); ok {
		sess = &s
	}
	view := a.dispatcher.Guard(sess, user.RoleAdmin)
	if err := view.Render(ctx, a.out); err != nil {
		fmt.Fprintf(a.out, "rendering %s: %v\n", view.Name(), err)
		return err
	}
	return nil
}

// Refresh re-runs session restoration from the cache slot.
func (a *app) Refresh(ctx context.Context) error {
	if _, ok := a.authn.Restore(ctx); !ok {
		fmt.Fprintln(a.out, "No session to restore; please sign in.")
		return nil
	}
	return a.Home(ctx)
}

func (a *app) ForgotPassword(ctx context.Context) error {
	email, err := a.readLine("Email")
	if err != nil {
		return err
	}
	if err := a.usrSvc.RequestPasswordReset(ctx, email); err != nil {
		if err == user.ErrNotFound {
			// same message whether the account exists or not
			fmt.Fprintln(a.out, "If the account exists, a reset link has been sent.")
			return nil
		}
		fmt.Fprintln(a.out, auth.ErrBackendUnavailable.Error())
		return err
	}
	fmt.Fprintln(a.out, "If the account exists, a reset link has been sent.")
	return nil
}

func (a *app) Logout(_ context.Context) error {
	a.authn.Logout()
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *app) readLine(prompt string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !(err == io.EOF && len(line) > 0) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *app) readPassword() ([]byte, error) {
	fmt.Fprint(a.out, "Password: ")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(a.out)
	return pwd, err
}
