package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookshelf/internal/client/client"
)

// Register prompts for an email and password and creates an account. The
// server signs the new user in, so the store moves to the authenticated
// state on success.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return a.report(err)
	}
	defer clear(password)

	a.store.LoginStart()
	u, err := a.api.Register(ctx, email, string(password))
	if err != nil {
		a.store.LoginFail(err.Error())
		return a.report(err)
	}

	a.store.LoginSuccess(u)
	a.println("Registered and signed in as", u.Email)
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return a.report(err)
	}
	defer clear(password)

	a.store.LoginStart()
	u, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		a.store.LoginFail(err.Error())
		return a.report(err)
	}

	a.store.LoginSuccess(u)
	a.println("Signed in as", u.Email)
	return nil
}

// Logout ends the session on the server and resets local state. Local state
// is reset even when the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.store.Logout()
	if err != nil {
		return a.report(err)
	}
	a.println("Logged out")
	return nil
}

// Me asks the server who the session belongs to. An expired or revoked
// session signs the client out locally.
func (a *App) Me(ctx context.Context) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.store.Logout()
		}
		return a.report(err)
	}

	a.store.SetUser(u)
	a.println(fmt.Sprintf("%s (member since %s)", u.Email, u.CreatedAt.Format("2006-01-02")))
	return nil
}

// report prints err for the user and returns it. Transport failures also
// flip the app to offline mode.
func (a *App) report(err error) error {
	if errors.Is(err, client.ErrUnavailable) {
		a.setMode(ModeOffline)
		a.println("Error: server unavailable")
		return err
	}
	if errors.Is(err, client.ErrUnauthorized) && !a.isLoggedIn() {
		a.println("Error:", err.Error(), "(try 'login')")
		return err
	}
	a.println("Error:", err.Error())
	return err
}
