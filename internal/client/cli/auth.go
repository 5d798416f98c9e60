package cli

import (
	"context"
	"fmt"

	"github.com/wealflow/wealflow/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a name, email and password and creates an account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.Register(ctx, name, email, string(password)); err != nil {
		return err
	}
	return a.afterSignIn(ctx)
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.Login(ctx, email, string(password)); err != nil {
		return err
	}
	return a.afterSignIn(ctx)
}

// Google signs in with an ID token obtained from Google Sign-In.
func (a *App) Google(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Paste your Google ID token", a.out)
	if err != nil {
		return err
	}
	if err := a.sessions.FederatedLogin(ctx, token); err != nil {
		return err
	}
	return a.afterSignIn(ctx)
}

func (a *App) afterSignIn(ctx context.Context) error {
	s := a.sessions.State()
	fmt.Fprintf(a.out, "Signed in as %s <%s>\n", s.User.Name, s.User.Email)
	if _, err := a.txs.List(ctx); err != nil {
		return fmt.Errorf("could not load transactions: %w", err)
	}
	return nil
}

// Logout always succeeds locally.
func (a *App) Logout(ctx context.Context) error {
	a.sessions.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Whoami re-validates the session and prints the current user.
func (a *App) Whoami(ctx context.Context) error {
	s := a.sessions.ValidateSession(ctx)
	if !s.Authenticated {
		fmt.Fprintln(a.out, "Your session has ended. Please log in again.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>", s.User.Name, s.User.Email)
	if s.User.Provider != "" {
		fmt.Fprintf(a.out, " via %s", s.User.Provider)
	}
	fmt.Fprintln(a.out)
	if s.User.Picture != "" {
		fmt.Fprintf(a.out, "Avatar: %s\n", s.User.Picture)
	}
	return nil
}

// Profile edits the display name and email. Empty answers keep the
// current values.
func (a *App) Profile(ctx context.Context) error {
	u := a.sessions.State().User
	name, err := GetTextWithDefault(a.reader, "Name", u.Name, a.out)
	if err != nil {
		return err
	}
	email, err := GetTextWithDefault(a.reader, "Email", u.Email, a.out)
	if err != nil {
		return err
	}
	if err := a.sessions.UpdateProfile(ctx, name, email); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

func (a *App) Passwd(ctx context.Context) error {
	cur, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(cur)

	next, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	if err := a.sessions.ChangePassword(ctx, string(cur), string(next)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}
