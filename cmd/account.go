package cmd

import (
	"context"
	"fmt"
)

type RegisterCmd struct {
	Name      string `arg:"" help:"Family name"`
	FirstName string `arg:"" help:"First name"`
	Secret    string `help:"Secret, prompted for when omitted"`
}

func (r *RegisterCmd) Run(ctx *Context) error {
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	secret := r.Secret
	if secret == "" {
		if secret, err = readSecret("Secret: ", ctx.Stdout); err != nil {
			return err
		}
	}

	account, err := a.auth.Register(context.Background(), r.Name, r.FirstName, secret)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "Registered account %d\n", account.ID)

	return nil
}

type LoginCmd struct {
	Name      string `arg:"" help:"Family name"`
	FirstName string `arg:"" help:"First name"`
	Secret    string `help:"Secret, prompted for when omitted"`

	Session `embed:""`
}

func (l *LoginCmd) Run(ctx *Context) error {
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	secret := l.Secret
	if secret == "" {
		if secret, err = readSecret("Secret: ", ctx.Stdout); err != nil {
			return err
		}
	}

	token, account, err := a.auth.Login(context.Background(), l.Name, l.FirstName, secret)
	if err != nil {
		return err
	}

	if err := l.save(token); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "Logged in as %s %s (account %d)\n", account.FirstName, account.Name, account.ID)

	return nil
}
