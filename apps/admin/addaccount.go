package main

import (
	"context"
	"time"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/user"
)

// addAccount updates or creates an account.
func (cli *commandLine) addAccount(name, email, role, pwd string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			Name:      name,
			Email:     email,
			Role:      role,
			Status:    user.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	usr.Name = name
	usr.Role = role
	usr.UpdatedAt = time.Now().UTC()
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	status := user.StatusActive
	_, err = cli.usrRepo.UpdateUser(ctx, usr, &status)
	return err
}
