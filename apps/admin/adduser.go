package main

import (
	"context"
	"time"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/user"
)

// addUser updates or creates an admin account.
func (cli *commandLine) addUser(uname, name, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	name = core.CleanString(name)

	usr, err := cli.usrRepo.GetUserByUsername(ctx, uname)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			Name:      name,
			Username:  uname,
			CreatedAt: now,
			UpdatedAt: now,
		}
	} else {
		usr.Name = name
	}
	usr.IsActive = true
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if usr.ID == "" {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	}
	return err
}
