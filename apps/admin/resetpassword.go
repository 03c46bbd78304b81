package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	usr, err := cli.usrSvc.ResetPassword(context.Background(), email, pwd)
	if err != nil {
		return err
	}
	fmt.Printf("password reset for %s\n", usr.Email)
	return nil
}
