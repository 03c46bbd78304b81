package main

import (
	"context"
	"fmt"

	"github.com/shulehq/shule/core/tenant"
)

func (cli *commandLine) createTenant(reg tenant.Register) error {
	if err := reg.Validate(); err != nil {
		return err
	}

	t, admin, err := cli.tenantSvc.Register(context.Background(), reg)
	if err != nil {
		return err
	}
	fmt.Printf("tenant %s (%s) created with superadmin %s\n", t.ID, t.OrganizationName, admin.Email)
	return nil
}
