package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/shulehq/shule/core/tenant"
	"github.com/shulehq/shule/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db        *sqlx.DB
	tenantSvc *tenant.Service
	usrSvc    *user.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  createtenant -org ORG -name NAME -email EMAIL [-branch BRANCH] - register a tenant with its first superadmin")
	fmt.Println("  resetpassword -email EMAIL - reset a user's password")
	fmt.Println("  migrate COMMAND [args] - run database migrations (up, down, status, ...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createTenantCmd := flag.NewFlagSet("createtenant", flag.ExitOnError)
	createTenantOrg := createTenantCmd.String("org", "", "The organization name.")
	createTenantName := createTenantCmd.String("name", "", "The superadmin's full name.")
	createTenantEmail := createTenantCmd.String("email", "", "The superadmin's email. The password will be prompted next.")
	createTenantBranch := createTenantCmd.String("branch", "", "Optional first branch name.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	switch args[1] {
	case "createtenant":
		if err := createTenantCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createTenantOrg == "" || *createTenantName == "" || *createTenantEmail == "" {
			createTenantCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				createTenantCmd.Usage()
			}
			return err
		}
		return cli.createTenant(tenant.Register{
			OrganizationName: *createTenantOrg,
			AdminName:        *createTenantName,
			AdminEmail:       *createTenantEmail,
			AdminPassword:    pwd,
			BranchName:       *createTenantBranch,
		})
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				resetPasswordCmd.Usage()
			}
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}
