package main

import (
	"log"
	"os"

	"github.com/shulehq/shule/core"
	emailsvc "github.com/shulehq/shule/services/email"
	"github.com/shulehq/shule/storage/database"
	sqlxrepos "github.com/shulehq/shule/storage/database/sqlx"

	"github.com/shulehq/shule/core/tenant"
	"github.com/shulehq/shule/core/user"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	tenantRepo := sqlxrepos.NewTenantRepository(db)
	userRepo := sqlxrepos.NewUserRepository(db)

	// start CLI
	cli := commandLine{
		db:        db,
		tenantSvc: tenant.NewService(tenantRepo, userRepo, emailsvc.NewConsoleService(conf), conf),
		usrSvc:    user.NewService(userRepo, sqlxrepos.NewRoleRepository(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
