package main

import (
	"log"
	"os"

	"github.com/dkasongo/darasa/core"
	"github.com/dkasongo/darasa/core/backup"
	"github.com/dkasongo/darasa/core/sync"
	"github.com/dkasongo/darasa/core/user"
	emailsvc "github.com/dkasongo/darasa/services/email"
	logsvc "github.com/dkasongo/darasa/services/logger"
	"github.com/dkasongo/darasa/storage/database"
	pgrepos "github.com/dkasongo/darasa/storage/database/pg"
	sqlitestore "github.com/dkasongo/darasa/storage/local/sqlite"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	appLog := logsvc.NewStdLogger(logger)

	// set up remote DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.Ping(db))

	// set up local store
	local, err := sqlitestore.Open(core.Conf.Local.Path)
	errAndDie(err)
	defer local.Close()

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLog)
	}

	remote := pgrepos.NewClassroomRepository(db)

	// start CLI
	cli := commandLine{
		db:       db,
		local:    local,
		syncSvc:  sync.NewService(local, remote, appLog),
		restorer: backup.NewRestorer(local),
		usrSvc:   user.NewService(pgrepos.NewUserRepository(db)),
		mailSvc:  mailSvc,
		out:      os.Stdout,
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
