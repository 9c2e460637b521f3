package main

import (
	"log"
	"os"

	echoapi "github.com/dkasongo/darasa/apps/api/echo"
	"github.com/dkasongo/darasa/core"
	"github.com/dkasongo/darasa/core/backup"
	"github.com/dkasongo/darasa/core/classroom"
	"github.com/dkasongo/darasa/core/sync"
	"github.com/dkasongo/darasa/core/user"
	logsvc "github.com/dkasongo/darasa/services/logger"
	"github.com/dkasongo/darasa/storage/database"
	pgrepos "github.com/dkasongo/darasa/storage/database/pg"
	sqlitestore "github.com/dkasongo/darasa/storage/local/sqlite"
)

func main() {
	appLog := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	appLog.Enable(!core.Conf.Debug)

	// set up remote DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.Ping(db))

	// set up local store
	local, err := sqlitestore.Open(core.Conf.Local.Path)
	errAndDie(err)
	defer local.Close()

	remote := pgrepos.NewClassroomRepository(db)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:     core.Conf.Server.Address(),
			Logger:   appLog,
			UserSvc:  user.NewService(pgrepos.NewUserRepository(db)),
			ClassSvc: classroom.NewService(local),
			Local:    local,
			SyncSvc:  sync.NewService(local, remote, appLog),
			Restorer: backup.NewRestorer(local),
		},
	)
	app.Start()
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
