package main

import (
	"fmt"

	"github.com/trezcool/goose"

	"github.com/dkasongo/darasa/core"
	appfs "github.com/dkasongo/darasa/fs"
	"github.com/dkasongo/darasa/storage/database"
)

var (
	gooseRunFunc   = goose.RunFS               // mockable
	createDBFunc   = database.CreateIfNotExist // mockable
	migrateAllFunc = database.Migrate          // mockable
)

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db, appfs.FS, "migrations", arguments...)
}

// createDB provisions the cloud database, then brings it up to date.
func (cli *commandLine) createDB() error {
	if err := createDBFunc(core.Conf); err != nil {
		return err
	}
	if err := migrateAllFunc(cli.db); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Database ready.")
	return nil
}
