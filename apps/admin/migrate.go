package main

import (
	"github.com/davronbek/proteach/storage/database"
)

var runMigrationFunc = database.RunMigration // mockable

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return runMigrationFunc(args[0], cli.db, arguments...)
}
