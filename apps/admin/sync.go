package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) sync() error {
	summary, err := cli.syncSvc.Run(context.Background(), func(msg string) {
		fmt.Fprintln(cli.out, msg)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, summary.String())
	return nil
}
