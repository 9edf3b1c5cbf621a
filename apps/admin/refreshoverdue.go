package main

import "fmt"

// refreshOverdue sweeps all unpaid fees and re-derives their status; meant to
// run daily from cron.
func (cli *commandLine) refreshOverdue() error {
	changed, err := cli.feeSvc.RefreshOverdue()
	if err != nil {
		return err
	}
	fmt.Printf("%d fee(s) marked overdue\n", changed)
	return nil
}
