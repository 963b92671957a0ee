// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfops/internal/publish"
	"github.com/pdiddy/pdfops/pkg/types"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Mail processed slips to their workers via Microsoft Graph",
	Long: `Publish locates each worker's slip for the given month by its filename
convention (<prefix>-<id>-<month>-<year>.pdf) under the roster's folder
layout and mails it as an attachment through the Microsoft Graph API.

Credentials come from .secrets/ (ms-tenant-id, ms-client-id,
ms-client-secret); the sender mailbox from --sender or the graph-sender
secret. When the roster's test flag is set every message goes to the
sender mailbox instead of the worker.`,
	RunE: runPublish,
}

func runPublish(cmd *cobra.Command, args []string) error {
	rosterPath, _ := cmd.Flags().GetString("roster")
	sender, _ := cmd.Flags().GetString("sender")
	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")

	// Default to the previous calendar month, the one whose slips have
	// just been processed.
	if month == 0 || year == 0 {
		prev := time.Now().AddDate(0, -1, 0)
		if month == 0 {
			month = int(prev.Month())
		}
		if year == 0 {
			year = prev.Year()
		}
	}

	creds, err := publish.CredentialsFromSecrets(loadedSecrets)
	if err != nil {
		return err
	}

	cfg := types.PublishConfig{
		HTTPConfig: types.HTTPConfig{Timeout: timeout},
		RosterPath: rosterPath,
		Sender:     secretDefault("graph-sender", sender),
		MaxRetries: maxRetries,
	}

	p, err := publish.New(cfg, creds)
	if err != nil {
		return err
	}
	p.DryRun = dryRun

	result, err := p.Run(context.Background(), month, year, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d send(s) failed", result.Failed)
	}
	return nil
}

func init() {
	publishCmd.Flags().String("roster", "workers.json", "workers roster file")
	publishCmd.Flags().String("sender", "", "sender mailbox (default: graph-sender secret)")
	publishCmd.Flags().Int("month", 0, "slip month 1-12 (default: previous month)")
	publishCmd.Flags().Int("year", 0, "slip year (default: previous month's year)")
	publishCmd.Flags().Bool("dry-run", false, "list what would be sent without mailing")
	publishCmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	publishCmd.Flags().Int("max-retries", 3, "retry attempts for throttled or transient responses")

	rootCmd.AddCommand(publishCmd)
}
