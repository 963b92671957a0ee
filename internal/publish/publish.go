// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish mails processed salary slips to their workers through
// the Microsoft Graph API. The roster file maps each worker to a mailbox
// and to the directory that holds that worker's slips; the slip for a
// given month is located by its filename convention
// <prefix>-<id>-<month>-<year>.pdf.
package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/pdfops/pkg/types"
)

// Publisher sends one month's slips per the roster.
type Publisher struct {
	Roster *Roster
	Client *Client

	// Sender is the mailbox the sendMail call is issued for.
	Sender string

	// DryRun lists what would be sent without calling Graph.
	DryRun bool
}

// New builds a Publisher from the stage config and credentials.
func New(cfg types.PublishConfig, creds Credentials) (*Publisher, error) {
	roster, err := LoadRoster(cfg.RosterPath)
	if err != nil {
		return nil, err
	}
	if cfg.Sender == "" {
		return nil, fmt.Errorf("no sender mailbox configured")
	}
	return &Publisher{
		Roster: roster,
		Client: NewClient(creds, cfg.Timeout, cfg.MaxRetries),
		Sender: cfg.Sender,
	}, nil
}

// Result holds the outcome of one publish run.
type Result struct {
	Sent    int
	Missing int
	Failed  int
}

// Total returns the number of workers considered.
func (r Result) Total() int {
	return r.Sent + r.Missing + r.Failed
}

// HasFailures reports whether any send failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Run sends the slip for the given month and year to every recipient the
// roster selects. A worker whose slip file does not exist is reported as
// missing and does not fail the run. With the roster's test flag set,
// every message goes to the sender mailbox instead of the worker, so a
// full run can be rehearsed against real files.
func (p *Publisher) Run(ctx context.Context, month, year int, w io.Writer) (Result, error) {
	if month < 1 || month > 12 {
		return Result{}, fmt.Errorf("invalid month %d", month)
	}

	subject := fmt.Sprintf("תלוש שכר %s %d", p.Roster.HebrewMonth(month), year)

	var result Result
	for _, id := range p.Roster.Recipients() {
		worker := p.Roster.Workers[id]
		filename := fmt.Sprintf("%s-%s-%d-%d.pdf", worker.Prefix, id, month, year)
		path := filepath.Join(p.Roster.BaseFolder, p.Roster.WorkersFolder,
			worker.Folder, p.Roster.WorkerSalaryFolder, filename)

		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			fmt.Fprintf(w, "missing: %s (%s)\n", id, filename)
			result.Missing++
			continue
		}
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result.Failed++
			continue
		}

		to := worker.Email
		if p.Roster.SendTest {
			to = p.Sender
		}

		if p.DryRun {
			fmt.Fprintf(w, "would send: %s -> %s (%s)\n", id, to, filename)
			result.Sent++
			continue
		}

		body := fmt.Sprintf("שלום %s,\n\nמצורף תלוש השכר לחודש %s %d.\n",
			worker.NameHe, p.Roster.HebrewMonth(month), year)
		err = p.Client.SendMail(ctx, p.Sender, to, subject, body,
			[]Attachment{{Name: filename, Data: data}})
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "sent: %s -> %s (%s)\n", id, to, filename)
		result.Sent++
	}

	fmt.Fprintf(w, "\nBatch summary: %d sent, %d missing, %d failed (total: %d)\n",
		result.Sent, result.Missing, result.Failed, result.Total())
	return result, nil
}
