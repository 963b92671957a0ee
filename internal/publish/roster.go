// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Worker is one roster entry.
type Worker struct {
	// Active excludes departed workers from sends without deleting
	// their record.
	Active bool `json:"active"`

	// Prefix is the filename prefix of the worker's slips
	// (e.g. "slip" for slip-007-7-2025.pdf).
	Prefix string `json:"prefix"`

	Name   string `json:"name"`
	NameHe string `json:"name_he"`
	Email  string `json:"email"`

	// Folder is the worker's directory under the workers folder.
	Folder string `json:"folder"`
}

// Roster describes where processed slips live and who receives them.
// The layout mirrors the predecessor tooling's workers file: slips for
// worker id sit under
// base_folder/workers_folder/<worker folder>/worker_salary_folder/.
type Roster struct {
	BaseFolder         string            `json:"base_folder"`
	WorkersFolder      string            `json:"workers_folder"`
	WorkerSalaryFolder string            `json:"worker_salary_folder"`
	SendTest           bool              `json:"salary_send_test"`
	SendList           []string          `json:"workers_send_list"`
	HebrewMonthNames   []string          `json:"hebrew_month_names"`
	Workers            map[string]Worker `json:"workers"`
}

var defaultHebrewMonths = []string{
	"ינואר", "פברואר", "מרץ", "אפריל", "מאי", "יוני",
	"יולי", "אוגוסט", "ספטמבר", "אוקטובר", "נובמבר", "דצמבר",
}

// LoadRoster reads and validates a roster JSON file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}
	var r Roster
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing roster file %s: %w", path, err)
	}

	if len(r.Workers) == 0 {
		return nil, fmt.Errorf("roster %s has no workers", path)
	}
	for id, w := range r.Workers {
		if w.Active && w.Email == "" {
			return nil, fmt.Errorf("active worker %s has no email", id)
		}
	}
	if len(r.HebrewMonthNames) == 0 {
		r.HebrewMonthNames = defaultHebrewMonths
	}
	if len(r.HebrewMonthNames) != 12 {
		return nil, fmt.Errorf("roster %s: hebrew_month_names must list 12 months", path)
	}
	return &r, nil
}

// Recipients returns the worker ids to send to, sorted. Inactive workers
// are excluded; a non-empty send list restricts the set further.
func (r *Roster) Recipients() []string {
	allowed := map[string]bool{}
	for _, id := range r.SendList {
		allowed[id] = true
	}

	var ids []string
	for id, w := range r.Workers {
		if !w.Active {
			continue
		}
		if len(allowed) > 0 && !allowed[id] {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HebrewMonth returns the Hebrew name for month 1-12.
func (r *Roster) HebrewMonth(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return r.HebrewMonthNames[month-1]
}
