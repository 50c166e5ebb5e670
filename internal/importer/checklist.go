package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/tournament-importer/internal/fields"
	"github.com/mauv0809/tournament-importer/internal/normalize"
	"github.com/mauv0809/tournament-importer/internal/roster"
)

var (
	checklistRequired = []fields.Field{fields.Category, fields.TaskName}
	checklistOptional = []fields.Field{fields.Description, fields.Priority, fields.DueDate}
)

// ImportChecklist stores planning tasks for an existing tournament. Rows
// with a missing or unknown category, or without a task name, are rejected
// individually.
func (i *Importer) ImportChecklist(ctx context.Context, rows []fields.Row, opts ChecklistOptions) (*roster.Summary, error) {
	start := time.Now()
	if opts.TournamentID == "" {
		return nil, ErrNoTournament
	}
	summary := &roster.Summary{
		Kind:         roster.KindChecklist,
		TournamentID: opts.TournamentID,
		Tournament:   opts.TournamentName,
		DryRun:       opts.DryRun,
	}

	i.warnMissingColumns(rows, checklistRequired, checklistOptional)
	log.Info("Found checklist items to import", "rows", len(rows), "tournament_id", opts.TournamentID)

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, i.abort(summary, start, err)
		}
		res := i.importChecklistRow(ctx, opts, row)
		if !res.OK() {
			summary.TotalErrors++
			summary.Failures = append(summary.Failures, roster.Failure{
				Scope:  roster.ScopeRow,
				Line:   res.Line,
				Name:   res.Name,
				Reason: res.Err.Error(),
			})
			i.metrics.IncRowsFailed(roster.KindChecklist)
			log.Error("Failed to import checklist item", "line", res.Line, "task", res.Name, "error", res.Err)
			continue
		}
		summary.TotalSuccess++
		i.metrics.IncRowsImported(roster.KindChecklist)
	}

	i.finish(summary, start)
	return summary, nil
}

func (i *Importer) importChecklistRow(ctx context.Context, opts ChecklistOptions, row fields.Row) (res RowResult) {
	start := time.Now()
	res.Line = row.Line
	defer func() {
		if p := recover(); p != nil {
			res.ID = ""
			res.Err = fmt.Errorf("unexpected failure: %v", p)
		}
		i.metrics.ObserveRowDuration(time.Since(start).Seconds())
	}()

	item, err := i.buildChecklistItem(opts.TournamentID, row)
	res.Name = item.TaskName
	if err != nil {
		res.Err = err
		return res
	}

	if opts.DryRun {
		res.ID = "dry-run-" + uuid.NewString()
		log.Info("[Dry Run] Would insert checklist item", "task", item.TaskName, "category", item.Category, "priority", item.Priority)
		return res
	}

	id, err := i.store.InsertChecklistItem(ctx, item)
	if err != nil {
		res.Err = err
		return res
	}
	res.ID = id
	log.Info("Imported checklist item", "task", item.TaskName, "category", item.Category, "priority", item.Priority)
	return res
}

func (i *Importer) buildChecklistItem(tournamentID string, row fields.Row) (roster.ChecklistItem, error) {
	rawCategory, hasCategory := i.resolver.Lookup(row, fields.Category)
	taskName, hasTask := i.resolver.Lookup(row, fields.TaskName)
	item := roster.ChecklistItem{TournamentID: tournamentID, TaskName: taskName}

	if !hasCategory {
		return item, fmt.Errorf("%w: category", ErrMissingField)
	}
	if !hasTask {
		return item, fmt.Errorf("%w: task name", ErrMissingField)
	}
	category, ok := normalize.ValidCategory(rawCategory)
	if !ok {
		return item, fmt.Errorf("%w: %q", ErrInvalidCategory, rawCategory)
	}

	item.Category = category
	item.Description = i.resolver.Value(row, fields.Description)
	item.Priority = normalize.NormalizePriority(i.resolver.Value(row, fields.Priority))
	item.DueDate = normalize.DatePtr(normalize.ParseDate(i.resolver.Value(row, fields.DueDate)))
	item.Status = roster.ChecklistStatusPending
	return item, nil
}
