package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/view"
)

var taskHeaders = []string{"ID", "STATUS", "TITLE", "PROJECT", "CREATED", "DUE", "CLOSED", "STATE"}

func newTaskCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "List and manage tasks",
	}

	cmd.AddCommand(newTaskListCmd(opts))
	cmd.AddCommand(newTaskAddCmd(opts))
	cmd.AddCommand(newTaskEditCmd(opts))

	cmd.AddCommand(&cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its comments",
		Args:    cobra.ExactArgs(1),
		RunE: opts.run(func(e *env, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			if err := e.store.DeleteTask(e.ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Deleted task #%d\n", id)
			return nil
		}),
	})

	cmd.AddCommand(newStatusCmd(opts, "done", "Mark a task complete", model.StatusComplete))
	cmd.AddCommand(newStatusCmd(opts, "cancel", "Mark a task cancelled", model.StatusCancelled))
	cmd.AddCommand(newStatusCmd(opts, "reopen", "Reopen a closed task", model.StatusOpen))

	return cmd
}

func newTaskListCmd(opts *options) *cobra.Command {
	var project, filter, sortKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks for a project scope, status filter and sort order",
		Long: `List tasks. Without flags the configured default project, filter and
sort are used.

Filters: all, on time, overdue, open, finished, cancelled
Sorts:   creation, due, status`,
		Args: cobra.NoArgs,
		RunE: opts.run(func(e *env, _ []string) error {
			projects, err := e.store.ListProjects(e.ctx)
			if err != nil {
				return err
			}
			c := view.DefaultCriteria(e.cfg.General, projects)

			if e.flags.Changed("project") {
				c.Scope = view.AllProjects
				if !isAllProjects(project) {
					p, err := resolveProject(project, projects)
					if err != nil {
						return err
					}
					c.Scope = view.ProjectScope(p.ID)
				}
			}
			if e.flags.Changed("filter") {
				if c.Filter, err = view.ParseStatusFilter(filter); err != nil {
					return err
				}
			}
			if e.flags.Changed("sort") {
				if c.Sort, err = view.ParseSortKey(sortKey); err != nil {
					return err
				}
			}

			tasks, err := e.store.ListTasks(e.ctx)
			if err != nil {
				return err
			}

			names := projectNames(projects)
			visible := view.Recompute(tasks, c, e.today)
			rows := make([][]string, len(visible))
			for i, t := range visible {
				rows[i] = taskRow(t, names[t.ProjectID], e.today)
			}

			fmt.Fprintf(e.out, "%s · %s · by %s\n", c.Scope.Label(projects), c.Filter, c.Sort.Label())
			printTable(e.out, "No matching tasks.", taskHeaders, rows)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", `project name or id, or "All Projects"`)
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "status filter")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "", "sort order")
	return cmd
}

func newTaskAddCmd(opts *options) *cobra.Command {
	var project, due string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create an open task",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(e *env, args []string) error {
			projects, err := e.store.ListProjects(e.ctx)
			if err != nil {
				return err
			}
			p, err := resolveProject(project, projects)
			if err != nil {
				return err
			}
			d, err := model.ParseDate(due)
			if err != nil {
				return err
			}
			t, err := e.store.AddTask(e.ctx, args[0], d, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Created task #%d in %s\n", t.ID, p.Name)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "project name or id")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newTaskEditCmd(opts *options) *cobra.Command {
	var due string

	cmd := &cobra.Command{
		Use:   "edit ID TITLE",
		Short: "Change a task's title or due date",
		Long: `Change a task's title. The due date is kept unless --due is given;
--due "" clears it.`,
		Args: cobra.ExactArgs(2),
		RunE: opts.run(func(e *env, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			t, err := e.store.GetTask(e.ctx, id)
			if err != nil {
				return err
			}
			d := t.DueDate
			if e.flags.Changed("due") {
				if d, err = model.ParseDate(due); err != nil {
					return err
				}
			}
			if err := e.store.EditTask(e.ctx, id, args[1], d); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Updated task #%d\n", id)
			return nil
		}),
	}

	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func newStatusCmd(opts *options, use, short string, status model.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(e *env, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			if err := e.store.SetTaskStatus(e.ctx, id, status); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Task #%d is %s\n", id, status.Label())
			return nil
		}),
	}
}

func isAllProjects(ref string) bool {
	ref = strings.TrimSpace(ref)
	return ref == "" || strings.EqualFold(ref, model.AllProjectsName) || strings.EqualFold(ref, "all")
}
