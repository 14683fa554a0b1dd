package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newProjectCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "List and manage projects",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(e *env, _ []string) error {
			projects, err := e.store.ListProjects(e.ctx)
			if err != nil {
				return err
			}
			rows := make([][]string, len(projects))
			for i, p := range projects {
				rows[i] = []string{strconv.FormatInt(p.ID, 10), p.Name, firstLine(p.Description)}
			}
			printTable(e.out, "No projects.", []string{"ID", "NAME", "DESCRIPTION"}, rows)
			return nil
		}),
	})

	var addDesc string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(e *env, args []string) error {
			p, err := e.store.AddProject(e.ctx, args[0], strings.TrimSpace(addDesc))
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Created project #%d %s\n", p.ID, p.Name)
			return nil
		}),
	}
	add.Flags().StringVarP(&addDesc, "description", "d", "", "project description")
	cmd.AddCommand(add)

	var editDesc string
	edit := &cobra.Command{
		Use:   "edit ID NAME",
		Short: "Rename a project or change its description",
		Args:  cobra.ExactArgs(2),
		RunE: opts.run(func(e *env, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			p, err := e.store.GetProject(e.ctx, id)
			if err != nil {
				return err
			}
			desc := p.Description
			if e.flags.Changed("description") {
				desc = strings.TrimSpace(editDesc)
			}
			if err := e.store.EditProject(e.ctx, id, args[1], desc); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Updated project #%d\n", id)
			return nil
		}),
	}
	edit.Flags().StringVarP(&editDesc, "description", "d", "", "new description")
	cmd.AddCommand(edit)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a project with its tasks and their comments",
		Args:    cobra.ExactArgs(1),
		RunE: opts.run(func(e *env, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			if err := e.store.DeleteProject(e.ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Deleted project #%d\n", id)
			return nil
		}),
	})

	return cmd
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}
