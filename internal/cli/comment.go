package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCommentCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comment",
		Aliases: []string{"comments"},
		Short:   "List and manage task comments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list TASK_ID",
		Short: "List a task's comments, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(e *env, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			if _, err := e.store.GetTask(e.ctx, taskID); err != nil {
				return err
			}
			comments, err := e.store.ListComments(e.ctx, taskID)
			if err != nil {
				return err
			}
			rows := make([][]string, len(comments))
			for i, c := range comments {
				rows[i] = []string{c.ID, c.CreatedAt.Local().Format("2006-01-02 15:04"), c.Body}
			}
			printTable(e.out, "No comments.", []string{"ID", "CREATED", "COMMENT"}, rows)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add TASK_ID BODY...",
		Short: "Comment on a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: opts.run(func(e *env, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			c, err := e.store.AddComment(e.ctx, taskID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Added comment %s to task #%d\n", c.ID, taskID)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm COMMENT_ID",
		Aliases: []string{"delete"},
		Short:   "Delete a comment",
		Args:    cobra.ExactArgs(1),
		RunE: opts.run(func(e *env, args []string) error {
			if err := e.store.DeleteComment(e.ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Deleted comment %s\n", args[0])
			return nil
		}),
	})

	return cmd
}
