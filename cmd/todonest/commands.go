package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandeepkv93/todonest/internal/model"
	"github.com/sandeepkv93/todonest/internal/store"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories and their tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
				cats := st.Categories()
				if viper.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), cats)
				}
				renderTable(cmd.OutOrStdout(), cats)
				return nil
			})
		},
	}
}

func categoryCmd() *cobra.Command {
	cat := &cobra.Command{Use: "category", Aliases: []string{"cat"}, Short: "Manage categories"}
	cat.AddCommand(categoryAddCmd())
	cat.AddCommand(categoryEditCmd())
	cat.AddCommand(categoryDeleteCmd())
	return cat
}

func categoryAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a category at the top of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := model.NormalizeTitle(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
				c, err := st.AddCategory(ctx, title)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), c, fmt.Sprintf("added category %d: %s", c.ID, c.Title))
			})
		},
	}
}

func categoryEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title>",
		Short: "Rename a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("category", args[0])
			if err != nil {
				return err
			}
			title, err := model.NormalizeTitle(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
				if _, ok := st.Category(id); !ok {
					return fmt.Errorf("category %d not found", id)
				}
				if err := st.EditCategory(ctx, id, title); err != nil {
					return err
				}
				c, _ := st.Category(id)
				return printResult(cmd.OutOrStdout(), c, fmt.Sprintf("renamed category %d: %s", c.ID, c.Title))
			})
		},
	}
}

func categoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category and all its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("category", args[0])
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
				if _, ok := st.Category(id); !ok {
					return fmt.Errorf("category %d not found", id)
				}
				if err := st.DeleteCategory(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted category %d\n", id)
				return nil
			})
		},
	}
}

func taskCmd() *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage tasks within a category"}
	task.AddCommand(taskAddCmd())
	task.AddCommand(taskEditCmd())
	task.AddCommand(taskDeleteCmd())
	return task
}

func taskAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category-id> <text>",
		Short: "Add a task at the top of a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, err := parseID("category", args[0])
			if err != nil {
				return err
			}
			text, err := model.NormalizeText(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
				t, ok, err := st.AddTask(ctx, categoryID, text)
				if !ok {
					return fmt.Errorf("category %d not found", categoryID)
				}
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), t, fmt.Sprintf("added task %d: %s", t.ID, t.Text))
			})
		},
	}
}

func taskEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <category-id> <task-id> <text>",
		Short: "Change the text of a task",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, taskID, err := parseTaskRef(args[0], args[1])
			if err != nil {
				return err
			}
			text, err := model.NormalizeText(strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
				if _, ok := st.Task(categoryID, taskID); !ok {
					return fmt.Errorf("task %d not found in category %d", taskID, categoryID)
				}
				if err := st.EditTask(ctx, categoryID, taskID, text); err != nil {
					return err
				}
				t, _ := st.Task(categoryID, taskID)
				return printResult(cmd.OutOrStdout(), t, fmt.Sprintf("updated task %d: %s", t.ID, t.Text))
			})
		},
	}
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category-id> <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, taskID, err := parseTaskRef(args[0], args[1])
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
				if _, ok := st.Task(categoryID, taskID); !ok {
					return fmt.Errorf("task %d not found in category %d", taskID, categoryID)
				}
				if err := st.DeleteTask(ctx, categoryID, taskID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted task %d\n", taskID)
				return nil
			})
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the saved list exactly as stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
				raw, err := st.Raw(ctx)
				if err != nil {
					return err
				}
				if raw == "" {
					raw = "[]"
				}
				fmt.Fprintln(cmd.OutOrStdout(), raw)
				return nil
			})
		},
	}
}

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every category and the saved list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset removes every category; pass --yes to confirm")
			}
			return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
				if err := st.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "list reset")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func renderTable(w io.Writer, cats []model.Category) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Category ID", "Category", "Task ID", "Task"})
	for _, c := range cats {
		if len(c.Tasks) == 0 {
			tw.AppendRow(table.Row{c.ID, c.Title, "", ""})
			continue
		}
		for _, t := range c.Tasks {
			tw.AppendRow(table.Row{c.ID, c.Title, t.ID, t.Text})
		}
	}
	tw.Render()
}

func printResult(w io.Writer, v any, line string) error {
	if viper.GetBool("json") {
		return printJSON(w, v)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}

func parseTaskRef(rawCategory, rawTask string) (int64, int64, error) {
	categoryID, err := parseID("category", rawCategory)
	if err != nil {
		return 0, 0, err
	}
	taskID, err := parseID("task", rawTask)
	if err != nil {
		return 0, 0, err
	}
	return categoryID, taskID, nil
}
