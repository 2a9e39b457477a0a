package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/checklist/internal/model"
	"github.com/idilsaglam/checklist/internal/ui"
	"github.com/idilsaglam/checklist/internal/viewmodel"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List checklists",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}
			vm := viewmodel.NewChecklists(a.deps(), a.client)
			if err := vm.Load(ctxOf(cmd)); err != nil {
				return err
			}
			ui.Panel(cmd.OutOrStdout(), checklistLines(vm.State().Checklists))
			return nil
		},
	}
}

func checklistLines(lists []model.Checklist) []string {
	t := ui.Current()
	done := 0
	for _, c := range lists {
		if c.ChecklistCompletionStatus {
			done++
		}
	}

	// Header + progress
	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			t.Title.Render("Checklists"),
			t.Success.Render(t.SymDone), done,
			t.Pending.Render(t.SymPending), len(lists)-done,
			t.Accent.Render("Total"), len(lists)),
		t.Muted.Render(ui.ProgressBar(done, len(lists), 28)),
		"",
	}
	if len(lists) == 0 {
		lines = append(lines, t.Muted.Render("No checklists yet."))
	}
	for _, c := range lists {
		d, _ := model.Stats(c.Items)
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			t.Muted.Render(fmt.Sprintf("%6s", c.ID)),
			ui.Box(c.ChecklistCompletionStatus),
			ui.Truncate(c.Name, 60),
			t.Muted.Render(fmt.Sprintf("(%d/%s)", d, english.Plural(len(c.Items), "item", "")))))
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `checklist add \"Groceries\"`"))
	return lines
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a checklist (name can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}
			name := strings.Join(args, " ")
			vm := viewmodel.NewChecklists(a.deps(), a.client)
			if err := vm.Create(ctxOf(cmd), name); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added %q", strings.TrimSpace(name)))
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <checklist-id>",
		Short: "Delete a checklist; one with items asks first",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}
			ctx := ctxOf(cmd)
			vm := viewmodel.NewChecklists(a.deps(), a.client)
			if err := vm.Load(ctx); err != nil {
				return err
			}
			cl, ok := findChecklist(vm.State().Checklists, model.ID(args[0]))
			if !ok {
				return fmt.Errorf("no checklist with id %s", args[0])
			}

			prompted, err := vm.RequestDelete(ctx, cl)
			if err != nil {
				return err
			}
			if prompted {
				ok := yes
				if !ok {
					q := fmt.Sprintf("%q still has %s. Delete it anyway?",
						cl.Name, english.Plural(len(cl.Items), "item", ""))
					if ok, err = a.confirm(cmd, q); err != nil {
						vm.CancelDelete()
						return err
					}
				}
				if !ok {
					vm.CancelDelete()
					fmt.Fprintln(cmd.OutOrStdout(), "kept "+cl.Name)
					return nil
				}
				if err := vm.ConfirmDelete(ctx); err != nil {
					return err
				}
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("deleted %q", cl.Name))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking, even when items remain")
	return cmd
}

func findChecklist(lists []model.Checklist, id model.ID) (model.Checklist, bool) {
	for _, c := range lists {
		if c.ID == id {
			return c, true
		}
	}
	return model.Checklist{}, false
}

func newItemsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "items <checklist-id>",
		Short: "List the items of a checklist",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}
			vm := viewmodel.NewItems(a.deps(), a.client, model.ID(args[0]))
			if err := vm.Load(ctxOf(cmd)); err != nil {
				return err
			}
			done, total := vm.Progress()
			ui.Panel(cmd.OutOrStdout(), itemLines(vm.State().Items, done, total))
			return nil
		},
	}
}

func itemLines(items []model.Item, done, total int) []string {
	t := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			t.Title.Render("Items"),
			t.Success.Render(t.SymDone), done,
			t.Pending.Render(t.SymPending), total-done,
			t.Accent.Render("Total"), total),
		t.Muted.Render(ui.ProgressBar(done, total, 28)),
		"",
	}
	if len(items) == 0 {
		lines = append(lines, t.Muted.Render("No items available."))
	}
	for _, it := range items {
		name := ui.Truncate(it.Name, 80)
		if it.ItemCompletionStatus {
			name = t.Done.Render(name)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			t.Muted.Render(fmt.Sprintf("%6s", it.ID)), ui.Box(it.ItemCompletionStatus), name))
	}
	return lines
}
