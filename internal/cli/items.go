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

func newItemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Change the items of a checklist",
		Args:  usageArgs(cobra.NoArgs),
	}
	cmd.AddCommand(
		newItemAddCmd(a),
		newItemRenameCmd(a),
		newItemToggleCmd(a),
		newItemRemoveCmd(a),
		newItemClearCmd(a),
	)
	return cmd
}

// itemsVM sets up the command and returns the view-model of one checklist.
func itemsVM(cmd *cobra.Command, a *app, checklistID string) (*viewmodel.Items, error) {
	if err := a.setup(cmd, false); err != nil {
		return nil, err
	}
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	return viewmodel.NewItems(a.deps(), a.client, model.ID(checklistID)), nil
}

func newItemAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <checklist-id> <name...>",
		Short: "Add an item",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := itemsVM(cmd, a, args[0])
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			if err := vm.Upsert(ctxOf(cmd), name, ""); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added %q", strings.TrimSpace(name)))
			return nil
		},
	}
}

func newItemRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <checklist-id> <item-id> <name...>",
		Short: "Rename an item",
		Args:  usageArgs(cobra.MinimumNArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := itemsVM(cmd, a, args[0])
			if err != nil {
				return err
			}
			name := strings.Join(args[2:], " ")
			if err := vm.Upsert(ctxOf(cmd), name, model.ID(args[1])); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("renamed to %q", strings.TrimSpace(name)))
			return nil
		},
	}
}

func newItemToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <checklist-id> <item-id>",
		Short: "Flip an item between pending and completed",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := itemsVM(cmd, a, args[0])
			if err != nil {
				return err
			}
			ctx := ctxOf(cmd)
			// the current status decides what is sent
			if err := vm.Load(ctx); err != nil {
				return err
			}
			it, ok := findItem(vm.State().Items, model.ID(args[1]))
			if !ok {
				return fmt.Errorf("no item with id %s", args[1])
			}
			if err := vm.ToggleStatus(ctx, it.ID, it.ItemCompletionStatus); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%q is now %s", it.Name, model.Toggle(it.ItemCompletionStatus)))
			return nil
		},
	}
}

func findItem(items []model.Item, id model.ID) (model.Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

func newItemRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <checklist-id> <item-id>",
		Short: "Delete an item",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := itemsVM(cmd, a, args[0])
			if err != nil {
				return err
			}
			if err := vm.Delete(ctxOf(cmd), model.ID(args[1])); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "deleted item "+args[1])
			return nil
		},
	}
}

func newItemClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear <checklist-id>",
		Short: "Delete every item of a checklist",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := itemsVM(cmd, a, args[0])
			if err != nil {
				return err
			}
			ctx := ctxOf(cmd)
			if err := vm.Load(ctx); err != nil {
				return err
			}
			n := len(vm.State().Items)
			if !vm.RequestDeleteAll() {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to delete")
				return nil
			}
			if !yes {
				ok, err := a.confirm(cmd, fmt.Sprintf("Delete all %s?", english.Plural(n, "item", "")))
				if err != nil || !ok {
					vm.CancelDeleteAll()
					return err
				}
			}
			err = vm.ConfirmDeleteAll(ctx)
			left := len(vm.State().Items)
			if err != nil {
				return fmt.Errorf("%w (%s left)", err, english.Plural(left, "item", ""))
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("deleted %s", english.Plural(n, "item", "")))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}
