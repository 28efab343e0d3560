package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipmark/internal/capture"
	"clipmark/internal/hotkeys"
)

func newAccelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accel",
		Short: "Work with accelerator strings",
	}

	normalizeCmd := &cobra.Command{
		Use:   "normalize <accelerator>",
		Short: "Print the canonical form of an accelerator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized, err := hotkeys.Normalize(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), normalized)
			return nil
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check <accelerator>...",
		Short: "Report whether accelerators are complete and free to register",
		Long: `Each accelerator is parsed, checked for at least one modifier and one
key, and compared against shortcuts the operating system reserves. The
command fails if any accelerator is unusable.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, spec := range args {
				line, ok := checkAccelerator(spec)
				fmt.Fprintln(out, line)
				if !ok {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d accelerators are unusable", failed, len(args))
			}
			return nil
		},
	}

	reservedCmd := &cobra.Command{
		Use:   "reserved",
		Short: "List shortcuts reserved by the operating system",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, r := range hotkeys.ReservedShortcuts() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-18s %s\n", r.Accelerator, r.Name, r.Description)
			}
		},
	}

	cmd.AddCommand(normalizeCmd, checkCmd, reservedCmd)
	return cmd
}

// checkAccelerator returns a one-line report for spec and whether it can be
// used as a shortcut.
func checkAccelerator(spec string) (string, bool) {
	b, err := hotkeys.ParseBinding(spec)
	if err != nil {
		return fmt.Sprintf("%s: invalid: %v", spec, err), false
	}
	normalized := b.Normalized()
	if !capture.IsComplete(normalized) {
		return fmt.Sprintf("%s: incomplete", normalized), false
	}
	if reserved := hotkeys.CheckReserved(b); len(reserved) > 0 {
		names := make([]string, 0, len(reserved))
		for _, r := range reserved {
			names = append(names, r.Name)
		}
		return fmt.Sprintf("%s: reserved by %s", normalized, strings.Join(names, ", ")), false
	}
	return fmt.Sprintf("%s: ok", normalized), true
}
