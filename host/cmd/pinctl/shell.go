package main

import (
	"bufio"
	"fmt"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

func shellCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run pinctl commands interactively over one connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			for fmt.Fprint(out, "> "); in.Scan(); fmt.Fprint(out, "> ") {
				words, err := shlex.Split(in.Text())
				if err != nil {
					fmt.Fprintln(out, "Error:", err)
					continue
				}
				if len(words) == 0 {
					continue
				}
				switch words[0] {
				case "quit", "exit":
					return nil
				case "shell":
					fmt.Fprintln(out, "Error: already in a shell")
					continue
				}
				line := newRootCommand(s)
				line.SetArgs(words)
				line.SetIn(cmd.InOrStdin())
				line.SetOut(out)
				line.SetErr(out)
				// Errors are printed by cobra; the shell carries on.
				_ = line.ExecuteContext(cmd.Context())
			}
			fmt.Fprintln(out)
			return in.Err()
		},
	}
}
