package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"lpcgo/host/boards"
	"lpcgo/host/mcu"
	"lpcgo/host/serial"
)

// offline marks commands that work without a board.
const offline = "offline"

func newRootCommand(s *session) *cobra.Command {
	if s.device == "" {
		s.device = "/dev/ttyUSB1"
	}
	if s.baud == 0 {
		s.baud = serial.DefaultBaud
	}
	if s.board == "" {
		s.board = "edu-ciaa"
	}
	if s.timeout == 0 {
		s.timeout = time.Second
	}

	root := &cobra.Command{
		Use:          "pinctl",
		Short:        "Drive the GPIO pins of a board running the pin firmware",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[offline] != "" || cmd.Name() == "help" {
				return s.loadBoard()
			}
			return s.connect()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVarP(&s.device, "device", "d", s.device, `serial device, or "sim" for a simulated board`)
	flags.IntVarP(&s.baud, "baud", "b", s.baud, "baud rate")
	flags.StringVar(&s.board, "board", s.board, "board description used to resolve pin labels")
	flags.DurationVar(&s.timeout, "timeout", s.timeout, "wait for each ACK or reply")
	flags.BoolVarP(&s.verbose, "verbose", "v", s.verbose, "print firmware debug messages")
	flags.BoolVar(&s.force, "force", s.force, "allow driving reserved pins")

	root.AddCommand(
		listCommand(s),
		infoCommand(s),
		levelCommand(s, "read", "Read a pin", false, (*mcu.MCU).Read),
		levelCommand(s, "set", "Drive an output high", true, (*mcu.MCU).Set),
		levelCommand(s, "clear", "Drive an output low", true, (*mcu.MCU).Clear),
		levelCommand(s, "toggle", "Invert an output", true, (*mcu.MCU).Toggle),
		levelCommand(s, "output", "Make a pin an output", true, (*mcu.MCU).Output),
		levelCommand(s, "disable", "Park a pin in its low-power state", true, (*mcu.MCU).Disable),
		inputCommand(s),
		portCommand(s),
		watchCommand(s),
		stopCommand(s),
		resetCommand(s),
		shellCommand(s),
	)
	return root
}

func printLevel(cmd *cobra.Command, p boards.Pin, high bool) {
	v := 0
	if high {
		v = 1
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", p.Label, v)
}

func listCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List the labeled pins of the board",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LABEL\tGPIO\tPIN\tNOTES")
			for _, p := range s.pcb.Pins {
				var notes []string
				if p.Interrupt {
					notes = append(notes, "interrupt")
				}
				if p.Reserved {
					notes = append(notes, "reserved")
				}
				fmt.Fprintf(w, "%s\tGPIO%d[%d]\t%s\t%s\n", p.Label, p.Port, p.Bit, p.Silicon, strings.Join(notes, ","))
			}
			return w.Flush()
		},
	}
}

func infoCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the firmware dictionary summary and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := s.mcu.Dictionary()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s (%s)\n", d.Version, d.BuildVersions)

			keys := make([]string, 0, len(d.Config))
			for k := range d.Config {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "  %s = %s\n", k, d.Config[k])
			}
			fmt.Fprintf(out, "commands: %s\n", strings.Join(d.Names(false), " "))

			st, err := s.mcu.Status()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "shutdown: %v\n", st.IsShutdown)
			if reason, ok := s.mcu.ShutdownReason(); ok {
				fmt.Fprintf(out, "shutdown reason: %s\n", reason)
			}
			return nil
		},
	}
}

type pinOp func(m *mcu.MCU, port, bit uint8) (bool, error)

func levelCommand(s *session, name, short string, write bool, op pinOp) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <pin>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := s.pin(args[0], write)
			if err != nil {
				return err
			}
			high, err := op(s.mcu, p.Port, p.Bit)
			if err != nil {
				return err
			}
			printLevel(cmd, p, high)
			return nil
		},
	}
}

func inputCommand(s *session) *cobra.Command {
	var pull string
	cmd := &cobra.Command{
		Use:   "input <pin>",
		Short: "Make a pin an input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := s.pin(args[0], true)
			if err != nil {
				return err
			}
			high, err := s.mcu.Input(p.Port, p.Bit, mcu.Pull(pull))
			if err != nil {
				return err
			}
			printLevel(cmd, p, high)
			return nil
		},
	}
	cmd.Flags().StringVar(&pull, "pull", "up", "pull resistor: none, up or down")
	return cmd
}

func portCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "port <n> [<mask> <value>]",
		Short: "Read a whole GPIO port, or write the bits selected by mask",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("want a port, optionally followed by mask and value")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var nums [3]uint32
			for i, a := range args {
				v, err := strconv.ParseUint(a, 0, 32)
				if err != nil {
					return fmt.Errorf("%q: %w", a, err)
				}
				nums[i] = uint32(v)
			}
			if nums[0] > 0xFF {
				return fmt.Errorf("no port %d", nums[0])
			}
			port := uint8(nums[0])

			var levels uint32
			var err error
			if len(args) == 1 {
				levels, err = s.mcu.ReadPort(port)
			} else {
				if err := s.checkPortWrite(port, nums[1]); err != nil {
					return err
				}
				levels, err = s.mcu.WritePort(port, nums[1], nums[2])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "GPIO%d 0x%08x\n", port, levels)
			return nil
		},
	}
}

func watchCommand(s *session) *cobra.Command {
	var (
		edge     string
		pull     string
		count    int
		duration time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <pin>",
		Short: "Report interrupt edges on a pin",
		Long:  "Configures the pin as an input, arms its interrupt channel and prints every reported edge until interrupted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := s.pin(args[0], true)
			if err != nil {
				return err
			}
			if _, err := s.mcu.Input(p.Port, p.Bit, mcu.Pull(pull)); err != nil {
				return err
			}
			if _, err := s.mcu.EnableInterrupt(p.Port, p.Bit, mcu.Edge(edge)); err != nil {
				return err
			}
			defer s.mcu.DisableInterrupt(p.Port, p.Bit)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			var deadline <-chan time.Time
			if duration > 0 {
				timer := time.NewTimer(duration)
				defer timer.Stop()
				deadline = timer.C
			}

			fmt.Fprintf(cmd.OutOrStdout(), "watching %s for %s edges\n", p, edge)
			for seen := 0; count == 0 || seen < count; {
				select {
				case ev := <-s.mcu.Events():
					if ev.Port != p.Port || ev.Bit != p.Bit {
						continue
					}
					seen++
					fmt.Fprintf(cmd.OutOrStdout(), "%s ", time.Now().Format("15:04:05.000"))
					printLevel(cmd, p, ev.High)
				case <-deadline:
					return nil
				case <-ctx.Done():
					return nil
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&edge, "edge", "falling", "edge to report: rising, falling or either")
	cmd.Flags().StringVar(&pull, "pull", "up", "pull resistor: none, up or down")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "stop after this many edges (0 = no limit)")
	cmd.Flags().DurationVar(&duration, "for", 0, "stop after this long (0 = no limit)")
	return cmd
}

func stopCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Emergency stop: disarm all interrupts and park all pins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reason, err := s.mcu.EmergencyStop()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "shutdown: %s\n", reason)
			return nil
		},
	}
}

func resetCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restart the firmware",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.mcu.Reset()
		},
	}
}
