// Command story compiles and plays a narrative script from the terminal,
// per spec §6: `story run <script_path> [input_tokens]`.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/aledsdavies/weave/config"
	"github.com/aledsdavies/weave/core"
	"github.com/aledsdavies/weave/lang"
	"github.com/aledsdavies/weave/runtime"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "story",
		Short: "Compile and play narrative scripts",
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var seed int64
	var watch bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "run <script_path> [input_tokens]",
		Short: "Compile a script and play it, reading choices from stdin or input_tokens",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var tokens []string
			if len(args) == 2 {
				tokens = strings.Split(args[1], ",")
			}

			colors := newPalette(noColor)

			run := func() error {
				return runOnce(path, uint64(seed), tokens, colors, cmd.OutOrStdout())
			}

			if !watch {
				return run()
			}
			return runWatching(path, run, colors)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 1, "PRNG seed driving bucket draws")
	cmd.Flags().BoolVar(&watch, "watch", false, "recompile and replay whenever the script changes")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors in output")
	return cmd
}

func runOnce(path string, seed uint64, tokens []string, colors palette, out interface{ Write([]byte) (int, error) }) error {
	source, err := readScript(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, colors.errorText(err.Error()))
		return err
	}

	db, err := lang.Compile(source, path, config.New())
	if err != nil {
		fmt.Fprintln(os.Stderr, colors.errorText(err.Error()))
		return err
	}

	state := runtime.New(db, seed)
	return play(state, db, tokens, colors, out)
}

func readScript(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: no such file", path)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: is a directory, not a file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return string(data), nil
}

// play drives the story loop, consuming tokens in order when given, and
// falling back to stdin once they run out — per spec §6: "n" advances past
// text, a digit picks a choice, "q" quits.
func play(state *runtime.State, db *core.Database, tokens []string, colors palette, out interface{ Write([]byte) (int, error) }) error {
	scanner := bufio.NewScanner(os.Stdin)
	tokenIdx := 0
	nextToken := func() (string, bool) {
		if tokenIdx < len(tokens) {
			t := strings.TrimSpace(tokens[tokenIdx])
			tokenIdx++
			return t, true
		}
		if scanner.Scan() {
			return strings.TrimSpace(scanner.Text()), true
		}
		return "", false
	}

	for !state.HasEnded() {
		event, err := state.Step()
		if err != nil {
			return err
		}
		switch event.Kind {
		case runtime.EventEnded:
			fmt.Fprintln(out, colors.dim("-- end --"))
			return nil
		case runtime.EventText:
			fmt.Fprintln(out, event.Text)
		case runtime.EventChoices:
			for i, choiceID := range event.Choices {
				blk := db.Block(choiceID)
				fmt.Fprintf(out, "%s\n", colors.choice(fmt.Sprintf("%d) %s", i+1, db.String(blk.Kind.Text))))
			}
		}

		if event.Kind != runtime.EventChoices {
			tok, ok := nextToken()
			if !ok || tok == "q" {
				return nil
			}
			continue
		}

		for {
			tok, ok := nextToken()
			if !ok || tok == "q" {
				return nil
			}
			n, err := strconv.Atoi(tok)
			if err != nil || n < 1 || n > len(event.Choices) {
				fmt.Fprintln(os.Stderr, colors.errorText("invalid choice, try again"))
				continue
			}
			if err := state.PickChoice(event.Choices, n-1); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

// runWatching re-runs run whenever path reports a write or create event,
// so an author can iterate on a script without restarting the CLI by hand.
func runWatching(path string, run func() error, colors palette) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, colors.errorText(err.Error()))
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Println(colors.dim("-- recompiling --"))
			if err := run(); err != nil {
				fmt.Fprintln(os.Stderr, colors.errorText(err.Error()))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, colors.errorText(err.Error()))
		}
	}
}
