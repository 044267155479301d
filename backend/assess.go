package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"vritti/backend/gate"
	"vritti/backend/profile"
	"vritti/backend/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// localDevice scopes the profile used by the terminal when no device is given.
const localDevice = "local"

const (
	choiceRetake = "Retake the PHQ-9"
	choiceQuit   = "Quit"
)

// prompter is the part of the terminal UI the assess loop needs.
type prompter interface {
	Ask(label string, validate func(string) error) (string, error)
	Choose(label string, items []string) (int, error)
}

type terminalPrompter struct{}

func (terminalPrompter) Ask(label string, validate func(string) error) (string, error) {
	p := promptui.Prompt{Label: label, Validate: validate}
	return p.Run()
}

func (terminalPrompter) Choose(label string, items []string) (int, error) {
	s := promptui.Select{Label: label, Items: items, Size: len(items)}
	idx, _, err := s.Run()
	return idx, err
}

func newAssessCmd() *cobra.Command {
	var deviceID string
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run onboarding and the PHQ-9 in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer rt.Close()

			p := profile.New(store.NewSessionStore(store.Scoped(rt.backend, deviceID)))
			g := gate.New(p, gate.WithLogger(rt.log.WithField("device_id", deviceID)))

			err = runAssess(cmd.Context(), g, terminalPrompter{}, cmd.OutOrStdout())
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&deviceID, "device", localDevice, "device id whose profile is used")
	return cmd
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return profile.ErrEmptyName
	}
	return nil
}

// runAssess drives g until the user quits from the dashboard.
func runAssess(ctx context.Context, g *gate.Gate, ui prompter, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = os.Stdout
	}

	mode := g.Evaluate(ctx)
	for {
		switch mode {
		case gate.ModeCollectName:
			name, err := ui.Ask("What should we call you", requireText)
			if err != nil {
				return err
			}
			if mode, err = g.SubmitName(ctx, name); err != nil && !errors.Is(err, profile.ErrEmptyName) {
				return err
			}

		case gate.ModeRunAssessment:
			q := g.Question(ctx)
			labels := make([]string, len(q.Options))
			for i, o := range q.Options {
				labels[i] = o.Label
			}
			idx, err := ui.Choose(fmt.Sprintf("(%d/%d) %s", q.Step+1, q.Total, q.Text), labels)
			if err != nil {
				return err
			}
			res, next, err := g.Answer(ctx, q.Options[idx].Value)
			if err != nil {
				return err
			}
			mode = next
			if res != nil {
				fmt.Fprintf(out, "Score %d: %s\n", res.TotalScore, res.Severity)
			}

		case gate.ModeShowContent:
			snap, _ := g.Profile().Snapshot(ctx)
			fmt.Fprintf(out, "Welcome back, %s. Streak: %d day(s).\n", snap.DisplayName, snap.StreakCount)
			if snap.Assessment != nil {
				fmt.Fprintf(out, "Last PHQ-9: %d (%s)\n", snap.Assessment.TotalScore, snap.Assessment.Severity)
			}
			if g.Degraded() {
				fmt.Fprintln(out, "Some answers could not be saved and will be lost when you quit.")
			}
			idx, err := ui.Choose("What next", []string{choiceRetake, choiceQuit})
			if err != nil {
				return err
			}
			if idx != 0 {
				return nil
			}
			if mode, err = g.Retake(ctx); err != nil {
				return err
			}
		}
	}
}
