package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"roster/internal/core"
	"roster/pkg/domain"
)

func (a *app) listCommand() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show people in roster order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(svc *core.Service) error {
				svc.SetQuery(query)
				visible := svc.Visible()
				rows := make([]personRow, len(visible))
				for i, p := range visible {
					rows[i] = personRow{Position: svc.Store().IndexOf(p) + 1, Person: *p}
				}
				_, err := fmt.Fprintln(a.stdout, renderPeople(newStyles(a.stdout), rows, svc.Store().Len(), query))
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive name filter")
	return cmd
}

func (a *app) addCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add NAME AGE",
		Short: "Append a person",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(svc *core.Service) error {
				p, err := svc.Add(cmd.Context(), args[0], args[1])
				if p == nil {
					return err
				}
				return errors.Join(err, a.printDone(fmt.Sprintf("added %s (%d) at position %d", p.Name, p.Age, svc.Store().IndexOf(p)+1)))
			})
		},
	}
	// A negative age must reach validation as an argument, not a shorthand flag.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (a *app) updateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update POSITION NAME AGE",
		Short: "Edit the person at POSITION",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(svc *core.Service) error {
				p, err := personAt(svc, args[0])
				if err != nil {
					return err
				}
				sel := svc.Selection()
				if err := sel.Select(p); err != nil {
					return err
				}
				sel.Stage(args[1], args[2])
				before := *p
				err = svc.CommitEdit(cmd.Context())
				if err != nil && !domain.IsPersistence(err) {
					return err
				}
				return errors.Join(err, a.printDone(fmt.Sprintf("updated %s (%d) to %s (%d)", before.Name, before.Age, p.Name, p.Age)))
			})
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete POSITION",
		Short: "Remove the person at POSITION after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(svc *core.Service) error {
				p, err := personAt(svc, args[0])
				if err != nil {
					return err
				}
				if !yes && !a.confirm(fmt.Sprintf("Delete %s (%d)? [y/N] ", p.Name, p.Age)) {
					_, err := fmt.Fprintln(a.stdout, "kept")
					return err
				}
				removed := *p
				err = svc.Delete(cmd.Context(), p)
				if err != nil && !domain.IsPersistence(err) {
					return err
				}
				return errors.Join(err, a.printDone(fmt.Sprintf("deleted %s (%d)", removed.Name, removed.Age)))
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show roster statistics and the age histogram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(svc *core.Service) error {
				_, err := fmt.Fprintln(a.stdout, renderStatistics(newStyles(a.stdout), svc.Statistics()))
				return err
			})
		},
	}
}

func (a *app) confirm(prompt string) bool {
	if _, err := fmt.Fprint(a.stdout, prompt); err != nil {
		return false
	}
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (a *app) printDone(msg string) error {
	_, err := fmt.Fprintln(a.stdout, newStyles(a.stdout).ok.Render(msg))
	return err
}
