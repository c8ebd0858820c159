package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
)

func newCheckCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Test the connection to the RFP backend",
		Long:  "Lists RFPs once and reports the HTTP status, latency, and RFP count.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, client, err := setup(f)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			out := cmd.OutOrStdout()
			res, err := client.Ping(cmd.Context())
			fmt.Fprintln(out, keyStyle.Render("backend")+client.BaseURL())
			if res.StatusCode != 0 {
				fmt.Fprintln(out, keyStyle.Render("status")+fmt.Sprint(res.StatusCode))
			}
			fmt.Fprintln(out, keyStyle.Render("latency")+res.Latency.Round(time.Millisecond).String())
			if err != nil {
				logger.Warn("connection test failed", zap.Error(err))
				fmt.Fprintln(out, failStyle.Render("FAILED")+" "+err.Error())
				return errors.New("backend unreachable")
			}
			fmt.Fprintln(out, keyStyle.Render("rfps")+fmt.Sprint(res.RFPs))
			fmt.Fprintln(out, okStyle.Render("OK"))
			return nil
		},
	}
}
