// Package main is the horoscope command line tool. It prints the
// deterministic daily fortunes without starting the service.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/horoscope-service/internal/domain"
	"github.com/jsamuelsen/horoscope-service/internal/fortune"
	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
)

func main() {
	if err := newRootCommand(time.Now).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(now func() time.Time) *cobra.Command {
	root := &cobra.Command{
		Use:           "horoscope",
		Short:         "Print daily zodiac fortunes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newShowCommand(now),
		newSignsCommand(),
		newSeedCommand(),
	)

	return root
}

type showOptions struct {
	sign     string
	date     string
	timezone string
	asJSON   bool
}

func newShowCommand(now func() time.Time) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one sign's fortune for a date",
		Example: `  horoscope show --sign aries
  horoscope show --sign leo --date 2024-08-01 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd.OutOrStdout(), opts, now)
		},
	}

	cmd.Flags().StringVar(&opts.sign, "sign", "", "zodiac sign key, e.g. aries")
	cmd.Flags().StringVar(&opts.date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&opts.timezone, "tz", config.DefaultTimezone, "zone that decides what today is")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the fortune as JSON")
	_ = cmd.MarkFlagRequired("sign")

	return cmd
}

func runShow(w io.Writer, opts *showOptions, now func() time.Time) error {
	sign, err := domain.ParseSign(strings.ToLower(strings.TrimSpace(opts.sign)))
	if err != nil {
		return err
	}

	dateKey := opts.date
	if dateKey == "" {
		loc, err := time.LoadLocation(opts.timezone)
		if err != nil {
			return fmt.Errorf("loading zone %q: %w", opts.timezone, err)
		}

		dateKey = domain.DateKey(now(), loc)
	}

	if _, err := domain.ParseDateKey(dateKey); err != nil {
		return err
	}

	f := fortune.Build(sign.Key, dateKey)

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)

		return enc.Encode(f)
	}

	return printFortune(w, sign, &f)
}

func printFortune(w io.Writer, sign domain.Sign, f *domain.Fortune) error {
	d := f.Digest

	var b strings.Builder

	fmt.Fprintf(&b, "%s %s (%s)\n", f.Date, sign.Label, sign.Key)
	fmt.Fprintf(&b, "%s\n%s\n\n", d.Theme, d.OneLine)
	fmt.Fprintf(&b, "総合 %s\n恋愛 %s\n仕事 %s\n金運 %s\n\n",
		stars(d.Scores.Overall), stars(d.Scores.Love), stars(d.Scores.Work), stars(d.Scores.Money))
	fmt.Fprintf(&b, "行動: %s\n注意: %s\n", d.Tips.Action, d.Tips.Caution)
	fmt.Fprintf(&b, "ラッキー: %s / %s / %s\n\n", d.Tips.Lucky.Color, d.Tips.Lucky.Item, d.Tips.Lucky.Time)
	fmt.Fprintf(&b, "[総合] %s\n[恋愛] %s\n[仕事] %s\n[金運] %s\n",
		f.Full.Overall, f.Full.Love, f.Full.Work, f.Full.Money)

	_, err := io.WriteString(w, b.String())

	return err
}

// stars renders a 1..5 score as filled and empty stars.
func stars(n int) string {
	n = max(0, min(n, 5))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func newSignsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "signs",
		Short: "List the zodiac sign keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, s := range domain.Signs() {
				if _, err := fmt.Fprintf(w, "%-12s%s\n", s.Key, s.Label); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <text>",
		Short: "Print the 32-bit seed of a string",
		Long:  "Print the seed the generator derives from text, e.g. \"2024-01-01_aries_theme\".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), fortune.Seed(args[0]))
			return err
		},
	}
}
