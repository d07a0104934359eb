package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/server"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/riskbrief"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/whttp"
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Ask the configured LLM for a risk brief on the saved advance",
	RunE: func(cmd *cobra.Command, args []string) error {
		redact, _ := cmd.Flags().GetBool("redact")
		remote, _ := cmd.Flags().GetString("remote")
		asJSON, _ := cmd.Flags().GetBool("json")

		session, closeDB := openSession(cmd.Context())
		defer closeDB()

		var gen server.BriefGenerator
		if remote != "" {
			c, err := riskbrief.NewClient(remote, whttp.ClientOptions{
				Timeout: duration("ai.timeout", 60*time.Second) + 10*time.Second,
				Proxy:   viper.GetString("proxy"),
			})
			if err != nil {
				return err
			}
			gen = c
		} else {
			g, err := newGenerator()
			if err != nil {
				return err
			}
			gen = g
		}

		brief, err := gen.Generate(cmd.Context(), session.Current(), redact)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), brief)
		}
		printBrief(cmd.OutOrStdout(), brief)
		return nil
	},
}

func printBrief(w io.Writer, b riskbrief.RiskBrief) {
	fmt.Fprintf(w, "THREAT LEVEL: %s   CONFIDENCE: %s\n\n", b.ThreatLevel, b.PlanningConfidence)
	fmt.Fprintln(w, b.Summary)
	if b.ConfidenceRationale != "" {
		fmt.Fprintf(w, "\nConfidence: %s\n", b.ConfidenceRationale)
	}

	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s\n", title)
		for _, it := range items {
			fmt.Fprintf(w, "  - %s\n", it)
		}
	}
	list("PRIMARY RISK DRIVERS", b.PrimaryRiskDrivers)

	if len(b.Vulnerabilities) > 0 {
		fmt.Fprintln(w, "\nVULNERABILITIES")
		for _, v := range b.Vulnerabilities {
			fmt.Fprintf(w, "  - %s: %s\n", v.Title, v.Note)
		}
	}
	if len(b.RecommendedMitigations) > 0 {
		fmt.Fprintln(w, "\nMITIGATIONS")
		for _, m := range b.RecommendedMitigations {
			fmt.Fprintf(w, "  - %s: %s\n", m.Title, m.Steps)
		}
	}
	list("GO IF", b.GoNoGo.GoIf)
	list("NO-GO IF", b.GoNoGo.NoGoIf)
	list("DAY-OF FOCUS", b.DayOfOperatorFocus)
	list("MISSING INFO", b.MissingInfoQuestions)

	if b.Disclaimer != "" {
		fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(b.Disclaimer))
	}
}

func init() {
	rootCmd.AddCommand(briefCmd)
	briefCmd.Flags().Bool("redact", false, "Mask addresses and phone numbers before sending")
	briefCmd.Flags().String("remote", "", "Use a raden serve instance at this URL instead of calling the LLM directly")
	briefCmd.Flags().Bool("json", false, "Print the brief as JSON")
}
