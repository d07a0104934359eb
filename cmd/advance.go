package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
)

var advanceCmd = &cobra.Command{
	Use:   "advance",
	Short: "Show and edit the saved pocket advance",
}

var advanceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved advance as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		redact, _ := cmd.Flags().GetBool("redact")
		session, closeDB := openSession(cmd.Context())
		defer closeDB()
		return printJSON(cmd.OutOrStdout(), advance.Redact(session.Current(), redact))
	},
}

var advanceResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Throw away the saved advance and start from the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		blank, _ := cmd.Flags().GetBool("blank")
		session, closeDB := openSession(cmd.Context())
		defer closeDB()
		a := session.Reset(cmd.Context())
		if blank {
			a = session.Replace(cmd.Context(), advance.Blank(a.Date))
		}
		return printJSON(cmd.OutOrStdout(), a)
	},
}

var advanceTemplateCmd = &cobra.Command{
	Use:   "template [key]",
	Short: "Apply a preset. Without a key, list the presets",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, k := range advance.TemplateKeys() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		}
		session, closeDB := openSession(cmd.Context())
		defer closeDB()
		a, err := session.ApplyTemplate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), a)
	},
}

var advanceSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set one text field, named by its JSON key (e.g. venueName)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, closeDB := openSession(cmd.Context())
		defer closeDB()
		next, err := setField(session.Current(), args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), session.Replace(cmd.Context(), next))
	},
}

var advanceImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the saved advance with a JSON file ('-' reads stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if args[0] == "-" {
			raw, err = io.ReadAll(cmd.InOrStdin())
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}
		session, closeDB := openSession(cmd.Context())
		defer closeDB()
		a := advance.Restore(raw, advance.Default(advance.Today(time.Now())))
		return printJSON(cmd.OutOrStdout(), session.Replace(cmd.Context(), a))
	},
}

// setField assigns value to the top-level string field whose JSON key is
// field. List fields and unknown keys are rejected.
func setField(a advance.Advance, field, value string) (advance.Advance, error) {
	out := a.Clone()
	v := reflect.ValueOf(&out).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != field {
			continue
		}
		if t.Field(i).Type.Kind() != reflect.String {
			return a, fmt.Errorf("field %q is not a text field", field)
		}
		v.Field(i).SetString(value)
		return out, nil
	}
	return a, fmt.Errorf("unknown field %q", field)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(advanceCmd)
	advanceCmd.AddCommand(advanceShowCmd, advanceResetCmd, advanceTemplateCmd, advanceSetCmd, advanceImportCmd)
	advanceShowCmd.Flags().Bool("redact", false, "Mask addresses and phone numbers")
	advanceResetCmd.Flags().Bool("blank", false, "Start from empty fields instead of placeholders")
}
