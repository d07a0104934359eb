package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/storage"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the raden database",
}

func dbFile() (string, error) {
	path, err := utils.GetAbsDBPath(viper.GetString("storage.path"))
	if err != nil {
		return "", err
	}
	if path != ":memory:" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return "", fmt.Errorf("database file not found: %s", path)
		}
	}
	return path, nil
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := dbFile()
		if err != nil {
			return err
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		fmt.Println("--> Starting interactive shell on", path, "(Ctrl+D to exit)")
		c := exec.Command(sqlitePath, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

// keysCmd lists stored keys and the size of each value.
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List stored keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := dbFile()
		if err != nil {
			return err
		}
		db, err := storage.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()

		keys, err := db.Keys(cmd.Context())
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Println("The database is empty.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KEY\tBYTES\t")
		for _, k := range keys {
			v, _, err := db.Get(cmd.Context(), k)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%d\t\n", k, len(v))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(shellCmd)
	dbCmd.AddCommand(keysCmd)
}
