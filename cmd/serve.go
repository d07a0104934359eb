package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/server"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the advance, preview, export, risk brief and places APIs",
	RunE: func(cmd *cobra.Command, args []string) error {
		flagEngine, _ := cmd.Flags().GetString("engine")
		engine, err := exportEngine(flagEngine)
		if err != nil {
			return err
		}

		session, closeDB := openSession(cmd.Context())
		defer closeDB()

		s := server.New(session, viper.GetString("server.username"), viper.GetString("server.password"))
		s.Exporters = newExporters()
		s.DefaultEngine = engine

		if g, err := newGenerator(); err != nil {
			utils.Log.Warnf("risk brief disabled: %v", err)
			s.BriefsErr = err
		} else {
			s.Briefs = g
		}
		if p, err := newPlaces(); err != nil {
			utils.Log.Warnf("places lookup disabled: %v", err)
			s.PlacesErr = err
		} else {
			s.Places = p
		}

		return s.Start(viper.GetString("server.bind"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (default from server.bind)")
	serveCmd.Flags().String("username", "", "Basic auth username")
	serveCmd.Flags().String("password", "", "Basic auth password")
	serveCmd.Flags().String("engine", "", "Default export engine: box or chrome")

	viper.BindPFlag("server.bind", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("server.username", serveCmd.Flags().Lookup("username"))
	viper.BindPFlag("server.password", serveCmd.Flags().Lookup("password"))
}
