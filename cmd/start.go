package cmd

import (
	"github.com/rs/zerolog/log"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/cmd/commands"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/config"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the settlement service and listen for purchase and payment claim requests",
	Long:  `Run database migrations, load user balances from the ledger and start the HTTP API`,
	Run: func(cmd *cobra.Command, args []string) {
		// load server configuration from server
		log.Debug().Msg("Loading server configuration")
		if viper.ConfigFileUsed() != "" {
			log.Debug().Str("section", "init").Str("path", viper.ConfigFileUsed()).Msg("Configuration file loaded")
		}
		cfg := config.LoadConfig(viper.GetViper())
		// Running migrations
		log.Debug().Msg("Running migrations")
		commands.Migrate(cfg)

		// start a new server
		log.Debug().Str("section", "init").Msg("Starting new server instance")
		srv := server.NewServer(cfg)
		// listen for new requests
		log.Info().Str("section", "init").Msg("Listening for incoming requests")
		srv.Listen()
	},
}
