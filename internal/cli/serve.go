package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rshade/cbamcalc/internal/api"
	"github.com/rshade/cbamcalc/internal/logging"
)

func newServeCmd(s *session) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Long: `Loads the reference tables once and serves quotes over HTTP until
interrupted. The listen address defaults to server.addr.`,
		Example: `  cbamcalc serve
  cbamcalc serve --addr 127.0.0.1:9090
  curl -s localhost:8080/v1/quotes -d '{"code":"7203","country":"China","year":2026,"volume":150,"carbon_price":81}'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			calc, tbl, err := s.loadCalculator(ctx)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("addr") {
				addr = s.cfg.Server.Addr
			}
			mode := s.cfg.Server.Mode
			if mode == "" {
				mode = gin.ReleaseMode
			}
			gin.SetMode(mode)

			handler := api.NewHandler(calc, tbl, s.cfg.Market.CarbonPrice)
			router := api.NewRouter(handler, *logging.FromContext(ctx))

			cmd.Printf("Serving CBAM quotes on %s\n", addr)
			return api.Serve(ctx, addr, router)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")

	return cmd
}
