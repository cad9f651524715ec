// Copyright 2025-26 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serve

import (
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"m4o.io/adiff/cmd/adiff/cli"
	"m4o.io/adiff/internal/server"
)

func init() {
	cli.RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "listen address (defaults to the configured server.addr)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve changeset maps over HTTP",
	Long:  "Serve changeset maps over HTTP; /changeset/{id} answers with a map page and /api/changeset/{id} with GeoJSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		addr, err := cmd.Flags().GetString("addr")
		if err != nil {
			log.Fatal(err)
		}

		cfg := cli.Config()
		if addr == "" {
			addr = cfg.Server.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, c, err := cli.NewClient(ctx)
		if err != nil {
			log.Fatal(err)
		}

		defer c.Close()

		srv := server.New(client, cli.Logger(), cfg.RendererOptions()...)

		if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cli.Logger().Error("server stopped", "error", err)
		}
	},
}
