// Command fakegithub serves a stand-in for GitHub's OAuth and REST
// endpoints so the gateway can be exercised locally without an OAuth app.
//
//	fakegithub -addr :9999
//	GITHUB_CLIENT_ID=dev \
//	  cloudguardian -c config.dev.yaml   # authorize_url/token_url/api_url -> http://localhost:9999
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/felixp33/CloudGuardian/internal/fakegithub"
	"github.com/felixp33/CloudGuardian/internal/middleware"
)

func main() {
	addr := flag.String("addr", ":9999", "listen address")
	token := flag.String("token", fakegithub.DefaultToken, "access token handed out by the token endpoint")
	repos := flag.String("repos", "", "JSON body returned by /user/repos")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	fake := fakegithub.New()
	fake.SetToken(*token)
	if *repos != "" {
		fake.SetRepos(http.StatusOK, *repos)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           middleware.Logging(logger)(fake.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("fake github listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("fake github stopped", "error", err)
		os.Exit(1)
	}
}
