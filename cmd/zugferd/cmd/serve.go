package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/zugferd/internal/server"
)

type serveFlags struct {
	address      string
	debug        bool
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func newServeCmd(o *options) *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start an HTTP API server for reading and writing invoices.

The API provides endpoints for:
  - GET  /api/v1/profiles  - Supported versions and profiles
  - POST /api/v1/load      - Decode XML or hybrid PDF into JSON
  - POST /api/v1/save      - Encode a JSON invoice as XML
  - POST /api/v1/convert   - Rewrite a document for another profile
  - POST /api/v1/validate  - Check a document against a profile
  - POST /api/v1/info      - Detect format, version and profile
  - GET  /health           - Health check

Flags override the server section of the config file.

Examples:
  # Start server on default port
  zugferd serve

  # Start on custom port in debug mode
  zugferd serve --address :9090 --debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runServe(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.address, "address", ":8080", "Server listen address")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "Enable debug mode")
	cmd.Flags().DurationVar(&f.readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	cmd.Flags().DurationVar(&f.writeTimeout, "write-timeout", 30*time.Second, "HTTP write timeout")
	return cmd
}

// serverConfig merges the config file with the flags that were set explicitly
func (o *options) serverConfig(cmd *cobra.Command, f *serveFlags) (*server.Config, error) {
	version, err := o.config.Codec.TargetVersion()
	if err != nil {
		return nil, err
	}
	prof, err := o.config.Codec.TargetProfile()
	if err != nil {
		return nil, err
	}
	policy, err := o.config.Codec.Policy()
	if err != nil {
		return nil, err
	}

	sc := o.config.Server
	flags := cmd.Flags()
	if flags.Changed("address") {
		sc.Address = f.address
	}
	if flags.Changed("debug") {
		sc.Debug = f.debug
	}
	if flags.Changed("read-timeout") {
		sc.ReadTimeout = f.readTimeout
	}
	if flags.Changed("write-timeout") {
		sc.WriteTimeout = f.writeTimeout
	}

	return &server.Config{
		Address:        sc.Address,
		ReadTimeout:    sc.ReadTimeout,
		WriteTimeout:   sc.WriteTimeout,
		RequestTimeout: sc.RequestTimeout,
		MaxBodySize:    sc.MaxBodySize,
		Debug:          sc.Debug,
		DefaultVersion: version,
		DefaultProfile: prof,
		TaxTypePolicy:  policy,
		Indent:         o.config.Codec.Indent,
		Logger:         &o.log,
	}, nil
}

func (o *options) runServe(cmd *cobra.Command, f *serveFlags) error {
	config, err := o.serverConfig(cmd, f)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o.log.Info().
		Str("address", config.Address).
		Str("version", string(config.DefaultVersion)).
		Str("profile", string(config.DefaultProfile)).
		Msg("Starting server")

	return server.NewServer(config).Run(ctx)
}
