package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	auth "github.com/goliatone/go-cookie-auth"
	"github.com/goliatone/go-cookie-auth/internal/activity"
	"github.com/goliatone/go-cookie-auth/internal/config"
	"github.com/goliatone/go-cookie-auth/internal/logging"
	"github.com/goliatone/go-cookie-auth/internal/server"
	"github.com/goliatone/go-cookie-auth/repository"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the auth server",
	RunE: func(cmd *cobra.Command, args []string) error {
		// the secret is checked before anything listens
		keys, err := auth.SigningKeysFromEnv(cfg.SecretEnv)
		if err != nil {
			return fmt.Errorf("loading signing keys: %w", err)
		}

		verifier, closeVerifier, err := buildVerifier(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("building credential verifier: %w", err)
		}
		defer closeVerifier()

		zlog := logging.NewZLogger(log.Logger)
		sink, closeSink := buildActivitySink(cmd.Context(), cfg)
		defer closeSink()

		codec := auth.NewClaimsCodec(keys)
		auther := auth.NewAuthenticator(auth.WithTimeout(verifier, cfg.Verifier.Timeout), codec, cfg).
			WithLogger(zlog).
			WithActivitySink(sink)
		extractor := auth.NewIdentityExtractor(codec, cfg.GetCookieName())
		routes := auth.NewHTTPAuthenticator(auther, extractor, cfg).WithLogger(zlog)

		app := server.New(server.Deps{
			Authenticator: routes,
			Logger:        log.Logger,
			Sink:          sink,
			AllowOrigins:  cfg.CORS.AllowOrigins,
			Debug:         cfg.Debug,
		})

		errCh := make(chan error, 1)
		go func() {
			log.Info().Msgf("Starting server on %s...", cfg.Addr)
			errCh <- app.Listen(cfg.Addr)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server crashed: %w", err)
			}
			return nil
		case <-quit:
		}

		log.Info().Msg("Shutting down server...")
		if err := server.Shutdown(context.Background(), app); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func buildVerifier(ctx context.Context, cfg *config.Config) (auth.CredentialVerifier, func(), error) {
	switch cfg.Verifier.Driver {
	case config.VerifierSQLite:
		db, err := repository.Open(cfg.Verifier.DSN)
		if err != nil {
			return nil, nil, err
		}
		users := repository.NewUsersRepository(db)
		if err := users.CreateSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("creating users schema: %w", err)
		}
		log.Info().Str("dsn", cfg.Verifier.DSN).Msg("using sqlite credential authority")
		return users, func() { _ = db.Close() }, nil
	default:
		if len(cfg.Verifier.Users) == 0 {
			log.Warn().Msg("static credential authority has no users, every login will fail")
		}
		log.Info().Int("users", len(cfg.Verifier.Users)).Msg("using static credential authority")
		return auth.NewStaticVerifier(cfg.Verifier.Users), func() {}, nil
	}
}

func buildActivitySink(ctx context.Context, cfg *config.Config) (auth.ActivitySink, func()) {
	logSink := logging.NewActivityLogger(log.Logger)
	if cfg.Activity.RedisAddr == "" {
		return logSink, func() {}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Activity.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// activity is best-effort, the server still starts
		log.Warn().Err(err).Str("addr", cfg.Activity.RedisAddr).Msg("activity redis not reachable")
	}

	log.Info().
		Str("addr", cfg.Activity.RedisAddr).
		Str("stream", cfg.Activity.Stream).
		Msg("publishing activity to redis stream")

	stream := activity.NewStreamSink(rdb, cfg.Activity.Stream, cfg.Activity.MaxLen)
	return activity.Multi(logSink, stream), func() { _ = rdb.Close() }
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:3000", "address to listen on")
	_ = v.BindPFlag(AddrKey, serveCmd.Flags().Lookup("addr"))
}
