// Command simclient runs a headless client session against a server:
// it connects, predicts scripted movement, and reports reconciliation
// metrics. Useful for soak-testing servers and for measuring divergence
// without a renderer.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	cfg "github.com/SeloSlav/saltgrass-client/config"
	"github.com/SeloSlav/saltgrass-client/logging"
	"github.com/SeloSlav/saltgrass-client/network"
	"github.com/SeloSlav/saltgrass-client/session"
)

const clientVersion = "0.7.2"

func main() {
	// Settings storage failing is not fatal; defaults still work.
	settingsErr := cfg.InitSettings()
	saved, loadErr := cfg.LoadSettings()
	if settingsErr == nil {
		settingsErr = loadErr
	}

	addr := flag.String("addr", saved.ServerAddress, "server address (host:port)")
	name := flag.String("name", saved.PlayerName, "player name")
	token := flag.String("token", "", "reconnect token from a previous session")
	logPath := flag.String("log", "simclient.log", "log file path")
	debug := flag.Bool("debug", false, "log at debug level")
	sentryDSN := flag.String("sentry-dsn", os.Getenv("SENTRY_DSN"), "Sentry DSN for crash reports")
	duration := flag.Duration("duration", 0, "exit after this long (0 = run until signal)")
	walk := flag.Bool("walk", true, "drive scripted movement")
	remember := flag.Bool("remember", false, "save address and name as defaults")
	flag.Parse()

	log := logging.New(*logPath, *debug)
	defer log.Sync()

	if settingsErr != nil {
		log.Warnf("settings storage unavailable: %v", settingsErr)
	}
	if *remember {
		if err := cfg.SaveSettings(&cfg.SavedSettings{ServerAddress: *addr, PlayerName: *name}); err != nil {
			log.Warnf("saving settings: %v", err)
		}
	}

	sentryEnabled := *sentryDSN != ""
	if sentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     *sentryDSN,
			Release: "simclient@" + clientVersion,
		})
		if err != nil {
			log.Warnf("sentry init failed: %v", err)
			sentryEnabled = false
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	client := network.NewClient(log.Named("network"))
	sess := session.New(log.Named("session"), client, session.Options{
		Address:        *addr,
		Version:        clientVersion,
		PlayerName:     *name,
		ReconnectToken: *token,
		SentryEnabled:  sentryEnabled,
	})

	log.Infof("simclient %s connecting to %s as %q", clientVersion, *addr, *name)
	sess.Connect()

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutdown signal received")
		cancel()
	}()
	if *duration > 0 {
		go func() {
			time.Sleep(*duration)
			cancel()
		}()
	}
	go func() {
		time.Sleep(cfg.Network.JoinTimeout)
		if sess.ClientState() != network.StateJoined {
			log.Errorf("no session after %s, giving up", cfg.Network.JoinTimeout)
			cancel()
		}
	}()

	runLoop(ctx, log, sess, newBot(*walk))
	sess.Close()
}

// runLoop owns the simulation goroutine: the bot feeds the sampler and
// the session steps, all from one place.
func runLoop(ctx context.Context, log *zap.SugaredLogger, sess *session.Session, b *bot) {
	frames := time.NewTicker(time.Second / 60)
	defer frames.Stop()
	stats := time.NewTicker(5 * time.Second)
	defer stats.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-frames.C:
			b.drive(sess.Sampler(), now)
			sess.Frame(now)
		case <-stats.C:
			logStats(log, sess)
		}
	}
}

func logStats(log *zap.SugaredLogger, sess *session.Session) {
	snap := sess.Snapshot()
	m := sess.Metrics().Snapshot()
	if snap.LocalActive {
		log.Infof("pos=(%.1f, %.1f) facing=%s frames=%d sends=%d acks=%d outstanding=%d maxDivergence=%.2f",
			snap.LocalX, snap.LocalY, snap.LocalFacing,
			m.Frames, m.Sends, m.Acks, sess.Outstanding(), m.MaxDivergence)
		return
	}
	log.Infof("state=%s frames=%d sends=%d", sess.ClientState(), m.Frames, m.Sends)
}
