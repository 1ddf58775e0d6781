// Command sound-and-vision runs one node of the thermistor/photo-cell demo:
// it samples its sensors every tick, broadcasts readings and decisions to its
// peer over MQTT, and pulses LEDs and a buzzer for the calls it receives.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/sweeney/sound-and-vision/internal/adc"
	"github.com/sweeney/sound-and-vision/internal/config"
	"github.com/sweeney/sound-and-vision/internal/gpio"
	"github.com/sweeney/sound-and-vision/internal/logging"
	"github.com/sweeney/sound-and-vision/internal/metrics"
	"github.com/sweeney/sound-and-vision/internal/mqtt"
	"github.com/sweeney/sound-and-vision/internal/node"
	"github.com/sweeney/sound-and-vision/internal/nv"
	"github.com/sweeney/sound-and-vision/internal/status"
	"github.com/sweeney/sound-and-vision/internal/thresholds"
	"github.com/sweeney/sound-and-vision/internal/web"
)

// options are the command-line switches that are not daemon configuration.
type options struct {
	configPath   string
	printState   bool
	factoryReset bool
}

func main() {
	cfg, opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Node.ID)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, opts, logger); err != nil {
		logger.Fatal("fatal", zap.Error(err))
	}
}

// parseFlags reads the command line, loads the config file it names and
// applies every flag that was set explicitly on top of the file.
func parseFlags(fs *flag.FlagSet, args []string) (*config.Config, options, error) {
	def := config.Default()
	var opts options

	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.BoolVar(&opts.printState, "print-state", false, "Print sensor readings and thresholds and exit")
	fs.BoolVar(&opts.factoryReset, "factory-reset", false, "Clear all threshold parameters before startup")

	nodeID := fs.String("node", def.Node.ID, "Node ID (sender of broadcasts)")
	group := fs.String("group", def.Node.Group, "Peer group; nodes in a group hear each other")
	broker := fs.String("broker", def.MQTT.Broker, "MQTT broker address")
	httpAddr := fs.String("http", def.HTTP.Addr, "HTTP console address (empty to disable)")
	storeBackend := fs.String("store", def.Store.Backend, "Parameter store: file, redis or memory")
	storePath := fs.String("store-path", def.Store.Path, "Parameter file for --store=file")
	redisAddr := fs.String("redis-addr", def.Store.RedisAddr, "Redis address for --store=redis")
	redisPassword := fs.String("redis-password", def.Store.RedisPassword, "Redis password")
	redisDB := fs.Int("redis-db", def.Store.RedisDB, "Redis database")
	logLevel := fs.String("log-level", def.Log.Level, "Log level: debug, info, warn, error")
	logFormat := fs.String("log-format", def.Log.Format, "Log format: json or console")
	poll := fs.Duration("poll", def.Poll, "Scheduler tick interval")
	statusInterval := fs.Duration("status-interval", def.StatusInterval, "Status event interval (0 to disable)")
	iioDevice := fs.String("iio-device", def.Sensors.IIODevice, "IIO device directory of the ADC")
	gpioChip := fs.String("gpio-chip", def.Sensors.GPIOChip, "GPIO chip for the "+gpio.Profile+" pin profile")

	if err := fs.Parse(args); err != nil {
		return nil, opts, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, opts, fmt.Errorf("load config: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "node":
			cfg.Node.ID = *nodeID
		case "group":
			cfg.Node.Group = *group
		case "broker":
			cfg.MQTT.Broker = *broker
		case "http":
			cfg.HTTP.Addr = *httpAddr
		case "store":
			cfg.Store.Backend = *storeBackend
		case "store-path":
			cfg.Store.Path = *storePath
		case "redis-addr":
			cfg.Store.RedisAddr = *redisAddr
		case "redis-password":
			cfg.Store.RedisPassword = *redisPassword
		case "redis-db":
			cfg.Store.RedisDB = *redisDB
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = *logFormat
		case "poll":
			cfg.Poll = *poll
		case "status-interval":
			cfg.StatusInterval = *statusInterval
		case "iio-device":
			cfg.Sensors.IIODevice = *iioDevice
		case "gpio-chip":
			cfg.Sensors.GPIOChip = *gpioChip
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, opts, err
	}
	return cfg, opts, nil
}

func run(cfg *config.Config, opts options, logger *zap.Logger) error {
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if opts.factoryReset {
		if err := thresholds.Clear(store); err != nil {
			return fmt.Errorf("factory reset: %w", err)
		}
		logger.Info("thresholds cleared")
	}

	sensors, err := adc.NewSysfsReader(cfg.Sensors.IIODevice)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}

	// Print state mode
	if opts.printState {
		return printState(os.Stdout, sensors, store)
	}

	outputs, err := gpio.NewRealWriter(cfg.Sensors.GPIOChip, gpio.DefaultPins, logger)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer outputs.Close()

	inbox := mqtt.NewInbox(mqtt.DefaultInboxSize)
	client, err := mqtt.NewRealClient(mqtt.Options{
		Broker: cfg.MQTT.Broker,
		NodeID: cfg.Node.ID,
		Group:  cfg.Node.Group,
		Inbox:  inbox,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer client.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	startTime := time.Now()
	n := node.New(node.Deps{
		Store:   store,
		Outputs: outputs,
		Sensors: sensors,
		Peers:   client,
		Metrics: metrics.New(reg),
		Logger:  logger,
	}, startTime)

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(startTime, status.Identity{
		NodeID:  cfg.Node.ID,
		Group:   cfg.Node.Group,
		Profile: gpio.Profile,
	}, status.Config{
		PollMs:           cfg.Poll.Milliseconds(),
		StatusIntervalMs: cfg.StatusInterval.Milliseconds(),
		Broker:           cfg.MQTT.Broker,
		HTTPAddr:         cfg.HTTP.Addr,
		Store:            cfg.Store.Backend,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	if err := n.Start(); err != nil {
		return fmt.Errorf("start node: %w", err)
	}
	tracker.Update(n.State())
	tracker.SetMQTTConnected(client.IsConnected())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := client.PublishSystem(startupEvent); err != nil {
		logger.Warn("failed to publish startup event", zap.Error(err))
	} else {
		logger.Info("published startup event")
	}

	// Start HTTP console
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, thresholds.NewConsole(store), reg, logger)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("http server error", zap.Error(err))
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Info("http console listening", zap.String("addr", cfg.HTTP.Addr))
	}

	logger.Info("started",
		zap.String("group", cfg.Node.Group),
		zap.String("profile", gpio.Profile),
		zap.Duration("poll", cfg.Poll),
		zap.String("broker", cfg.MQTT.Broker),
		zap.String("store", cfg.Store.Backend),
		zap.Duration("status_interval", cfg.StatusInterval),
	)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(n, inbox, client, client, tracker, cfg.StatusInterval, logger, time.Now, ticker.C, sigCh)
}

func openStore(cfg *config.Config) (nv.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		return nv.NewMemStore(), nil
	case config.StoreRedis:
		return nv.NewRedisStore(nv.RedisConfig{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
			Hash:     cfg.RedisHash(),
		})
	default:
		return nv.OpenFileStore(cfg.Store.Path)
	}
}

// runLoop services ticks, calls from peers and signals until a signal
// arrives. Calls queued before a tick are handled ahead of it.
func runLoop(n *node.Node, inbox *mqtt.Inbox, client mqtt.Client, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, statusInterval time.Duration, logger *zap.Logger, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	handlePending := func() {
		for _, call := range inbox.Drain() {
			n.Handle(call)
		}
	}

	for {
		select {
		case s := <-sig:
			logger.Info("shutting down", zap.Stringer("signal", s))
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				tracker.Update(n.State())
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			}
			if err := client.PublishSystem(event); err != nil {
				logger.Warn("failed to publish shutdown event", zap.Error(err))
			} else {
				logger.Info("published shutdown event")
			}
			return nil

		case <-inbox.Ready():
			handlePending()

		case <-tick:
			handlePending()
			t := now()
			n.Tick()

			if report := n.CheckStatusReport(t, statusInterval); report != nil {
				logger.Info("status",
					zap.Duration("uptime", report.Uptime),
					zap.Int("heartbeats", report.Counts.Heartbeats),
					zap.Int("light_reports", report.Counts.LightReports),
					zap.Int("color_commands", report.Counts.ColorCommands),
					zap.Int("received", report.Counts.Received),
					zap.Int("inbox_dropped", inbox.Dropped()),
				)

				event := mqtt.SystemEvent{
					Timestamp: report.Timestamp,
					Event:     "STATUS",
					Retained:  true,
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					// Refresh network info for the status event
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					tracker.Update(n.State())
					event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "STATUS", "")
				}
				if err := client.PublishSystem(event); err != nil {
					logger.Warn("status publish error", zap.Error(err))
				}
			}
		}

		// Update status tracker for HTTP consumers
		if tracker != nil {
			tracker.Update(n.State())
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
		}
	}
}

// printState prints one reading of each sensor and the stored thresholds.
func printState(w io.Writer, sensors adc.Reader, store nv.Store) error {
	thermistor, err := sensors.Read(adc.ChannelThermistor)
	if err != nil {
		return fmt.Errorf("read thermistor: %w", err)
	}
	photo, err := sensors.Read(adc.ChannelPhotoCell)
	if err != nil {
		return fmt.Errorf("read photo cell: %w", err)
	}
	color, err := thresholds.ColorSummary(store)
	if err != nil {
		return err
	}
	tone, err := thresholds.ToneSummary(store)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Thermistor: %d, Photo cell: %d\n", thermistor, photo)
	fmt.Fprintf(w, "Colour: %s\n", color)
	fmt.Fprintf(w, "Tone: %s\n", tone)
	return nil
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
