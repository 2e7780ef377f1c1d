package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"lumibear/internal/config"
	"lumibear/internal/logger"
)

var (
	configFile string
	host       string
	port       int
	logLevel   string
)

func init() {
	flag.StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	flag.StringVar(&host, "host", config.DefaultHost, "Lamp address")
	flag.IntVarP(&port, "port", "p", config.DefaultPort, "Lamp UDP port")
	flag.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [flags] <command>

Commands:
  color [RRGGBB]                       set one color (default: primary color)
  two|rotate|sweep|wave [RRGGBB RRGGBB] two-color effects (default: rotate colors)
  lighthouse <id>                      lighthouse pattern
  brightness <value>                   brightness
  rotwait <value>                      rotation wait
  on | off                             power
  serve                                run the MQTT and Art-Net bridges
  emulate                              run a lamp emulator

Flags:
`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.NewConfig(configFile)
	if err != nil {
		fmt.Printf("configuration file read error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Printf("failed to create a logger: %v\n", err)
		os.Exit(1)
	}

	log.With(logger.Fields{"module": "logger"}).Debug("newLogger created ok")

	args := flag.Args()
	switch args[0] {
	case "serve":
		err = serve(log, cfg)
	case "emulate":
		err = emulate(log, cfg)
	default:
		err = send(log, cfg, args[0], args[1:])
	}
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// applyFlags overrides file values with flags given on the command line.
func applyFlags(cfg *config.Config) {
	if flag.CommandLine.Changed("host") {
		cfg.Device.Host = host
	}
	if flag.CommandLine.Changed("port") {
		cfg.Device.Port = port
		cfg.Emulator.Listen = fmt.Sprintf(":%d", port)
	}
	if flag.CommandLine.Changed("log-level") {
		cfg.Logger.Level = logLevel
	}
}
