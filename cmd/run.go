package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"lumibear/internal/artnet"
	"lumibear/internal/clientmqtt"
	"lumibear/internal/config"
	"lumibear/internal/device"
	"lumibear/internal/logger"
	"lumibear/internal/lumibear"
)

var errNothingToServe = errors.New("nothing to serve: enable [mqtt] or [artnet] in the configuration")

// send delivers one command built from the command line. Several arguments
// are comma-joined, so "rotate ff0000 0000ff" is rotate?ff0000,0000ff.
func send(log *logger.Log, cfg *config.Config, op string, args []string) error {
	cmd, err := lumibear.Decode(op, strings.Join(args, ","))
	if err != nil {
		return err
	}

	sender, err := lumibear.NewSender(log, lumibear.ConfigFrom(cfg))
	if err != nil {
		return err
	}
	defer sender.Close()

	return sender.Dispatch(cmd)
}

// serve runs the enabled bridges until a termination signal arrives.
func serve(log *logger.Log, cfg *config.Config) error {
	if !cfg.MQTT.Enabled && !cfg.ArtNet.Enabled {
		return errNothingToServe
	}

	sender, err := lumibear.NewSender(log, lumibear.ConfigFrom(cfg))
	if err != nil {
		return err
	}
	defer sender.Close()
	log.With(logger.Fields{"module": "lumibear"}).Debugf("sender ready for %s", sender.Destination())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	var client *clientmqtt.ClientMQTT
	if cfg.MQTT.Enabled {
		client = clientmqtt.NewClient(log, ConvertConfigClientMQTT(cfg.MQTT), sender)
		if err = client.Start(ctx); err != nil {
			return fmt.Errorf("failed to start MQTT service: %w", err)
		}
		log.With(logger.Fields{"module": "mqtt"}).Debug("NewClient created ok")
	}

	var listener *artnet.Listener
	if cfg.ArtNet.Enabled {
		listener = artnet.NewListener(log, ConvertConfigArtNet(cfg.ArtNet), sender)
		if err = listener.Start(ctx); err != nil {
			cancel()
			if client != nil {
				_ = client.Stop()
			}
			return fmt.Errorf("failed to start art-net service: %w", err)
		}
	}

	<-ctx.Done()

	if client != nil {
		if err := client.Stop(); err != nil {
			log.Error("failed to stop MQTT service:", err.Error())
		}
	}
	if listener != nil {
		listener.Stop()
	}

	log.Info("shutdown complete")
	return nil
}

func emulate(log *logger.Log, cfg *config.Config) error {
	e, err := device.NewEmulator(log, cfg.Emulator.Listen)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	if err := e.Run(ctx); err != nil {
		return err
	}
	s := e.State()
	log.With(logger.Fields{"module": "emulator"}).Infof("stopped after %d commands (%d rejected)", s.Received, s.Rejected)
	return nil
}

// ConvertConfigClientMQTT преобразует структуры.
func ConvertConfigClientMQTT(cfg config.MQTTConf) clientmqtt.MQTTConf {
	return clientmqtt.MQTTConf{
		ClientID:    cfg.ClientID,
		Schema:      "tcp",
		Host:        cfg.Host,
		Port:        cfg.Port,
		User:        cfg.User,
		Password:    cfg.Password,
		Qos:         cfg.Qos,
		TopicPrefix: cfg.TopicPrefix,
	}
}

// ConvertConfigArtNet преобразует структуры.
func ConvertConfigArtNet(cfg config.ArtNetConf) artnet.Conf {
	return artnet.Conf{
		Listen:   cfg.Listen,
		Network:  cfg.Network,
		Universe: uint16(cfg.Universe),
		Channel:  cfg.Channel,
	}
}
