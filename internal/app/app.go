// Package app wires adapters and core services into the two binaries: the
// admin CLI and the activity service.
package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"

	"github.com/niksmo/shop-admin/config"
	"github.com/niksmo/shop-admin/internal/adapter"
	"github.com/niksmo/shop-admin/internal/adapter/kafka"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/niksmo/shop-admin/internal/core/service"
	"github.com/niksmo/shop-admin/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sr"
)

func InitLogger(w io.Writer, level slog.Leveler) {
	opts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewJSONHandler(w, opts))
	slog.SetDefault(logger)
}

// BrokerTLS is nil when no broker TLS file is configured.
func BrokerTLS(cfg config.Config) (*tls.Config, error) {
	t := cfg.Broker.TLS
	if t.CAFile == "" && t.CertFile == "" && t.KeyFile == "" {
		return nil, nil
	}
	return adapter.MakeTLSConfig(t.CAFile, t.CertFile, t.KeyFile)
}

func activitySubject(cfg config.Config) string {
	return cfg.Broker.Topics.Activity + "-value"
}

func newActivitySerde(
	ctx context.Context, cfg config.Config, tlsCfg *tls.Config,
) (schema.Serde, error) {
	const op = "newActivitySerde"

	srOpts := []sr.ClientOpt{sr.URLs(cfg.Broker.SchemaRegistryURLs...)}
	if tlsCfg != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(tlsCfg))
	}

	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	serde, err := schema.NewSerdeActivityV1(
		ctx,
		schema.SubjectOpt(activitySubject(cfg)),
		schema.SchemaIdentifierOpt(schema.NewSchemaIdentifier(srClient)),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return serde, nil
}

// newPublisher returns a Kafka publisher when a broker is configured.
// Activity is best effort, so any failure falls back to logging.
func newPublisher(
	ctx context.Context, cfg config.Config,
) (port.ActivityPublisher, func()) {
	const op = "newPublisher"
	log := slog.With("op", op)

	if !cfg.BrokerEnabled() {
		return service.LogPublisher{}, func() {}
	}

	tlsCfg, err := BrokerTLS(cfg)
	if err != nil {
		log.Warn("broker disabled", "err", err)
		return service.LogPublisher{}, func() {}
	}

	serde, err := newActivitySerde(ctx, cfg, tlsCfg)
	if err != nil {
		log.Warn("broker disabled", "err", err)
		return service.LogPublisher{}, func() {}
	}

	var extra []kgo.Opt
	if tlsCfg != nil {
		extra = append(extra, kgo.DialTLSConfig(tlsCfg))
	}

	p, err := kafka.NewActivityProducer(
		kafka.ProducerClientOpt(
			ctx, cfg.Broker.SeedBrokers, cfg.Broker.Topics.Activity, extra...,
		),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		log.Warn("broker disabled", "err", err)
		return service.LogPublisher{}, func() {}
	}
	return p, p.Close
}
