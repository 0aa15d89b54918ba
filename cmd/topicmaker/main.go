package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/niksmo/shop-admin/config"
	"github.com/niksmo/shop-admin/internal/app"
	"github.com/niksmo/shop-admin/pkg/sigctx"
	"github.com/spf13/pflag"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	cleanupDelete  = "delete"
	cleanupCompact = "compact"
)

type topicSpec struct {
	name          string
	cleanupPolicy string
}

type layout struct {
	partitions        int32
	replicationFactor int16
	minISR            int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	ctx, stop := sigctx.NotifyContext(context.Background())
	defer stop()

	l, err := parseLayout(args)
	if err != nil {
		fmt.Fprintln(out, err)
		return 2
	}

	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintln(out, err)
		return 2
	}
	if !cfg.BrokerEnabled() {
		fmt.Fprintln(out, "broker.seed_brokers is empty, nothing to do")
		return 2
	}

	cl, err := newAdminClient(cfg)
	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}
	defer cl.Close()

	specs := []topicSpec{
		{cfg.Broker.Topics.Activity, cleanupDelete},
		{app.GroupTableTopic(cfg.Broker.Consumers.ActivityGroup), cleanupCompact},
	}

	start := time.Now()
	fmt.Fprintln(out, "initializing topics...")
	var errs []error
	for _, spec := range specs {
		if err := makeTopic(ctx, cl, l, spec, out); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintf(out, "failed to create topics:\n%s\n", err)
		return 1
	}
	fmt.Fprintf(out, "complete in %s\n", time.Since(start).Round(time.Millisecond))
	return 0
}

func parseLayout(args []string) (layout, error) {
	fs := pflag.NewFlagSet("topicmaker", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	partitions := fs.Int32("partitions", 3, "partitions per topic")
	rf := fs.Int16("replication-factor", 3, "replicas per partition")
	minISR := fs.Int("min-isr", 1, "min.insync.replicas of each topic")
	if err := fs.Parse(args); err != nil {
		return layout{}, err
	}
	if *partitions < 1 || *rf < 1 || *minISR < 1 || *minISR > int(*rf) {
		return layout{}, fmt.Errorf(
			"invalid layout: partitions=%d replication-factor=%d min-isr=%d",
			*partitions, *rf, *minISR,
		)
	}
	return layout{*partitions, *rf, *minISR}, nil
}

func newAdminClient(cfg config.Config) (*kadm.Client, error) {
	opts := []kgo.Opt{kgo.SeedBrokers(cfg.Broker.SeedBrokers...)}

	tlsCfg, err := app.BrokerTLS(cfg)
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}
	return kadm.NewOptClient(opts...)
}

func makeTopic(
	ctx context.Context, cl *kadm.Client, l layout, spec topicSpec, out io.Writer,
) error {
	policy := spec.cleanupPolicy
	minISR := strconv.Itoa(l.minISR)
	topicCfg := map[string]*string{
		"cleanup.policy":      &policy,
		"min.insync.replicas": &minISR,
	}

	res, err := cl.CreateTopic(ctx, l.partitions, l.replicationFactor, topicCfg, spec.name)
	switch {
	case errors.Is(err, kerr.TopicAlreadyExists):
		fmt.Fprintf(out, "\t- %q already exists\n", spec.name)
		return nil
	case err != nil:
		return fmt.Errorf("%q: %w", spec.name, err)
	}
	fmt.Fprintf(out, "\t- %q created (%s)\n", res.Topic, spec.cleanupPolicy)
	return nil
}
