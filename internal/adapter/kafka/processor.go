package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/niksmo/shop-admin/pkg/retry"
	"github.com/niksmo/shop-admin/pkg/schema"
)

var _ port.ActivityProcessor = (*ActivityProcessor)(nil)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// An activityEventCodec used for serde [schema.ActivityV1]
type activityEventCodec struct {
	serde Serde
}

func newActivityEventCodec(s Serde) activityEventCodec {
	return activityEventCodec{s}
}

func (c activityEventCodec) Encode(v any) ([]byte, error) {
	const op = "activityEventCodec.Encode"
	if _, ok := v.(schema.ActivityV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c activityEventCodec) Decode(data []byte) (any, error) {
	const op = "activityEventCodec.Decode"
	var s schema.ActivityV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// An actionCount is the number of actions a user made.
type actionCount int64

// An actionCountCodec used for serde [actionCount]
type actionCountCodec struct{}

func (actionCountCodec) Encode(v any) ([]byte, error) {
	const op = "actionCountCodec.Encode"
	n, ok := v.(actionCount)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendInt(nil, int64(n), 10), nil
}

func (actionCountCodec) Decode(data []byte) (any, error) {
	const op = "actionCountCodec.Decode"
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return actionCount(n), nil
}

var saveRetry = retry.Policy{
	Attempts: 3,
	Backoff:  retry.ExponentialBackoff(50*time.Millisecond, time.Second),
	Retriable: func(err error) bool {
		return !errors.Is(err, context.Canceled)
	},
}

// An ActivityProcessor consumes the activity stream, counts actions per
// user in its group table and stores every event.
type ActivityProcessor struct {
	opPrefix string
	proc     processor
	saver    port.ActivitySaver
}

func NewActivityProcessor(
	seedBrokers []string,
	inputStream string,
	groupTable string,
	activitySerde Serde,
	saver port.ActivitySaver,
	extra ...goka.ProcessorOption,
) (*ActivityProcessor, error) {
	const op = "NewActivityProcessor"

	if saver == nil {
		panic(opErr(errors.New("saver is nil"), op)) // develop mistake
	}

	p := ActivityProcessor{
		opPrefix: "ActivityProcessor",
		saver:    saver,
	}

	gg := goka.DefineGroup(goka.Group(groupTable),
		goka.Input(
			goka.Stream(inputStream),
			newActivityEventCodec(activitySerde),
			p.processFn,
		),
		goka.Persist(actionCountCodec{}),
	)

	popts := append([]goka.ProcessorOption{withNonlogProcOpt()}, extra...)
	gp, err := goka.NewProcessor(seedBrokers, gg, popts...)
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}
	return &p, nil
}

func (p *ActivityProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *ActivityProcessor) Close() {
	p.proc.close()
}

func (p *ActivityProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"

	event, _ := msg.(schema.ActivityV1)
	log := slog.With(
		"op", makeOp(p.opPrefix, op),
		"username", event.Username,
		"action", event.Action,
	)

	var n actionCount
	if v, ok := ctx.Value().(actionCount); ok {
		n = v
	}
	ctx.SetValue(n + 1)

	evt := activityFromSchemaV1(event)
	err := retry.Do(ctx.Context(), saveRetry, func() error {
		return p.saver.SaveActivity(ctx.Context(), evt)
	})
	if err != nil {
		log.Error("failed to store event", "err", err)
		return
	}
	log.Info("event stored", "count", n+1)
}
