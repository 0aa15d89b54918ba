package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var _ port.ActivitySaver = (*ActivityService)(nil)
var _ port.ActivityReader = (*ActivityService)(nil)

const maxActivityLimit = 50

// An ActivityService is the server side of the activity pipeline.
type ActivityService struct {
	saver     port.ActivitySaver
	reader    port.ActivityReader
	processor port.ActivityProcessor
}

func NewActivity(
	saver port.ActivitySaver,
	reader port.ActivityReader,
	processor port.ActivityProcessor,
) *ActivityService {
	return &ActivityService{saver, reader, processor}
}

// SetProcessor is used when the processor itself needs the service.
func (s *ActivityService) SetProcessor(p port.ActivityProcessor) {
	s.processor = p
}

// Run runs the processor in a separate goroutine.
//
// Blocks current goroutine while the processor is preparing to ready state.
func (s *ActivityService) Run(ctx context.Context, stopFn context.CancelFunc) {
	var wg sync.WaitGroup
	wg.Add(1)
	go s.processor.Run(ctx, stopFn, &wg)
	wg.Wait()
}

func (s *ActivityService) Close() {
	s.processor.Close()
}

func (s *ActivityService) SaveActivity(
	ctx context.Context, evt domain.ActivityEvent,
) error {
	const op = "ActivityService.SaveActivity"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.saver.SaveActivity(ctx, evt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *ActivityService) ReadActivity(
	ctx context.Context, username string, limit int,
) ([]domain.ActivityEvent, error) {
	const op = "ActivityService.ReadActivity"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if limit <= 0 || limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	evts, err := s.reader.ReadActivity(ctx, username, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return evts, nil
}
