package repository

import (
	"context"
	"errors"

	"SentinelShield/internal/domain/models"
	domrepo "SentinelShield/internal/domain/repository"
	"SentinelShield/internal/middleware"
)

// FanoutSink dispatches a recorded alert to every configured downstream:
// broker fan-out first, then the archive. A failure in either surfaces so
// the pipeline can buffer and retry the alert.
type FanoutSink struct {
	publisher domrepo.Publisher
	archive   domrepo.Archive
}

func NewFanoutSink(publisher domrepo.Publisher, archive domrepo.Archive) *FanoutSink {
	return &FanoutSink{publisher: publisher, archive: archive}
}

func (s *FanoutSink) Dispatch(ctx context.Context, a models.Alert) error {
	var errs []error
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	if s.archive != nil {
		if err := s.archive.Store(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ middleware.Sink = (*FanoutSink)(nil)
