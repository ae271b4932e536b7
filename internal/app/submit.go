package app

import (
	"context"

	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/observability/metrics"
	"github.com/tphakala/tickwatch/internal/report"
	"github.com/tphakala/tickwatch/internal/share"
	"github.com/tphakala/tickwatch/internal/sighting"
)

// SubmitStatus tells the user where a report ended up.
type SubmitStatus string

const (
	SubmittedRemote SubmitStatus = "remote"
	SavedLocally    SubmitStatus = "saved_locally"
)

// SubmitResult is returned for accepted reports.
type SubmitResult struct {
	Status   SubmitStatus      `json:"status"`
	Message  string            `json:"message"`
	Sighting sighting.Sighting `json:"sighting"`
}

// Submit validates form and sends the record to the remote service. When
// the remote write fails the record is saved to the local cache and merged
// into the working set; that is reported as a success. Validation failures
// are returned before any network or cache write.
func (a *App) Submit(ctx context.Context, form *report.Form) (SubmitResult, error) {
	record, err := a.policy.Build(form)
	if err != nil {
		a.metrics.RecordSubmission(metrics.SubmissionRejected)
		return SubmitResult{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading.Store(true)
	defer a.loading.Store(false)

	postErr := a.remote.PostSighting(ctx, &record)
	if postErr == nil {
		a.metrics.RecordSubmission(metrics.SubmissionRemote)
		if _, err := a.refreshLocked(ctx); err != nil {
			a.log.Warn("refresh after submission failed", logger.Error(err))
		}
		return SubmitResult{
			Status:   SubmittedRemote,
			Message:  "Sighting reported successfully!",
			Sighting: record,
		}, nil
	}
	if !errors.IsCategory(postErr, errors.CategorySubmission) {
		return SubmitResult{}, postErr
	}

	a.log.Warn("remote submission failed, saving locally", logger.Error(postErr))
	saved, err := a.cache.Save(ctx, record)
	if err != nil {
		// the sighting is lost on both paths
		return SubmitResult{}, errors.New(err).
			Component("app").
			Category(errors.CategoryCache).
			Priority(errors.PriorityHigh).
			Context("remote_error", postErr.Error()).
			Build()
	}
	a.metrics.RecordSubmission(metrics.SubmissionSavedLocally)
	if _, err := a.mergeLocal(ctx); err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{
		Status:   SavedLocally,
		Message:  "Sighting saved locally! (API unavailable)",
		Sighting: saved,
	}, nil
}

// ShareResult reports how a sighting was shared.
type ShareResult struct {
	Via     string        `json:"via"`
	Message share.Message `json:"message"`
}

// Share sends the share message for id through the configured chain.
func (a *App) Share(ctx context.Context, id string) (ShareResult, error) {
	s, ok := a.store.Get(id)
	if !ok {
		return ShareResult{}, notFound(id)
	}
	msg := share.NewMessage(&s)
	if a.sharer == nil {
		return ShareResult{Message: msg}, nil
	}
	via, err := a.sharer.Publish(ctx, msg)
	if err != nil {
		return ShareResult{Message: msg}, err
	}
	return ShareResult{Via: via, Message: msg}, nil
}

// Directions returns the map search link for id.
func (a *App) Directions(id string) (string, error) {
	s, ok := a.store.Get(id)
	if !ok {
		return "", notFound(id)
	}
	return share.DirectionsURL(s.Location), nil
}
