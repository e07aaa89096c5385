package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// RunRecorder logs review runs for operational visibility. Implemented
// by *db.Repository; nil disables recording.
type RunRecorder interface {
	StartRun(reviewType, reviewID, title string) (int64, error)
	CompleteRun(runID int64, status, errMsg string) error
}

// Mirror receives a copy of every upserted review note. Implemented by
// the git mirror; nil disables mirroring.
type Mirror interface {
	MirrorNote(title, body string) error
}

// Service wires the calendar, classifier, identity, renderer and upsert
// writer into review runs.
type Service struct {
	store      Store
	classifier *Classifier
	writer     *Writer
	recorder   RunRecorder
	mirror     Mirror
	now        func() time.Time
}

// NewService creates the review orchestrator. recorder and mirror are
// optional and may be nil.
func NewService(store Store, recorder RunRecorder, mirror Mirror) *Service {
	return &Service{
		store:      store,
		classifier: NewClassifier(store),
		writer:     NewWriter(store),
		recorder:   recorder,
		mirror:     mirror,
		now:        time.Now,
	}
}

// RunReview generates or refreshes the review note for one type. The
// pipeline classifies, identifies and renders completely before the
// single upsert call, so a failure partway never leaves a partially
// written note.
func (s *Service) RunReview(ctx context.Context, t Type) error {
	now := s.now()

	window, err := ResolveWindow(t, now)
	if err != nil {
		return err
	}

	categorized, err := s.classifier.Classify(ctx, window)
	if err != nil {
		return fmt.Errorf("classify %s: %w", t, err)
	}

	_, id := Identify(now, t)

	body, err := Render(categorized, id, t)
	if err != nil {
		return fmt.Errorf("render %s: %w", t, err)
	}
	title := window.Label + " " + t.Title()

	runID := s.startRecord(t, id, title)

	if err := s.writer.Upsert(ctx, id, title, body); err != nil {
		s.completeRecord(runID, "failed", err.Error())
		return fmt.Errorf("upsert %s: %w", t, err)
	}

	if s.mirror != nil {
		if err := s.mirror.MirrorNote(title, body); err != nil {
			log.Printf("Mirror of %q failed: %v", title, err)
		}
	}

	s.completeRecord(runID, "success", "")
	return nil
}

// RunAllReviews runs every registered type concurrently and returns the
// per-type outcome. A failure in one type never prevents the others from
// running.
func (s *Service) RunAllReviews(ctx context.Context) map[Type]error {
	types := Types()
	errs := make([]error, len(types))

	var wg sync.WaitGroup
	for i, t := range types {
		wg.Add(1)
		go func(i int, t Type) {
			defer wg.Done()
			if err := s.RunReview(ctx, t); err != nil {
				log.Printf("Review %s failed: %v", t, err)
				errs[i] = err
			}
		}(i, t)
	}
	wg.Wait()

	results := make(map[Type]error, len(types))
	for i, t := range types {
		results[t] = errs[i]
	}
	return results
}

// Snapshot classifies the current window for a type without writing
// anything. Used by the digest endpoint.
func (s *Service) Snapshot(ctx context.Context, t Type) (Categorized, Window, error) {
	window, err := ResolveWindow(t, s.now())
	if err != nil {
		return nil, Window{}, err
	}
	categorized, err := s.classifier.Classify(ctx, window)
	if err != nil {
		return nil, Window{}, err
	}
	return categorized, window, nil
}

// Err flattens a RunAllReviews result into a single error, nil when all
// types succeeded.
func Err(results map[Type]error) error {
	var errs []error
	for _, t := range Types() {
		if results[t] != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t, results[t]))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) startRecord(t Type, id, title string) int64 {
	if s.recorder == nil {
		return -1
	}
	runID, err := s.recorder.StartRun(string(t), id, title)
	if err != nil {
		log.Printf("Failed to record run start for %s: %v", t, err)
		return -1
	}
	return runID
}

func (s *Service) completeRecord(runID int64, status, errMsg string) {
	if s.recorder == nil || runID < 0 {
		return
	}
	if err := s.recorder.CompleteRun(runID, status, errMsg); err != nil {
		log.Printf("Failed to record run completion: %v", err)
	}
}
