package service

import (
	"context"
	"errors"
	"sync"
)

// TaskError accumulates multiple errors produced during bulk registration.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BulkRegistrar drives large registration datasets through the account
// service using a worker pool.
type BulkRegistrar struct {
	service *AccountService
	workers int
}

// NewBulkRegistrar creates a BulkRegistrar with the provided concurrency.
func NewBulkRegistrar(service *AccountService, workers int) *BulkRegistrar {
	if workers <= 0 {
		workers = 4
	}
	return &BulkRegistrar{
		service: service,
		workers: workers,
	}
}

// RegisterAll processes the provided registration inputs concurrently.
// Per-item failures (duplicate emails included) are accumulated into a
// TaskError; context cancellation aborts the run and is returned as-is.
func (br *BulkRegistrar) RegisterAll(ctx context.Context, inputs []RegistrationInput) error {
	return br.run(ctx, len(inputs), func(idx int) error {
		_, err := br.service.RegisterUser(ctx, inputs[idx])
		return err
	})
}

func (br *BulkRegistrar) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < br.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
