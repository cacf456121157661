package scheduler

import (
	"context"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/usecases"
)

// ExpirePaymentsJob adapts the expiry sweep to BatchJob.
type ExpirePaymentsJob struct {
	UseCase *usecases.ExpirePaymentsUseCase
}

func (j ExpirePaymentsJob) Execute(ctx context.Context) (int, error) {
	res, err := j.UseCase.Execute(ctx)
	if err != nil {
		return 0, err
	}
	return res.Expired + res.Activated, nil
}

// ReconcileActivationsJob adapts the activation re-drive to BatchJob.
type ReconcileActivationsJob struct {
	UseCase *usecases.ReconcileActivationsUseCase
}

func (j ReconcileActivationsJob) Execute(ctx context.Context) (int, error) {
	res, err := j.UseCase.Execute(ctx)
	if err != nil {
		return 0, err
	}
	return res.Ready, nil
}
