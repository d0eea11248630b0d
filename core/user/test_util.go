package user

import (
	"context"

	"github.com/darasahq/darasa/core"
)

type serviceMock struct {
	service
}

// NewServiceMock returns a Service whose side effects (emails) run
// synchronously so tests can observe them deterministically.
func NewServiceMock(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &serviceMock{
		service: service{
			repo:    repo,
			mailSvc: mailSvc,
			conf:    conf,
		},
	}
}

func (svc *serviceMock) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetActiveByEmail(ctx, email)
	if err != nil {
		return err
	}
	// run synchronously
	svc.sendPasswordResetMail(usr)
	return nil
}
