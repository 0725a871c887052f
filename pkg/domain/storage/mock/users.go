package mock

import (
	"context"
	"errors"

	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

type UserInterface struct {
	Impl struct {
		New    func(ctx context.Context, user domain.User) error
		Get    func(ctx context.Context, userId string) (domain.User, error)
		Delete func(ctx context.Context, userId string) error
	}

	Calls struct {
		New    CallLog[domain.User]
		Get    CallLog[string]
		Delete CallLog[string]
	}
}

func NewUserInterface() *UserInterface {
	return &UserInterface{}
}

var _ storage.UserInterface = &UserInterface{}

func (m *UserInterface) New(ctx context.Context, user domain.User) error {
	m.Calls.New = append(m.Calls.New, user)
	if m.Impl.New != nil {
		return m.Impl.New(ctx, user)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Get(ctx context.Context, userId string) (domain.User, error) {
	m.Calls.Get = append(m.Calls.Get, userId)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Delete(ctx context.Context, userId string) error {
	m.Calls.Delete = append(m.Calls.Delete, userId)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}
