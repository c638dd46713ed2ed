// Package mocks holds testify mocks of the directory's interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stemsi/profile-directory/internal/model"
	"github.com/stemsi/profile-directory/internal/session"
	"github.com/stemsi/profile-directory/internal/store"
)

// StoreClient is a mock of store.Client.
type StoreClient struct {
	mock.Mock
}

var _ store.Client = (*StoreClient)(nil)

func (m *StoreClient) List(ctx context.Context, sess *session.Session) ([]model.Profile, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *StoreClient) Get(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *StoreClient) Create(ctx context.Context, sess *session.Session, in model.ProfileInput) (*model.Profile, error) {
	args := m.Called(ctx, sess, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *StoreClient) Update(ctx context.Context, sess *session.Session, id model.ProfileID, in model.ProfileInput) (*model.Profile, error) {
	args := m.Called(ctx, sess, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *StoreClient) Delete(ctx context.Context, sess *session.Session, id model.ProfileID) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

// Publisher is a mock of notify.Publisher.
type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, ev model.ChangeEvent) error {
	return m.Called(ctx, ev).Error(0)
}

// Resolver is a mock of geocode.Resolver.
type Resolver struct {
	mock.Mock
}

func (m *Resolver) Resolve(ctx context.Context, location string) (model.Coordinates, bool) {
	args := m.Called(ctx, location)
	return args.Get(0).(model.Coordinates), args.Bool(1)
}
