// Package mocks provides test doubles for the amocrm client.
package mocks

import (
	"context"

	amocrm "github.com/sells-group/spam-triage/pkg/amocrm"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// GetLead provides a mock function with given fields: ctx, id, withContacts
func (_m *MockClient) GetLead(ctx context.Context, id int64, withContacts bool) (*amocrm.Lead, error) {
	ret := _m.Called(ctx, id, withContacts)

	if len(ret) == 0 {
		panic("no return value specified for GetLead")
	}

	var r0 *amocrm.Lead
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, bool) (*amocrm.Lead, error)); ok {
		return rf(ctx, id, withContacts)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, bool) *amocrm.Lead); ok {
		r0 = rf(ctx, id, withContacts)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*amocrm.Lead)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, bool) error); ok {
		r1 = rf(ctx, id, withContacts)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// UpdateLead provides a mock function with given fields: ctx, id, patch
func (_m *MockClient) UpdateLead(ctx context.Context, id int64, patch amocrm.LeadPatch) error {
	ret := _m.Called(ctx, id, patch)

	if len(ret) == 0 {
		panic("no return value specified for UpdateLead")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, amocrm.LeadPatch) error); ok {
		r0 = rf(ctx, id, patch)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// AddNote provides a mock function with given fields: ctx, leadID, text
func (_m *MockClient) AddNote(ctx context.Context, leadID int64, text string) error {
	ret := _m.Called(ctx, leadID, text)

	if len(ret) == 0 {
		panic("no return value specified for AddNote")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, string) error); ok {
		r0 = rf(ctx, leadID, text)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetContact provides a mock function with given fields: ctx, id
func (_m *MockClient) GetContact(ctx context.Context, id int64) (*amocrm.Contact, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetContact")
	}

	var r0 *amocrm.Contact
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*amocrm.Contact, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *amocrm.Contact); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*amocrm.Contact)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListPipelines provides a mock function with given fields: ctx
func (_m *MockClient) ListPipelines(ctx context.Context) ([]amocrm.Pipeline, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ListPipelines")
	}

	var r0 []amocrm.Pipeline
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]amocrm.Pipeline, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []amocrm.Pipeline); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]amocrm.Pipeline)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
