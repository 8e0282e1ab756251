package handlers

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/insurance-quote-service/internal/domain"
	"github.com/jsamuelsen/insurance-quote-service/internal/ports"
)

type mockQuoteCalculator struct {
	mock.Mock
}

var _ ports.QuoteCalculator = (*mockQuoteCalculator)(nil)

func newMockQuoteCalculator(t interface {
	mock.TestingT
	Cleanup(func())
}) *mockQuoteCalculator {
	m := &mockQuoteCalculator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockQuoteCalculator) ComputeQuote(ctx context.Context, p domain.Person) (*domain.Quote, error) {
	args := m.Called(ctx, p)

	q, _ := args.Get(0).(*domain.Quote)

	return q, args.Error(1)
}

func (m *mockQuoteCalculator) Stages() []string {
	args := m.Called()

	s, _ := args.Get(0).([]string)

	return s
}

func (m *mockQuoteCalculator) BasePrice() decimal.Decimal {
	args := m.Called()

	d, _ := args.Get(0).(decimal.Decimal)

	return d
}

type mockHealthRegistry struct {
	mock.Mock
}

var _ ports.HealthRegistry = (*mockHealthRegistry)(nil)

func newMockHealthRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *mockHealthRegistry {
	m := &mockHealthRegistry{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockHealthRegistry) Register(checker ports.HealthChecker) error {
	return m.Called(checker).Error(0)
}

func (m *mockHealthRegistry) CheckAll(ctx context.Context) *ports.HealthResult {
	args := m.Called(ctx)

	r, _ := args.Get(0).(*ports.HealthResult)

	return r
}
