package queries_test

import (
	"context"
	"testing"
	"time"

	"dinemate/internal/adapters/out/postgres/orderrepo"
	"dinemate/internal/core/application/usecases/queries"
	"dinemate/internal/core/domain/model/order"
	"dinemate/internal/pkg/errs"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/stretchr/testify/suite"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const prepTime = 40 * time.Minute

type nopTracker struct{}

func (nopTracker) TrackAggregate(int64, any) {}

// QueriesIntegrationTestSuite exercises the read-side handlers against a
// real PostgreSQL instance seeded through the order repository.
type QueriesIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	orderRepo *orderrepo.GormOrderRepository
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, nopTracker{})
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders RESTART IDENTITY").Error)
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueriesIntegrationTestSuite) placeOrder(placedAt time.Time, status order.Status) *order.Order {
	ctx := context.Background()
	testOrder, err := order.NewOrder(map[string]int{"burger": 2, "coke": 1}, 19.25, placedAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Add(ctx, testOrder))

	// Walk the order to the target status. Terminal statuses are reached in a
	// single jump from Ready since a terminal order cannot advance further.
	steps := make([]order.Status, 0, 5)
	for next := order.Preparing; next <= status && next <= order.Ready; next++ {
		steps = append(steps, next)
	}
	if status > order.Ready {
		steps = append(steps, status)
	}

	current := order.Pending
	for _, next := range steps {
		suite.Require().NoError(testOrder.AdvanceTo(next))
		suite.Require().NoError(suite.orderRepo.Update(ctx, testOrder, current))
		current = next
	}

	return testOrder
}

func (suite *QueriesIntegrationTestSuite) TestCheckOrderStatus_ActiveOrderHasEstimate() {
	placedAt := time.Now().UTC().Add(-5 * time.Minute)
	testOrder := suite.placeOrder(placedAt, order.Pending)

	query, err := queries.NewCheckOrderStatusQuery(testOrder.ID())
	suite.Require().NoError(err)

	handler := queries.NewCheckOrderStatusQueryHandler(suite.db, prepTime)
	resp, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Equal(testOrder.ID(), resp.ID)
	suite.Equal(order.Pending, resp.Status)
	suite.Require().NotNil(resp.EstimatedReadyBy)
	suite.WithinDuration(placedAt.Add(prepTime), *resp.EstimatedReadyBy, time.Second)
	suite.False(resp.Delayed)
}

func (suite *QueriesIntegrationTestSuite) TestCheckOrderStatus_OverdueOrderIsDelayed() {
	placedAt := time.Now().UTC().Add(-2 * time.Hour)
	testOrder := suite.placeOrder(placedAt, order.InProcess)

	query, err := queries.NewCheckOrderStatusQuery(testOrder.ID())
	suite.Require().NoError(err)

	handler := queries.NewCheckOrderStatusQueryHandler(suite.db, prepTime)
	resp, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Equal(order.InProcess, resp.Status)
	suite.True(resp.Delayed)
}

func (suite *QueriesIntegrationTestSuite) TestCheckOrderStatus_ReadyOrderKeepsEstimate() {
	placedAt := time.Now().UTC().Add(-2 * time.Hour)
	testOrder := suite.placeOrder(placedAt, order.Ready)

	query, err := queries.NewCheckOrderStatusQuery(testOrder.ID())
	suite.Require().NoError(err)

	handler := queries.NewCheckOrderStatusQueryHandler(suite.db, prepTime)
	resp, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Equal(order.Ready, resp.Status)
	suite.Require().NotNil(resp.EstimatedReadyBy)
	suite.WithinDuration(placedAt.Add(prepTime), *resp.EstimatedReadyBy, time.Second)
	suite.True(resp.Delayed)
}

func (suite *QueriesIntegrationTestSuite) TestCheckOrderStatus_TerminalOrderHasNoEstimate() {
	placedAt := time.Now().UTC().Add(-2 * time.Hour)
	testOrder := suite.placeOrder(placedAt, order.Delivered)

	query, err := queries.NewCheckOrderStatusQuery(testOrder.ID())
	suite.Require().NoError(err)

	handler := queries.NewCheckOrderStatusQueryHandler(suite.db, prepTime)
	resp, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Equal(order.Delivered, resp.Status)
	suite.Nil(resp.EstimatedReadyBy)
	suite.False(resp.Delayed)
}

func (suite *QueriesIntegrationTestSuite) TestCheckOrderStatus_NotFound() {
	query, err := queries.NewCheckOrderStatusQuery(424242)
	suite.Require().NoError(err)

	handler := queries.NewCheckOrderStatusQueryHandler(suite.db, prepTime)
	_, err = handler.Handle(context.Background(), query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrderDetails() {
	placedAt := time.Now().UTC().Add(-time.Minute)
	testOrder := suite.placeOrder(placedAt, order.Pending)

	query, err := queries.NewGetOrderDetailsQuery(testOrder.ID())
	suite.Require().NoError(err)

	handler := queries.NewGetOrderDetailsQueryHandler(suite.db)
	resp, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Equal(testOrder.ID(), resp.ID)
	suite.Equal(map[string]int{"burger": 2, "coke": 1}, resp.Items)
	suite.InDelta(19.25, resp.TotalPrice, 0.001)
	suite.Equal(order.Pending, resp.Status)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrderDetails_NotFound() {
	query, err := queries.NewGetOrderDetailsQuery(424242)
	suite.Require().NoError(err)

	handler := queries.NewGetOrderDetailsQueryHandler(suite.db)
	_, err = handler.Handle(context.Background(), query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestGetKitchenOrders_FiltersByStatusAndSortsByID() {
	placedAt := time.Now().UTC().Add(-time.Minute)
	first := suite.placeOrder(placedAt, order.Pending)
	suite.placeOrder(placedAt, order.Preparing)
	third := suite.placeOrder(placedAt, order.Pending)

	query, err := queries.NewGetKitchenOrdersQuery(order.Pending)
	suite.Require().NoError(err)

	handler := queries.NewGetKitchenOrdersQueryHandler(suite.db)
	resp, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Require().Len(resp, 2)
	suite.Equal(first.ID(), resp[0].ID)
	suite.Equal(third.ID(), resp[1].ID)
}

func (suite *QueriesIntegrationTestSuite) TestGetKitchenOrders_EmptyResult() {
	query, err := queries.NewGetKitchenOrdersQuery(order.Ready)
	suite.Require().NoError(err)

	handler := queries.NewGetKitchenOrdersQueryHandler(suite.db)
	resp, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Empty(resp)
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesIntegrationTestSuite))
}
