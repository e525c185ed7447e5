package cmd

import (
	"log/slog"

	httpadapter "dinemate/internal/adapters/in/http"
	"dinemate/internal/adapters/out/postgres"
	"dinemate/internal/adapters/out/postgres/menurepo"
	"dinemate/internal/agent"
	"dinemate/internal/core/application/usecases/commands"
	"dinemate/internal/core/application/usecases/queries"
	"dinemate/internal/core/domain/services"
	"dinemate/internal/core/ports"
	"dinemate/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, handlers, the dialogue agent and jobs
// together. Each Create method builds one fully configured component.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	uowFactory postgres.GormUnitOfWorkFactory
	menuRepo   *menurepo.GormMenuRepository
	sessions   *agent.SessionStore
	llmClient  agent.LLMClient
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		menuRepo:   menurepo.NewGormMenuRepository(gormDB),
		sessions:   agent.NewSessionStore(),
		llmClient:  agent.NewOpenAIClient(config.OpenAIAPIKey),
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) windowPolicy() services.WindowPolicy {
	return services.NewWindowPolicy(c.config.ModificationWindow)
}

func (c *CompositionRoot) MenuRepository() ports.MenuRepository {
	return c.menuRepo
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	return commands.NewConfirmOrderCommandHandler(c.orderUoWFactory(), c.menuRepo, c.config.PrepTime)
}

func (c *CompositionRoot) CreateModifyOrderCommandHandler() commands.ModifyOrderCommandHandler {
	return commands.NewModifyOrderCommandHandler(c.orderUoWFactory(), c.menuRepo, c.windowPolicy())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.windowPolicy())
}

func (c *CompositionRoot) CreateAdvanceOrderStatusCommandHandler() commands.AdvanceOrderStatusCommandHandler {
	return commands.NewAdvanceOrderStatusCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCheckOrderStatusQueryHandler() queries.CheckOrderStatusQueryHandler {
	return queries.NewCheckOrderStatusQueryHandler(c.gormDB, c.config.PrepTime)
}

func (c *CompositionRoot) CreateGetOrderDetailsQueryHandler() queries.GetOrderDetailsQueryHandler {
	return queries.NewGetOrderDetailsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetKitchenOrdersQueryHandler() queries.GetKitchenOrdersQueryHandler {
	return queries.NewGetKitchenOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateToolRegistry() *agent.Registry {
	return agent.NewRegistry(
		c.menuRepo,
		c.CreateConfirmOrderCommandHandler(),
		c.CreateModifyOrderCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateCheckOrderStatusQueryHandler(),
		c.CreateGetOrderDetailsQueryHandler(),
	)
}

func (c *CompositionRoot) CreateOrchestrator() *agent.Orchestrator {
	summarizer := agent.NewSummarizer(
		c.logger,
		c.llmClient,
		c.config.OpenAIModel,
		c.config.SummarizeThreshold,
		c.config.SummarizeKeepRecent,
	)

	return agent.NewOrchestrator(agent.OrchestratorConfig{
		Logger:     c.logger,
		Client:     c.llmClient,
		Model:      c.config.OpenAIModel,
		Registry:   c.CreateToolRegistry(),
		Sessions:   c.sessions,
		Summarizer: summarizer,
	})
}

func (c *CompositionRoot) CreateHTTPServer(orchestrator *agent.Orchestrator) *httpadapter.Server {
	return httpadapter.NewServer(
		orchestrator,
		c.menuRepo,
		c.CreateAdvanceOrderStatusCommandHandler(),
		c.CreateGetKitchenOrdersQueryHandler(),
		c.CreateGetOrderDetailsQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.sessions, c.config.SessionMaxIdle, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
